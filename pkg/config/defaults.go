package config

import "time"

// Timeouts & Durations
const (
	// DefaultPracticesTimeout bounds a single best-practices lookup against the MCP server
	DefaultPracticesTimeout = 10 * time.Second

	// DefaultPracticesCacheTTL is how long fetched best practices stay cached between runs
	DefaultPracticesCacheTTL = 30 * time.Minute

	// DefaultGitTimeout bounds git subprocesses
	DefaultGitTimeout = 60 * time.Second

	// DefaultPushRetryDelay is the delay between push retries
	DefaultPushRetryDelay = 2 * time.Second
)

// Retry Counts & Rates
const (
	// DefaultPushMaxRetries is the maximum number of retries for git push
	DefaultPushMaxRetries = 3

	// DefaultPracticesRatePerSecond limits calls to the MCP server
	DefaultPracticesRatePerSecond = 2.0
)

// File Permissions
const (
	// PermDirectory is the file permission for directories
	PermDirectory = 0755

	// PermConfigDirectory is the permission for ~/.aigenio, which holds secrets
	PermConfigDirectory = 0700

	// PermConfigFile is the file permission for config files
	PermConfigFile = 0644

	// PermSecretFile is the file permission for the key and encrypted store
	PermSecretFile = 0600

	// PermGeneratedFile is the file permission for files written into projects
	PermGeneratedFile = 0644
)

// Path Constants
const (
	// LocalConfigDir is the base directory for aigenio configuration
	LocalConfigDir = ".aigenio"

	// LocalSettingsName is the viper config name (config.yaml)
	LocalSettingsName = "config"

	// LocalEnvFile holds optional environment overrides
	LocalEnvFile = ".env"

	// LocalPreferencesFile is the filename for user preferences
	LocalPreferencesFile = "preferences.json"

	// LocalProjectsFile is the filename for the project registry
	LocalProjectsFile = "projects.json"

	// LocalPracticesCacheFile holds MCP answers reused until they expire
	LocalPracticesCacheFile = "practices_cache.json"

	// LocalMemoryFile records practices used and project patterns learned
	LocalMemoryFile = "memory.json"

	// LocalSecureFile is the filename for encrypted tokens
	LocalSecureFile = "secure.json"

	// LocalKeyFile holds the symmetric key for the secure store
	LocalKeyFile = ".key"

	// ProjectMetaDir is the per-project metadata directory
	ProjectMetaDir = ".aigenio"

	// ProjectMetaFile is the per-project metadata file inside ProjectMetaDir
	ProjectMetaFile = "project.json"
)

// Classifier defaults
const (
	DefaultClassifierMaxDepth      = 2
	DefaultClassifierMaxFiles      = 10000
	DefaultClassifierMarkerWeight  = 1.0
	DefaultClassifierKeywordWeight = 1.0
)

// Service endpoints
const (
	// DefaultGitHubAPIURL is used when github.api_url is unset
	DefaultGitHubAPIURL = "https://api.github.com/"

	// EnvPrefix is the prefix for environment overrides (AIGENIO_CLASSIFIER_MAX_DEPTH)
	EnvPrefix = "AIGENIO"
)

// Version is recorded in generated metadata
const Version = "1.0.0"
