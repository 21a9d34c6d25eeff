package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings is the tool configuration read from ~/.aigenio/config.yaml,
// AIGENIO_* environment variables and flags.
type Settings struct {
	Classifier ClassifierSettings `mapstructure:"classifier" yaml:"classifier"`
	Practices  PracticesSettings  `mapstructure:"practices" yaml:"practices"`
	GitHub     GitHubSettings     `mapstructure:"github" yaml:"github"`
}

// ClassifierSettings tunes the project classifier.
type ClassifierSettings struct {
	MaxDepth      int     `mapstructure:"max_depth" yaml:"max_depth"`
	MaxFiles      int     `mapstructure:"max_files" yaml:"max_files"`
	MarkerWeight  float64 `mapstructure:"marker_weight" yaml:"marker_weight"`
	KeywordWeight float64 `mapstructure:"keyword_weight" yaml:"keyword_weight"`
	Catalog       string  `mapstructure:"catalog" yaml:"catalog,omitempty"`
}

// PracticesSettings configures the best-practices source.
type PracticesSettings struct {
	ServerURL     string        `mapstructure:"server_url" yaml:"server_url,omitempty"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	RatePerSecond float64       `mapstructure:"rate_per_second" yaml:"rate_per_second"`
}

// GitHubSettings configures the GitHub API client.
type GitHubSettings struct {
	APIURL string `mapstructure:"api_url" yaml:"api_url"`
}

// GetConfigDir returns ~/.aigenio, falling back to a relative path when
// the home directory is unknown.
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return LocalConfigDir
	}
	return filepath.Join(homeDir, LocalConfigDir)
}

func configPath(name string) string {
	return filepath.Join(GetConfigDir(), name)
}

// GetPracticesCachePath is the file the best-practices cache persists to.
func GetPracticesCachePath() string {
	return configPath(LocalPracticesCacheFile)
}

// GetMemoryPath is the file the practice memory is kept in.
func GetMemoryPath() string {
	return configPath(LocalMemoryFile)
}

// EnsureConfigDir creates ~/.aigenio with private permissions.
func EnsureConfigDir() error {
	if err := os.MkdirAll(GetConfigDir(), PermConfigDirectory); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// SetDefaults registers every settings key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("classifier.max_depth", DefaultClassifierMaxDepth)
	v.SetDefault("classifier.max_files", DefaultClassifierMaxFiles)
	v.SetDefault("classifier.marker_weight", DefaultClassifierMarkerWeight)
	v.SetDefault("classifier.keyword_weight", DefaultClassifierKeywordWeight)
	v.SetDefault("classifier.catalog", "")
	v.SetDefault("practices.server_url", "")
	v.SetDefault("practices.timeout", DefaultPracticesTimeout)
	v.SetDefault("practices.cache_ttl", DefaultPracticesCacheTTL)
	v.SetDefault("practices.rate_per_second", DefaultPracticesRatePerSecond)
	v.SetDefault("github.api_url", DefaultGitHubAPIURL)
}

// NewViper builds the settings reader. cfgFile overrides the default
// ~/.aigenio/config.yaml. A missing config file is not an error.
func NewViper(cfgFile string) (*viper.Viper, error) {
	envFile := configPath(LocalEnvFile)
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(GetConfigDir())
		v.SetConfigType("yaml")
		v.SetConfigName(LocalSettingsName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return v, nil
}

// LoadSettings decodes the settings held by v.
func LoadSettings(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	if s.Classifier.MaxDepth < 0 {
		return Settings{}, fmt.Errorf("classifier.max_depth must not be negative")
	}
	if s.Classifier.MaxFiles < 0 {
		return Settings{}, fmt.Errorf("classifier.max_files must not be negative")
	}
	if s.GitHub.APIURL != "" && !strings.HasSuffix(s.GitHub.APIURL, "/") {
		s.GitHub.APIURL += "/"
	}
	return s, nil
}
