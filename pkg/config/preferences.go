package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownPreference is returned by Get and Set for keys that do not exist.
var ErrUnknownPreference = errors.New("unknown preference")

// Preferences are the user's persistent settings.
type Preferences struct {
	Version       string            `json:"version"`
	CreatedAt     time.Time         `json:"created_at"`
	LastUpdated   time.Time         `json:"last_updated"`
	UserInfo      UserInfo          `json:"user_info"`
	Programming   ProgrammingPrefs  `json:"programming"`
	Interface     InterfacePrefs    `json:"interface"`
	Integrations  IntegrationPrefs  `json:"integrations"`
	Notifications NotificationPrefs `json:"notifications"`
	Directories   DirectoryPrefs    `json:"directories"`
}

type UserInfo struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	GitHubUsername string `json:"github_username"`
}

type ProgrammingPrefs struct {
	FavoriteLanguages  []string `json:"favorite_languages"`
	FavoriteFrameworks []string `json:"favorite_frameworks"`
	CodingStyle        string   `json:"coding_style"`
	ProjectStructure   string   `json:"project_structure_preference"`
}

type InterfacePrefs struct {
	Theme              string `json:"theme"`
	ShowWelcomeMessage bool   `json:"show_welcome_message"`
	AutoClearScreen    bool   `json:"auto_clear_screen"`
}

type IntegrationPrefs struct {
	AutoGitBackup   bool   `json:"auto_git_backup"`
	UseMCPByDefault bool   `json:"use_mcp_by_default"`
	BackupFrequency string `json:"backup_frequency"`
}

type NotificationPrefs struct {
	ShowSuggestions bool `json:"show_suggestions"`
	ShowNextSteps   bool `json:"show_next_steps"`
	ShowTips        bool `json:"show_tips"`
}

type DirectoryPrefs struct {
	DefaultProjectPaths []string `json:"default_project_paths"`
	ScanSubdirectories  bool     `json:"scan_subdirectories"`
}

// DefaultPreferences returns the preferences used before anything is saved.
func DefaultPreferences() *Preferences {
	now := time.Now().UTC()
	return &Preferences{
		Version:     Version,
		CreatedAt:   now,
		LastUpdated: now,
		Programming: ProgrammingPrefs{
			FavoriteLanguages:  []string{},
			FavoriteFrameworks: []string{},
			CodingStyle:        "pragmatic",
			ProjectStructure:   "modular",
		},
		Interface: InterfacePrefs{
			Theme:              "default",
			ShowWelcomeMessage: true,
			AutoClearScreen:    true,
		},
		Integrations: IntegrationPrefs{
			AutoGitBackup:   true,
			UseMCPByDefault: true,
			BackupFrequency: "session",
		},
		Notifications: NotificationPrefs{
			ShowSuggestions: true,
			ShowNextSteps:   true,
			ShowTips:        true,
		},
		Directories: DirectoryPrefs{
			DefaultProjectPaths: []string{"~/projects"},
			ScanSubdirectories:  true,
		},
	}
}

func GetPreferencesPath() string {
	return configPath(LocalPreferencesFile)
}

// LoadPreferences reads preferences, returning defaults when none are saved.
func LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	if _, err := readJSON(GetPreferencesPath(), prefs); err != nil {
		return nil, err
	}
	prefs.normalize()
	return prefs, nil
}

// Save writes the preferences under a file lock.
func (p *Preferences) Save() error {
	p.LastUpdated = time.Now().UTC()
	return writeJSON(GetPreferencesPath(), p, PermConfigFile)
}

// UpdatePreferences loads the saved preferences, applies fn and saves the
// result under one file lock. Nothing is written when fn fails.
func UpdatePreferences(fn func(*Preferences) error) (*Preferences, error) {
	prefs := DefaultPreferences()
	err := UpdateJSONFile(GetPreferencesPath(), prefs, PermConfigFile, func() error {
		prefs.normalize()
		if err := fn(prefs); err != nil {
			return err
		}
		prefs.LastUpdated = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

// ResetPreferences overwrites saved preferences with defaults.
func ResetPreferences() (*Preferences, error) {
	return UpdatePreferences(func(p *Preferences) error {
		*p = *DefaultPreferences()
		return nil
	})
}

func (p *Preferences) normalize() {
	if p.Programming.FavoriteLanguages == nil {
		p.Programming.FavoriteLanguages = []string{}
	}
	if p.Programming.FavoriteFrameworks == nil {
		p.Programming.FavoriteFrameworks = []string{}
	}
	if p.Directories.DefaultProjectPaths == nil {
		p.Directories.DefaultProjectPaths = []string{}
	}
	if p.Programming.CodingStyle == "" {
		p.Programming.CodingStyle = "pragmatic"
	}
	if p.Integrations.BackupFrequency == "" {
		p.Integrations.BackupFrequency = "session"
	}
}

// IsConfigured reports whether the user has filled in who they are.
func (p *Preferences) IsConfigured() bool {
	return p.UserInfo.Name != "" || p.UserInfo.GitHubUsername != ""
}

// DisplayName returns the user's name, GitHub login or a generic greeting.
func (p *Preferences) DisplayName() string {
	switch {
	case p.UserInfo.Name != "":
		return p.UserInfo.Name
	case p.UserInfo.GitHubUsername != "":
		return p.UserInfo.GitHubUsername
	default:
		return "developer"
	}
}

// AddFavoriteLanguage records a language once.
func (p *Preferences) AddFavoriteLanguage(lang string) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return
	}
	for _, l := range p.Programming.FavoriteLanguages {
		if l == lang {
			return
		}
	}
	p.Programming.FavoriteLanguages = append(p.Programming.FavoriteLanguages, lang)
}

type prefField struct {
	get func(p *Preferences) string
	set func(p *Preferences, value string) error
}

func stringField(ptr func(p *Preferences) *string) prefField {
	return prefField{
		get: func(p *Preferences) string { return *ptr(p) },
		set: func(p *Preferences, v string) error { *ptr(p) = v; return nil },
	}
}

func boolField(ptr func(p *Preferences) *bool) prefField {
	return prefField{
		get: func(p *Preferences) string { return strconv.FormatBool(*ptr(p)) },
		set: func(p *Preferences, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			*ptr(p) = b
			return nil
		},
	}
}

func listField(ptr func(p *Preferences) *[]string) prefField {
	return prefField{
		get: func(p *Preferences) string { return strings.Join(*ptr(p), ",") },
		set: func(p *Preferences, v string) error {
			items := []string{}
			for _, item := range strings.Split(v, ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			*ptr(p) = items
			return nil
		},
	}
}

func choiceField(ptr func(p *Preferences) *string, choices ...string) prefField {
	f := stringField(ptr)
	f.set = func(p *Preferences, v string) error {
		for _, c := range choices {
			if v == c {
				*ptr(p) = v
				return nil
			}
		}
		return fmt.Errorf("expected one of %s, got %q", strings.Join(choices, ", "), v)
	}
	return f
}

var prefFields = map[string]prefField{
	"user_info.name":                    stringField(func(p *Preferences) *string { return &p.UserInfo.Name }),
	"user_info.email":                   stringField(func(p *Preferences) *string { return &p.UserInfo.Email }),
	"user_info.github_username":         stringField(func(p *Preferences) *string { return &p.UserInfo.GitHubUsername }),
	"programming.favorite_languages":    listField(func(p *Preferences) *[]string { return &p.Programming.FavoriteLanguages }),
	"programming.favorite_frameworks":   listField(func(p *Preferences) *[]string { return &p.Programming.FavoriteFrameworks }),
	"programming.coding_style":          choiceField(func(p *Preferences) *string { return &p.Programming.CodingStyle }, "pragmatic", "strict", "minimal"),
	"programming.project_structure":     choiceField(func(p *Preferences) *string { return &p.Programming.ProjectStructure }, "modular", "layered", "flat"),
	"interface.theme":                   stringField(func(p *Preferences) *string { return &p.Interface.Theme }),
	"interface.show_welcome_message":    boolField(func(p *Preferences) *bool { return &p.Interface.ShowWelcomeMessage }),
	"interface.auto_clear_screen":       boolField(func(p *Preferences) *bool { return &p.Interface.AutoClearScreen }),
	"integrations.auto_git_backup":      boolField(func(p *Preferences) *bool { return &p.Integrations.AutoGitBackup }),
	"integrations.use_mcp_by_default":   boolField(func(p *Preferences) *bool { return &p.Integrations.UseMCPByDefault }),
	"integrations.backup_frequency":     choiceField(func(p *Preferences) *string { return &p.Integrations.BackupFrequency }, "session", "daily", "manual"),
	"notifications.show_suggestions":    boolField(func(p *Preferences) *bool { return &p.Notifications.ShowSuggestions }),
	"notifications.show_next_steps":     boolField(func(p *Preferences) *bool { return &p.Notifications.ShowNextSteps }),
	"notifications.show_tips":           boolField(func(p *Preferences) *bool { return &p.Notifications.ShowTips }),
	"directories.default_project_paths": listField(func(p *Preferences) *[]string { return &p.Directories.DefaultProjectPaths }),
	"directories.scan_subdirectories":   boolField(func(p *Preferences) *bool { return &p.Directories.ScanSubdirectories }),
}

// PreferenceKeys lists every settable key in sorted order.
func PreferenceKeys() []string {
	keys := make([]string, 0, len(prefFields))
	for k := range prefFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a dotted preference key as a string.
func (p *Preferences) Get(key string) (string, error) {
	f, ok := prefFields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPreference, key)
	}
	return f.get(p), nil
}

// Set parses and assigns a dotted preference key. It does not save.
func (p *Preferences) Set(key, value string) error {
	f, ok := prefFields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPreference, key)
	}
	if err := f.set(p, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}
