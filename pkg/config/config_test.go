package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// setupTestConfigDir points HOME at a temporary directory for the test.
func setupTestConfigDir(t *testing.T) string {
	t.Helper()
	home := filepath.Join(t.TempDir(), "home")
	t.Setenv("HOME", home)
	return home
}

func TestNewViper_Defaults(t *testing.T) {
	setupTestConfigDir(t)

	v, err := NewViper("")
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}
	s, err := LoadSettings(v)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if s.Classifier.MaxDepth != DefaultClassifierMaxDepth {
		t.Errorf("expected max depth %d, got %d", DefaultClassifierMaxDepth, s.Classifier.MaxDepth)
	}
	if s.Classifier.MarkerWeight != 1 || s.Classifier.KeywordWeight != 1 {
		t.Errorf("expected unit weights, got %v/%v", s.Classifier.MarkerWeight, s.Classifier.KeywordWeight)
	}
	if s.Practices.Timeout != DefaultPracticesTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultPracticesTimeout, s.Practices.Timeout)
	}
	if s.GitHub.APIURL != DefaultGitHubAPIURL {
		t.Errorf("expected %s, got %s", DefaultGitHubAPIURL, s.GitHub.APIURL)
	}
}

func TestNewViper_FileAndEnv(t *testing.T) {
	home := setupTestConfigDir(t)
	dir := filepath.Join(home, LocalConfigDir)
	if err := os.MkdirAll(dir, PermConfigDirectory); err != nil {
		t.Fatal(err)
	}
	yaml := "classifier:\n  max_depth: 4\n  keyword_weight: 2\npractices:\n  timeout: 3s\ngithub:\n  api_url: http://example.test/api\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), PermConfigFile); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AIGENIO_CLASSIFIER_MAX_FILES", "50")

	v, err := NewViper("")
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}
	s, err := LoadSettings(v)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if s.Classifier.MaxDepth != 4 {
		t.Errorf("expected max depth 4 from file, got %d", s.Classifier.MaxDepth)
	}
	if s.Classifier.KeywordWeight != 2 {
		t.Errorf("expected keyword weight 2, got %v", s.Classifier.KeywordWeight)
	}
	if s.Classifier.MaxFiles != 50 {
		t.Errorf("expected max files 50 from env, got %d", s.Classifier.MaxFiles)
	}
	if s.Practices.Timeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", s.Practices.Timeout)
	}
	if s.GitHub.APIURL != "http://example.test/api/" {
		t.Errorf("expected trailing slash to be added, got %s", s.GitHub.APIURL)
	}
}

func TestNewViper_ExplicitMissingFile(t *testing.T) {
	setupTestConfigDir(t)

	if _, err := NewViper(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for explicit missing config file")
	}
}

func TestLoadPreferences_Defaults(t *testing.T) {
	setupTestConfigDir(t)

	prefs, err := LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences() error = %v", err)
	}
	if !prefs.Integrations.UseMCPByDefault {
		t.Error("expected MCP to be enabled by default")
	}
	if prefs.Programming.CodingStyle != "pragmatic" {
		t.Errorf("expected pragmatic coding style, got %s", prefs.Programming.CodingStyle)
	}
	if prefs.IsConfigured() {
		t.Error("expected fresh preferences to be unconfigured")
	}
	if prefs.DisplayName() != "developer" {
		t.Errorf("expected generic display name, got %s", prefs.DisplayName())
	}
}

func TestPreferences_SetGetPersist(t *testing.T) {
	setupTestConfigDir(t)

	prefs, err := LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if err := prefs.Set("user_info.name", "Ada"); err != nil {
		t.Fatal(err)
	}
	if err := prefs.Set("integrations.auto_git_backup", "false"); err != nil {
		t.Fatal(err)
	}
	if err := prefs.Set("programming.favorite_languages", "go, php ,"); err != nil {
		t.Fatal(err)
	}
	if err := prefs.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := loaded.Get("user_info.name"); got != "Ada" {
		t.Errorf("expected Ada, got %q", got)
	}
	if loaded.Integrations.AutoGitBackup {
		t.Error("expected auto backup to be disabled")
	}
	if got, _ := loaded.Get("programming.favorite_languages"); got != "go,php" {
		t.Errorf("expected go,php, got %q", got)
	}
}

func TestPreferences_SetErrors(t *testing.T) {
	prefs := DefaultPreferences()

	if err := prefs.Set("no.such.key", "x"); !errors.Is(err, ErrUnknownPreference) {
		t.Errorf("expected ErrUnknownPreference, got %v", err)
	}
	if _, err := prefs.Get("no.such.key"); !errors.Is(err, ErrUnknownPreference) {
		t.Errorf("expected ErrUnknownPreference, got %v", err)
	}
	if err := prefs.Set("interface.auto_clear_screen", "maybe"); err == nil {
		t.Error("expected error for non-boolean value")
	}
	if err := prefs.Set("integrations.backup_frequency", "hourly"); err == nil {
		t.Error("expected error for unsupported choice")
	}
}

func TestPreferenceKeys_Sorted(t *testing.T) {
	keys := PreferenceKeys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Fatalf("keys not sorted at %d: %s >= %s", i, keys[i-1], keys[i])
		}
	}
}

func TestProjectRegistry(t *testing.T) {
	setupTestConfigDir(t)

	reg, err := LoadProjects()
	if err != nil {
		t.Fatal(err)
	}

	projectDir := t.TempDir()
	first, err := reg.Upsert(ProjectRecord{Path: projectDir, Framework: "laravel", Score: 7})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == "" {
		t.Fatal("expected an ID to be assigned")
	}
	if err := reg.Save(); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadProjects()
	if err != nil {
		t.Fatal(err)
	}
	second, err := loaded.Upsert(ProjectRecord{Path: projectDir, Framework: "laravel", Score: 9})
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Errorf("expected ID to be kept, got %s and %s", first.ID, second.ID)
	}
	if len(loaded.List()) != 1 {
		t.Fatalf("expected 1 project, got %d", len(loaded.List()))
	}

	if _, ok := loaded.Find(filepath.Base(projectDir)); !ok {
		t.Error("expected lookup by name to succeed")
	}
	if !loaded.Forget(first.ID) {
		t.Error("expected Forget to remove the project")
	}
	if loaded.Forget(first.ID) {
		t.Error("expected second Forget to be a no-op")
	}
}

func TestUpdateProjects_ConcurrentWritersKeepEveryEntry(t *testing.T) {
	setupTestConfigDir(t)

	const writers = 8
	dirs := make([]string, writers)
	for i := range dirs {
		dirs[i] = t.TempDir()
	}

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for _, dir := range dirs {
		wg.Add(1)
		go func(dir string) {
			defer wg.Done()
			_, err := UpdateProjects(func(reg *ProjectRegistry) error {
				_, err := reg.Upsert(ProjectRecord{Path: dir, Framework: "go"})
				return err
			})
			errs <- err
		}(dir)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("UpdateProjects() error = %v", err)
		}
	}

	reg, err := LoadProjects()
	if err != nil {
		t.Fatal(err)
	}
	if len(reg.Projects) != writers {
		t.Fatalf("expected %d projects, got %d", writers, len(reg.Projects))
	}
}

func TestUpdateProjects_ErrorSkipsWrite(t *testing.T) {
	setupTestConfigDir(t)

	_, err := UpdateProjects(func(reg *ProjectRegistry) error {
		if !reg.Forget("missing") {
			return ErrProjectNotFound
		}
		return nil
	})
	if !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
	if _, err := os.Stat(GetProjectsPath()); !os.IsNotExist(err) {
		t.Errorf("expected no registry file, got %v", err)
	}
}

func TestUpdatePreferences(t *testing.T) {
	setupTestConfigDir(t)

	if _, err := UpdatePreferences(func(p *Preferences) error {
		return p.Set("user_info.name", "Ada")
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := UpdatePreferences(func(p *Preferences) error {
		return p.Set("integrations.auto_git_backup", "false")
	}); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.UserInfo.Name != "Ada" || loaded.Integrations.AutoGitBackup {
		t.Errorf("expected both updates to persist, got name=%q backup=%v", loaded.UserInfo.Name, loaded.Integrations.AutoGitBackup)
	}

	if _, err := UpdatePreferences(func(p *Preferences) error {
		return p.Set("no.such.key", "x")
	}); !errors.Is(err, ErrUnknownPreference) {
		t.Errorf("expected ErrUnknownPreference, got %v", err)
	}

	reset, err := ResetPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if reset.UserInfo.Name != "" || !reset.Integrations.AutoGitBackup {
		t.Errorf("expected defaults after reset, got %+v", reset.UserInfo)
	}
}

func TestTokens_EncryptedRoundTrip(t *testing.T) {
	home := setupTestConfigDir(t)

	tokens, err := LoadTokens()
	if err != nil {
		t.Fatalf("LoadTokens() error = %v", err)
	}
	tokens.SetToken(TokenGitHub, `  "[ghp_secretvalue]" `)
	if err := tokens.SaveTokens(); err != nil {
		t.Fatalf("SaveTokens() error = %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(home, LocalConfigDir, LocalSecureFile))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "ghp_secretvalue") {
		t.Fatal("token stored in plain text")
	}

	info, err := os.Stat(filepath.Join(home, LocalConfigDir, LocalKeyFile))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != PermSecretFile {
		t.Errorf("expected key permissions %o, got %o", PermSecretFile, info.Mode().Perm())
	}

	loaded, err := LoadTokens()
	if err != nil {
		t.Fatalf("LoadTokens() error = %v", err)
	}
	if got := loaded.GetToken(TokenGitHub); got != "ghp_secretvalue" {
		t.Errorf("expected sanitized token, got %q", got)
	}
	if !loaded.DeleteToken(TokenGitHub) || loaded.HasToken(TokenGitHub) {
		t.Error("expected token to be deleted")
	}
}

func TestGetGitHubToken_PrefersEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "from-env")
	tokens := &TokenConfig{}
	tokens.SetToken(TokenGitHub, "stored")

	if got := tokens.GetGitHubToken(); got != "from-env" {
		t.Errorf("expected env token, got %q", got)
	}
}

func TestMaskToken(t *testing.T) {
	if got := MaskToken("abcdefgh"); got != "****efgh" {
		t.Errorf("unexpected mask %q", got)
	}
	if got := MaskToken("abc"); got != "***" {
		t.Errorf("unexpected mask %q", got)
	}
}
