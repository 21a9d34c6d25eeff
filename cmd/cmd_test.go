package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aigenio/pkg/config"
	"aigenio/pkg/generator"
	"aigenio/pkg/gitutil"
	"aigenio/pkg/memory"
	"aigenio/pkg/state"
)

// nonInteractive isolates the config directory and disables prompts.
func nonInteractive(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	prev := skipInteractive
	skipInteractive = true
	t.Cleanup(func() { skipInteractive = prev })
}

func laravelProject(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "shop")
	if err := os.MkdirAll(filepath.Join(dir, "tests"), 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"composer.json": `{"require": {"laravel/framework": "^11.0"}}`,
		"artisan":       "#!/usr/bin/env php\n",
		"README.md":     "# shop\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestDefaultSettings(t *testing.T) {
	s := defaultSettings()
	if s.Classifier.MaxDepth != config.DefaultClassifierMaxDepth {
		t.Errorf("Expected max depth %d, got %d", config.DefaultClassifierMaxDepth, s.Classifier.MaxDepth)
	}
	if !strings.HasSuffix(s.GitHub.APIURL, "/") {
		t.Errorf("Expected the API URL to end with a slash, got %s", s.GitHub.APIURL)
	}
	if _, err := newClassifier(); err != nil {
		t.Errorf("Expected the default settings to build a classifier, got %v", err)
	}
}

func TestSettingsView(t *testing.T) {
	view := settingsView()
	got := map[string]string{}
	for _, kv := range view {
		got[kv[0]] = kv[1]
	}
	if got["classifier.catalog"] != "(unset)" {
		t.Errorf("Expected an unset catalog, got %q", got["classifier.catalog"])
	}
	if got["practices.timeout"] != config.DefaultPracticesTimeout.String() {
		t.Errorf("Unexpected timeout %q", got["practices.timeout"])
	}
}

func TestScoreBar(t *testing.T) {
	for _, tt := range []struct{ score, filled int }{{0, 0}, {7, 7}, {12, 10}, {-3, 0}} {
		bar := scoreBar(tt.score)
		if n := strings.Count(bar, "█"); n != tt.filled {
			t.Errorf("scoreBar(%d) has %d filled cells, want %d", tt.score, n, tt.filled)
		}
		if n := strings.Count(bar, "█") + strings.Count(bar, "░"); n != 10 {
			t.Errorf("scoreBar(%d) has %d cells, want 10", tt.score, n)
		}
	}
}

func TestDescribeBackup(t *testing.T) {
	tests := []struct {
		result gitutil.BackupResult
		want   string
	}{
		{gitutil.BackupResult{Outcome: gitutil.Pushed, Commit: "abc123", FilesChanged: 2, FilesAdded: 1}, "pushed abc123 (2 changed, 1 added)"},
		{gitutil.BackupResult{Outcome: gitutil.Committed, Commit: "abc123"}, "committed abc123 (0 changed, 0 added)"},
		{gitutil.BackupResult{Outcome: gitutil.NoChanges}, "no changes"},
	}
	for _, tt := range tests {
		if got := describeBackup(tt.result); got != tt.want {
			t.Errorf("describeBackup() = %q, want %q", got, tt.want)
		}
	}
}

func TestWantsBackup(t *testing.T) {
	dir := t.TempDir()
	if !wantsBackup(dir, setupOptions{backup: true}, false, false) {
		t.Error("Expected --backup to force a backup")
	}
	if wantsBackup(dir, setupOptions{}, true, false) {
		t.Error("Did not expect a backup without a terminal")
	}
	if wantsBackup(dir, setupOptions{}, false, true) {
		t.Error("Did not expect a backup when auto backup is off")
	}
	if wantsBackup(dir, setupOptions{}, true, true) {
		t.Error("Did not expect a backup outside a git repository")
	}
}

func TestRunSetup_NonInteractive(t *testing.T) {
	nonInteractive(t)
	dir := laravelProject(t)

	if err := runSetup(dir, setupOptions{noMCP: true}); err != nil {
		t.Fatalf("runSetup() error = %v", err)
	}

	for _, name := range []string{generator.ClaudeFile, generator.InitialFile, "PRPs/README.md", ".aigenio/project.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to be written: %v", name, err)
		}
	}

	st, err := state.LoadState(dir)
	if err != nil {
		t.Fatal(err)
	}
	if st.LastScore == 0 {
		t.Error("Expected the validation score to be recorded")
	}

	reg, err := config.LoadProjects()
	if err != nil {
		t.Fatal(err)
	}
	rec, ok := reg.Find(dir)
	if !ok {
		t.Fatal("Expected the project to be registered")
	}
	if rec.Score != st.LastScore {
		t.Errorf("Registry score %d, metadata score %d", rec.Score, st.LastScore)
	}

	err = runSetup(dir, setupOptions{noMCP: true})
	if !errors.Is(err, generator.ErrAlreadyConfigured) {
		t.Errorf("Expected ErrAlreadyConfigured on a second run, got %v", err)
	}
	if err := runSetup(dir, setupOptions{noMCP: true, force: true}); err != nil {
		t.Errorf("Expected --force to succeed, got %v", err)
	}

	mem, err := memory.Default().Load()
	if err != nil {
		t.Fatal(err)
	}
	pats := mem.FindPatterns(memory.PatternQuery{Framework: "laravel"})
	if len(pats) != 1 || pats[0].UsageCount != 2 {
		t.Errorf("Expected both setups remembered in one pattern, got %+v", pats)
	}
	if len(mem.Practices) == 0 {
		t.Error("Expected the practices used to be remembered")
	}
}

func TestBuildReport(t *testing.T) {
	nonInteractive(t)
	dir := laravelProject(t)

	r, err := buildReport(dir)
	if err != nil {
		t.Fatalf("buildReport() error = %v", err)
	}
	if r.Metadata != nil {
		t.Error("Did not expect metadata before setup")
	}
	if r.Project != "shop" || r.Validation == nil || len(r.Recommendations) == 0 {
		t.Errorf("Unexpected report %+v", r)
	}

	if err := runSetup(dir, setupOptions{noMCP: true}); err != nil {
		t.Fatal(err)
	}
	r, err = buildReport(dir)
	if err != nil {
		t.Fatal(err)
	}
	if r.Metadata == nil || r.Metadata.Name != "shop" {
		t.Errorf("Expected metadata after setup, got %+v", r.Metadata)
	}
}

func TestRecordScore_UnknownProject(t *testing.T) {
	nonInteractive(t)
	dir := t.TempDir()

	recordScore(dir, 7)

	if state.Exists(dir) {
		t.Error("Did not expect metadata to be created")
	}
}

func TestRunBackup_NotRepository(t *testing.T) {
	nonInteractive(t)
	_, err := runBackup(t.Context(), t.TempDir(), "", backupOptions{})
	if !errors.Is(err, gitutil.ErrNotRepository) {
		t.Errorf("Expected ErrNotRepository, got %v", err)
	}
}
