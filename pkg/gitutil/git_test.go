package gitutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseGitHubRepo(t *testing.T) {
	tests := []struct {
		name          string
		remoteURL     string
		expectedOwner string
		expectedRepo  string
		expectError   bool
	}{
		{
			name:          "SSH format with .git",
			remoteURL:     "git@github.com:ada/context-kit.git",
			expectedOwner: "ada",
			expectedRepo:  "context-kit",
		},
		{
			name:          "SSH format without .git",
			remoteURL:     "git@github.com:ada/context-kit",
			expectedOwner: "ada",
			expectedRepo:  "context-kit",
		},
		{
			name:          "HTTPS format with .git",
			remoteURL:     "https://github.com/ada/context-kit.git",
			expectedOwner: "ada",
			expectedRepo:  "context-kit",
		},
		{
			name:          "HTTPS format without .git",
			remoteURL:     "  https://github.com/ada/context-kit\n",
			expectedOwner: "ada",
			expectedRepo:  "context-kit",
		},
		{
			name:        "Invalid URL",
			remoteURL:   "https://gitlab.com/user/repo.git",
			expectError: true,
		},
		{
			name:        "Empty URL",
			remoteURL:   "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseGitHubRepo(tt.remoteURL)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}

			if owner != tt.expectedOwner {
				t.Errorf("Expected owner %s, got %s", tt.expectedOwner, owner)
			}

			if repo != tt.expectedRepo {
				t.Errorf("Expected repo %s, got %s", tt.expectedRepo, repo)
			}
		})
	}
}

// makeRepo creates a fake repository whose config holds the given text.
func makeRepo(t *testing.T, gitConfig string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".git", "config"), []byte(gitConfig), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

const configWithOrigin = `[core]
	repositoryformatversion = 0
	bare = false
[remote "origin"]
	url = git@github.com:ada/context-kit.git
	fetch = +refs/heads/*:refs/remotes/origin/*
[branch "main"]
	remote = origin
	merge = refs/heads/main
`

func TestIsGitRepository(t *testing.T) {
	if IsGitRepository(filepath.Join(t.TempDir(), "non-existent")) {
		t.Error("Expected non-existent directory to not be a git repository")
	}
	if IsGitRepository(t.TempDir()) {
		t.Error("Expected plain directory to not be a git repository")
	}
	if !IsGitRepository(makeRepo(t, configWithOrigin)) {
		t.Error("Expected directory with .git to be a git repository")
	}
}

func TestGetGitRemoteURL(t *testing.T) {
	dir := makeRepo(t, configWithOrigin)

	url, err := GetGitRemoteURL(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if url != "git@github.com:ada/context-kit.git" {
		t.Errorf("Unexpected remote URL %q", url)
	}

	owner, repo, err := GetGitHubRepo(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if owner != "ada" || repo != "context-kit" {
		t.Errorf("Expected ada/context-kit, got %s/%s", owner, repo)
	}
}

func TestGetGitRemoteURL_NoOrigin(t *testing.T) {
	dir := makeRepo(t, "[core]\n\tbare = false\n")

	if _, err := GetGitRemoteURL(dir); !errors.Is(err, ErrNoRemote) {
		t.Errorf("Expected ErrNoRemote, got %v", err)
	}
	if HasRemote(dir) {
		t.Error("Expected HasRemote to be false")
	}
}

func TestGetGitRemoteURL_NotRepository(t *testing.T) {
	if _, err := GetGitRemoteURL(t.TempDir()); !errors.Is(err, ErrNotRepository) {
		t.Errorf("Expected ErrNotRepository, got %v", err)
	}
}

func TestGetGitRemoteURL_WorktreePointer(t *testing.T) {
	primary := makeRepo(t, configWithOrigin)
	worktree := t.TempDir()
	pointer := "gitdir: " + filepath.Join(primary, ".git") + "\n"
	if err := os.WriteFile(filepath.Join(worktree, ".git"), []byte(pointer), 0644); err != nil {
		t.Fatal(err)
	}

	url, err := GetGitRemoteURL(worktree)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if url != "git@github.com:ada/context-kit.git" {
		t.Errorf("Unexpected remote URL %q", url)
	}
}
