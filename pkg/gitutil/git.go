// Package gitutil backs project sessions up with git: repository
// detection, remote inspection, commits and retried pushes.
package gitutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/ini.v1"
)

var (
	// ErrNotRepository is returned for directories without a .git entry.
	ErrNotRepository = errors.New("not a git repository")

	// ErrNoRemote is returned when origin is not configured.
	ErrNoRemote = errors.New("no remote origin URL configured")

	// ErrNoChanges is returned by Commit when the work tree is clean.
	ErrNoChanges = errors.New("no changes to commit")
)

// RemoteName is the remote used for backups.
const RemoteName = "origin"

var (
	sshRemoteRegex   = regexp.MustCompile(`^git@github\.com:([^/]+)/(.+?)(\.git)?$`)
	httpsRemoteRegex = regexp.MustCompile(`^https://github\.com/([^/]+)/(.+?)(\.git)?$`)
)

// IsGitRepository checks if the given path is a Git repository
func IsGitRepository(projectPath string) bool {
	_, err := gitDir(projectPath)
	return err == nil
}

// gitDir resolves the git directory of projectPath, following the
// "gitdir:" pointer that worktrees and submodules leave in a .git file.
func gitDir(projectPath string) (string, error) {
	dotGit := filepath.Join(projectPath, ".git")
	info, err := os.Stat(dotGit)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotRepository, projectPath)
	}
	if info.IsDir() {
		return dotGit, nil
	}

	data, err := os.ReadFile(dotGit)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotRepository, projectPath)
	}
	target, ok := strings.CutPrefix(strings.TrimSpace(string(data)), "gitdir:")
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotRepository, projectPath)
	}
	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(projectPath, target)
	}
	return target, nil
}

// GetGitRemoteURL returns the remote origin URL, read straight from the
// repository's config file so no git binary is needed.
func GetGitRemoteURL(projectPath string) (string, error) {
	dir, err := gitDir(projectPath)
	if err != nil {
		return "", err
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{AllowBooleanKeys: true}, filepath.Join(dir, "config"))
	if err != nil {
		return "", fmt.Errorf("failed to read git config: %w", err)
	}

	section, err := cfg.GetSection(fmt.Sprintf("remote %q", RemoteName))
	if err != nil {
		return "", ErrNoRemote
	}

	remoteURL := strings.TrimSpace(section.Key("url").String())
	if remoteURL == "" {
		return "", ErrNoRemote
	}

	return remoteURL, nil
}

// HasRemote reports whether origin is configured.
func HasRemote(projectPath string) bool {
	_, err := GetGitRemoteURL(projectPath)
	return err == nil
}

// ParseGitHubRepo extracts the owner and repository name from a GitHub URL
// Supports both SSH (git@github.com:org/repo.git) and HTTPS (https://github.com/org/repo.git) formats
func ParseGitHubRepo(remoteURL string) (owner, repo string, err error) {
	remoteURL = strings.TrimSpace(remoteURL)

	if matches := sshRemoteRegex.FindStringSubmatch(remoteURL); len(matches) >= 3 {
		return matches[1], strings.TrimSuffix(matches[2], ".git"), nil
	}

	if matches := httpsRemoteRegex.FindStringSubmatch(remoteURL); len(matches) >= 3 {
		return matches[1], strings.TrimSuffix(matches[2], ".git"), nil
	}

	return "", "", fmt.Errorf("not a valid GitHub repository URL: %s", remoteURL)
}

// GetGitHubRepo returns the owner and repository name for the project
func GetGitHubRepo(projectPath string) (owner, repo string, err error) {
	remoteURL, err := GetGitRemoteURL(projectPath)
	if err != nil {
		return "", "", err
	}

	return ParseGitHubRepo(remoteURL)
}
