package gitutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"aigenio/pkg/config"
)

var baseIgnores = []string{
	"# aigenio",
	config.ProjectMetaDir + "/cache/",
	"*.log",
	"*.tmp",
	"",
	"# OS generated files",
	".DS_Store",
	"._*",
	".Spotlight-V100",
	".Trashes",
	"Thumbs.db",
	"",
	"# IDE files",
	".vscode/",
	".idea/",
	"*.swp",
	"*~",
}

var pythonIgnores = []string{
	"# Python",
	"__pycache__/",
	"*.py[cod]",
	"*.egg-info/",
	".eggs/",
	"build/",
	"dist/",
	".env",
	".venv/",
	"venv/",
}

var nodeIgnores = []string{
	"# Node.js",
	"node_modules/",
	"npm-debug.log*",
	"yarn-error.log*",
	".eslintcache",
	"coverage/",
	".env.local",
	".env.*.local",
}

var phpIgnores = []string{
	"# PHP",
	"/vendor/",
	"/public/hot",
	"/public/storage",
	"/storage/*.key",
	".env",
	".env.backup",
	".phpunit.result.cache",
}

var goIgnores = []string{
	"# Go",
	"/bin/",
	"*.test",
	"*.out",
}

// GenerateGitignore builds .gitignore content for the project in dir,
// adding sections for the ecosystems visible at its root.
func GenerateGitignore(dir string) string {
	lines := append([]string{}, baseIgnores...)
	add := func(section []string) {
		lines = append(lines, "")
		lines = append(lines, section...)
	}

	if hasRootGlob(dir, "*.py") || fileExists(filepath.Join(dir, "requirements.txt")) || fileExists(filepath.Join(dir, "pyproject.toml")) {
		add(pythonIgnores)
	}
	if fileExists(filepath.Join(dir, "package.json")) {
		add(nodeIgnores)
	}
	if hasRootGlob(dir, "*.php") || fileExists(filepath.Join(dir, "composer.json")) {
		add(phpIgnores)
	}
	if fileExists(filepath.Join(dir, "go.mod")) {
		add(goIgnores)
	}

	return strings.Join(lines, "\n") + "\n"
}

// WriteGitignore writes a generated .gitignore unless one exists. It
// reports whether a file was written.
func WriteGitignore(dir string) (bool, error) {
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to check .gitignore: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateGitignore(dir)), config.PermGeneratedFile); err != nil {
		return false, fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return true, nil
}

func hasRootGlob(dir, pattern string) bool {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	return err == nil && len(matches) > 0
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
