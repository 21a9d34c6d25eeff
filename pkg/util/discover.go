package util

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// projectIndicators mark a directory as a project root.
var projectIndicators = []string{
	".git",
	"package.json",
	"composer.json",
	"requirements.txt",
	"pyproject.toml",
	"manage.py",
	"go.mod",
	"Cargo.toml",
	"Gemfile",
	"pom.xml",
	"build.gradle",
	"pubspec.yaml",
	"CLAUDE.md",
}

var skipScanDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"bin":          true,
	"obj":          true,
}

// IsProjectDir reports whether dir looks like the root of a project.
func IsProjectDir(dir string) bool {
	for _, name := range projectIndicators {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// DiscoverProjects walks roots up to maxDepth levels and returns the
// project directories found, sorted and without duplicates. Roots that do
// not exist are ignored. A project's own subdirectories are not searched.
func DiscoverProjects(roots []string, maxDepth int) []string {
	seen := make(map[string]bool)
	var found []string

	var walk func(dir string, depth int)
	walk = func(dir string, depth int) {
		if seen[dir] {
			return
		}
		seen[dir] = true

		if IsProjectDir(dir) {
			found = append(found, dir)
			return
		}
		if depth >= maxDepth {
			return
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, e := range entries {
			name := e.Name()
			if !e.IsDir() || strings.HasPrefix(name, ".") || skipScanDirs[strings.ToLower(name)] {
				continue
			}
			walk(filepath.Join(dir, name), depth+1)
		}
	}

	for _, root := range roots {
		abs, err := ValidateProjectPath(root)
		if err != nil {
			continue
		}
		walk(abs, 0)
	}

	sort.Strings(found)
	return found
}
