package analyzer

import (
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var ignoredDirs = map[string]bool{
	"node_modules":  true,
	".git":          true,
	"__pycache__":   true,
	".pytest_cache": true,
	"venv":          true,
	".venv":         true,
	"env":           true,
	"vendor":        true,
	"dist":          true,
	"build":         true,
	".next":         true,
	".nuxt":         true,
	".cache":        true,
	"coverage":      true,
	".tox":          true,
	".mypy_cache":   true,
	"target":        true,
}

// Structure holds facts about the project layout.
type Structure struct {
	FilesCount int      `json:"files_count"`
	Depth      int      `json:"depth"`
	RootDirs   []string `json:"root_dirs"`
	HasTests   bool     `json:"has_tests"`
	HasDocs    bool     `json:"has_docs"`
	HasConfig  bool     `json:"has_config"`
	IsGitRepo  bool     `json:"is_git_repo"`
	Truncated  bool     `json:"truncated,omitempty"`
}

// HasRootDir reports whether a top-level directory with this name exists.
func (s Structure) HasRootDir(name string) bool {
	return slices.Contains(s.RootDirs, name)
}

// Architecture describes the layering pattern inferred from top-level directories.
type Architecture struct {
	Pattern       string   `json:"pattern"`
	Layers        []string `json:"layers"`
	HasSeparation bool     `json:"has_separation"`
	HasModules    bool     `json:"has_modules"`
}

var (
	testDirs    = []string{"test", "tests", "__tests__", "spec", "specs"}
	testPattern = []string{"**/test_*.py", "**/*_test.py", "**/*_test.go", "**/*.test.js", "**/*.test.ts", "**/*.spec.js", "**/*.spec.ts", "**/*Test.php"}
	docFiles    = []string{"docs", "documentation", "README.md", "readme.md", "CHANGELOG.md", "API.md", "mkdocs.yml"}
	configFiles = []string{"config", "configuration", ".env", ".env.example", "settings.py", "config.js", "app.config.js"}
)

// scanStructure walks the whole tree, skipping dependency and build
// directories, and stops after maxFiles files.
func scanStructure(fsys fs.FS, maxFiles int) (Structure, []string) {
	st := Structure{RootDirs: []string{}}
	var files []string

	_ = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || p == "." {
			return nil
		}
		if d.IsDir() {
			if ignoredDirs[d.Name()] {
				return fs.SkipDir
			}
			depth := strings.Count(p, "/") + 1
			if depth > st.Depth {
				st.Depth = depth
			}
			if depth == 1 {
				st.RootDirs = append(st.RootDirs, p)
			}
			return nil
		}
		if maxFiles > 0 && len(files) >= maxFiles {
			st.Truncated = true
			return fs.SkipAll
		}
		files = append(files, p)
		return nil
	})

	st.FilesCount = len(files)
	st.HasTests = hasTests(fsys, files)
	st.HasDocs = anyExists(fsys, docFiles)
	st.HasConfig = anyExists(fsys, configFiles)
	st.IsGitRepo = exists(fsys, ".git")
	return st, files
}

func hasTests(fsys fs.FS, files []string) bool {
	if anyExists(fsys, testDirs) {
		return true
	}
	for _, f := range files {
		for _, pattern := range testPattern {
			if ok, _ := doublestar.Match(pattern, f); ok {
				return true
			}
		}
	}
	return false
}

func exists(fsys fs.FS, p string) bool {
	_, err := fs.Stat(fsys, p)
	return err == nil
}

func anyExists(fsys fs.FS, paths []string) bool {
	return slices.ContainsFunc(paths, func(p string) bool { return exists(fsys, p) })
}

func analyzeArchitecture(st Structure) Architecture {
	arch := Architecture{Pattern: "unknown", Layers: []string{}}

	lower := make([]string, len(st.RootDirs))
	for i, d := range st.RootDirs {
		lower[i] = strings.ToLower(path.Base(d))
	}
	joined := strings.Join(lower, " ")
	has := func(names ...string) bool {
		return slices.ContainsFunc(names, func(n string) bool { return slices.Contains(lower, n) })
	}

	switch {
	case has("models") && has("views") && has("controllers"):
		arch.Pattern = "mvc"
		arch.Layers = []string{"models", "views", "controllers"}
		arch.HasSeparation = true
	case strings.Contains(joined, "controller") && strings.Contains(joined, "service") && strings.Contains(joined, "repositor"):
		arch.Pattern = "layered"
		arch.Layers = []string{"controller", "service", "repository"}
		arch.HasSeparation = true
	case has("modules", "components", "features"):
		arch.Pattern = "modular"
		arch.HasModules = true
	case has("services", "microservices"):
		arch.Pattern = "microservices"
		arch.HasModules = true
	}
	return arch
}

// analyzeComplexity grades the project by size, depth and infrastructure.
func analyzeComplexity(fsys fs.FS, st Structure) string {
	score := 0

	switch {
	case st.FilesCount > 1000:
		score += 3
	case st.FilesCount > 100:
		score += 2
	case st.FilesCount > 20:
		score++
	}

	switch {
	case st.Depth > 8:
		score += 3
	case st.Depth > 5:
		score += 2
	case st.Depth > 3:
		score++
	}

	for _, d := range []string{"microservices", "kubernetes", "k8s", "terraform"} {
		if st.HasRootDir(d) {
			score += 3
		}
	}
	if anyExists(fsys, []string{"docker-compose.yml", "docker-compose.yaml", "compose.yaml"}) {
		score += 3
	}
	for _, d := range []string{"tests", "docs", "config", "scripts"} {
		if st.HasRootDir(d) {
			score += 2
		}
	}

	switch {
	case score >= complexityHigh:
		return "high"
	case score >= complexityMedium:
		return "medium"
	default:
		return "low"
	}
}
