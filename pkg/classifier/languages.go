package classifier

import (
	"path"
	"slices"
	"strings"
)

var extLanguages = map[string]string{
	".py":     "python",
	".pyw":    "python",
	".js":     "javascript",
	".jsx":    "javascript",
	".mjs":    "javascript",
	".cjs":    "javascript",
	".vue":    "javascript",
	".svelte": "javascript",
	".ts":     "typescript",
	".tsx":    "typescript",
	".php":    "php",
	".rb":     "ruby",
	".go":     "go",
	".rs":     "rust",
	".java":   "java",
	".kt":     "kotlin",
	".kts":    "kotlin",
	".scala":  "scala",
	".cs":     "csharp",
	".fs":     "fsharp",
	".ex":     "elixir",
	".exs":    "elixir",
	".dart":   "dart",
	".swift":  "swift",
	".m":      "objective-c",
	".c":      "c",
	".h":      "c",
	".cpp":    "cpp",
	".cc":     "cpp",
	".hpp":    "cpp",
	".lua":    "lua",
	".r":      "r",
	".jl":     "julia",
	".sh":     "shell",
	".bash":   "shell",
	".sol":    "solidity",
}

// fileLanguages covers well-known build files whose extension says nothing
// about the language they belong to.
var fileLanguages = map[string]string{
	"artisan":          "php",
	"composer.json":    "php",
	"Gemfile":          "ruby",
	"Rakefile":         "ruby",
	"go.mod":           "go",
	"Cargo.toml":       "rust",
	"pom.xml":          "java",
	"build.gradle":     "java",
	"build.gradle.kts": "kotlin",
	"package.json":     "javascript",
	"requirements.txt": "python",
	"Pipfile":          "python",
	"pyproject.toml":   "python",
	"pubspec.yaml":     "dart",
	"mix.exs":          "elixir",
}

// mapExt maps a file name to a language, or "" for non-source files.
func mapExt(name string) string {
	base := path.Base(name)
	if lang, ok := fileLanguages[base]; ok {
		return lang
	}
	return extLanguages[strings.ToLower(path.Ext(base))]
}

// collectLanguages returns the sorted set of languages seen in files.
func collectLanguages(files []string) []string {
	seen := map[string]bool{}
	langs := []string{}
	for _, f := range files {
		lang := mapExt(f)
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// manifestNames are the files searched for dependency keywords.
var manifestNames = map[string]bool{
	"package.json":     true,
	"composer.json":    true,
	"requirements.txt": true,
	"Pipfile":          true,
	"pyproject.toml":   true,
	"setup.py":         true,
	"Cargo.toml":       true,
	"go.mod":           true,
	"Gemfile":          true,
	"pom.xml":          true,
	"build.gradle":     true,
	"build.gradle.kts": true,
	"pubspec.yaml":     true,
	"mix.exs":          true,
	"tauri.conf.json":  true,
}

func isManifest(name string) bool {
	base := path.Base(name)
	return manifestNames[base] || strings.HasSuffix(base, ".csproj")
}
