package classifier

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is an ordered, read-only set of framework signatures.
// Declaration order is the tie-break order: earlier entries win ties.
type Catalog struct {
	entries []Signature
}

// NewCatalog validates and copies the given signatures into a catalog.
func NewCatalog(entries []Signature) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidCatalog)
	}

	seen := make(map[string]bool, len(entries))
	copied := make([]Signature, 0, len(entries))

	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidCatalog, i)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate entry %q", ErrInvalidCatalog, name)
		}
		if e.MaxEvidence() == 0 {
			return nil, fmt.Errorf("%w: entry %q has no markers or keywords", ErrInvalidCatalog, name)
		}
		for _, m := range e.Markers {
			if err := validateMarker(m); err != nil {
				return nil, fmt.Errorf("%w: entry %q: %v", ErrInvalidCatalog, name, err)
			}
		}
		for _, k := range e.Keywords {
			if strings.TrimSpace(k) == "" {
				return nil, fmt.Errorf("%w: entry %q has an empty keyword", ErrInvalidCatalog, name)
			}
		}

		seen[name] = true
		e = e.clone()
		e.Name = name
		copied = append(copied, e)
	}

	return &Catalog{entries: copied}, nil
}

// MustCatalog is NewCatalog for package-level catalogs; it panics on invalid input.
func MustCatalog(entries []Signature) *Catalog {
	c, err := NewCatalog(entries)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the catalog entries in declaration order.
func (c *Catalog) Entries() []Signature {
	out := make([]Signature, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.clone()
	}
	return out
}

// Lookup returns a copy of the named entry.
func (c *Catalog) Lookup(name string) (Signature, bool) {
	for _, e := range c.entries {
		if e.Name == name {
			return e.clone(), true
		}
	}
	return Signature{}, false
}

type catalogFile struct {
	Frameworks []Signature `yaml:"frameworks"`
}

// LoadCatalogFile reads a YAML catalog of the form:
//
//	frameworks:
//	  - name: laravel
//	    language: php
//	    marker_files: [artisan, composer.json]
//	    dependency_keywords: [laravel/framework]
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	return NewCatalog(file.Frameworks)
}

func validateMarker(m string) error {
	if strings.TrimSpace(m) == "" {
		return fmt.Errorf("empty marker")
	}
	if isGlob(m) {
		return nil
	}
	if !fs.ValidPath(strings.TrimSuffix(m, "/")) {
		return fmt.Errorf("marker %q is not a relative slash-separated path", m)
	}
	return nil
}

func isGlob(m string) bool {
	return strings.ContainsAny(m, "*?[{")
}

// Default returns the built-in catalog. Entries within one ecosystem carry the
// same amount of evidence so that a bare manifest ties and falls to the
// generic entry declared first in that ecosystem. Generic entries only list
// files that a framework project would not also match, and keywords name a
// framework's own package, never one it builds on.
func Default() *Catalog {
	return defaultCatalog
}

var defaultCatalog = MustCatalog([]Signature{
	// PHP
	{
		Name:     "laravel",
		Language: "php",
		Category: "backend",
		Markers:  []string{"artisan", "composer.json", "config/app.php", "routes/web.php"},
		Keywords: []string{"laravel/framework"},
	},
	{
		Name:     "symfony",
		Language: "php",
		Category: "backend",
		Markers:  []string{"symfony.lock", "bin/console", "composer.json", "config/bundles.php"},
		Keywords: []string{"symfony/framework-bundle"},
	},
	{
		Name:     "codeigniter",
		Language: "php",
		Category: "backend",
		Markers:  []string{"spark", "composer.json", "app/Config/", "public/index.php"},
		Keywords: []string{"codeigniter4/framework"},
	},
	{
		Name:     "wordpress",
		Language: "php",
		Category: "backend",
		Markers:  []string{"wp-config.php", "wp-load.php", "wp-content/", "wp-admin/", "wp-includes/"},
	},

	// Python
	{
		Name:     "python",
		Language: "python",
		Category: "backend",
		Markers:  []string{"requirements.txt", "pyproject.toml", "setup.py", "Pipfile", "setup.cfg"},
	},
	{
		Name:     "django",
		Language: "python",
		Category: "backend",
		Markers:  []string{"manage.py", "requirements.txt", "wsgi.py", "asgi.py"},
		Keywords: []string{"django"},
	},
	{
		Name:     "flask",
		Language: "python",
		Category: "backend",
		Markers:  []string{"app.py", "requirements.txt", "wsgi.py", "templates/"},
		Keywords: []string{"flask"},
	},
	{
		Name:     "fastapi",
		Language: "python",
		Category: "backend",
		Markers:  []string{"main.py", "requirements.txt", "pyproject.toml"},
		Keywords: []string{"fastapi", "uvicorn"},
	},

	// JavaScript / TypeScript
	{
		Name:     "node",
		Language: "javascript",
		Category: "backend",
		Markers:  []string{"package.json", ".nvmrc", ".node-version", ".npmrc", ".npmignore"},
	},
	{
		Name:     "next",
		Language: "javascript",
		Category: "frontend",
		Markers:  []string{"package.json", "next.config.js", "next.config.mjs", "next.config.ts"},
		Keywords: []string{"next"},
	},
	{
		Name:     "nuxt",
		Language: "javascript",
		Category: "frontend",
		Markers:  []string{"package.json", "nuxt.config.js", "nuxt.config.ts", "nuxt.config.mjs"},
		Keywords: []string{"nuxt"},
	},
	{
		Name:     "react-native",
		Language: "javascript",
		Category: "mobile",
		Markers:  []string{"package.json", "metro.config.js", "android/", "ios/"},
		Keywords: []string{"react-native"},
	},
	{
		Name:     "angular",
		Language: "typescript",
		Category: "frontend",
		Markers:  []string{"angular.json", "package.json", "tsconfig.json", "src/app/"},
		Keywords: []string{"@angular/core"},
	},
	{
		Name:     "nestjs",
		Language: "typescript",
		Category: "backend",
		Markers:  []string{"package.json", "nest-cli.json", "src/main.ts", "tsconfig.json"},
		Keywords: []string{"@nestjs/core"},
	},
	{
		Name:     "react",
		Language: "javascript",
		Category: "frontend",
		Markers:  []string{"package.json", "src/App.jsx", "src/App.tsx"},
		Keywords: []string{"react", "react-dom"},
	},
	{
		Name:     "vue",
		Language: "javascript",
		Category: "frontend",
		Markers:  []string{"package.json", "vue.config.js", "src/App.vue", "vite.config.js"},
		Keywords: []string{"vue"},
	},
	{
		Name:     "svelte",
		Language: "javascript",
		Category: "frontend",
		Markers:  []string{"package.json", "svelte.config.js", "src/App.svelte", "vite.config.js"},
		Keywords: []string{"svelte"},
	},
	{
		Name:     "express",
		Language: "javascript",
		Category: "backend",
		Markers:  []string{"package.json", "server.js", "app.js", "index.js"},
		Keywords: []string{"express"},
	},
	{
		Name:     "fastify",
		Language: "javascript",
		Category: "backend",
		Markers:  []string{"package.json", "server.js", "app.js", "index.js"},
		Keywords: []string{"fastify"},
	},
	{
		Name:     "electron",
		Language: "javascript",
		Category: "desktop",
		Markers:  []string{"package.json", "main.js", "preload.js", "electron-builder.yml"},
		Keywords: []string{"electron"},
	},

	// Other ecosystems
	{
		Name:     "rails",
		Language: "ruby",
		Category: "backend",
		Markers:  []string{"Gemfile", "bin/rails", "config/routes.rb", "config/application.rb"},
		Keywords: []string{"rails"},
	},
	{
		Name:     "spring",
		Language: "java",
		Category: "backend",
		Markers:  []string{"pom.xml", "build.gradle", "src/main/java/", "mvnw"},
		Keywords: []string{"spring-boot"},
	},
	{
		Name:     "dotnet",
		Language: "csharp",
		Category: "backend",
		Markers:  []string{"**/*.csproj", "**/*.sln", "Program.cs", "appsettings.json"},
		Keywords: []string{"microsoft.net.sdk"},
	},
	{
		Name:     "go",
		Language: "go",
		Category: "backend",
		Markers:  []string{"go.mod", "go.sum", "main.go", "cmd/", "internal/"},
	},
	{
		Name:     "rust",
		Language: "rust",
		Category: "backend",
		Markers:  []string{"Cargo.toml", "Cargo.lock", "src/main.rs", "src/lib.rs", "build.rs"},
	},
	{
		Name:     "tauri",
		Language: "rust",
		Category: "desktop",
		Markers:  []string{"src-tauri/", "tauri.conf.json", "Cargo.toml", "package.json"},
		Keywords: []string{"tauri"},
	},
	{
		Name:     "flutter",
		Language: "dart",
		Category: "mobile",
		Markers:  []string{"pubspec.yaml", "lib/main.dart", "android/", "ios/"},
		Keywords: []string{"flutter"},
	},
})
