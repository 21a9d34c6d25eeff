package analyzer

import (
	"bufio"
	"io/fs"
	"log"
	"regexp"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

// Dependencies summarizes the manifests found at the project root.
type Dependencies struct {
	Managers []string `json:"package_managers"`
	Files    []string `json:"dependency_files"`
	Names    []string `json:"names"`
	Total    int      `json:"total_dependencies"`
}

// Has reports whether a dependency with the given name is declared.
func (d Dependencies) Has(name string) bool {
	_, found := slices.BinarySearch(d.Names, strings.ToLower(name))
	return found
}

type manifestParser struct {
	file    string
	manager string
	parse   func(data []byte) []string
}

// manifestParsers are checked in order; a manager is listed once.
var manifestParsers = []manifestParser{
	{"package.json", "npm", parsePackageJSON},
	{"composer.json", "composer", parseComposerJSON},
	{"requirements.txt", "pip", parseRequirements},
	{"Pipfile", "pipenv", parsePipfile},
	{"pyproject.toml", "poetry", parsePyproject},
	{"Cargo.toml", "cargo", parseCargo},
	{"go.mod", "go modules", parseGoMod},
	{"Gemfile", "bundler", parseGemfile},
	{"pom.xml", "maven", nil},
	{"build.gradle", "gradle", nil},
	{"pubspec.yaml", "pub", parsePubspec},
}

func analyzeDependencies(fsys fs.FS) Dependencies {
	deps := Dependencies{
		Managers: []string{},
		Files:    []string{},
		Names:    []string{},
	}
	seen := map[string]bool{}

	for _, p := range manifestParsers {
		data, err := fs.ReadFile(fsys, p.file)
		if err != nil {
			continue
		}
		deps.Files = append(deps.Files, p.file)
		if !slices.Contains(deps.Managers, p.manager) {
			deps.Managers = append(deps.Managers, p.manager)
		}
		if p.parse == nil {
			continue
		}
		for _, name := range p.parse(data) {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			deps.Names = append(deps.Names, name)
		}
	}

	slices.Sort(deps.Names)
	deps.Total = len(deps.Names)
	return deps
}

func jsonKeys(data []byte, paths ...string) []string {
	if !gjson.ValidBytes(data) {
		return nil
	}
	var names []string
	for _, p := range paths {
		gjson.GetBytes(data, p).ForEach(func(key, _ gjson.Result) bool {
			names = append(names, key.String())
			return true
		})
	}
	return names
}

func parsePackageJSON(data []byte) []string {
	return jsonKeys(data, "dependencies", "devDependencies", "peerDependencies")
}

func parseComposerJSON(data []byte) []string {
	var names []string
	for _, n := range jsonKeys(data, "require", "require-dev") {
		if n == "php" || strings.HasPrefix(n, "ext-") {
			continue
		}
		names = append(names, n)
	}
	return names
}

// requirementName strips version specifiers, extras and markers from a
// PEP 508 requirement.
var requirementName = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9._-]*)`)

func parseRequirements(data []byte) []string {
	var names []string
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if m := requirementName.FindStringSubmatch(line); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}

func tomlKeys(data []byte, tables ...string) []string {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		log.Printf("analyzer: invalid TOML manifest: %v", err)
		return nil
	}
	var names []string
	for _, t := range tables {
		var node any = doc
		for _, part := range strings.Split(t, ".") {
			m, ok := node.(map[string]any)
			if !ok {
				node = nil
				break
			}
			node = m[part]
		}
		if m, ok := node.(map[string]any); ok {
			for k := range m {
				names = append(names, k)
			}
		}
	}
	return names
}

func parsePipfile(data []byte) []string {
	return tomlKeys(data, "packages", "dev-packages")
}

func parsePyproject(data []byte) []string {
	names := tomlKeys(data, "tool.poetry.dependencies", "tool.poetry.dev-dependencies")
	names = slices.DeleteFunc(names, func(n string) bool { return n == "python" })

	var doc struct {
		Project struct {
			Dependencies []string `toml:"dependencies"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal(data, &doc); err == nil {
		for _, req := range doc.Project.Dependencies {
			if m := requirementName.FindStringSubmatch(req); m != nil {
				names = append(names, m[1])
			}
		}
	}
	return names
}

func parseCargo(data []byte) []string {
	return tomlKeys(data, "dependencies", "dev-dependencies", "build-dependencies")
}

func parseGoMod(data []byte) []string {
	f, err := modfile.ParseLax("go.mod", data, nil)
	if err != nil {
		log.Printf("analyzer: invalid go.mod: %v", err)
		return nil
	}
	names := make([]string, 0, len(f.Require))
	for _, r := range f.Require {
		names = append(names, r.Mod.Path)
	}
	return names
}

var gemLine = regexp.MustCompile(`^\s*gem\s+['"]([^'"]+)['"]`)

func parseGemfile(data []byte) []string {
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		if m := gemLine.FindStringSubmatch(line); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}

func parsePubspec(data []byte) []string {
	var doc struct {
		Dependencies    map[string]any `yaml:"dependencies"`
		DevDependencies map[string]any `yaml:"dev_dependencies"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		log.Printf("analyzer: invalid pubspec.yaml: %v", err)
		return nil
	}
	var names []string
	for k := range doc.Dependencies {
		names = append(names, k)
	}
	for k := range doc.DevDependencies {
		names = append(names, k)
	}
	return names
}
