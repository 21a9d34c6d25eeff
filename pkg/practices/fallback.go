package practices

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Fallback is the built-in practice catalog.
type Fallback struct {
	practices  []Practice
	structures map[string]map[string]string
}

type fallbackFile struct {
	Practices  []Practice                   `yaml:"practices"`
	Structures map[string]map[string]string `yaml:"structures"`
}

// NewFallback parses the embedded catalog.
func NewFallback() (*Fallback, error) {
	return parseFallback(catalogYAML)
}

func parseFallback(data []byte) (*Fallback, error) {
	var f fallbackFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse practice catalog: %w", err)
	}
	if len(f.Practices) == 0 {
		return nil, fmt.Errorf("practice catalog is empty")
	}
	return &Fallback{practices: f.Practices, structures: f.Structures}, nil
}

// Lookup returns the practices matching q. Language- and framework-free
// practices always match; a framework practice needs the same framework.
func (f *Fallback) Lookup(q Query) []Practice {
	q = q.normalized()

	var out []Practice
	for _, p := range f.practices {
		if p.Language != "" && p.Language != q.Language {
			continue
		}
		if p.Framework != "" && p.Framework != q.Framework {
			continue
		}
		if !q.wantsCategory(p.Category) {
			continue
		}
		p.Items = append([]string(nil), p.Items...)
		out = append(out, p)
	}
	return sortPractices(out)
}

// Categories lists the categories present in the catalog.
func (f *Fallback) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range f.practices {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}

// DirectoryStructure suggests a directory layout for a language and
// framework, falling back to the language and then a generic layout.
func (f *Fallback) DirectoryStructure(language, framework string) map[string]string {
	language = strings.ToLower(language)
	framework = strings.ToLower(framework)

	for _, key := range []string{language + "/" + framework, language, "default"} {
		if s, ok := f.structures[key]; ok {
			out := make(map[string]string, len(s))
			for k, v := range s {
				out[k] = v
			}
			return out
		}
	}
	return map[string]string{}
}
