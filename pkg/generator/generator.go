// Package generator renders the context-engineering files of a project:
// CLAUDE.md, INITIAL.md, PRP suggestions, examples and project metadata.
package generator

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

//go:embed all:templates
var templatesFS embed.FS

// ErrUnknownTemplate is returned when a template name is not available.
var ErrUnknownTemplate = errors.New("unknown template")

// Document is one rendered file.
type Document struct {
	Content     string    `json:"content"`
	Template    string    `json:"template_used"`
	Sections    []string  `json:"sections"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Generator holds the parsed templates.
type Generator struct {
	claude  *template.Template
	initial *template.Template
	now     func() time.Time
}

// New parses the embedded templates.
func New() (*Generator, error) {
	claude, err := load("templates/claude/*.tmpl")
	if err != nil {
		return nil, err
	}
	initial, err := load("templates/initial/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Generator{claude: claude, initial: initial, now: time.Now}, nil
}

func load(pattern string) (*template.Template, error) {
	t, err := template.New("templates").
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		ParseFS(templatesFS, pattern)
	if err != nil {
		return nil, fmt.Errorf("parsing templates %s: %w", pattern, err)
	}
	return t, nil
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

func render(t *template.Template, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	out := blankRuns.ReplaceAllString(buf.String(), "\n\n")
	return strings.TrimSpace(out) + "\n", nil
}

// renderFirst executes the first of names that is defined in t. It returns
// an empty string when none is.
func renderFirst(t *template.Template, data any, names ...string) (string, error) {
	for _, name := range names {
		if t.Lookup(name) == nil {
			continue
		}
		return render(t, name, data)
	}
	return "", nil
}

// ExtractSections lists the level-two headings of a markdown document.
func ExtractSections(content string) []string {
	sections := []string{}
	for _, line := range strings.Split(content, "\n") {
		if title, ok := strings.CutPrefix(line, "## "); ok {
			sections = append(sections, strings.TrimSpace(title))
		}
	}
	return sections
}
