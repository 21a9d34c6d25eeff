package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"aigenio/pkg/analyzer"
	"aigenio/pkg/config"
	"aigenio/pkg/practices"
	"aigenio/pkg/state"
)

// Files and directories written into a project.
const (
	ClaudeFile  = "CLAUDE.md"
	InitialFile = "INITIAL.md"
	ExamplesDir = ".claude/examples"
	PRPsDir     = "PRPs"
)

const examplesRoot = "templates/examples"

// ErrAlreadyConfigured is returned when CLAUDE.md exists and overwriting
// was not requested.
var ErrAlreadyConfigured = errors.New("CLAUDE.md already exists")

// ErrInitialExists is returned by WriteInitial when INITIAL.md exists and
// overwriting was not requested.
var ErrInitialExists = errors.New("INITIAL.md already exists")

// SetupOptions controls a setup run.
type SetupOptions struct {
	Force    bool
	Template string
	Feature  string
}

// SetupResult lists what a setup run produced.
type SetupResult struct {
	Claude  Document            `json:"claude"`
	Initial InitialDocument     `json:"initial"`
	State   *state.ProjectState `json:"metadata"`
	Files   []string            `json:"files_created"`
	Kept    []string            `json:"files_kept,omitempty"`
}

// Setup writes CLAUDE.md, INITIAL.md, examples, the PRPs directory and the
// project metadata into dir. Without opts.Force an existing CLAUDE.md stops
// the run, while an existing INITIAL.md or PRPs/README.md is kept and
// listed in Kept.
func (g *Generator) Setup(dir string, a *analyzer.Analysis, resp practices.Response, structure map[string]string, opts SetupOptions) (*SetupResult, error) {
	claudePath := filepath.Join(dir, ClaudeFile)
	if exists(claudePath) && !opts.Force {
		return nil, fmt.Errorf("%w in %s (use --force to overwrite)", ErrAlreadyConfigured, dir)
	}

	res := &SetupResult{}
	var err error

	if res.Claude, err = g.GenerateClaude(a, resp, structure, opts.Template); err != nil {
		return nil, err
	}
	if err := writeFile(claudePath, res.Claude.Content); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, claudePath)
	log.Printf("generator: wrote %s with template %s", claudePath, res.Claude.Template)

	feature := opts.Feature
	if feature == "" {
		feature = fmt.Sprintf("Initial setup of project %s", a.Name)
	}
	if res.Initial, err = g.GenerateInitial(a, feature, ""); err != nil {
		return nil, err
	}
	initialPath := filepath.Join(dir, InitialFile)
	if err := res.write(initialPath, res.Initial.Content, opts.Force); err != nil {
		return nil, err
	}

	examples, err := CopyExamples(dir, a.Framework, a.PrimaryLanguage())
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, examples...)

	if err := os.MkdirAll(filepath.Join(dir, PRPsDir), config.PermDirectory); err != nil {
		return nil, fmt.Errorf("failed to create PRPs directory: %w", err)
	}
	if err := res.write(prpIndexPath(dir), prpIndex(res.Initial.PRPs), opts.Force); err != nil {
		return nil, err
	}

	res.State, err = state.MarkSetup(dir, state.ProjectState{
		Name:      a.Name,
		Type:      a.Type,
		Framework: a.Framework,
		Languages: a.Languages,
		Template:  res.Claude.Template,
		SetupAt:   g.now(),
	})
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, state.GetStatePath(dir))
	return res, nil
}

// write creates p, or keeps an existing file unless force is set.
func (r *SetupResult) write(p, content string, force bool) error {
	if exists(p) && !force {
		log.Printf("generator: kept existing %s", p)
		r.Kept = append(r.Kept, p)
		return nil
	}
	if err := writeFile(p, content); err != nil {
		return err
	}
	r.Files = append(r.Files, p)
	return nil
}

// WriteInitial renders INITIAL.md for a feature and writes it into dir. An
// existing INITIAL.md is only replaced when force is set.
func (g *Generator) WriteInitial(dir string, a *analyzer.Analysis, description, templateName string, force bool) (InitialDocument, string, error) {
	p := filepath.Join(dir, InitialFile)
	if exists(p) && !force {
		return InitialDocument{}, p, fmt.Errorf("%w in %s (use --force to overwrite)", ErrInitialExists, dir)
	}
	doc, err := g.GenerateInitial(a, description, templateName)
	if err != nil {
		return InitialDocument{}, "", err
	}
	if err := writeFile(p, doc.Content); err != nil {
		return InitialDocument{}, "", err
	}
	return doc, p, nil
}

// CopyExamples copies the shared examples and those for the framework, or
// failing that the language, into the project's examples directory.
// Existing files are kept.
func CopyExamples(dir, framework, language string) ([]string, error) {
	target := filepath.Join(dir, filepath.FromSlash(ExamplesDir))
	if err := os.MkdirAll(target, config.PermDirectory); err != nil {
		return nil, fmt.Errorf("failed to create examples directory: %w", err)
	}

	sources := []string{"common"}
	switch {
	case hasExamples(framework):
		sources = append(sources, strings.ToLower(framework))
	case hasExamples(language):
		sources = append(sources, strings.ToLower(language))
	}

	var copied []string
	for _, src := range sources {
		root := path.Join(examplesRoot, src)
		err := fs.WalkDir(templatesFS, root, func(name string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			dest := filepath.Join(target, path.Base(name))
			if exists(dest) {
				return nil
			}
			contents, err := fs.ReadFile(templatesFS, name)
			if err != nil {
				return fmt.Errorf("reading example: %w", err)
			}
			if err := os.WriteFile(dest, contents, config.PermGeneratedFile); err != nil {
				return fmt.Errorf("writing example: %w", err)
			}
			copied = append(copied, dest)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return copied, nil
}

func hasExamples(name string) bool {
	if name == "" {
		return false
	}
	info, err := fs.Stat(templatesFS, path.Join(examplesRoot, strings.ToLower(name)))
	return err == nil && info.IsDir()
}

func prpIndexPath(dir string) string {
	return filepath.Join(dir, PRPsDir, "README.md")
}

func prpIndex(prps []string) string {
	var b strings.Builder
	b.WriteString("# PRPs\n\nProduct Requirement Prompts for this project. Add one file per feature.\n\n## Suggested\n\n")
	for _, prp := range prps {
		fmt.Fprintf(&b, "- %s\n", prp)
	}
	return b.String()
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func writeFile(p, content string) error {
	if err := os.WriteFile(p, []byte(content), config.PermGeneratedFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(p), err)
	}
	return nil
}
