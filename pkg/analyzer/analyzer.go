// Package analyzer builds a full picture of a project on top of the
// classifier: project type, layout, dependencies and how well it is set up
// for context engineering.
package analyzer

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"aigenio/pkg/classifier"
)

// Analysis is the complete result of analyzing one project directory.
type Analysis struct {
	Path            string              `json:"path"`
	Name            string              `json:"name"`
	Type            string              `json:"type"`
	TypeSignals     []string            `json:"type_signals"`
	Framework       string              `json:"framework"`
	Frameworks      []string            `json:"frameworks_detected"`
	Categories      map[string][]string `json:"categories"`
	Languages       []string            `json:"languages"`
	Classification  classifier.Result   `json:"classification"`
	Structure       Structure           `json:"structure"`
	Architecture    Architecture        `json:"architecture"`
	Dependencies    Dependencies        `json:"dependencies"`
	Complexity      string              `json:"complexity"`
	CEScore         int                 `json:"ce_score"`
	HasClaudeConfig bool                `json:"has_claude_config"`
	HasInitial      bool                `json:"has_initial"`
	Issues          []string            `json:"issues"`
	Suggestions     []string            `json:"suggestions"`
	AnalyzedAt      time.Time           `json:"analyzed_at"`
}

// PrimaryLanguage returns the classifier's language hint or the first observed language.
func (a *Analysis) PrimaryLanguage() string {
	return a.Classification.PrimaryLanguage()
}

// Category returns the category of the detected framework, "other" when unknown.
func (a *Analysis) Category() string {
	return a.Classification.CategoryOr("other")
}

// Analyzer combines the classifier with structural analysis.
type Analyzer struct {
	classifier *classifier.Classifier
	maxFiles   int
	now        func() time.Time
}

// New creates an analyzer that classifies with cl.
func New(cl *classifier.Classifier, maxFiles int) *Analyzer {
	return &Analyzer{classifier: cl, maxFiles: maxFiles, now: time.Now}
}

// Analyze inspects the project at dir. Classification errors are returned
// unchanged so callers can match classifier sentinels.
func (a *Analyzer) Analyze(dir string) (*Analysis, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path: %w", err)
	}

	res, err := a.classifier.Classify(abs)
	if err != nil {
		return nil, err
	}

	fsys := os.DirFS(abs)
	out := a.analyzeFS(fsys, res)
	out.Path = abs
	out.Name = filepath.Base(abs)

	log.Printf("analyzer: %s type=%s framework=%s score=%d", abs, out.Type, out.Framework, out.CEScore)
	return out, nil
}

func (a *Analyzer) analyzeFS(fsys fs.FS, res classifier.Result) *Analysis {
	st, files := scanStructure(fsys, a.maxFiles)
	deps := analyzeDependencies(fsys)
	projectType, typeSignals := detectProjectType(fsys, files, deps)

	out := &Analysis{
		Type:            projectType,
		TypeSignals:     typeSignals,
		Framework:       res.Framework,
		Frameworks:      []string{},
		Languages:       res.Languages,
		Classification:  res,
		Structure:       st,
		Architecture:    analyzeArchitecture(st),
		Dependencies:    deps,
		Complexity:      analyzeComplexity(fsys, st),
		HasClaudeConfig: exists(fsys, "CLAUDE.md"),
		HasInitial:      exists(fsys, "INITIAL.md"),
		AnalyzedAt:      a.now(),
	}
	for _, c := range res.Candidates {
		out.Frameworks = append(out.Frameworks, c.Name)
	}
	out.Categories = categorize(a.classifier.Catalog(), out.Frameworks)
	out.Issues, out.Suggestions = inspectContextSetup(fsys)
	out.CEScore = contextScore(out)
	return out
}

// categorize groups matched frameworks by their catalog category.
func categorize(c *classifier.Catalog, frameworks []string) map[string][]string {
	out := map[string][]string{}
	for _, name := range frameworks {
		category := "other"
		if sig, ok := c.Lookup(name); ok && sig.Category != "" {
			category = sig.Category
		}
		out[category] = append(out[category], name)
	}
	return out
}

func inspectContextSetup(fsys fs.FS) (issues, suggestions []string) {
	issues = []string{}
	suggestions = []string{}

	data, err := fs.ReadFile(fsys, "CLAUDE.md")
	switch {
	case err != nil:
		issues = append(issues, "CLAUDE.md is missing")
		suggestions = append(suggestions, "Create CLAUDE.md with the project rules")
	case len(data) < minClaudeLength:
		issues = append(issues, "CLAUDE.md is too short")
		suggestions = append(suggestions, "Expand CLAUDE.md with more project detail")
	}

	if !exists(fsys, ".claude") {
		suggestions = append(suggestions, "Create a .claude/ directory for advanced configuration")
	}
	return issues, suggestions
}

// minClaudeLength is the size below which a CLAUDE.md is considered a stub.
const minClaudeLength = 100

// contextScore rates the existing context-engineering setup from 1 to 10.
func contextScore(a *Analysis) int {
	score := 5.0
	if a.HasClaudeConfig {
		score += 2
	}
	switch a.Complexity {
	case "low":
		score++
	case "high":
		score--
	}
	if a.Framework != classifier.Unknown {
		score++
	}
	score -= float64(len(a.Issues)) * 0.5

	return max(1, min(10, int(score)))
}

// Recommendations summarizes what to improve given a validation score.
func Recommendations(a *Analysis, validationScore int) []string {
	var recs []string
	switch {
	case validationScore < 6:
		recs = append(recs, "Context engineering setup needs significant improvement")
	case validationScore < 8:
		recs = append(recs, "Setup is good but can be refined")
	default:
		recs = append(recs, "Setup is in excellent shape")
	}
	if !a.HasClaudeConfig {
		recs = append(recs, "Create CLAUDE.md with detailed instructions")
	}
	if a.Complexity == "high" {
		recs = append(recs, "Consider splitting the project into smaller modules")
	}
	return recs
}

// NextSteps lists follow-ups after a setup run.
func NextSteps(a *Analysis, validationScore int) []string {
	steps := []string{
		"Write an INITIAL.md for the first feature",
		"Try the configuration with your AI assistant",
	}
	switch a.Framework {
	case "laravel":
		steps = append(steps, "Configure the database and migrations", "Set up PHPUnit or Pest")
	case "django":
		steps = append(steps, "Configure settings per environment", "Set up pytest-django")
	case "react", "next", "vue", "svelte":
		steps = append(steps, "Set up component tests", "Configure build and deployment")
	}
	if validationScore < 7 {
		steps = append(steps, "Improve CLAUDE.md", "Add more examples under .claude/examples/")
	}
	return steps
}
