package validator

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"aigenio/pkg/analyzer"
	"aigenio/pkg/classifier"
	"aigenio/pkg/generator"
	"aigenio/pkg/practices"
)

func TestValidate_EmptyProject(t *testing.T) {
	res := validateFS(fstest.MapFS{})

	if !slices.Contains(res.Errors, "CLAUDE.md not found") {
		t.Errorf("Expected missing CLAUDE.md error, got %v", res.Errors)
	}
	if res.Score != 0 {
		t.Errorf("Expected score 0, got %d", res.Score)
	}
	if res.Grade != "F" {
		t.Errorf("Expected grade F, got %s", res.Grade)
	}
	if res.Passed() {
		t.Error("Expected validation to fail")
	}
	if !slices.Contains(res.Suggestions, "Create INITIAL.md to describe the current feature") {
		t.Errorf("Expected INITIAL.md suggestion, got %v", res.Suggestions)
	}
}

func TestValidate_ShortClaude(t *testing.T) {
	res := validateFS(fstest.MapFS{
		"CLAUDE.md": {Data: []byte("# demo\n\nSome notes.\n")},
	})

	if len(res.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", res.Errors)
	}
	for _, want := range []string{
		"CLAUDE.md is too short",
		"Section 'Workflow' is missing from CLAUDE.md",
		"CLAUDE.md should define code conventions",
		".claude/ not found",
	} {
		if !slices.Contains(res.Warnings, want) {
			t.Errorf("Expected warning %q in %v", want, res.Warnings)
		}
	}
	if res.Details.Basic.Score != 1 {
		t.Errorf("Expected only the existence point, got %v", res.Details.Basic.Score)
	}
}

func TestValidate_ScoresAreCapped(t *testing.T) {
	claude := strings.Repeat("Project Description. Context Engineering Rules. Best Practices. Workflow. conventions. ", 20) +
		"Project type, framework, languages. Setup: run the command, environment, dependencies.\n1. first\n2. then\n"
	res := validateFS(fstest.MapFS{
		"CLAUDE.md":                       {Data: []byte(claude)},
		".claude/examples/a.md":           {Data: []byte("a")},
		".claude/examples/b.md":           {Data: []byte("b")},
		".claude/examples/c.md":           {Data: []byte("c")},
		".aigenio/project.json":           {Data: []byte("{}")},
		"INITIAL.md":                      {Data: []byte(strings.Repeat("description objectives implementation criteria ", 20))},
		"PRPs/first.md":                   {Data: []byte("prp")},
		"PRPs/second.md":                  {Data: []byte("prp")},
		"PRPs/third.md":                   {Data: []byte("prp")},
		"package.json":                    {Data: []byte("{}")},
		"composer.json":                   {Data: []byte("{}")},
		"README.md":                       {Data: []byte("readme")},
		"docs/index.md":                   {Data: []byte("docs")},
		".gitignore":                      {Data: []byte("vendor/")},
		"tests/test_something.py":         {Data: []byte("")},
		".claude/examples/nested/skip.md": {Data: []byte("")},
	})

	if res.Details.Basic.Score != 10 {
		t.Errorf("Expected basic score 10, got %v", res.Details.Basic.Score)
	}
	if res.Details.Advanced.Score != 7 {
		t.Errorf("Expected advanced score capped at 7, got %v", res.Details.Advanced.Score)
	}
	if res.Details.Quality.Score != 3 {
		t.Errorf("Expected quality score 3, got %v", res.Details.Quality.Score)
	}
	if res.Score != 10 || res.Grade != "A+" {
		t.Errorf("Expected 10/A+, got %d/%s", res.Score, res.Grade)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", res.Warnings)
	}
}

func TestValidate_GeneratedSetup(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"composer.json": "{}",
		"README.md":     "# shop",
		".gitignore":    "vendor/",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "tests"), 0755); err != nil {
		t.Fatal(err)
	}

	g, err := generator.New()
	if err != nil {
		t.Fatal(err)
	}
	a := &analyzer.Analysis{
		Name:           "shop",
		Type:           analyzer.TypeWeb,
		Framework:      "laravel",
		Languages:      []string{"php"},
		Classification: classifier.Result{Framework: "laravel", Language: "php"},
		Structure:      analyzer.Structure{HasTests: true},
		Complexity:     "medium",
	}
	fb, err := practices.NewFallback()
	if err != nil {
		t.Fatal(err)
	}
	resp := practices.Response{Source: practices.SourceFallback, Practices: fb.Lookup(practices.Query{Language: "php", Framework: "laravel"})}
	if _, err := g.Setup(dir, a, resp, fb.DirectoryStructure("php", "laravel"), generator.SetupOptions{}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	res, err := Validate(dir)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(res.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", res.Errors)
	}
	if res.Score < 8 {
		t.Errorf("Expected a generated setup to score at least 8, got %d (%+v)", res.Score, res.Details)
	}
	if !res.Passed() {
		t.Error("Expected validation to pass")
	}

	basic, err := ValidateSetup(dir)
	if err != nil {
		t.Fatalf("ValidateSetup() error = %v", err)
	}
	if basic.Score != 10 || basic.Details != nil {
		t.Errorf("Expected a basic score of 10 without details, got %d", basic.Score)
	}
}

func TestValidate_BadPath(t *testing.T) {
	if _, err := Validate(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected an error for a missing directory")
	}

	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ValidateSetup(file); err == nil {
		t.Error("Expected an error for a file path")
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{20, "A+"},
		{17, "A"},
		{16, "A-"},
		{15, "B+"},
		{14, "B"},
		{13, "B-"},
		{12, "C+"},
		{11, "C"},
		{10, "C-"},
		{5, "D"},
		{4, "F"},
	}
	for _, tt := range tests {
		if got := Grade(tt.score, 20); got != tt.want {
			t.Errorf("Grade(%v, 20) = %s, want %s", tt.score, got, tt.want)
		}
	}
	if Grade(1, 0) != "F" {
		t.Error("Expected F for a zero maximum")
	}
}
