// Package validator scores how well a project is prepared for context
// engineering: CLAUDE.md, INITIAL.md, examples, PRPs and project metadata.
package validator

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
)

// Part is the outcome of one group of checks.
type Part struct {
	Score       float64  `json:"score"`
	MaxScore    float64  `json:"max_score"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

func (p *Part) add(c check) {
	p.Score += c.score
	p.Errors = append(p.Errors, c.errors...)
	p.Warnings = append(p.Warnings, c.warnings...)
	p.Suggestions = append(p.Suggestions, c.suggestions...)
}

func (p *Part) merge(o Part) {
	p.Score += o.Score
	p.MaxScore += o.MaxScore
	p.Errors = append(p.Errors, o.Errors...)
	p.Warnings = append(p.Warnings, o.Warnings...)
	p.Suggestions = append(p.Suggestions, o.Suggestions...)
}

func (p *Part) capAt(limit float64) {
	p.MaxScore = limit
	p.Score = math.Min(p.Score, limit)
}

// Details breaks a full validation down by group.
type Details struct {
	Basic    Part `json:"basic"`
	Advanced Part `json:"advanced"`
	Quality  Part `json:"quality"`
}

// Result is a project's validation: a 0..10 score, a letter grade and the
// findings behind them.
type Result struct {
	Score       int      `json:"score"`
	MaxScore    int      `json:"max_score"`
	Grade       string   `json:"grade"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
	Details     *Details `json:"details,omitempty"`
}

// Passed reports whether the setup is usable: no errors and at least half
// the points.
func (r *Result) Passed() bool {
	return len(r.Errors) == 0 && r.Score >= 5
}

// ValidateSetup runs the basic checks: CLAUDE.md and the context
// directories.
func ValidateSetup(dir string) (*Result, error) {
	fsys, err := open(dir)
	if err != nil {
		return nil, err
	}
	basic := validateBasic(fsys)
	return newResult(basic, 10, nil), nil
}

// Validate runs every check and scales the total to 0..10.
func Validate(dir string) (*Result, error) {
	fsys, err := open(dir)
	if err != nil {
		return nil, err
	}
	res := validateFS(fsys)
	log.Printf("validator: %s score=%d grade=%s", dir, res.Score, res.Grade)
	return res, nil
}

func validateFS(fsys fs.FS) *Result {
	d := &Details{
		Basic:    validateBasic(fsys),
		Advanced: validateAdvanced(fsys),
		Quality:  validateQuality(fsys),
	}
	total := Part{}
	total.merge(d.Basic)
	total.merge(d.Advanced)
	total.merge(d.Quality)
	return newResult(total, total.MaxScore, d)
}

func newResult(p Part, maxScore float64, d *Details) *Result {
	return &Result{
		Score:       min(10, int(p.Score/maxScore*10)),
		MaxScore:    10,
		Grade:       Grade(p.Score, maxScore),
		Errors:      nonNil(p.Errors),
		Warnings:    nonNil(p.Warnings),
		Suggestions: nonNil(p.Suggestions),
		Details:     d,
	}
}

func open(dir string) (fs.FS, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("project path does not exist: %s", dir)
		}
		return nil, fmt.Errorf("failed to access project path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project path is not a directory: %s", dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path: %w", err)
	}
	return os.DirFS(abs), nil
}

// Grade converts a score into a letter grade.
func Grade(score, maxScore float64) string {
	if maxScore <= 0 {
		return "F"
	}
	pct := score / maxScore * 100
	switch {
	case pct >= 90:
		return "A+"
	case pct >= 85:
		return "A"
	case pct >= 80:
		return "A-"
	case pct >= 75:
		return "B+"
	case pct >= 70:
		return "B"
	case pct >= 65:
		return "B-"
	case pct >= 60:
		return "C+"
	case pct >= 55:
		return "C"
	case pct >= 50:
		return "C-"
	case pct >= 25:
		return "D"
	default:
		return "F"
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
