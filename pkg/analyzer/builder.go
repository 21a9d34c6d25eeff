package analyzer

import (
	"io/fs"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// typeCandidate is a project type with its accumulated score
type typeCandidate struct {
	Type    string
	Score   float64
	Signals []string
}

// TypeBuilder provides a fluent API for scoring a project type.
// It accumulates score and signals as checks pass.
type TypeBuilder struct {
	kind    string
	score   float64
	signals []string
	fsys    fs.FS
	files   []string
	deps    Dependencies
}

// NewTypeBuilder creates a builder for the given project type
func NewTypeBuilder(kind string, fsys fs.FS, files []string, deps Dependencies) *TypeBuilder {
	return &TypeBuilder{
		kind:    kind,
		signals: []string{},
		fsys:    fsys,
		files:   files,
		deps:    deps,
	}
}

// CheckFile adds score if the file exists
func (b *TypeBuilder) CheckFile(path string, score float64, signal string) *TypeBuilder {
	if fi, err := fs.Stat(b.fsys, path); err == nil && !fi.IsDir() {
		b.add(score, signal)
	}
	return b
}

// CheckAnyFile adds score once if any of the files exist
func (b *TypeBuilder) CheckAnyFile(paths []string, score float64, signal string) *TypeBuilder {
	for _, p := range paths {
		if fi, err := fs.Stat(b.fsys, p); err == nil && !fi.IsDir() {
			b.add(score, signal)
			return b
		}
	}
	return b
}

// CheckDir adds score if the directory exists
func (b *TypeBuilder) CheckDir(path string, score float64, signal string) *TypeBuilder {
	if fi, err := fs.Stat(b.fsys, path); err == nil && fi.IsDir() {
		b.add(score, signal)
	}
	return b
}

// CheckPattern adds score if any scanned file matches the glob
func (b *TypeBuilder) CheckPattern(pattern string, score float64, signal string) *TypeBuilder {
	for _, f := range b.files {
		if ok, _ := doublestar.Match(pattern, f); ok {
			b.add(score, signal)
			return b
		}
	}
	return b
}

// CheckAnyDependency adds score once if any named dependency is declared
func (b *TypeBuilder) CheckAnyDependency(names []string, score float64, signal string) *TypeBuilder {
	if slices.ContainsFunc(names, b.deps.Has) {
		b.add(score, signal)
	}
	return b
}

// CheckCondition adds score if a custom condition is met
func (b *TypeBuilder) CheckCondition(condition bool, score float64, signal string) *TypeBuilder {
	if condition {
		b.add(score, signal)
	}
	return b
}

func (b *TypeBuilder) add(score float64, signal string) {
	b.score += score
	b.signals = append(b.signals, signal)
}

// Build finalizes the builder
func (b *TypeBuilder) Build() typeCandidate {
	return typeCandidate{Type: b.kind, Score: b.score, Signals: b.signals}
}
