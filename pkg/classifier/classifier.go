// Package classifier infers the framework and languages of a project
// directory by scoring it against a catalog of framework signatures.
package classifier

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
)

const (
	// DefaultMaxDepth is the number of subdirectory levels scanned below the root.
	DefaultMaxDepth = 2

	// DefaultMaxFiles is the file ceiling for a single scan.
	DefaultMaxFiles = 10000
)

// Classifier scores directories against an immutable catalog.
// A Classifier holds no per-scan state and may be reused.
type Classifier struct {
	catalog  *Catalog
	weights  Weights
	maxDepth int
	maxFiles int
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithCatalog replaces the built-in catalog.
func WithCatalog(c *Catalog) Option {
	return func(cl *Classifier) {
		if c != nil {
			cl.catalog = c
		}
	}
}

// WithWeights sets the marker and keyword weights.
func WithWeights(w Weights) Option {
	return func(cl *Classifier) {
		cl.weights = w
	}
}

// WithMaxDepth bounds how many subdirectory levels are scanned.
func WithMaxDepth(n int) Option {
	return func(cl *Classifier) {
		if n >= 0 {
			cl.maxDepth = n
		}
	}
}

// WithMaxFiles sets the file ceiling; zero disables it.
func WithMaxFiles(n int) Option {
	return func(cl *Classifier) {
		if n >= 0 {
			cl.maxFiles = n
		}
	}
}

// New returns a classifier using the built-in catalog unless overridden.
func New(opts ...Option) (*Classifier, error) {
	cl := &Classifier{
		catalog:  Default(),
		weights:  DefaultWeights,
		maxDepth: DefaultMaxDepth,
		maxFiles: DefaultMaxFiles,
	}
	for _, opt := range opts {
		opt(cl)
	}
	if err := cl.weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid classifier weights: %w", err)
	}
	return cl, nil
}

// Catalog returns the catalog the classifier scores against.
func (c *Classifier) Catalog() *Catalog {
	return c.catalog
}

// Classify scans dir and returns the best matching framework.
func (c *Classifier) Classify(dir string) (Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Result{}, pathError(dir, err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	return c.classify(os.DirFS(dir), dir)
}

// ClassifyFS classifies the tree rooted at fsys.
func (c *Classifier) ClassifyFS(fsys fs.FS) (Result, error) {
	return c.classify(fsys, ".")
}

func (c *Classifier) classify(fsys fs.FS, label string) (Result, error) {
	if _, err := fs.ReadDir(fsys, "."); err != nil {
		return Result{}, pathError(label, err)
	}

	reader := NewFSReader(fsys, c.maxDepth, c.maxFiles)
	files, truncated, err := reader.ScanTree()
	if err != nil {
		return Result{}, pathError(label, err)
	}

	languages := collectLanguages(files)

	if truncated {
		log.Printf("classifier: %s exceeds %d files, reporting unknown", label, c.maxFiles)
		out := unknownResult()
		out.Languages = languages
		out.FilesSeen = len(files)
		out.Truncated = true
		out.Signals = []string{fmt.Sprintf("scan stopped after %d files", c.maxFiles)}
		return out, nil
	}

	manifests := c.readManifests(reader, files)

	entries := c.catalog.entries
	cands := make([]Candidate, 0, len(entries))
	for _, sig := range entries {
		cands = append(cands, c.score(reader, files, manifests, sig))
	}

	out := unknownResult()
	out.Languages = languages
	out.FilesSeen = len(files)
	out.Candidates = rankCandidates(cands)

	best := pickBest(cands)
	if best < 0 {
		out.Signals = []string{"no framework signals"}
		out.Meta = c.meta(reader, "", languages)
		return out, nil
	}

	winner := cands[best]
	sig := entries[best]
	out.Framework = winner.Name
	out.Confidence = winner.Confidence
	out.Language = sig.Language
	out.Category = sig.Category
	out.Signals = winner.Signals
	out.Meta = c.meta(reader, sig.Language, languages)

	log.Printf("classifier: %s -> %s (%.2f)", label, out.Framework, out.Confidence)
	return out, nil
}

// readManifests returns the lowercased content of every readable manifest.
func (c *Classifier) readManifests(reader *FSReader, files []string) []string {
	var out []string
	for _, f := range files {
		if !isManifest(f) {
			continue
		}
		content, ok := reader.Read(f)
		if !ok {
			continue
		}
		out = append(out, strings.ToLower(content))
	}
	return out
}

func (c *Classifier) score(reader *FSReader, files, manifests []string, sig Signature) Candidate {
	cand := Candidate{
		Name:     sig.Name,
		Language: sig.Language,
		Signals:  []string{},
	}

	for _, m := range sig.Markers {
		if markerPresent(reader, files, m) {
			cand.Markers++
			cand.Signals = append(cand.Signals, "marker: "+m)
		}
	}

	for _, k := range sig.Keywords {
		needle := strings.ToLower(k)
		for _, content := range manifests {
			if strings.Contains(content, needle) {
				cand.Keywords++
				cand.Signals = append(cand.Signals, "dependency: "+k)
				break
			}
		}
	}

	cand.Confidence = c.weights.confidence(sig, cand.Markers, cand.Keywords)
	return cand
}

func markerPresent(reader *FSReader, files []string, marker string) bool {
	switch {
	case isGlob(marker):
		return reader.Matches(files, marker)
	case strings.HasSuffix(marker, "/"):
		return reader.DirExists(strings.TrimSuffix(marker, "/"))
	default:
		return reader.Has(marker)
	}
}

func (c *Classifier) meta(reader *FSReader, hint string, languages []string) map[string]string {
	meta := detectMonorepo(reader)

	lang := hint
	if lang == "" && len(languages) > 0 {
		lang = languages[0]
	}
	if v := detectRuntimeVersion(reader, lang); v != "" {
		meta["runtime_version"] = v
	}

	if len(meta) == 0 {
		return nil
	}
	return meta
}
