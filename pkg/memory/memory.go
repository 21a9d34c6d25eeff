// Package memory remembers, across runs, which best practices were applied
// at setup and the project shapes they were applied to.
package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"aigenio/pkg/config"
	"aigenio/pkg/practices"

	"github.com/google/uuid"
)

// PracticeUse is a practice that has been written into at least one project.
type PracticeUse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Language   string    `json:"language,omitempty"`
	Framework  string    `json:"framework,omitempty"`
	Source     string    `json:"source"`
	Confidence float64   `json:"confidence"`
	UsageCount int       `json:"usage_count"`
	FirstUsed  time.Time `json:"first_used"`
	LastUsed   time.Time `json:"last_used"`
}

// Pattern is a project shape learned from setups: type, language and
// framework, with the layout and practices that went with it.
type Pattern struct {
	ID          string            `json:"id"`
	ProjectType string            `json:"project_type"`
	Language    string            `json:"language"`
	Framework   string            `json:"framework,omitempty"`
	Structure   map[string]string `json:"structure,omitempty"`
	Practices   []string          `json:"best_practices"`
	UsageCount  int               `json:"usage_count"`
	Passed      int               `json:"passed"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// SuccessRate is the share of setups with this pattern that passed validation.
func (p Pattern) SuccessRate() float64 {
	if p.UsageCount == 0 {
		return 0
	}
	return float64(p.Passed) / float64(p.UsageCount)
}

// Data is the content of the memory file.
type Data struct {
	Practices   map[string]PracticeUse `json:"practices"`
	Patterns    map[string]Pattern     `json:"patterns"`
	LastUpdated time.Time              `json:"last_updated"`
}

func (d *Data) init() {
	if d.Practices == nil {
		d.Practices = make(map[string]PracticeUse)
	}
	if d.Patterns == nil {
		d.Patterns = make(map[string]Pattern)
	}
}

// Setup describes one finished setup.
type Setup struct {
	ProjectType string
	Language    string
	Framework   string
	Structure   map[string]string
	Practices   []practices.Practice
	Source      practices.Source
	Passed      bool
}

// Store is the memory file. Every change holds the file lock for its whole
// read-modify-write.
type Store struct {
	path string
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: func() time.Time { return time.Now().UTC() }}
}

// Default is the store under ~/.aigenio.
func Default() *Store {
	return NewStore(config.GetMemoryPath())
}

// Load reads the memory file. A missing file is empty memory.
func (s *Store) Load() (*Data, error) {
	d := &Data{}
	if _, err := config.ReadJSONFile(s.path, d); err != nil {
		return nil, err
	}
	d.init()
	return d, nil
}

// RecordSetup counts every practice used and updates the matching pattern.
func (s *Store) RecordSetup(setup Setup) error {
	now := s.now()
	d := &Data{}
	return config.UpdateJSONFile(s.path, d, config.PermConfigFile, func() error {
		d.init()

		ids := make([]string, 0, len(setup.Practices))
		for _, p := range setup.Practices {
			id := practiceID(p)
			ids = append(ids, id)

			use, ok := d.Practices[id]
			if !ok {
				use = PracticeUse{ID: id, FirstUsed: now}
			}
			use.Title = p.Title
			use.Category = p.Category
			use.Language = p.Language
			use.Framework = p.Framework
			use.Source = string(setup.Source)
			use.Confidence = p.Confidence
			use.UsageCount++
			use.LastUsed = now
			d.Practices[id] = use
		}

		key := patternKey(setup.ProjectType, setup.Language, setup.Framework)
		pat, ok := d.Patterns[key]
		if !ok {
			pat = Pattern{
				ID:          uuid.NewString(),
				ProjectType: normalize(setup.ProjectType),
				Language:    normalize(setup.Language),
				Framework:   normalize(setup.Framework),
				CreatedAt:   now,
			}
		}
		if len(setup.Structure) > 0 {
			pat.Structure = setup.Structure
		}
		pat.Practices = ids
		pat.UsageCount++
		if setup.Passed {
			pat.Passed++
		}
		pat.UpdatedAt = now
		d.Patterns[key] = pat

		d.LastUpdated = now
		return nil
	})
}

// PatternQuery filters patterns. Empty fields match everything.
type PatternQuery struct {
	ProjectType    string
	Language       string
	Framework      string
	MinSuccessRate float64
	Limit          int
}

// FindPatterns returns matching patterns, most used first. A pattern with
// no framework matches any framework.
func (d *Data) FindPatterns(q PatternQuery) []Pattern {
	var out []Pattern
	for _, p := range d.Patterns {
		if q.ProjectType != "" && p.ProjectType != normalize(q.ProjectType) {
			continue
		}
		if q.Language != "" && p.Language != normalize(q.Language) {
			continue
		}
		if q.Framework != "" && p.Framework != "" && p.Framework != normalize(q.Framework) {
			continue
		}
		if p.SuccessRate() < q.MinSuccessRate {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UsageCount != out[j].UsageCount {
			return out[i].UsageCount > out[j].UsageCount
		}
		if out[i].SuccessRate() != out[j].SuccessRate() {
			return out[i].SuccessRate() > out[j].SuccessRate()
		}
		return out[i].ID < out[j].ID
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// MostUsed returns the practices applied most often.
func (d *Data) MostUsed(limit int) []PracticeUse {
	out := make([]PracticeUse, 0, len(d.Practices))
	for _, p := range d.Practices {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UsageCount != out[j].UsageCount {
			return out[i].UsageCount > out[j].UsageCount
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Statistics summarizes the memory.
type Statistics struct {
	Practices struct {
		Total      int            `json:"total"`
		Uses       int            `json:"uses"`
		ByCategory map[string]int `json:"by_category"`
		ByLanguage map[string]int `json:"by_language"`
	} `json:"best_practices"`
	Patterns struct {
		Total  int            `json:"total"`
		ByType map[string]int `json:"by_type"`
	} `json:"project_patterns"`
	CachedResponses int `json:"cached_responses"`
}

// Statistics counts practices by category and language and patterns by
// project type. cached is the number of remembered server answers.
func (d *Data) Statistics(cached int) Statistics {
	var st Statistics
	st.Practices.ByCategory = map[string]int{}
	st.Practices.ByLanguage = map[string]int{}
	st.Patterns.ByType = map[string]int{}

	for _, p := range d.Practices {
		st.Practices.Total++
		st.Practices.Uses += p.UsageCount
		st.Practices.ByCategory[orGeneral(p.Category)]++
		if p.Language != "" {
			st.Practices.ByLanguage[p.Language]++
		}
	}
	for _, p := range d.Patterns {
		st.Patterns.Total++
		st.Patterns.ByType[orGeneral(p.ProjectType)]++
	}
	st.CachedResponses = cached
	return st
}

// Export is the document written by WriteExport.
type Export struct {
	Practices  []PracticeUse `json:"best_practices"`
	Patterns   []Pattern     `json:"project_patterns"`
	Statistics Statistics    `json:"statistics"`
	ExportedAt time.Time     `json:"exported_at"`
	Version    string        `json:"version"`
}

// WriteExport writes the whole memory to w as indented JSON.
func (s *Store) WriteExport(w io.Writer, cached int) error {
	d, err := s.Load()
	if err != nil {
		return err
	}
	doc := Export{
		Practices:  d.MostUsed(0),
		Patterns:   d.FindPatterns(PatternQuery{}),
		Statistics: d.Statistics(cached),
		ExportedAt: s.now(),
		Version:    config.Version,
	}
	if doc.Patterns == nil {
		doc.Patterns = []Pattern{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to export memory: %w", err)
	}
	return nil
}

// practiceID falls back to the title for practices a server sent without an ID.
func practiceID(p practices.Practice) string {
	if p.ID != "" {
		return p.ID
	}
	return strings.ReplaceAll(normalize(p.Title), " ", "_")
}

func patternKey(projectType, language, framework string) string {
	return normalize(projectType) + "|" + normalize(language) + "|" + normalize(framework)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "unknown" {
		return ""
	}
	return s
}

func orGeneral(s string) string {
	if s == "" {
		return "general"
	}
	return s
}
