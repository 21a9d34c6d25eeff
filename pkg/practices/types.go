// Package practices looks up coding best practices for a project's
// language and framework. Results come from a TTL cache kept on disk, an MCP
// server, or the catalog compiled into the binary, in that order.
package practices

import (
	"sort"
	"strings"
)

// Source tells where a response came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceMCP      Source = "mcp"
	SourceFallback Source = "fallback"
)

// Categories known to the built-in catalog.
const (
	CategoryArchitecture  = "architecture"
	CategorySecurity      = "security"
	CategoryPerformance   = "performance"
	CategoryTesting       = "testing"
	CategoryDevelopment   = "development"
	CategoryDocumentation = "documentation"
)

// Practice is one recommendation.
type Practice struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	Language    string   `json:"language,omitempty" yaml:"language,omitempty"`
	Framework   string   `json:"framework,omitempty" yaml:"framework,omitempty"`
	Confidence  float64  `json:"confidence" yaml:"confidence"`
	Items       []string `json:"items,omitempty" yaml:"items,omitempty"`
}

// Query selects practices. Empty fields match everything.
type Query struct {
	Language    string   `json:"language,omitempty"`
	Framework   string   `json:"framework,omitempty"`
	ProjectType string   `json:"project_type,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}

func (q Query) normalized() Query {
	out := Query{
		Language:    strings.ToLower(strings.TrimSpace(q.Language)),
		Framework:   strings.ToLower(strings.TrimSpace(q.Framework)),
		ProjectType: strings.ToLower(strings.TrimSpace(q.ProjectType)),
	}
	for _, c := range q.Categories {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			out.Categories = append(out.Categories, c)
		}
	}
	sort.Strings(out.Categories)
	return out
}

// Key identifies the query in the cache.
func (q Query) Key() string {
	n := q.normalized()
	return strings.Join([]string{n.Language, n.Framework, n.ProjectType, strings.Join(n.Categories, ",")}, "|")
}

// Text renders the query as the free-text prompt sent to the server.
func (q Query) Text() string {
	n := q.normalized()
	parts := []string{}
	if n.Language != "" {
		parts = append(parts, n.Language+" best practices")
	}
	if n.Framework != "" {
		parts = append(parts, n.Framework+" patterns")
	}
	if n.ProjectType != "" {
		parts = append(parts, n.ProjectType+" architecture")
	}
	parts = append(parts, n.Categories...)
	if len(parts) == 0 {
		return "general best practices"
	}
	return strings.Join(parts, " ")
}

func (q Query) wantsCategory(category string) bool {
	if len(q.Categories) == 0 {
		return true
	}
	for _, c := range q.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// Response is the outcome of a lookup.
type Response struct {
	Query     Query      `json:"query"`
	Source    Source     `json:"source"`
	Practices []Practice `json:"practices"`
}

// Titles returns the practice titles, at most limit of them when limit > 0.
func (r Response) Titles(limit int) []string {
	titles := make([]string, 0, len(r.Practices))
	for _, p := range r.Practices {
		if limit > 0 && len(titles) >= limit {
			break
		}
		titles = append(titles, p.Title)
	}
	return titles
}

// sortPractices orders by confidence, then title, and drops duplicate IDs
// keeping the most confident copy.
func sortPractices(in []Practice) []Practice {
	best := make(map[string]Practice, len(in))
	order := []string{}
	for _, p := range in {
		id := p.ID
		if id == "" {
			id = strings.ToLower(p.Title)
		}
		existing, ok := best[id]
		if !ok {
			order = append(order, id)
		}
		if !ok || p.Confidence > existing.Confidence {
			best[id] = p
		}
	}

	out := make([]Practice, 0, len(order))
	for _, id := range order {
		out = append(out, best[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Title < out[j].Title
	})
	return out
}
