package classifier

import "slices"

// Unknown is the framework name reported when no catalog entry matched.
const Unknown = "unknown"

// Signature describes the evidence for one framework.
type Signature struct {
	Name        string   `json:"name" yaml:"name"`
	Language    string   `json:"language" yaml:"language"`
	Markers     []string `json:"marker_files" yaml:"marker_files"`
	Keywords    []string `json:"dependency_keywords" yaml:"dependency_keywords"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// MaxEvidence is the number of markers plus keywords the signature can match.
func (s Signature) MaxEvidence() int {
	return len(s.Markers) + len(s.Keywords)
}

func (s Signature) clone() Signature {
	s.Markers = slices.Clone(s.Markers)
	s.Keywords = slices.Clone(s.Keywords)
	return s
}

// Candidate is a catalog entry that scored above zero during a scan.
type Candidate struct {
	Name       string   `json:"name"`
	Language   string   `json:"language"`
	Confidence float64  `json:"confidence"`
	Markers    int      `json:"matched_markers"`
	Keywords   int      `json:"matched_keywords"`
	Signals    []string `json:"signals"`
}

// Result is the outcome of classifying one directory.
type Result struct {
	Framework  string            `json:"detected_framework"`
	Confidence float64           `json:"confidence"`
	Languages  []string          `json:"languages"`
	Language   string            `json:"language_hint,omitempty"`
	Category   string            `json:"category,omitempty"`
	Signals    []string          `json:"signals"`
	Candidates []Candidate       `json:"candidates,omitempty"`
	Meta       map[string]string `json:"meta,omitempty"`
	FilesSeen  int               `json:"files_scanned"`
	Truncated  bool              `json:"truncated,omitempty"`
}

// IsUnknown reports whether no catalog entry matched.
func (r Result) IsUnknown() bool {
	return r.Framework == "" || r.Framework == Unknown
}

// HasLanguage reports whether lang was observed during the scan.
func (r Result) HasLanguage(lang string) bool {
	return slices.Contains(r.Languages, lang)
}

// MetaValue returns the meta entry for key, or fallback when it is absent or empty.
func (r Result) MetaValue(key, fallback string) string {
	if v, ok := r.Meta[key]; ok && v != "" {
		return v
	}
	return fallback
}

// CandidateConfidence returns the confidence a named entry reached, zero if it did not match.
func (r Result) CandidateConfidence(name string) float64 {
	for _, c := range r.Candidates {
		if c.Name == name {
			return c.Confidence
		}
	}
	return 0
}

// PrimaryLanguage prefers the winning entry's language hint and falls back
// to the first observed language.
func (r Result) PrimaryLanguage() string {
	if r.Language != "" {
		return r.Language
	}
	if len(r.Languages) > 0 {
		return r.Languages[0]
	}
	return Unknown
}

// CategoryOr returns the winning entry's category or fallback.
func (r Result) CategoryOr(fallback string) string {
	if r.Category == "" {
		return fallback
	}
	return r.Category
}

func unknownResult() Result {
	return Result{
		Framework:  Unknown,
		Confidence: 0,
		Languages:  []string{},
		Signals:    []string{},
	}
}
