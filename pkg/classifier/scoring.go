package classifier

import (
	"fmt"
	"slices"
)

// Weights scale matched markers and matched keywords before normalization.
type Weights struct {
	Marker  float64 `json:"marker" mapstructure:"marker_weight"`
	Keyword float64 `json:"keyword" mapstructure:"keyword_weight"`
}

// DefaultWeights count every marker and keyword once.
var DefaultWeights = Weights{Marker: 1, Keyword: 1}

// Validate rejects negative weights and an all-zero pair.
func (w Weights) Validate() error {
	if w.Marker < 0 || w.Keyword < 0 {
		return fmt.Errorf("weights must be non-negative, got marker=%v keyword=%v", w.Marker, w.Keyword)
	}
	if w.Marker == 0 && w.Keyword == 0 {
		return fmt.Errorf("at least one weight must be positive")
	}
	return nil
}

// confidence normalizes the weighted evidence by the entry's maximum.
func (w Weights) confidence(sig Signature, markers, keywords int) float64 {
	ceiling := w.Marker*float64(len(sig.Markers)) + w.Keyword*float64(len(sig.Keywords))
	if ceiling == 0 {
		return 0
	}
	raw := w.Marker*float64(markers) + w.Keyword*float64(keywords)
	return clamp(raw/ceiling, 0, 1)
}

// clamp constrains a value between lo and hi
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// pickBest returns the index of the highest-confidence candidate. Only a
// strictly greater confidence replaces the current best, so earlier entries
// win ties. It returns -1 when nothing scored.
func pickBest(cands []Candidate) int {
	best := -1
	for i, c := range cands {
		if c.Confidence <= 0 {
			continue
		}
		if best < 0 || c.Confidence > cands[best].Confidence {
			best = i
		}
	}
	return best
}

// rankCandidates drops zero scores and orders the rest by confidence,
// keeping catalog order among equals.
func rankCandidates(cands []Candidate) []Candidate {
	ranked := slices.DeleteFunc(slices.Clone(cands), func(c Candidate) bool {
		return c.Confidence <= 0
	})
	slices.SortStableFunc(ranked, func(a, b Candidate) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		default:
			return 0
		}
	})
	return ranked
}
