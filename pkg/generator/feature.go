package generator

import (
	"strings"
	"unicode"
)

// Feature types
const (
	FeatureCRUD          = "crud"
	FeatureAPI           = "api"
	FeatureUI            = "ui"
	FeatureAuth          = "auth"
	FeatureIntegration   = "integration"
	FeatureOptimization  = "optimization"
	FeatureSecurity      = "security"
	FeatureTesting       = "testing"
	FeatureDocumentation = "documentation"
	FeatureGeneric       = "generic"
)

// Complexity levels of a feature, lowest first.
const (
	ComplexityVeryLow  = "very_low"
	ComplexityLow      = "low"
	ComplexityMedium   = "medium"
	ComplexityHigh     = "high"
	ComplexityVeryHigh = "very_high"
)

type featureKeywords struct {
	feature  string
	keywords []string
}

// featureTable is consulted in order; the first type wins a tie.
var featureTable = []featureKeywords{
	{FeatureCRUD, []string{"create", "read", "update", "delete", "crud", "manage", "table", "form"}},
	{FeatureAPI, []string{"api", "endpoint", "rest", "graphql", "service", "microservice", "integration"}},
	{FeatureUI, []string{"ui", "interface", "component", "page", "design", "layout", "frontend", "view"}},
	{FeatureAuth, []string{"auth", "login", "register", "user", "permission", "role", "security", "session"}},
	{FeatureIntegration, []string{"integrate", "connect", "sync", "import", "export", "webhook", "third-party"}},
	{FeatureOptimization, []string{"optimize", "optimise", "performance", "speed", "cache", "faster", "improve"}},
	{FeatureSecurity, []string{"security", "secure", "protect", "encrypt", "vulnerability", "ssl", "https"}},
	{FeatureTesting, []string{"test", "testing", "unit", "integration", "coverage", "quality"}},
	{FeatureDocumentation, []string{"doc", "document", "readme", "guide", "tutorial", "help"}},
}

var (
	entityWords = []string{
		"user", "admin", "product", "order", "customer", "payment", "article", "post",
		"category", "tag", "comment", "file", "image", "video", "document", "report", "dashboard",
	}
	actionWords = []string{
		"create", "add", "insert", "new", "read", "view", "show", "display", "list",
		"update", "edit", "modify", "change", "delete", "remove", "cancel", "search",
		"filter", "sort", "upload", "download", "export", "import", "send", "receive",
		"process", "validate",
	}
	componentWords = []string{
		"form", "table", "modal", "button", "menu", "navbar", "sidebar", "footer", "header",
		"card", "list", "grid", "chart", "graph", "calendar", "datepicker", "dropdown",
	}
	integrationWords = []string{
		"email", "sms", "notification", "payment", "stripe", "paypal", "social", "facebook",
		"google", "twitter", "api", "rest", "database", "redis", "cache", "queue", "webhook",
	}
	requirementWords = []string{
		"should", "must", "required", "need", "necessary", "important", "essential", "mandatory",
	}
	complexWords = []string{
		"integration", "security", "authentication", "authorization", "real-time", "sync",
		"async", "microservice", "api", "complex", "advanced", "multiple", "system",
	}
)

// estimates holds the time estimate per feature type, indexed by complexity level.
var estimates = map[string][5]string{
	FeatureCRUD:          {"2-4 hours", "4-8 hours", "1-2 days", "2-3 days", "3-5 days"},
	FeatureAPI:           {"3-6 hours", "6-12 hours", "1-3 days", "3-5 days", "5-7 days"},
	FeatureUI:            {"2-4 hours", "4-8 hours", "1-2 days", "2-4 days", "4-6 days"},
	FeatureAuth:          {"4-8 hours", "8-16 hours", "2-3 days", "3-5 days", "5-8 days"},
	FeatureIntegration:   {"4-8 hours", "8-16 hours", "2-4 days", "4-7 days", "7-10 days"},
	FeatureOptimization:  {"2-4 hours", "4-8 hours", "1-2 days", "2-3 days", "3-5 days"},
	FeatureSecurity:      {"4-8 hours", "8-16 hours", "2-3 days", "3-5 days", "5-8 days"},
	FeatureTesting:       {"2-4 hours", "4-8 hours", "1-2 days", "2-3 days", "3-5 days"},
	FeatureDocumentation: {"1-2 hours", "2-4 hours", "4-8 hours", "1-2 days", "2-3 days"},
	FeatureGeneric:       {"2-4 hours", "4-8 hours", "1-2 days", "2-4 days", "4-6 days"},
}

var complexityLevels = []string{ComplexityVeryLow, ComplexityLow, ComplexityMedium, ComplexityHigh, ComplexityVeryHigh}

// Feature is what a free-text feature description reveals.
type Feature struct {
	Description     string   `json:"description"`
	Type            string   `json:"feature_type"`
	Complexity      string   `json:"complexity"`
	ComplexityScore float64  `json:"complexity_score"`
	EstimatedTime   string   `json:"estimated_time"`
	Entities        []string `json:"entities"`
	Actions         []string `json:"actions"`
	Components      []string `json:"components"`
	Integrations    []string `json:"integrations"`
	Requirements    []string `json:"requirements"`
}

// AnalyzeFeature classifies a feature description and estimates its effort.
func AnalyzeFeature(description string) Feature {
	description = strings.TrimSpace(description)
	words := tokenize(description)

	f := Feature{
		Description:  description,
		Type:         ClassifyFeature(description),
		Entities:     matchWords(words, entityWords),
		Actions:      matchWords(words, actionWords),
		Components:   matchWords(words, componentWords),
		Integrations: matchWords(words, integrationWords),
		Requirements: extractRequirements(description),
	}
	f.ComplexityScore = complexityScore(description, words, f)
	f.Complexity = complexityLevel(f.ComplexityScore)
	f.EstimatedTime = EstimateTime(f.Type, f.Complexity)
	return f
}

// ClassifyFeature returns the feature type whose keywords appear most often
// in description, FeatureGeneric when none appear.
func ClassifyFeature(description string) string {
	words := tokenize(description)
	best, bestScore := FeatureGeneric, 0
	for _, row := range featureTable {
		if score := len(matchWords(words, row.keywords)); score > bestScore {
			best, bestScore = row.feature, score
		}
	}
	return best
}

// EstimateTime returns the time estimate for a feature type and complexity.
func EstimateTime(featureType, complexity string) string {
	row, ok := estimates[featureType]
	if !ok {
		row = estimates[FeatureGeneric]
	}
	for i, level := range complexityLevels {
		if level == complexity {
			return row[i]
		}
	}
	return row[2]
}

func complexityScore(description string, words []string, f Feature) float64 {
	score := 0.0
	switch n := len(description); {
	case n > 500:
		score += 2
	case n > 200:
		score++
	}
	score += float64(len(f.Entities)) * 0.5
	score += float64(len(f.Actions)) * 0.3
	score += float64(len(f.Integrations)) * 1.5
	score += float64(len(matchWords(words, complexWords)))
	return score
}

func complexityLevel(score float64) string {
	switch {
	case score >= 8:
		return ComplexityVeryHigh
	case score >= 6:
		return ComplexityHigh
	case score >= 4:
		return ComplexityMedium
	case score >= 2:
		return ComplexityLow
	default:
		return ComplexityVeryLow
	}
}

// tokenize lower-cases description and splits it into words. Hyphens stay
// inside words so "real-time" and "third-party" survive.
func tokenize(description string) []string {
	return strings.FieldsFunc(strings.ToLower(description), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}

// matchWords returns the keywords that start at least one word, in keyword
// order. Prefix matching lets "user" match "users" and "doc" match "docs".
func matchWords(words, keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		for _, w := range words {
			if strings.HasPrefix(w, kw) {
				out = append(out, kw)
				break
			}
		}
	}
	return out
}

func extractRequirements(description string) []string {
	var out []string
	for _, sentence := range strings.FieldsFunc(description, func(r rune) bool {
		return r == '.' || r == '\n'
	}) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if len(matchWords(tokenize(sentence), requirementWords)) > 0 {
			out = append(out, sentence)
		}
	}
	return out
}
