package generator

import (
	"slices"
	"testing"

	"aigenio/pkg/analyzer"
)

func TestClassifyFeature(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"Create a form to manage products and delete them", FeatureCRUD},
		{"Add login with user roles and permission checks", FeatureAuth},
		{"Improve page speed with a cache layer", FeatureOptimization},
		{"Write a README guide for new contributors", FeatureDocumentation},
		{"Sync invoices through a webhook", FeatureIntegration},
		{"api test", FeatureAPI},
		{"Build the thing", FeatureGeneric},
		{"", FeatureGeneric},
	}
	for _, tt := range tests {
		if got := ClassifyFeature(tt.description); got != tt.want {
			t.Errorf("ClassifyFeature(%q) = %s, want %s", tt.description, got, tt.want)
		}
	}
}

func TestAnalyzeFeature_Integration(t *testing.T) {
	f := AnalyzeFeature("Integrate Stripe payment and email notification for each order")

	if f.Type != FeatureIntegration {
		t.Errorf("Expected integration, got %s", f.Type)
	}
	if !slices.Equal(f.Entities, []string{"order", "payment"}) && !slices.Equal(f.Entities, []string{"payment", "order"}) {
		t.Errorf("Unexpected entities %v", f.Entities)
	}
	if !slices.Equal(f.Integrations, []string{"email", "notification", "payment", "stripe"}) {
		t.Errorf("Unexpected integrations %v", f.Integrations)
	}
	if f.ComplexityScore != 7 {
		t.Errorf("Expected complexity score 7, got %v", f.ComplexityScore)
	}
	if f.Complexity != ComplexityHigh {
		t.Errorf("Expected high complexity, got %s", f.Complexity)
	}
	if f.EstimatedTime != "4-7 days" {
		t.Errorf("Expected 4-7 days, got %s", f.EstimatedTime)
	}
}

func TestAnalyzeFeature_Requirements(t *testing.T) {
	f := AnalyzeFeature("Users must be able to log in. It is fast. We need audit logs.")

	want := []string{"Users must be able to log in", "We need audit logs"}
	if !slices.Equal(f.Requirements, want) {
		t.Errorf("Requirements = %v, want %v", f.Requirements, want)
	}
}

func TestAnalyzeFeature_ShortIsVeryLow(t *testing.T) {
	f := AnalyzeFeature("Fix typo")
	if f.Complexity != ComplexityVeryLow {
		t.Errorf("Expected very low complexity, got %s (%v)", f.Complexity, f.ComplexityScore)
	}
}

func TestEstimateTime(t *testing.T) {
	tests := []struct {
		feature, complexity, want string
	}{
		{FeatureCRUD, ComplexityMedium, "1-2 days"},
		{FeatureDocumentation, ComplexityVeryLow, "1-2 hours"},
		{FeatureIntegration, ComplexityVeryHigh, "7-10 days"},
		{"unknown", ComplexityHigh, "2-4 days"},
		{FeatureAPI, "bogus", "1-3 days"},
	}
	for _, tt := range tests {
		if got := EstimateTime(tt.feature, tt.complexity); got != tt.want {
			t.Errorf("EstimateTime(%s, %s) = %s, want %s", tt.feature, tt.complexity, got, tt.want)
		}
	}
}

func TestSuggestPRPs(t *testing.T) {
	laravel := &analyzer.Analysis{Framework: "laravel", Architecture: analyzer.Architecture{Pattern: "mvc"}}

	got := SuggestPRPs(laravel, FeatureCRUD)
	if len(got) != MaxPRPs {
		t.Fatalf("Expected %d suggestions, got %v", MaxPRPs, got)
	}
	if got[0] != "Implement CRUD operations with proper validation" {
		t.Errorf("Unexpected first suggestion %q", got[0])
	}
	if got[2] != "Build REST API endpoints with error handling using Laravel" {
		t.Errorf("Expected the API suggestion to name the framework, got %q", got[2])
	}
	if got[4] != "Implement Laravel Eloquent models with relationships" {
		t.Errorf("Expected the framework suggestion last, got %q", got[4])
	}

	react := &analyzer.Analysis{Framework: "react"}
	if ui := SuggestPRPs(react, FeatureUI); ui[1] != "Implement accessible UI patterns with React" {
		t.Errorf("Unexpected UI suggestion %q", ui[1])
	}

	modular := &analyzer.Analysis{Framework: "unknown", Architecture: analyzer.Architecture{Pattern: "modular", HasModules: true}}
	generic := SuggestPRPs(modular, FeatureGeneric)
	if !slices.Equal(generic, []string{"Implement modular architecture with clear boundaries"}) {
		t.Errorf("Unexpected generic suggestions %v", generic)
	}
}
