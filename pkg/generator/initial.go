package generator

import (
	"fmt"

	"aigenio/pkg/analyzer"
)

// InitialTemplates lists the INITIAL.md templates, one per feature type.
var InitialTemplates = []TemplateInfo{
	{Name: FeatureCRUD, Description: "CRUD Operations"},
	{Name: FeatureAPI, Description: "API Development"},
	{Name: FeatureUI, Description: "UI Development"},
	{Name: FeatureAuth, Description: "Authentication & Authorization"},
	{Name: FeatureIntegration, Description: "System Integration"},
	{Name: FeatureOptimization, Description: "Performance Optimization"},
	{Name: FeatureSecurity, Description: "Security Hardening"},
	{Name: FeatureTesting, Description: "Testing & Quality"},
	{Name: FeatureDocumentation, Description: "Documentation"},
	{Name: FeatureGeneric, Description: "General Feature"},
}

// InitialDocument is a rendered INITIAL.md together with what was inferred
// from the feature description.
type InitialDocument struct {
	Document
	Feature Feature  `json:"feature"`
	PRPs    []string `json:"prp_suggestions"`
}

type initialData struct {
	Feature
	Label       string
	Project     string
	ProjectType string
	Framework   string
	Languages   []string
	Generated   string
	PRPs        []string
}

// GenerateInitial renders INITIAL.md for one feature of the analyzed
// project. templateName overrides the template inferred from the
// description.
func (g *Generator) GenerateInitial(a *analyzer.Analysis, description, templateName string) (InitialDocument, error) {
	feature := AnalyzeFeature(description)
	name := feature.Type
	if templateName != "" {
		name = templateName
	}
	label, ok := templateLabel(InitialTemplates, name)
	if !ok {
		return InitialDocument{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	now := g.now()
	data := initialData{
		Feature:     feature,
		Label:       label,
		Project:     a.Name,
		ProjectType: a.Type,
		Framework:   displayFramework(a.Framework),
		Languages:   a.Languages,
		Generated:   now.Format("2006-01-02 15:04"),
		PRPs:        SuggestPRPs(a, name),
	}

	content, err := render(g.initial, name+".md.tmpl", data)
	if err != nil {
		return InitialDocument{}, err
	}
	return InitialDocument{
		Document: Document{
			Content:     content,
			Template:    name,
			Sections:    ExtractSections(content),
			GeneratedAt: now,
		},
		Feature: feature,
		PRPs:    data.PRPs,
	}, nil
}
