package generator

import (
	"fmt"
	"sort"
	"strings"

	"aigenio/pkg/analyzer"
	"aigenio/pkg/classifier"
	"aigenio/pkg/practices"
)

// ClaudeTemplates lists the CLAUDE.md templates in display order.
var ClaudeTemplates = []TemplateInfo{
	{Name: "web", Description: "Web applications with a browser front end"},
	{Name: "api", Description: "HTTP APIs and backend services"},
	{Name: "mobile", Description: "Mobile applications"},
	{Name: "desktop", Description: "Desktop applications"},
	{Name: "library", Description: "Reusable libraries and packages"},
	{Name: "data", Description: "Data science, analytics and machine learning"},
	{Name: "generic", Description: "Any other project"},
}

// claudeTemplateByType maps project types without a template of their own.
var claudeTemplateByType = map[string]string{
	analyzer.TypeAI: "data",
}

// frameworkFamilies groups frameworks that share setup and deployment sections.
var frameworkFamilies = map[string]string{
	"react":   "spa",
	"vue":     "spa",
	"angular": "spa",
	"svelte":  "spa",
	"laravel": "php",
	"symfony": "php",
	"django":  "python",
	"flask":   "python",
	"fastapi": "python",
	"express": "node",
	"nestjs":  "node",
}

type structureEntry struct {
	Path        string
	Description string
}

type claudeData struct {
	Name            string
	Type            string
	Framework       string
	Languages       []string
	Complexity      string
	HasTests        bool
	HasDocs         bool
	Architecture    analyzer.Architecture
	Dependencies    []string
	Generated       string
	Structure       []structureEntry
	Practices       []practices.Practice
	PracticesSource string

	FrameworkSection string
	Setup            string
	Testing          string
	Deployment       string
}

// ClaudeTemplateFor returns the template used for a project type.
func ClaudeTemplateFor(projectType string) string {
	if name, ok := claudeTemplateByType[projectType]; ok {
		return name
	}
	for _, t := range ClaudeTemplates {
		if t.Name == projectType {
			return t.Name
		}
	}
	return "generic"
}

// GenerateClaude renders CLAUDE.md for an analyzed project. templateName
// overrides the template chosen from the project type.
func (g *Generator) GenerateClaude(a *analyzer.Analysis, resp practices.Response, structure map[string]string, templateName string) (Document, error) {
	name := templateName
	if name == "" {
		name = ClaudeTemplateFor(a.Type)
	}
	if g.claude.Lookup(name+".md.tmpl") == nil {
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	now := g.now()
	data := claudeData{
		Name:            a.Name,
		Type:            a.Type,
		Framework:       displayFramework(a.Framework),
		Languages:       a.Languages,
		Complexity:      a.Complexity,
		HasTests:        a.Structure.HasTests,
		HasDocs:         a.Structure.HasDocs,
		Architecture:    a.Architecture,
		Dependencies:    a.Dependencies.Names,
		Generated:       now.Format("2006-01-02"),
		Structure:       sortedStructure(structure),
		Practices:       resp.Practices,
		PracticesSource: string(resp.Source),
	}

	var err error
	if data.FrameworkSection, data.Setup, data.Testing, data.Deployment, err = g.claudeSections(a, data); err != nil {
		return Document{}, err
	}

	content, err := render(g.claude, name+".md.tmpl", data)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Content:     content,
		Template:    name,
		Sections:    ExtractSections(content),
		GeneratedAt: now,
	}, nil
}

func (g *Generator) claudeSections(a *analyzer.Analysis, data claudeData) (framework, setup, testing, deploy string, err error) {
	fw := strings.ToLower(a.Framework)
	family := frameworkFamilies[fw]
	lang := strings.ToLower(a.PrimaryLanguage())

	candidates := func(prefix string) []string {
		var names []string
		for _, key := range []string{fw, family, lang, "default"} {
			if key != "" && key != classifier.Unknown {
				names = append(names, prefix+"."+key)
			}
		}
		return names
	}

	if framework, err = renderFirst(g.claude, data, "framework."+fw); err != nil {
		return
	}
	if setup, err = renderFirst(g.claude, data, candidates("setup")...); err != nil {
		return
	}
	if a.Structure.HasTests {
		if testing, err = renderFirst(g.claude, data, candidates("testing")...); err != nil {
			return
		}
	}
	deploy, err = renderFirst(g.claude, data, candidates("deploy")...)
	return
}

func sortedStructure(structure map[string]string) []structureEntry {
	out := make([]structureEntry, 0, len(structure))
	for p, desc := range structure {
		out = append(out, structureEntry{Path: p, Description: desc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func displayFramework(fw string) string {
	if fw == "" {
		return classifier.Unknown
	}
	return fw
}
