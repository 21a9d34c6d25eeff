package generator

// TemplateInfo names a template and says what it is for.
type TemplateInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Catalog groups the available templates by the file they produce.
type Catalog struct {
	Claude  []TemplateInfo `json:"claude"`
	Initial []TemplateInfo `json:"initial"`
}

// Templates lists every template.
func Templates() Catalog {
	return Catalog{Claude: ClaudeTemplates, Initial: InitialTemplates}
}

func templateLabel(list []TemplateInfo, name string) (string, bool) {
	for _, t := range list {
		if t.Name == name {
			return t.Description, true
		}
	}
	return "", false
}
