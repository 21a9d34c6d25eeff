package classifier

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

var runtimeFiles = map[string][]string{
	"javascript": {".nvmrc", ".node-version"},
	"typescript": {".nvmrc", ".node-version"},
	"python":     {".python-version", "runtime.txt"},
	"ruby":       {".ruby-version"},
	"go":         {".go-version"},
}

// detectRuntimeVersion reads the first version file for language.
func detectRuntimeVersion(r *FSReader, language string) string {
	for _, name := range runtimeFiles[language] {
		if !r.Has(name) {
			continue
		}
		content, ok := r.Read(name)
		if !ok {
			continue
		}
		raw := strings.TrimSpace(content)
		raw = strings.TrimPrefix(raw, "python-")
		if raw == "" {
			continue
		}
		return normalizeVersion(raw)
	}
	return ""
}

// normalizeVersion turns "v18", "3.11" or "lts/hydrogen" into a canonical
// form when it parses as semver and leaves it untouched otherwise.
func normalizeVersion(raw string) string {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return raw
	}
	return v.String()
}

// detectMonorepo detects monorepo tools and configuration
func detectMonorepo(r *FSReader) map[string]string {
	result := map[string]string{}

	switch {
	case r.Has("turbo.json"):
		result["monorepo_tool"] = "turborepo"
	case r.Has("nx.json"):
		result["monorepo_tool"] = "nx"
	case r.Has("lerna.json"):
		result["monorepo_tool"] = "lerna"
	case r.Has("pnpm-workspace.yaml"):
		result["monorepo_tool"] = "pnpm-workspaces"
	default:
		if !r.Has("package.json") {
			break
		}
		if content, ok := r.Read("package.json"); ok && strings.Contains(content, `"workspaces"`) {
			result["monorepo_tool"] = "yarn-workspaces"
		}
	}

	if result["monorepo_tool"] != "" {
		result["monorepo"] = "true"
	}
	return result
}
