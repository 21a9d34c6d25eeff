package generator

import (
	"slices"
	"strings"

	"aigenio/pkg/analyzer"
)

// MaxPRPs caps the number of suggestions.
const MaxPRPs = 5

var basePRPs = map[string][]string{
	FeatureCRUD: {
		"Implement CRUD operations with proper validation",
		"Create database migrations and models",
		"Build REST API endpoints with error handling",
		"Develop responsive UI forms and tables",
	},
	FeatureAPI: {
		"Design RESTful API architecture",
		"Implement authentication and authorization",
		"Create comprehensive API documentation",
		"Build automated API testing suite",
	},
	FeatureUI: {
		"Create responsive component library",
		"Implement accessible UI patterns",
		"Build interactive user interfaces",
		"Optimize frontend performance",
	},
	FeatureAuth: {
		"Implement secure authentication system",
		"Build role-based access control",
		"Create user management interface",
		"Implement security audit logging",
	},
	FeatureIntegration: {
		"Design integration architecture",
		"Implement third-party API clients",
		"Build data synchronization system",
		"Create webhook handling system",
	},
	FeatureOptimization: {
		"Analyze and optimize database queries",
		"Implement caching strategies",
		"Optimize frontend bundle size",
		"Improve application performance",
	},
	FeatureSecurity: {
		"Conduct security vulnerability assessment",
		"Implement security hardening measures",
		"Build security monitoring system",
		"Create security incident response plan",
	},
	FeatureTesting: {
		"Build comprehensive test suite",
		"Implement automated testing pipeline",
		"Create performance testing framework",
		"Build quality assurance process",
	},
	FeatureDocumentation: {
		"Write a getting started guide",
		"Document the public API with examples",
		"Keep a changelog for every release",
	},
}

var frameworkPRPs = map[string]map[string]string{
	"laravel": {
		FeatureCRUD:    "Implement Laravel Eloquent models with relationships",
		FeatureAPI:     "Build Laravel API resources with validation",
		FeatureAuth:    "Implement Laravel Sanctum authentication",
		FeatureTesting: "Create Laravel Feature and Unit tests",
	},
	"react": {
		FeatureUI:      "Build React components with hooks",
		FeatureCRUD:    "Implement React forms with validation",
		FeatureTesting: "Create React Testing Library tests",
	},
	"vue": {
		FeatureUI:   "Build Vue 3 components with Composition API",
		FeatureCRUD: "Implement Vue forms with Pinia state management",
	},
	"django": {
		FeatureCRUD: "Implement Django models and admin interface",
		FeatureAPI:  "Build Django REST Framework API",
		FeatureAuth: "Implement Django authentication system",
	},
	"express": {
		FeatureAPI:  "Build Express.js middleware and routes",
		FeatureAuth: "Implement Express authentication with JWT",
	},
	"next": {
		FeatureUI:  "Build Next.js pages with SSR/SSG",
		FeatureAPI: "Implement Next.js API routes",
	},
}

var (
	apiFrameworks = []string{"laravel", "django", "express"}
	uiFrameworks  = []string{"react", "vue", "angular"}
)

// SuggestPRPs proposes prompts for implementing a feature of the given type
// in the analyzed project.
func SuggestPRPs(a *analyzer.Analysis, featureType string) []string {
	fw := strings.ToLower(a.Framework)

	var all []string
	for _, prp := range basePRPs[featureType] {
		switch {
		case strings.Contains(prp, "API") && slices.Contains(apiFrameworks, fw):
			prp += " using " + titleCase(fw)
		case strings.Contains(prp, "UI") && slices.Contains(uiFrameworks, fw):
			prp += " with " + titleCase(fw)
		}
		all = append(all, prp)
	}

	if prp, ok := frameworkPRPs[fw][featureType]; ok {
		all = append(all, prp)
	}

	switch a.Architecture.Pattern {
	case "mvc":
		if featureType == FeatureCRUD {
			all = append(all, "Implement MVC pattern with proper separation of concerns")
		}
	case "layered":
		all = append(all, "Follow layered architecture with service and repository layers")
	case "microservices":
		if featureType == FeatureAPI {
			all = append(all, "Design microservice with proper API contracts")
		}
	}
	if a.Architecture.HasModules {
		all = append(all, "Implement modular architecture with clear boundaries")
	}

	out := make([]string, 0, MaxPRPs)
	for _, prp := range all {
		if len(out) == MaxPRPs {
			break
		}
		if !slices.Contains(out, prp) {
			out = append(out, prp)
		}
	}
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
