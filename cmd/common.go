package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"aigenio/cmd/ui/spinner"
	"aigenio/pkg/analyzer"
	"aigenio/pkg/classifier"
	"aigenio/pkg/config"
	"aigenio/pkg/practices"
	"aigenio/pkg/prompt"
	"aigenio/pkg/util"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func defaultSettings() config.Settings {
	v := viper.New()
	config.SetDefaults(v)
	s, err := config.LoadSettings(v)
	if err != nil {
		panic(err)
	}
	return s
}

// exitWithError prints a styled error to stderr and exits 1.
func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s\n", errorStyle.Render(fmt.Sprintf(format, args...)))
	os.Exit(1)
}

// isInteractive reports whether styled output and prompts may be used.
func isInteractive() bool {
	return !jsonOutput && !skipInteractive && prompt.IsTerminal()
}

// projectPathArg resolves the optional PROJECT_PATH argument.
func projectPathArg(args []string) string {
	p := "."
	if len(args) > 0 {
		p = args[0]
	}
	abs, err := util.ValidateProjectPath(p)
	if err != nil {
		exitWithError("Error: %v", err)
	}
	return abs
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		exitWithError("Error encoding output: %v", err)
	}
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), config.PermGeneratedFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func newClassifier() (*classifier.Classifier, error) {
	opts := []classifier.Option{
		classifier.WithMaxDepth(settings.Classifier.MaxDepth),
		classifier.WithMaxFiles(settings.Classifier.MaxFiles),
		classifier.WithWeights(classifier.Weights{
			Marker:  settings.Classifier.MarkerWeight,
			Keyword: settings.Classifier.KeywordWeight,
		}),
	}
	if settings.Classifier.Catalog != "" {
		catalog, err := classifier.LoadCatalogFile(util.ExpandHome(settings.Classifier.Catalog))
		if err != nil {
			return nil, err
		}
		opts = append(opts, classifier.WithCatalog(catalog))
	}
	return classifier.New(opts...)
}

// analyzeProject runs the full analysis behind a spinner when interactive.
func analyzeProject(path string) (*analyzer.Analysis, error) {
	cl, err := newClassifier()
	if err != nil {
		return nil, err
	}
	return spinner.Run("Analyzing project...", isInteractive(), func() (*analyzer.Analysis, error) {
		return analyzer.New(cl, settings.Classifier.MaxFiles).Analyze(path)
	})
}

func newPracticesService(useMCP bool) (*practices.Service, error) {
	return practices.NewServiceFromSettings(settings.Practices, useMCP)
}

// loadPreferences falls back to defaults when the saved file is unreadable.
func loadPreferences() *config.Preferences {
	prefs, err := config.LoadPreferences()
	if err != nil {
		log.Printf("preferences: %v, using defaults", err)
		return config.DefaultPreferences()
	}
	return prefs
}

// registerProject records a setup in the project registry. Failures are
// logged, never fatal.
func registerProject(a *analyzer.Analysis, score int) {
	_, err := config.UpdateProjects(func(reg *config.ProjectRegistry) error {
		_, err := reg.Upsert(config.ProjectRecord{
			Name:       a.Name,
			Path:       a.Path,
			Type:       a.Type,
			Framework:  a.Framework,
			Confidence: a.Classification.Confidence,
			Languages:  a.Languages,
			Score:      score,
		})
		return err
	})
	if err != nil {
		log.Printf("registry: %v", err)
	}
}

func printList(title string, items []string, style lipgloss.Style, bullet string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n%s\n", labelStyle.Render(title))
	for _, item := range items {
		fmt.Printf("  %s %s\n", style.Render(bullet), item)
	}
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
