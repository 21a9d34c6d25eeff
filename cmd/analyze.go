package cmd

import (
	"fmt"
	"sort"
	"strings"

	"aigenio/cmd/ui/detection"
	"aigenio/pkg/analyzer"

	"github.com/spf13/cobra"
)

var analyzeExport string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [PROJECT_PATH]",
	Short: "Analyze a project's type, structure and context setup",
	Long: `Runs the classifier and inspects project type, structure, dependencies,
architecture and complexity, then scores any existing context engineering
setup from 0 to 10.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectPath := projectPathArg(args)

		a, err := analyzeProject(projectPath)
		if err != nil {
			exitWithError("Error analyzing project: %v", err)
		}

		if analyzeExport != "" {
			if err := writeJSONFile(analyzeExport, a); err != nil {
				exitWithError("Error: %v", err)
			}
		}

		if !isInteractive() {
			printJSON(a)
			return
		}

		printAnalysis(a)
		if analyzeExport != "" {
			fmt.Printf("\n%s\n", successStyle.Render("✓ Analysis exported to "+analyzeExport))
		}
	},
}

func printAnalysis(a *analyzer.Analysis) {
	fmt.Println(detection.Render(a.Classification))
	fmt.Println()

	fmt.Println(headerStyle.Render("Project Analysis: " + a.Name))
	fmt.Printf("  %s %s\n", labelStyle.Render("Type:        "), valueStyle.Render(a.Type))
	fmt.Printf("  %s %s\n", labelStyle.Render("Complexity:  "), valueStyle.Render(a.Complexity))
	fmt.Printf("  %s %s\n", labelStyle.Render("Files:       "), valueStyle.Render(fmt.Sprintf("%d (depth %d)", a.Structure.FilesCount, a.Structure.Depth)))
	if a.Architecture.Pattern != "" {
		arch := a.Architecture.Pattern
		if len(a.Architecture.Layers) > 0 {
			arch += " (" + strings.Join(a.Architecture.Layers, " → ") + ")"
		}
		fmt.Printf("  %s %s\n", labelStyle.Render("Architecture:"), valueStyle.Render(arch))
	}
	fmt.Printf("  %s %s\n", labelStyle.Render("Tests:       "), valueStyle.Render(yesNo(a.Structure.HasTests)))
	fmt.Printf("  %s %s\n", labelStyle.Render("Docs:        "), valueStyle.Render(yesNo(a.Structure.HasDocs)))
	fmt.Printf("  %s %s\n", labelStyle.Render("Git:         "), valueStyle.Render(yesNo(a.Structure.IsGitRepo)))
	fmt.Printf("  %s %s\n", labelStyle.Render("Dependencies:"), valueStyle.Render(fmt.Sprintf("%d via %s", a.Dependencies.Total, orNone(a.Dependencies.Managers))))

	if verbose {
		categories := make([]string, 0, len(a.Categories))
		for cat := range a.Categories {
			categories = append(categories, cat)
		}
		sort.Strings(categories)
		for _, cat := range categories {
			fmt.Printf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-13s", cat+":")), valueStyle.Render(strings.Join(a.Categories[cat], ", ")))
		}
		printList("Type signals", a.TypeSignals, successStyle, "✓")
	}

	fmt.Printf("\n%s %s\n", labelStyle.Render("Context engineering score:"), scoreStyle(a.CEScore).Render(fmt.Sprintf("%d/10", a.CEScore)))
	printList("Issues", a.Issues, warnStyle, "!")
	printList("Suggestions", a.Suggestions, mutedStyle, "→")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeExport, "export", "", "Also write the analysis as JSON to this file")
}
