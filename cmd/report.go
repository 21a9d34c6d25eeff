package cmd

import (
	"fmt"
	"time"

	"aigenio/pkg/analyzer"
	"aigenio/pkg/state"
	"aigenio/pkg/validator"

	"github.com/spf13/cobra"
)

var reportOutput string

// projectReport combines analysis, validation and metadata.
type projectReport struct {
	Project         string              `json:"project"`
	GeneratedAt     time.Time           `json:"generated_at"`
	Analysis        *analyzer.Analysis  `json:"analysis"`
	Validation      *validator.Result   `json:"validation"`
	Metadata        *state.ProjectState `json:"metadata,omitempty"`
	Recommendations []string            `json:"recommendations"`
	NextSteps       []string            `json:"next_steps"`
}

var reportCmd = &cobra.Command{
	Use:   "report [PROJECT_PATH]",
	Short: "Produce a JSON report of analysis and validation",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectPath := projectPathArg(args)

		r, err := buildReport(projectPath)
		if err != nil {
			exitWithError("Error: %v", err)
		}

		if reportOutput == "" {
			printJSON(r)
			return
		}
		if err := writeJSONFile(reportOutput, r); err != nil {
			exitWithError("Error: %v", err)
		}
		if isInteractive() {
			fmt.Println(successStyle.Render("✓ Report written to " + reportOutput))
		}
	},
}

func buildReport(projectPath string) (*projectReport, error) {
	a, err := analyzeProject(projectPath)
	if err != nil {
		return nil, err
	}
	v, err := validator.Validate(projectPath)
	if err != nil {
		return nil, err
	}

	r := &projectReport{
		Project:         a.Name,
		GeneratedAt:     time.Now().UTC(),
		Analysis:        a,
		Validation:      v,
		Recommendations: analyzer.Recommendations(a, v.Score),
		NextSteps:       analyzer.NextSteps(a, v.Score),
	}
	if state.Exists(projectPath) {
		if r.Metadata, err = state.LoadState(projectPath); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Write the report to this file instead of stdout")
}
