package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"aigenio/pkg/config"
	"aigenio/pkg/state"
	"aigenio/pkg/validator"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	validateBasic  bool
	validateStrict bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [PROJECT_PATH]",
	Short: "Score a project's context engineering setup",
	Long: `Checks CLAUDE.md, INITIAL.md, .claude/examples, PRPs and project metadata
and scores the setup from 0 to 10 with a letter grade. --basic limits the
checks to CLAUDE.md and the context directories.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectPath := projectPathArg(args)

		validate := validator.Validate
		if validateBasic {
			validate = validator.ValidateSetup
		}
		res, err := validate(projectPath)
		if err != nil {
			exitWithError("Error: %v", err)
		}
		recordScore(projectPath, res.Score)

		if !isInteractive() {
			printJSON(res)
		} else {
			printValidation(res)
		}

		if validateStrict && !res.Passed() {
			os.Exit(1)
		}
	},
}

// recordScore stores the latest score in the project metadata and the
// registry when the project is known to either.
func recordScore(projectPath string, score int) {
	if err := state.RecordValidation(projectPath, score); err != nil {
		log.Printf("validate: %v", err)
	}
	_, err := config.UpdateProjects(func(reg *config.ProjectRegistry) error {
		rec, ok := reg.Find(projectPath)
		if !ok {
			return config.ErrProjectNotFound
		}
		rec.Score = score
		reg.Projects[rec.Path] = rec
		return nil
	})
	if err != nil && !errors.Is(err, config.ErrProjectNotFound) {
		log.Printf("validate: %v", err)
	}
}

func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 8:
		return successStyle
	case score >= 5:
		return warnStyle.Bold(true)
	default:
		return errorStyle
	}
}

func scoreBar(score int) string {
	score = max(0, min(10, score))
	return scoreStyle(score).Render(strings.Repeat("█", score)) + mutedStyle.Render(strings.Repeat("░", 10-score))
}

func printValidation(res *validator.Result) {
	fmt.Println(headerStyle.Render("Context Engineering Validation"))
	fmt.Printf("\n  %s %s %s\n", scoreBar(res.Score),
		scoreStyle(res.Score).Render(fmt.Sprintf("%d/10", res.Score)),
		labelStyle.Render(res.Grade))

	if res.Details != nil && verbose {
		for _, part := range []struct {
			name string
			p    validator.Part
		}{
			{"Basic", res.Details.Basic},
			{"Advanced", res.Details.Advanced},
			{"Quality", res.Details.Quality},
		} {
			fmt.Printf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-9s", part.name+":")),
				valueStyle.Render(fmt.Sprintf("%g/%g", part.p.Score, part.p.MaxScore)))
		}
	}

	printList("Errors", res.Errors, errorStyle, "✗")
	printList("Warnings", res.Warnings, warnStyle, "!")
	printList("Suggestions", res.Suggestions, mutedStyle, "→")

	if res.Passed() {
		fmt.Printf("\n%s\n", successStyle.Render("✓ Setup is usable"))
	} else {
		fmt.Printf("\n%s\n", endingMsgStyle.Render("Run 'aigenio setup --force' to regenerate the context files."))
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateBasic, "basic", false, "Only check CLAUDE.md and the context directories")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Exit 1 when the setup does not pass")
}
