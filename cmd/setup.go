package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tui "aigenio/cmd/ui"
	"aigenio/pkg/analyzer"
	"aigenio/pkg/generator"
	"aigenio/pkg/gitutil"
	"aigenio/pkg/memory"
	"aigenio/pkg/practices"
	"aigenio/pkg/prompt"
	"aigenio/pkg/state"
	"aigenio/pkg/validator"

	"github.com/spf13/cobra"
)

type setupOptions struct {
	force    bool
	template string
	feature  string
	noMCP    bool
	backup   bool
}

var setupFlags setupOptions

var setupCmd = &cobra.Command{
	Use:   "setup [PROJECT_PATH]",
	Short: "Write CLAUDE.md, INITIAL.md, examples and PRPs for a project",
	Long: `Analyzes the project, looks up best practices for its framework and writes
the context engineering files:

  CLAUDE.md               project rules for the assistant
  INITIAL.md              a first feature request
  .claude/examples/       reference examples
  PRPs/README.md          suggested product requirement prompts
  .aigenio/project.json   setup metadata

An existing CLAUDE.md is only replaced with --force.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSetup(projectPathArg(args), setupFlags); err != nil {
			exitWithError("Error: %v", err)
		}
	},
}

// setupReport is the JSON output of a setup run.
type setupReport struct {
	Analysis        *analyzer.Analysis     `json:"analysis"`
	PracticesSource practices.Source       `json:"practices_source"`
	Setup           *generator.SetupResult `json:"setup"`
	Validation      *validator.Result      `json:"validation"`
	Backup          *gitutil.BackupResult  `json:"backup,omitempty"`
	NextSteps       []string               `json:"next_steps"`
}

func runSetup(projectPath string, opts setupOptions) error {
	interactive := isInteractive()
	prefs := loadPreferences()

	claudePath := filepath.Join(projectPath, generator.ClaudeFile)
	if _, err := os.Stat(claudePath); err == nil && !opts.force && interactive {
		answer, err := prompt.Confirm("CLAUDE.md already exists. Overwrite it?", false)
		if err != nil {
			return err
		}
		if !answer.Or(false) {
			fmt.Println(mutedStyle.Render("Setup cancelled."))
			return nil
		}
		opts.force = true
	}

	g, err := generator.New()
	if err != nil {
		return err
	}
	svc, err := newPracticesService(prefs.Integrations.UseMCPByDefault && !opts.noMCP)
	if err != nil {
		return err
	}
	defer svc.Close()

	report := &setupReport{}
	var resp practices.Response
	var structure map[string]string
	ctx := context.Background()

	steps := []tui.Step{
		{Name: "Analyzing project", Run: func() error {
			cl, err := newClassifier()
			if err != nil {
				return err
			}
			report.Analysis, err = analyzer.New(cl, settings.Classifier.MaxFiles).Analyze(projectPath)
			return err
		}},
		{Name: "Fetching best practices", Run: func() error {
			a := report.Analysis
			resp = svc.Get(ctx, practices.Query{
				Language:    a.PrimaryLanguage(),
				Framework:   a.Framework,
				ProjectType: a.Type,
			})
			report.PracticesSource = resp.Source
			return nil
		}},
		{Name: "Generating context files", Run: func() error {
			a := report.Analysis
			structure = svc.DirectoryStructure(a.PrimaryLanguage(), a.Framework)
			report.Setup, err = g.Setup(projectPath, a, resp, structure, generator.SetupOptions{
				Force:    opts.force,
				Template: opts.template,
				Feature:  opts.feature,
			})
			return err
		}},
		{Name: "Validating setup", Run: func() error {
			report.Validation, err = validator.Validate(projectPath)
			if err != nil {
				return err
			}
			if err := state.RecordValidation(projectPath, report.Validation.Score); err != nil {
				log.Printf("setup: %v", err)
			}
			registerProject(report.Analysis, report.Validation.Score)
			rememberSetup(report.Analysis, resp, structure, report.Validation.Passed())
			return nil
		}},
	}

	if err := tui.RunSteps(os.Stderr, "Setting up context engineering", interactive, steps); err != nil {
		if errors.Is(err, generator.ErrAlreadyConfigured) {
			return fmt.Errorf("%w; rerun with --force to overwrite", generator.ErrAlreadyConfigured)
		}
		return err
	}
	report.NextSteps = analyzer.NextSteps(report.Analysis, report.Validation.Score)

	if wantsBackup(projectPath, opts, prefs.Integrations.AutoGitBackup, interactive) {
		result, err := runBackup(ctx, projectPath, "AiGENIO setup", backupOptions{})
		if err != nil {
			log.Printf("setup backup: %v", err)
			if interactive {
				fmt.Println(warnStyle.Render("Backup failed: " + err.Error()))
			}
		} else {
			report.Backup = &result
		}
	}

	if !interactive {
		printJSON(report)
		return nil
	}
	printSetupReport(report, prefs.Notifications.ShowNextSteps)
	return nil
}

// rememberSetup records the practices and project shape of a setup. Failures
// are logged, never fatal.
func rememberSetup(a *analyzer.Analysis, resp practices.Response, structure map[string]string, passed bool) {
	err := memory.Default().RecordSetup(memory.Setup{
		ProjectType: a.Type,
		Language:    a.PrimaryLanguage(),
		Framework:   a.Framework,
		Structure:   structure,
		Practices:   resp.Practices,
		Source:      resp.Source,
		Passed:      passed,
	})
	if err != nil {
		log.Printf("memory: %v", err)
	}
}

func wantsBackup(projectPath string, opts setupOptions, autoBackup, interactive bool) bool {
	if opts.backup {
		return true
	}
	if !autoBackup || !interactive || !gitutil.IsGitRepository(projectPath) {
		return false
	}
	answer, err := prompt.Confirm("Commit the generated files to git?", true)
	if err != nil {
		log.Printf("setup: %v", err)
		return false
	}
	return answer.Or(false)
}

func printSetupReport(r *setupReport, showNextSteps bool) {
	fmt.Printf("\n%s\n", successStyle.Render("✓ Context engineering setup complete"))
	fmt.Printf("  %s %s\n", labelStyle.Render("Template: "), valueStyle.Render(r.Setup.Claude.Template))
	fmt.Printf("  %s %s\n", labelStyle.Render("Practices:"), valueStyle.Render(string(r.PracticesSource)))
	fmt.Printf("  %s %s\n", labelStyle.Render("Feature:  "), valueStyle.Render(r.Setup.Initial.Feature.Type))
	fmt.Printf("  %s %s %s\n", labelStyle.Render("Score:    "),
		scoreStyle(r.Validation.Score).Render(fmt.Sprintf("%d/10", r.Validation.Score)),
		mutedStyle.Render("("+r.Validation.Grade+")"))

	files := make([]string, 0, len(r.Setup.Files))
	for _, f := range r.Setup.Files {
		if rel, err := filepath.Rel(r.Analysis.Path, f); err == nil {
			f = rel
		}
		files = append(files, f)
	}
	if verbose {
		printList("Files written", files, successStyle, "✓")
	} else {
		fmt.Printf("  %s %s\n", labelStyle.Render("Files:    "), valueStyle.Render(fmt.Sprintf("%d written", len(files))))
	}

	kept := make([]string, 0, len(r.Setup.Kept))
	for _, f := range r.Setup.Kept {
		if rel, err := filepath.Rel(r.Analysis.Path, f); err == nil {
			f = rel
		}
		kept = append(kept, f)
	}
	printList("Kept existing (use --force to overwrite)", kept, mutedStyle, "•")

	if r.Backup != nil {
		fmt.Printf("  %s %s\n", labelStyle.Render("Backup:   "), valueStyle.Render(describeBackup(*r.Backup)))
	}

	printList("Warnings", r.Validation.Warnings, warnStyle, "!")
	if showNextSteps {
		printList("Next steps", r.NextSteps, mutedStyle, "→")
	}
	fmt.Printf("\n%s\n", endingMsgStyle.Render("Run 'aigenio generate --feature \"...\"' to describe your next feature."))
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite an existing CLAUDE.md")
	setupCmd.Flags().StringVarP(&setupFlags.template, "template", "t", "", "CLAUDE.md template (see 'aigenio templates')")
	setupCmd.Flags().StringVar(&setupFlags.feature, "feature", "", "Feature described in the first INITIAL.md")
	setupCmd.Flags().BoolVar(&setupFlags.noMCP, "no-mcp", false, "Use the built-in practices catalog only")
	setupCmd.Flags().BoolVar(&setupFlags.backup, "backup", false, "Commit (and push) the generated files")
}
