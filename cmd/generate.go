package cmd

import (
	"errors"
	"fmt"
	"strings"

	"aigenio/pkg/generator"
	"aigenio/pkg/prompt"

	"github.com/spf13/cobra"
)

var (
	generateFeature  string
	generateTemplate string
	generateForce    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [PROJECT_PATH]",
	Short: "Write INITIAL.md for a feature",
	Long: `Infers the feature type (crud, api, ui, auth, integration, optimization,
security, testing, documentation) from the description, estimates its
complexity and writes INITIAL.md with suggested PRPs. --template forces a
feature template. An existing INITIAL.md is only replaced with --force or
after confirming.`,
	Example: `  aigenio generate --feature "Add product CRUD with image upload"
  aigenio generate ./shop --feature "Login with GitHub" --template auth`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectPath := projectPathArg(args)

		feature := strings.TrimSpace(generateFeature)
		if feature == "" && isInteractive() {
			answer, err := prompt.Text("Describe the feature", prompt.TextOptions{
				Placeholder: "Add user registration with email confirmation",
				Required:    true,
			})
			if err != nil {
				exitWithError("Error: %v", err)
			}
			if answer.Cancelled() {
				fmt.Println(mutedStyle.Render("Cancelled."))
				return
			}
			feature = answer.Value
		}
		if feature == "" {
			exitWithError("Error: --feature is required")
		}

		a, err := analyzeProject(projectPath)
		if err != nil {
			exitWithError("Error analyzing project: %v", err)
		}

		g, err := generator.New()
		if err != nil {
			exitWithError("Error: %v", err)
		}
		doc, path, err := g.WriteInitial(projectPath, a, feature, generateTemplate, generateForce)
		if errors.Is(err, generator.ErrInitialExists) && isInteractive() {
			answer, perr := prompt.Confirm("INITIAL.md already exists. Overwrite it?", false)
			if perr != nil {
				exitWithError("Error: %v", perr)
			}
			if !answer.Or(false) {
				fmt.Println(mutedStyle.Render("Kept the existing INITIAL.md."))
				return
			}
			doc, path, err = g.WriteInitial(projectPath, a, feature, generateTemplate, true)
		}
		if err != nil {
			exitWithError("Error: %v", err)
		}

		if !isInteractive() {
			printJSON(struct {
				Path string `json:"path"`
				generator.InitialDocument
			}{path, doc})
			return
		}

		fmt.Printf("%s\n", successStyle.Render("✓ INITIAL.md written to "+path))
		fmt.Printf("  %s %s\n", labelStyle.Render("Template:  "), valueStyle.Render(doc.Template))
		fmt.Printf("  %s %s\n", labelStyle.Render("Complexity:"), valueStyle.Render(strings.ReplaceAll(doc.Feature.Complexity, "_", " ")))
		fmt.Printf("  %s %s\n", labelStyle.Render("Estimate:  "), valueStyle.Render(doc.Feature.EstimatedTime))
		if verbose {
			printList("Entities", doc.Feature.Entities, mutedStyle, "•")
			printList("Integrations", doc.Feature.Integrations, mutedStyle, "•")
			printList("Requirements", doc.Feature.Requirements, mutedStyle, "•")
		}
		printList("Suggested PRPs", doc.PRPs, mutedStyle, "→")
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateFeature, "feature", "", "Feature description")
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "INITIAL.md template (see 'aigenio templates')")
	generateCmd.Flags().BoolVarP(&generateForce, "force", "f", false, "Overwrite an existing INITIAL.md")
}
