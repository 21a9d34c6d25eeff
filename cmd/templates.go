package cmd

import (
	"fmt"

	"aigenio/pkg/generator"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List CLAUDE.md and INITIAL.md templates",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		catalog := generator.Templates()
		if !isInteractive() {
			printJSON(catalog)
			return
		}

		printTemplates("CLAUDE.md templates (setup --template)", catalog.Claude)
		fmt.Println()
		printTemplates("INITIAL.md templates (generate --template)", catalog.Initial)
	},
}

func printTemplates(title string, list []generator.TemplateInfo) {
	fmt.Println(headerStyle.Render(title))
	for _, t := range list {
		fmt.Printf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-14s", t.Name)), mutedStyle.Render(t.Description))
	}
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
