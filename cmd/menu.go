package cmd

import (
	"fmt"

	"aigenio/pkg/prompt"

	"github.com/spf13/cobra"
)

var menuChoices = []prompt.Choice{
	{Label: "Analyze project", Value: "analyze", Description: "Framework, type, structure and context score"},
	{Label: "Set up context engineering", Value: "setup", Description: "Write CLAUDE.md, INITIAL.md, examples and PRPs"},
	{Label: "Generate INITIAL.md", Value: "generate", Description: "Describe the next feature"},
	{Label: "Validate setup", Value: "validate", Description: "Score the existing context files"},
	{Label: "Best practices", Value: "practices", Description: "Practices for the project's framework"},
	{Label: "Git backup", Value: "backup", Description: "Commit and push the session"},
	{Label: "Projects", Value: "projects", Description: "Projects set up so far"},
	{Label: "Preferences", Value: "prefs", Description: "Edit your preferences"},
	{Label: "Exit", Value: "exit"},
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive main menu",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !isInteractive() {
			exitWithError("Error: the menu needs an interactive terminal")
		}

		prefs := loadPreferences()
		fmt.Printf("%s\n", logoStyle.Render(Logo))
		if prefs.Interface.ShowWelcomeMessage {
			fmt.Printf("%s\n\n", endingMsgStyle.Render("Welcome, "+prefs.DisplayName()+"!"))
		}

		for {
			choice, err := prompt.Select("What would you like to do?", menuChoices)
			if err != nil {
				exitWithError("Error: %v", err)
			}
			action := choice.Or("exit")
			if action == "exit" {
				fmt.Println(mutedStyle.Render("Bye!"))
				return
			}
			runMenuAction(action)
			fmt.Println()
		}
	},
}

func runMenuAction(action string) {
	switch action {
	case "projects":
		projectsListCmd.Run(projectsListCmd, nil)
		return
	case "prefs":
		prefsEditCmd.Run(prefsEditCmd, nil)
		return
	}

	path, err := prompt.Text("Project path", prompt.TextOptions{Default: "."})
	if err != nil {
		exitWithError("Error: %v", err)
	}
	if path.Cancelled() {
		return
	}
	args := []string{path.Value}

	switch action {
	case "analyze":
		analyzeCmd.Run(analyzeCmd, args)
	case "setup":
		if err := runSetup(projectPathArg(args), setupOptions{}); err != nil {
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
		}
	case "generate":
		generateCmd.Run(generateCmd, args)
	case "validate":
		validateCmd.Run(validateCmd, args)
	case "practices":
		a, err := analyzeProject(projectPathArg(args))
		if err != nil {
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
			return
		}
		practicesLanguage = a.PrimaryLanguage()
		var fw []string
		if !a.Classification.IsUnknown() {
			fw = []string{a.Framework}
		}
		practicesCmd.Run(practicesCmd, fw)
	case "backup":
		backupCmd.Run(backupCmd, args)
	}
}

func init() {
	rootCmd.AddCommand(menuCmd)
}
