package cmd

import (
	"errors"
	"fmt"

	"aigenio/pkg/config"
	"aigenio/pkg/prompt"

	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show and change user preferences",
	Long: `Preferences live in ~/.aigenio/preferences.json. Keys use dotted names,
for example integrations.auto_git_backup or programming.favorite_languages.`,
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every preference",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		prefs := loadPreferences()
		if jsonOutput {
			printJSON(prefs)
			return
		}

		fmt.Printf("%s %s\n", headerStyle.Render("Preferences for"), valueStyle.Render(prefs.DisplayName()))
		fmt.Printf("%s\n\n", mutedStyle.Render("  "+config.GetPreferencesPath()))
		for _, key := range config.PreferenceKeys() {
			value, _ := prefs.Get(key)
			if value == "" {
				value = mutedStyle.Render("(unset)")
			}
			fmt.Printf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-36s", key)), valueStyle.Render(value))
		}
	},
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one preference",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		value, err := loadPreferences().Get(args[0])
		if err != nil {
			exitPrefsError(err)
		}
		fmt.Println(value)
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one preference",
	Example: `  aigenio prefs set user_info.name "Ada"
  aigenio prefs set programming.favorite_languages python,go
  aigenio prefs set integrations.use_mcp_by_default false`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		prefs, err := config.UpdatePreferences(func(p *config.Preferences) error {
			return p.Set(args[0], args[1])
		})
		if err != nil {
			exitPrefsError(err)
		}
		value, _ := prefs.Get(args[0])
		fmt.Printf("%s\n", successStyle.Render(fmt.Sprintf("✓ %s = %s", args[0], value)))
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default preferences",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if isInteractive() {
			answer, err := prompt.Confirm("Reset every preference to its default?", false)
			if err != nil {
				exitWithError("Error: %v", err)
			}
			if !answer.Or(false) {
				fmt.Println("Cancelled")
				return
			}
		}
		if _, err := config.ResetPreferences(); err != nil {
			exitWithError("Error resetting preferences: %v", err)
		}
		fmt.Println(successStyle.Render("✓ Preferences reset"))
	},
}

var prefsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Walk through the main preferences interactively",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !isInteractive() {
			exitWithError("Error: prefs edit needs an interactive terminal; use 'prefs set' instead")
		}
		prefs := loadPreferences()
		saved, err := editPreferences(prefs)
		if err != nil {
			exitWithError("Error: %v", err)
		}
		if !saved {
			fmt.Println(mutedStyle.Render("No changes saved."))
			return
		}
		if _, err := config.UpdatePreferences(func(p *config.Preferences) error {
			applyEdited(p, prefs)
			return nil
		}); err != nil {
			exitWithError("Error saving preferences: %v", err)
		}
		fmt.Println(successStyle.Render("✓ Preferences saved for " + prefs.DisplayName()))
	},
}

var languageChoices = []prompt.Choice{
	{Label: "Python", Value: "python"},
	{Label: "JavaScript", Value: "javascript"},
	{Label: "TypeScript", Value: "typescript"},
	{Label: "PHP", Value: "php"},
	{Label: "Go", Value: "go"},
	{Label: "Ruby", Value: "ruby"},
	{Label: "Java", Value: "java"},
	{Label: "C#", Value: "csharp"},
	{Label: "Rust", Value: "rust"},
	{Label: "Dart", Value: "dart"},
}

var codingStyleChoices = []prompt.Choice{
	{Label: "Pragmatic", Value: "pragmatic", Description: "Working code first, refactor when it pays off"},
	{Label: "Strict", Value: "strict", Description: "Types, linters and tests on everything"},
	{Label: "Minimal", Value: "minimal", Description: "As little code and as few dependencies as possible"},
}

// editPreferences asks for the main preferences in order. It reports false
// when the user cancels a prompt; prefs is then left partially edited and
// must not be saved.
func editPreferences(prefs *config.Preferences) (bool, error) {
	text := func(title string, value *string) (bool, error) {
		answer, err := prompt.Text(title, prompt.TextOptions{Default: *value})
		if err != nil || answer.Cancelled() {
			return false, err
		}
		*value = answer.Value
		return true, nil
	}

	for _, field := range []struct {
		title string
		value *string
	}{
		{"Your name", &prefs.UserInfo.Name},
		{"Email", &prefs.UserInfo.Email},
		{"GitHub username", &prefs.UserInfo.GitHubUsername},
	} {
		if ok, err := text(field.title, field.value); !ok {
			return false, err
		}
	}

	langs, err := prompt.MultiSelect("Favorite languages", languageChoices, prefs.Programming.FavoriteLanguages)
	if err != nil || langs.Cancelled() {
		return false, err
	}
	prefs.Programming.FavoriteLanguages = langs.Value

	style, err := prompt.Select("Coding style", codingStyleChoices)
	if err != nil || style.Cancelled() {
		return false, err
	}
	prefs.Programming.CodingStyle = style.Value

	for _, field := range []struct {
		question string
		value    *bool
	}{
		{"Commit generated files to git automatically?", &prefs.Integrations.AutoGitBackup},
		{"Look up best practices on the MCP server?", &prefs.Integrations.UseMCPByDefault},
		{"Show next steps after a setup?", &prefs.Notifications.ShowNextSteps},
	} {
		answer, err := prompt.Confirm(field.question, *field.value)
		if err != nil || answer.Cancelled() {
			return false, err
		}
		*field.value = answer.Value
	}
	return true, nil
}

// applyEdited copies the fields editPreferences asks for, leaving anything
// changed elsewhere since the wizard started.
func applyEdited(dst, src *config.Preferences) {
	dst.UserInfo = src.UserInfo
	dst.Programming.FavoriteLanguages = src.Programming.FavoriteLanguages
	dst.Programming.CodingStyle = src.Programming.CodingStyle
	dst.Integrations.AutoGitBackup = src.Integrations.AutoGitBackup
	dst.Integrations.UseMCPByDefault = src.Integrations.UseMCPByDefault
	dst.Notifications.ShowNextSteps = src.Notifications.ShowNextSteps
}

func exitPrefsError(err error) {
	if errors.Is(err, config.ErrUnknownPreference) {
		exitWithError("Error: %v\nRun 'aigenio prefs show' to list the keys", err)
	}
	exitWithError("Error: %v", err)
}

func init() {
	rootCmd.AddCommand(prefsCmd)

	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsResetCmd)
	prefsCmd.AddCommand(prefsEditCmd)
}
