package cmd

import (
	"fmt"
	"sort"
	"strings"

	"aigenio/pkg/config"
	"aigenio/pkg/prompt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage AiGENIO configuration",
	Long:  `Show the effective settings and manage encrypted service tokens.`,
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show the effective settings and stored tokens",
	Aliases: []string{"list"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		tokens, err := config.LoadTokens()
		if err != nil {
			exitWithError("Error loading tokens: %v", err)
		}
		services := make([]string, 0, len(tokens.Tokens))
		for service := range tokens.Tokens {
			services = append(services, service)
		}
		sort.Strings(services)

		if jsonOutput {
			printJSON(map[string]any{
				"config_dir": config.GetConfigDir(),
				"settings":   settings,
				"tokens":     services,
			})
			return
		}

		fmt.Println(headerStyle.Render("Settings:"))
		fmt.Printf("%s\n", mutedStyle.Render("  "+config.GetConfigDir()))
		for _, kv := range settingsView() {
			fmt.Printf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-28s", kv[0])), valueStyle.Render(kv[1]))
		}
		fmt.Printf("\n%s\n", headerStyle.Render("Service Tokens:"))
		if len(services) == 0 {
			fmt.Println(mutedStyle.Render("  No tokens configured"))
		}
		for _, service := range services {
			fmt.Printf("  %s %s\n", labelStyle.Render("•"), valueStyle.Render(service))
		}
		fmt.Println()
	},
}

func settingsView() [][2]string {
	orUnset := func(s string) string {
		if s == "" {
			return "(unset)"
		}
		return s
	}
	return [][2]string{
		{"classifier.max_depth", fmt.Sprint(settings.Classifier.MaxDepth)},
		{"classifier.max_files", fmt.Sprint(settings.Classifier.MaxFiles)},
		{"classifier.marker_weight", fmt.Sprint(settings.Classifier.MarkerWeight)},
		{"classifier.keyword_weight", fmt.Sprint(settings.Classifier.KeywordWeight)},
		{"classifier.catalog", orUnset(settings.Classifier.Catalog)},
		{"practices.server_url", orUnset(settings.Practices.ServerURL)},
		{"practices.timeout", settings.Practices.Timeout.String()},
		{"practices.cache_ttl", settings.Practices.CacheTTL.String()},
		{"practices.rate_per_second", fmt.Sprint(settings.Practices.RatePerSecond)},
		{"github.api_url", settings.GitHub.APIURL},
	}
}

var configSetTokenCmd = &cobra.Command{
	Use:   "set-token <service> [token]",
	Short: "Set or update a service token",
	Long: `Set or update an API token. The github token is used by 'backup --create-repo'.

If token is not provided as an argument, you will be prompted to enter it securely.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		service := strings.ToLower(args[0])
		var token string

		if len(args) == 2 {
			token = args[1]
		} else {
			answer, err := prompt.Secret(fmt.Sprintf("Enter token for %s: ", service))
			if err != nil {
				exitWithError("Error reading token: %v", err)
			}
			token = answer.Value
		}

		if strings.TrimSpace(token) == "" {
			exitWithError("Token cannot be empty")
		}

		tokens, err := config.LoadTokens()
		if err != nil {
			exitWithError("Error loading tokens: %v", err)
		}

		tokens.SetToken(service, token)

		if err := tokens.SaveTokens(); err != nil {
			exitWithError("Error saving tokens: %v", err)
		}

		fmt.Printf("%s\n", successStyle.Render(fmt.Sprintf("✓ Token for '%s' saved successfully", service)))
	},
}

var configGetTokenCmd = &cobra.Command{
	Use:   "get-token <service>",
	Short: "Display a service token (masked)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service := strings.ToLower(args[0])

		tokens, err := config.LoadTokens()
		if err != nil {
			exitWithError("Error loading tokens: %v", err)
		}

		token := tokens.GetToken(service)
		if token == "" {
			exitWithError("No token found for service: %s", service)
		}

		fmt.Printf("%s: %s\n", labelStyle.Render(service), valueStyle.Render(config.MaskToken(token)))
	},
}

var configDeleteTokenCmd = &cobra.Command{
	Use:   "delete-token <service>",
	Short: "Remove a service token",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service := strings.ToLower(args[0])

		tokens, err := config.LoadTokens()
		if err != nil {
			exitWithError("Error loading tokens: %v", err)
		}

		if !tokens.HasToken(service) {
			exitWithError("No token found for service: %s", service)
		}

		if isInteractive() {
			answer, err := prompt.Confirm(fmt.Sprintf("Delete token for %s?", service), false)
			if err != nil {
				exitWithError("Error: %v", err)
			}
			if !answer.Or(false) {
				fmt.Println("Cancelled")
				return
			}
		}

		tokens.DeleteToken(service)

		if err := tokens.SaveTokens(); err != nil {
			exitWithError("Error saving tokens: %v", err)
		}

		fmt.Printf("%s\n", successStyle.Render(fmt.Sprintf("✓ Token for '%s' deleted successfully", service)))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetTokenCmd)
	configCmd.AddCommand(configGetTokenCmd)
	configCmd.AddCommand(configDeleteTokenCmd)
}
