package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"

	"aigenio/pkg/memory"
	"aigenio/pkg/practices"

	"github.com/spf13/cobra"
)

var (
	practicesLanguage   string
	practicesCategories []string
	practicesType       string
	practicesLimit      int
	practicesNoMCP      bool
	practicesClearCache bool
)

var practicesCmd = &cobra.Command{
	Use:   "practices [FRAMEWORK]",
	Short: "Show best practices for a framework or language",
	Long: `Looks up best practices from the MCP server configured under
practices.server_url, falling back to the built-in catalog.`,
	Example: `  aigenio practices laravel
  aigenio practices --language python --category testing,security
  aigenio practices --clear-cache django
  aigenio practices stats
  aigenio practices export memory.json`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		q := practices.Query{
			Language:    practicesLanguage,
			ProjectType: practicesType,
			Categories:  practicesCategories,
		}
		if len(args) > 0 {
			q.Framework = args[0]
		}

		prefs := loadPreferences()
		svc, err := newPracticesService(prefs.Integrations.UseMCPByDefault && !practicesNoMCP)
		if err != nil {
			exitWithError("Error: %v", err)
		}
		defer svc.Close()

		if practicesClearCache {
			if err := svc.ClearCache(); err != nil {
				exitWithError("Error clearing the cache: %v", err)
			}
			if isInteractive() {
				fmt.Println(successStyle.Render("✓ Best practices cache cleared"))
			}
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		resp := svc.Get(ctx, q)
		if practicesLimit > 0 && len(resp.Practices) > practicesLimit {
			resp.Practices = resp.Practices[:practicesLimit]
		}

		if !isInteractive() {
			printJSON(resp)
			return
		}

		fmt.Printf("%s %s\n", headerStyle.Render("Best practices"), mutedStyle.Render("(source: "+string(resp.Source)+")"))
		if len(resp.Practices) == 0 {
			fmt.Println(mutedStyle.Render("  No practices found for this query"))
			return
		}
		for _, p := range resp.Practices {
			fmt.Printf("\n  %s %s\n", labelStyle.Render(p.Title), mutedStyle.Render("["+p.Category+"]"))
			if p.Description != "" {
				fmt.Printf("    %s\n", p.Description)
			}
			if verbose {
				for _, item := range p.Items {
					fmt.Printf("    %s %s\n", successStyle.Render("•"), item)
				}
			}
		}
		if !verbose {
			fmt.Printf("\n%s\n", tipMsgStyle.Render("Tip: use -v to see every item"))
		}
	},
}

var practicesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show which practices and project patterns have been used",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		data, err := memory.Default().Load()
		if err != nil {
			exitWithError("Error loading memory: %v", err)
		}
		stats := data.Statistics(cachedResponses())

		if !isInteractive() {
			printJSON(stats)
			return
		}

		fmt.Println(headerStyle.Render("Best practices memory"))
		fmt.Printf("  %s %s\n", labelStyle.Render("Practices:"), valueStyle.Render(fmt.Sprintf("%d (%d uses)", stats.Practices.Total, stats.Practices.Uses)))
		fmt.Printf("  %s %s\n", labelStyle.Render("Patterns: "), valueStyle.Render(fmt.Sprintf("%d", stats.Patterns.Total)))
		fmt.Printf("  %s %s\n", labelStyle.Render("Cached:   "), valueStyle.Render(fmt.Sprintf("%d server answers", stats.CachedResponses)))
		printCounts("By category", stats.Practices.ByCategory)
		printCounts("By language", stats.Practices.ByLanguage)
		printCounts("Patterns by project type", stats.Patterns.ByType)

		used := data.MostUsed(5)
		if len(used) > 0 {
			fmt.Printf("\n%s\n", labelStyle.Render("Most used"))
			for _, p := range used {
				fmt.Printf("  %s %s %s\n", successStyle.Render("•"), p.Title, mutedStyle.Render(fmt.Sprintf("×%d", p.UsageCount)))
			}
		}
	},
}

var practicesExportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Export the practices memory as JSON",
	Long:  `Writes remembered practices, project patterns and statistics as JSON to FILE, or to stdout.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := memory.Default()
		if len(args) == 0 || args[0] == "-" {
			if err := store.WriteExport(os.Stdout, cachedResponses()); err != nil {
				exitWithError("Error: %v", err)
			}
			return
		}
		if err := exportMemory(store, args[0]); err != nil {
			exitWithError("Error: %v", err)
		}
		fmt.Println(successStyle.Render("✓ Memory exported to " + args[0]))
	},
}

func exportMemory(store *memory.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := store.WriteExport(f, cachedResponses()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// cachedResponses counts the server answers still valid in the cache file.
func cachedResponses() int {
	svc, err := newPracticesService(false)
	if err != nil {
		log.Printf("practices: %v", err)
		return 0
	}
	defer svc.Close()
	return svc.CachedEntries()
}

func printCounts(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("\n%s\n", labelStyle.Render(title))
	for _, k := range keys {
		fmt.Printf("  %-16s %s\n", k, valueStyle.Render(fmt.Sprintf("%d", counts[k])))
	}
}

func init() {
	rootCmd.AddCommand(practicesCmd)
	practicesCmd.AddCommand(practicesStatsCmd)
	practicesCmd.AddCommand(practicesExportCmd)

	practicesCmd.Flags().StringVarP(&practicesLanguage, "language", "l", "", "Language, e.g. python")
	practicesCmd.Flags().StringSliceVarP(&practicesCategories, "category", "c", nil, "Categories to include, e.g. architecture,testing,security")
	practicesCmd.Flags().StringVar(&practicesType, "project-type", "", "Project type, e.g. web or api")
	practicesCmd.Flags().IntVar(&practicesLimit, "limit", 0, "Show at most this many practices")
	practicesCmd.Flags().BoolVar(&practicesNoMCP, "no-mcp", false, "Use the built-in catalog only")
	practicesCmd.Flags().BoolVar(&practicesClearCache, "clear-cache", false, "Forget cached server answers before the lookup")
}
