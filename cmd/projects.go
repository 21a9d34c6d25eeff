package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"aigenio/pkg/config"
	"aigenio/pkg/state"
	"aigenio/pkg/util"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage the registry of set-up projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects that have been set up",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := config.LoadProjects()
		if err != nil {
			exitWithError("Error loading projects: %v", err)
		}
		list := reg.List()

		if jsonOutput {
			printJSON(list)
			return
		}

		fmt.Println(headerStyle.Render("Projects:"))
		if len(list) == 0 {
			fmt.Println(mutedStyle.Render("  No projects set up yet. Run 'aigenio setup' in a project."))
			return
		}
		for _, p := range list {
			fmt.Printf("\n  %s %s\n", labelStyle.Render(p.Name), scoreStyle(p.Score).Render(fmt.Sprintf("%d/10", p.Score)))
			fmt.Printf("    Path:      %s\n", valueStyle.Render(p.Path))
			fmt.Printf("    Framework: %s\n", valueStyle.Render(fmt.Sprintf("%s (%.0f%%)", p.Framework, p.Confidence*100)))
			fmt.Printf("    Type:      %s\n", valueStyle.Render(p.Type))
			fmt.Printf("    Setup:     %s\n", valueStyle.Render(p.LastSetup.Local().Format("2006-01-02 15:04")))
		}
		fmt.Println()
	},
}

var projectsForgetCmd = &cobra.Command{
	Use:   "forget <name|path|id>",
	Short: "Remove a project from the registry",
	Long:  `Removes a project from the registry. Files in the project are left untouched.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, err := config.UpdateProjects(func(reg *config.ProjectRegistry) error {
			if !reg.Forget(args[0]) {
				return config.ErrProjectNotFound
			}
			return nil
		})
		if errors.Is(err, config.ErrProjectNotFound) {
			exitWithError("Project not found: %s", args[0])
		}
		if err != nil {
			exitWithError("Error saving projects: %v", err)
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Forgot project '%s'", args[0])))
	},
}

// scanEntry is one project found by projects scan.
type scanEntry struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
	Registered bool   `json:"registered"`
}

var projectsScanCmd = &cobra.Command{
	Use:   "scan [DIR...]",
	Short: "Find projects under the given or preferred directories",
	Long: `Looks for project roots (manifests such as package.json, go.mod or
composer.json) under DIR, or under directories.default_project_paths
from the preferences when no DIR is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		prefs := loadPreferences()
		roots := args
		if len(roots) == 0 {
			roots = prefs.Directories.DefaultProjectPaths
		}
		for i, r := range roots {
			roots[i] = util.ExpandHome(r)
		}
		depth := 1
		if prefs.Directories.ScanSubdirectories {
			depth = 2
		}

		reg, err := config.LoadProjects()
		if err != nil {
			exitWithError("Error loading projects: %v", err)
		}

		found := util.DiscoverProjects(roots, depth)
		entries := make([]scanEntry, 0, len(found))
		for _, p := range found {
			_, registered := reg.Find(p)
			entries = append(entries, scanEntry{
				Path:       p,
				Name:       filepath.Base(p),
				Configured: state.Exists(p),
				Registered: registered,
			})
		}

		if jsonOutput {
			printJSON(entries)
			return
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Found %d projects", len(entries))))
		for _, e := range entries {
			mark := mutedStyle.Render("○")
			if e.Configured {
				mark = successStyle.Render("✓")
			}
			fmt.Printf("  %s %s %s\n", mark, labelStyle.Render(e.Name), mutedStyle.Render(e.Path))
		}
		fmt.Printf("\n%s\n", tipMsgStyle.Render("Tip: ✓ marks projects with an aigenio setup"))
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsForgetCmd)
	projectsCmd.AddCommand(projectsScanCmd)
}
