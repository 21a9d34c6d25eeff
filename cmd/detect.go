package cmd

import (
	"fmt"

	"aigenio/cmd/ui/detection"
	"aigenio/cmd/ui/spinner"
	"aigenio/pkg/classifier"

	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect [PROJECT_PATH]",
	Short: "Classify a project's framework and languages",
	Long: Logo + `
Scans PROJECT_PATH and reports the most likely framework, its confidence
and the languages observed. Interactive terminals are offered a setup run.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runDetect,
}

func runDetect(cmd *cobra.Command, args []string) {
	projectPath := projectPathArg(args)

	cl, err := newClassifier()
	if err != nil {
		exitWithError("Error: %v", err)
	}

	if !isInteractive() {
		res, err := cl.Classify(projectPath)
		if err != nil {
			exitWithError("Error: %v", err)
		}
		printJSON(res)
		return
	}

	fmt.Printf("%s\n", logoStyle.Render(Logo))

	res, err := spinner.Run("Detecting framework...", true, func() (classifier.Result, error) {
		return cl.Classify(projectPath)
	})
	if err != nil {
		exitWithError("Error: %v", err)
	}

	wantsSetup, err := detection.ShowDetectionResults(res, "Would you like to set up context engineering for this project?")
	if err != nil {
		exitWithError("Error showing detection results: %v", err)
	}
	if !wantsSetup {
		fmt.Println(mutedStyle.Render("Skipping setup."))
		fmt.Printf("\n%s\n", tipMsgStyle.Render("Tip: Use --json flag for CI/automation mode"))
		return
	}

	if err := runSetup(projectPath, setupOptions{}); err != nil {
		exitWithError("Error: %v", err)
	}
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
