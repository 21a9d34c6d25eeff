package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"aigenio/pkg/config"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	jsonOutput      bool
	skipInteractive bool
	verbose         bool
	debug           bool
	cfgFile         string

	settings = defaultSettings()

	logoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6")).Bold(true)
	tipMsgStyle    = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("190")).Italic(true)
	endingMsgStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("170")).Bold(true)
)

const Logo = `
 █████╗ ██╗ ██████╗ ███████╗███╗   ██╗██╗ ██████╗
██╔══██╗██║██╔════╝ ██╔════╝████╗  ██║██║██╔═══██╗
███████║██║██║  ███╗█████╗  ██╔██╗ ██║██║██║   ██║
██╔══██║██║██║   ██║██╔══╝  ██║╚██╗██║██║██║   ██║
██║  ██║██║╚██████╔╝███████╗██║ ╚████║██║╚██████╔╝
╚═╝  ╚═╝╚═╝ ╚═════╝ ╚══════╝╚═╝  ╚═══╝╚═╝ ╚═════╝
`

var rootCmd = &cobra.Command{
	Use:   "aigenio [PROJECT_PATH]",
	Short: "Context engineering setup for AI-assisted development",
	Long: Logo + heredoc.Doc(`

		AiGENIO classifies a project, then writes the context an AI coding
		assistant needs: CLAUDE.md, INITIAL.md, examples and PRPs.

		Run without a subcommand to classify PROJECT_PATH (default: current directory).
	`),
	Version:           config.Version,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	Run:               runDetect,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}

// initConfig wires logging and loads settings before any command runs.
func initConfig(cmd *cobra.Command, args []string) error {
	if debug {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.Ltime | log.Lmicroseconds)
	} else {
		log.SetOutput(io.Discard)
	}

	v, err := config.NewViper(cfgFile)
	if err != nil {
		return err
	}
	settings, err = config.LoadSettings(v)
	if err != nil {
		return err
	}
	log.Printf("settings: %+v", settings)
	return nil
}

func init() {
	rootCmd.SetVersionTemplate("aigenio version {{.Version}}\n")

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON (disables interactive mode)")
	rootCmd.PersistentFlags().BoolVar(&skipInteractive, "no-interactive", false, "Skip interactive prompts (for CI/automation)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show more detail in results")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Print diagnostic logs to stderr")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.aigenio/config.yaml)")
}
