package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"aigenio/pkg/config"
	"aigenio/pkg/github"
	"aigenio/pkg/gitutil"
	"aigenio/pkg/prompt"
	"aigenio/pkg/state"
	"aigenio/pkg/util"

	"github.com/spf13/cobra"
)

type backupOptions struct {
	createRepo bool
	private    bool
	init       bool
}

var (
	backupMessage string
	backupFlags   backupOptions
)

var backupCmd = &cobra.Command{
	Use:   "backup [PROJECT_PATH]",
	Short: "Commit and push the current session",
	Long: `Stages every change, commits it with a timestamped session message and
pushes to origin when one is configured. With --create-repo a GitHub
repository is created (or reused) and set as origin first; this needs a
token from 'aigenio config set-token github' or GITHUB_TOKEN.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectPath := projectPathArg(args)
		opts := backupFlags

		if !gitutil.IsGitRepository(projectPath) && !opts.init && isInteractive() {
			answer, err := prompt.Confirm("This is not a git repository. Initialize one?", true)
			if err != nil {
				exitWithError("Error: %v", err)
			}
			opts.init = answer.Or(false)
		}

		result, err := runBackup(cmd.Context(), projectPath, backupMessage, opts)
		if err != nil {
			exitWithError("Error: %v", err)
		}

		if !isInteractive() {
			printJSON(result)
			return
		}
		switch result.Outcome {
		case gitutil.NoChanges:
			fmt.Println(mutedStyle.Render("Nothing to back up, the work tree is clean."))
		default:
			fmt.Println(successStyle.Render("✓ " + describeBackup(result)))
			if result.PushError != "" {
				fmt.Println(warnStyle.Render("Push failed: " + result.PushError))
			}
		}
	},
}

func newGitClient() *gitutil.Client {
	return gitutil.NewClient(
		gitutil.WithTimeout(config.DefaultGitTimeout),
		gitutil.WithPushRetry(config.DefaultPushMaxRetries, config.DefaultPushRetryDelay),
	)
}

// runBackup commits the session in projectPath, creating the repository
// and the GitHub remote first when asked to.
func runBackup(ctx context.Context, projectPath, message string, opts backupOptions) (gitutil.BackupResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	git := newGitClient()

	if !gitutil.IsGitRepository(projectPath) {
		if !opts.init && !opts.createRepo {
			return gitutil.BackupResult{}, fmt.Errorf("%w: %s (use --init to create one)", gitutil.ErrNotRepository, projectPath)
		}
		if err := git.Init(ctx, projectPath); err != nil {
			return gitutil.BackupResult{}, err
		}
	}

	if opts.createRepo && !gitutil.HasRemote(projectPath) {
		repo, err := ensureGitHubRepository(ctx, projectPath, opts.private)
		if err != nil {
			return gitutil.BackupResult{}, err
		}
		if err := git.SetRemote(ctx, projectPath, repo.CloneURL); err != nil {
			return gitutil.BackupResult{}, err
		}
	}

	result, err := git.BackupSession(ctx, projectPath, message)
	if err != nil {
		return gitutil.BackupResult{}, err
	}
	if result.Commit != "" {
		if err := state.RecordBackup(projectPath, result.Commit); err != nil {
			log.Printf("backup: %v", err)
		}
	}
	return result, nil
}

func ensureGitHubRepository(ctx context.Context, projectPath string, private bool) (github.Repository, error) {
	tokens, err := config.LoadTokens()
	if err != nil {
		return github.Repository{}, err
	}
	client, err := github.NewClient(tokens.GetGitHubToken(), settings.GitHub.APIURL)
	if err != nil {
		if errors.Is(err, github.ErrUnauthenticated) {
			return github.Repository{}, fmt.Errorf("%w: run 'aigenio config set-token github' first", err)
		}
		return github.Repository{}, err
	}

	name := github.SuggestRepositoryName(util.ProjectName(projectPath))
	repo, created, err := client.EnsureRepository(ctx, name, "Created by AiGENIO", private)
	if err != nil {
		return github.Repository{}, err
	}
	log.Printf("backup: repository %s created=%v", repo.FullName, created)
	return repo, nil
}

func describeBackup(r gitutil.BackupResult) string {
	switch r.Outcome {
	case gitutil.Pushed:
		return fmt.Sprintf("pushed %s (%d changed, %d added)", r.Commit, r.FilesChanged, r.FilesAdded)
	case gitutil.Committed:
		return fmt.Sprintf("committed %s (%d changed, %d added)", r.Commit, r.FilesChanged, r.FilesAdded)
	default:
		return "no changes"
	}
}

func init() {
	rootCmd.AddCommand(backupCmd)

	backupCmd.Flags().StringVarP(&backupMessage, "message", "m", "", "Description added to the commit message")
	backupCmd.Flags().BoolVar(&backupFlags.createRepo, "create-repo", false, "Create the GitHub repository and set it as origin")
	backupCmd.Flags().BoolVar(&backupFlags.private, "private", true, "Make a created repository private")
	backupCmd.Flags().BoolVar(&backupFlags.init, "init", false, "Initialize a git repository when there is none")
}
