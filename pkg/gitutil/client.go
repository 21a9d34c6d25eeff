package gitutil

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"aigenio/pkg/config"

	"github.com/sethvargo/go-retry"
)

// RunFunc executes git with args inside dir and returns combined output.
type RunFunc func(ctx context.Context, dir string, args ...string) (string, error)

// Client runs git subcommands against project directories.
type Client struct {
	run         RunFunc
	timeout     time.Duration
	pushRetries uint64
	pushDelay   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithRunner replaces the git executable, mostly for tests.
func WithRunner(run RunFunc) Option {
	return func(c *Client) { c.run = run }
}

// WithPushRetry sets how often and how far apart pushes are retried.
func WithPushRetry(retries int, delay time.Duration) Option {
	return func(c *Client) {
		if retries >= 0 {
			c.pushRetries = uint64(retries)
		}
		if delay > 0 {
			c.pushDelay = delay
		}
	}
}

// WithTimeout bounds each git invocation.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		run:         execGit,
		timeout:     config.DefaultGitTimeout,
		pushRetries: config.DefaultPushMaxRetries,
		pushDelay:   config.DefaultPushRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func execGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return out.String(), fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(out.String()))
	}
	return out.String(), nil
}

func (c *Client) git(ctx context.Context, dir string, args ...string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	log.Printf("git -C %s %s", dir, strings.Join(args, " "))
	return c.run(ctx, dir, args...)
}

// Status summarizes the work tree of a repository.
type Status struct {
	Branch     string   `json:"branch"`
	Changed    []string `json:"changed"`
	Untracked  []string `json:"untracked"`
	HasRemote  bool     `json:"has_remote"`
	HasCommits bool     `json:"has_commits"`
}

// Dirty reports whether anything would be committed.
func (s Status) Dirty() bool {
	return len(s.Changed) > 0 || len(s.Untracked) > 0
}

// Status reads the porcelain status of dir.
func (c *Client) Status(ctx context.Context, dir string) (Status, error) {
	if !IsGitRepository(dir) {
		return Status{}, fmt.Errorf("%w: %s", ErrNotRepository, dir)
	}

	out, err := c.git(ctx, dir, "status", "--porcelain")
	if err != nil {
		return Status{}, err
	}

	st := parsePorcelain(out)
	st.HasRemote = HasRemote(dir)
	if _, err := c.git(ctx, dir, "rev-parse", "--verify", "--quiet", "HEAD"); err == nil {
		st.HasCommits = true
	}
	st.Branch, err = c.CurrentBranch(ctx, dir)
	if err != nil {
		return Status{}, err
	}
	return st, nil
}

func parsePorcelain(out string) Status {
	st := Status{Changed: []string{}, Untracked: []string{}}
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		code, path := line[:2], strings.TrimSpace(line[3:])
		if _, after, ok := strings.Cut(path, " -> "); ok {
			path = after
		}
		if code == "??" {
			st.Untracked = append(st.Untracked, path)
		} else {
			st.Changed = append(st.Changed, path)
		}
	}
	return st
}

// CurrentBranch returns the checked-out branch, defaulting to main for a
// repository without commits.
func (c *Client) CurrentBranch(ctx context.Context, dir string) (string, error) {
	out, err := c.git(ctx, dir, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	if branch := strings.TrimSpace(out); branch != "" {
		return branch, nil
	}
	return "main", nil
}

// HeadCommit returns the abbreviated hash of HEAD.
func (c *Client) HeadCommit(ctx context.Context, dir string) (string, error) {
	out, err := c.git(ctx, dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Init creates a repository on branch main and writes a .gitignore
// suited to the project when none exists.
func (c *Client) Init(ctx context.Context, dir string) error {
	if IsGitRepository(dir) {
		return nil
	}
	if _, err := c.git(ctx, dir, "init"); err != nil {
		return fmt.Errorf("failed to init repository: %w", err)
	}
	if _, err := c.git(ctx, dir, "checkout", "-b", "main"); err != nil {
		return fmt.Errorf("failed to create main branch: %w", err)
	}
	if _, err := WriteGitignore(dir); err != nil {
		return err
	}
	return nil
}

// SetRemote points origin at remoteURL, adding it when missing.
func (c *Client) SetRemote(ctx context.Context, dir, remoteURL string) error {
	verb := "add"
	if HasRemote(dir) {
		verb = "set-url"
	}
	if _, err := c.git(ctx, dir, "remote", verb, RemoteName, remoteURL); err != nil {
		return fmt.Errorf("failed to configure remote: %w", err)
	}
	return nil
}

// Commit stages everything and commits it. It returns ErrNoChanges for a
// clean work tree.
func (c *Client) Commit(ctx context.Context, dir, message string) error {
	st, err := c.Status(ctx, dir)
	if err != nil {
		return err
	}
	if !st.Dirty() {
		return ErrNoChanges
	}
	if _, err := c.git(ctx, dir, "add", "-A"); err != nil {
		return fmt.Errorf("failed to add files: %w", err)
	}
	if _, err := c.git(ctx, dir, "commit", "-m", message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Push pushes the current branch to origin, setting upstream. Network
// failures are retried; authentication failures are not.
func (c *Client) Push(ctx context.Context, dir string) error {
	if !HasRemote(dir) {
		return ErrNoRemote
	}
	branch, err := c.CurrentBranch(ctx, dir)
	if err != nil {
		return err
	}

	attempt := 0
	backoff := retry.WithMaxRetries(c.pushRetries, retry.NewConstant(c.pushDelay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		out, err := c.git(ctx, dir, "push", "--set-upstream", RemoteName, branch)
		if err == nil {
			return nil
		}
		if isAuthFailure(out) || isAuthFailure(err.Error()) {
			return err
		}
		log.Printf("push attempt %d failed: %v", attempt, err)
		return retry.RetryableError(err)
	})
	if err != nil {
		return fmt.Errorf("failed to push to %s: %w", RemoteName, err)
	}
	return nil
}

var authFailureMarkers = []string{
	"authentication failed",
	"permission denied",
	"could not read username",
	"repository not found",
}

func isAuthFailure(out string) bool {
	out = strings.ToLower(out)
	for _, marker := range authFailureMarkers {
		if strings.Contains(out, marker) {
			return true
		}
	}
	return false
}
