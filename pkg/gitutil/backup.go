package gitutil

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Outcome is what a backup achieved.
type Outcome string

const (
	// NoChanges means the work tree was clean and nothing was recorded.
	NoChanges Outcome = "no_changes"
	// Committed means a commit was created but not pushed.
	Committed Outcome = "committed"
	// Pushed means a commit was created and pushed to origin.
	Pushed Outcome = "pushed"
)

// BackupResult reports a BackupSession run. PushError is set when the
// commit succeeded but the push did not.
type BackupResult struct {
	Outcome      Outcome `json:"outcome"`
	Message      string  `json:"message,omitempty"`
	Commit       string  `json:"commit,omitempty"`
	FilesChanged int     `json:"files_changed"`
	FilesAdded   int     `json:"files_added"`
	PushError    string  `json:"push_error,omitempty"`
}

// SessionMessage formats the commit message for a backup.
func SessionMessage(description string, now time.Time) string {
	stamp := now.Format("2006-01-02 15:04:05")
	if description == "" {
		return fmt.Sprintf("Context Engineering - Auto-backup %s", stamp)
	}
	return fmt.Sprintf("Context Engineering - %s - %s", stamp, description)
}

// BackupSession commits every change in dir and pushes when origin is
// configured. A failed push still leaves the result Committed.
func (c *Client) BackupSession(ctx context.Context, dir, description string) (BackupResult, error) {
	st, err := c.Status(ctx, dir)
	if err != nil {
		return BackupResult{}, err
	}
	if !st.Dirty() {
		return BackupResult{Outcome: NoChanges}, nil
	}

	result := BackupResult{
		Message:      SessionMessage(description, time.Now()),
		FilesChanged: len(st.Changed),
		FilesAdded:   len(st.Untracked),
	}
	if err := c.Commit(ctx, dir, result.Message); err != nil {
		if errors.Is(err, ErrNoChanges) {
			return BackupResult{Outcome: NoChanges}, nil
		}
		return BackupResult{}, err
	}
	result.Outcome = Committed
	if hash, err := c.HeadCommit(ctx, dir); err == nil {
		result.Commit = hash
	}

	if !st.HasRemote {
		return result, nil
	}
	if err := c.Push(ctx, dir); err != nil {
		result.PushError = err.Error()
		return result, nil
	}
	result.Outcome = Pushed
	return result, nil
}
