package gitutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeGit answers git invocations from a table keyed by the joined args.
type fakeGit struct {
	responses map[string]fakeResponse
	calls     []string
}

type fakeResponse struct {
	out string
	err error
}

func (f *fakeGit) run(_ context.Context, _ string, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if r, ok := f.responses[key]; ok {
		return r.out, r.err
	}
	return "", nil
}

func (f *fakeGit) count(key string) int {
	n := 0
	for _, c := range f.calls {
		if c == key {
			n++
		}
	}
	return n
}

func newFakeClient(f *fakeGit) *Client {
	return NewClient(WithRunner(f.run), WithPushRetry(2, time.Millisecond))
}

func TestParsePorcelain(t *testing.T) {
	out := " M CLAUDE.md\nA  INITIAL.md\nR  old.md -> PRPs/new.md\n?? examples/\n\n"
	st := parsePorcelain(out)

	if len(st.Changed) != 3 {
		t.Fatalf("expected 3 changed files, got %v", st.Changed)
	}
	if st.Changed[2] != "PRPs/new.md" {
		t.Errorf("expected rename target, got %s", st.Changed[2])
	}
	if len(st.Untracked) != 1 || st.Untracked[0] != "examples/" {
		t.Errorf("unexpected untracked files %v", st.Untracked)
	}
	if !st.Dirty() {
		t.Error("expected status to be dirty")
	}
	if parsePorcelain("").Dirty() {
		t.Error("expected empty status to be clean")
	}
}

func TestBackupSession_NoChanges(t *testing.T) {
	dir := makeRepo(t, configWithOrigin)
	f := &fakeGit{responses: map[string]fakeResponse{
		"branch --show-current": {out: "main\n"},
	}}

	res, err := newFakeClient(f).BackupSession(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("BackupSession() error = %v", err)
	}
	if res.Outcome != NoChanges {
		t.Errorf("expected NoChanges, got %s", res.Outcome)
	}
	if f.count("add -A") != 0 {
		t.Error("expected nothing to be staged")
	}
}

func TestBackupSession_Pushed(t *testing.T) {
	dir := makeRepo(t, configWithOrigin)
	f := &fakeGit{responses: map[string]fakeResponse{
		"status --porcelain":    {out: " M CLAUDE.md\n?? INITIAL.md\n"},
		"branch --show-current": {out: "main\n"},
	}}

	res, err := newFakeClient(f).BackupSession(context.Background(), dir, "added auth")
	if err != nil {
		t.Fatalf("BackupSession() error = %v", err)
	}
	if res.Outcome != Pushed {
		t.Errorf("expected Pushed, got %s", res.Outcome)
	}
	if res.FilesChanged != 1 || res.FilesAdded != 1 {
		t.Errorf("unexpected counts %d/%d", res.FilesChanged, res.FilesAdded)
	}
	if !strings.HasSuffix(res.Message, " - added auth") {
		t.Errorf("unexpected message %q", res.Message)
	}
	if f.count("commit -m "+res.Message) != 1 {
		t.Errorf("expected one commit, calls: %v", f.calls)
	}
	if f.count("push --set-upstream origin main") != 1 {
		t.Errorf("expected one push, calls: %v", f.calls)
	}
}

func TestBackupSession_CommittedWithoutRemote(t *testing.T) {
	dir := makeRepo(t, "[core]\n\tbare = false\n")
	f := &fakeGit{responses: map[string]fakeResponse{
		"status --porcelain": {out: "?? CLAUDE.md\n"},
	}}

	res, err := newFakeClient(f).BackupSession(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("BackupSession() error = %v", err)
	}
	if res.Outcome != Committed {
		t.Errorf("expected Committed, got %s", res.Outcome)
	}
	for _, c := range f.calls {
		if strings.HasPrefix(c, "push") {
			t.Fatalf("expected no push without a remote, got %s", c)
		}
	}
}

func TestBackupSession_NotRepository(t *testing.T) {
	f := &fakeGit{}
	_, err := newFakeClient(f).BackupSession(context.Background(), t.TempDir(), "")
	if !errors.Is(err, ErrNotRepository) {
		t.Errorf("expected ErrNotRepository, got %v", err)
	}
}

func TestPush_RetriesTransientFailures(t *testing.T) {
	dir := makeRepo(t, configWithOrigin)
	f := &fakeGit{responses: map[string]fakeResponse{
		"branch --show-current":           {out: "main\n"},
		"push --set-upstream origin main": {out: "fatal: unable to access: Could not resolve host", err: errors.New("exit status 128")},
	}}

	err := newFakeClient(f).Push(context.Background(), dir)
	if err == nil {
		t.Fatal("expected push to fail")
	}
	if got := f.count("push --set-upstream origin main"); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestPush_AuthFailureNotRetried(t *testing.T) {
	dir := makeRepo(t, configWithOrigin)
	f := &fakeGit{responses: map[string]fakeResponse{
		"branch --show-current":           {out: "main\n"},
		"push --set-upstream origin main": {out: "remote: Permission denied to ada.", err: errors.New("exit status 128")},
	}}

	if err := newFakeClient(f).Push(context.Background(), dir); err == nil {
		t.Fatal("expected push to fail")
	}
	if got := f.count("push --set-upstream origin main"); got != 1 {
		t.Errorf("expected a single attempt, got %d", got)
	}
}

func TestBackupSession_PushFailureKeepsCommit(t *testing.T) {
	dir := makeRepo(t, configWithOrigin)
	f := &fakeGit{responses: map[string]fakeResponse{
		"status --porcelain":              {out: " M CLAUDE.md\n"},
		"branch --show-current":           {out: "main\n"},
		"push --set-upstream origin main": {out: "Authentication failed", err: errors.New("exit status 128")},
	}}

	res, err := newFakeClient(f).BackupSession(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("BackupSession() error = %v", err)
	}
	if res.Outcome != Committed {
		t.Errorf("expected Committed, got %s", res.Outcome)
	}
	if res.PushError == "" {
		t.Error("expected push error to be reported")
	}
}

func TestSetRemote(t *testing.T) {
	withOrigin := makeRepo(t, configWithOrigin)
	bare := makeRepo(t, "[core]\n\tbare = false\n")
	f := &fakeGit{}
	c := newFakeClient(f)

	if err := c.SetRemote(context.Background(), withOrigin, "https://github.com/ada/x.git"); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRemote(context.Background(), bare, "https://github.com/ada/x.git"); err != nil {
		t.Fatal(err)
	}
	if f.count("remote set-url origin https://github.com/ada/x.git") != 1 {
		t.Errorf("expected set-url for existing origin, calls: %v", f.calls)
	}
	if f.count("remote add origin https://github.com/ada/x.git") != 1 {
		t.Errorf("expected add for missing origin, calls: %v", f.calls)
	}
}

func TestInit_WritesGitignore(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	f := &fakeGit{}

	if err := newFakeClient(f).Init(context.Background(), dir); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if f.count("init") != 1 || f.count("checkout -b main") != 1 {
		t.Errorf("unexpected calls %v", f.calls)
	}
	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		t.Fatalf("expected .gitignore: %v", err)
	}
	if !strings.Contains(string(data), "node_modules/") {
		t.Error("expected node section in .gitignore")
	}
}
