package practices

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCaller struct {
	mock.Mock
}

func (m *mockCaller) CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := m.Called(ctx, request)
	res, _ := args.Get(0).(*mcp.CallToolResult)
	return res, args.Error(1)
}

type countingRemote struct {
	calls     int
	practices []Practice
	err       error
}

func (r *countingRemote) Fetch(context.Context, Query) ([]Practice, error) {
	r.calls++
	return r.practices, r.err
}

func TestFallback_LaravelIncludesGeneral(t *testing.T) {
	fb, err := NewFallback()
	require.NoError(t, err)

	got := fb.Lookup(Query{Language: "PHP", Framework: "Laravel"})
	ids := map[string]bool{}
	for _, p := range got {
		ids[p.ID] = true
	}
	assert.True(t, ids["laravel_security"])
	assert.True(t, ids["laravel_mvc_structure"])
	assert.True(t, ids["git_workflow"])
	assert.False(t, ids["react_component_patterns"])
	assert.False(t, ids["symfony_services"])

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Confidence, got[i].Confidence)
	}
	assert.Equal(t, "laravel_security", got[0].ID)
}

func TestFallback_CategoryFilter(t *testing.T) {
	fb, err := NewFallback()
	require.NoError(t, err)

	got := fb.Lookup(Query{Language: "javascript", Framework: "react", Categories: []string{"Performance"}})
	require.Len(t, got, 1)
	assert.Equal(t, "react_performance", got[0].ID)
}

func TestFallback_DirectoryStructure(t *testing.T) {
	fb, err := NewFallback()
	require.NoError(t, err)

	assert.Contains(t, fb.DirectoryStructure("php", "laravel"), "routes/")
	assert.Contains(t, fb.DirectoryStructure("go", "unknown"), "cmd/")
	assert.Contains(t, fb.DirectoryStructure("cobol", ""), "src/")
}

func TestParseFallback_Empty(t *testing.T) {
	_, err := parseFallback([]byte("practices: []\n"))
	assert.Error(t, err)
}

func TestQuery_KeyIgnoresCaseAndOrder(t *testing.T) {
	a := Query{Language: "PHP", Framework: " laravel", Categories: []string{"security", "architecture"}}
	b := Query{Language: "php", Framework: "Laravel", Categories: []string{"Architecture", "security"}}
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "php best practices laravel patterns architecture security", a.Text())
	assert.Equal(t, "general best practices", Query{}.Text())
}

func TestParsePractices(t *testing.T) {
	wrapped := `{"practices":[{"id":"a","title":"A","category":"security","confidence":0.5}]}`
	got, err := parsePractices(wrapped)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Title)

	bare := `[{"id":"b","title":"B"}]`
	got, err = parsePractices(bare)
	require.NoError(t, err)
	assert.Equal(t, "b", got[0].ID)

	_, err = parsePractices("not json")
	assert.Error(t, err)
	_, err = parsePractices(`{"items":[]}`)
	assert.Error(t, err)
}

func TestMCPRemote_Fetch(t *testing.T) {
	caller := &mockCaller{}
	caller.On("CallTool", mock.Anything, mock.MatchedBy(func(r mcp.CallToolRequest) bool {
		args, ok := r.Params.Arguments.(map[string]any)
		return ok && r.Params.Name == ToolName && args["framework"] == "django"
	})).Return(mcp.NewToolResultText(`{"practices":[{"id":"x","title":"Use migrations","category":"architecture","confidence":0.7}]}`), nil)

	got, err := NewMCPRemoteWithCaller(caller).Fetch(context.Background(), Query{Language: "python", Framework: "Django"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Use migrations", got[0].Title)
	caller.AssertExpectations(t)
}

func TestMCPRemote_ToolError(t *testing.T) {
	caller := &mockCaller{}
	caller.On("CallTool", mock.Anything, mock.Anything).Return(mcp.NewToolResultError("boom"), nil)

	_, err := NewMCPRemoteWithCaller(caller).Fetch(context.Background(), Query{})
	assert.ErrorContains(t, err, "boom")
}

func TestService_RemoteThenCache(t *testing.T) {
	remote := &countingRemote{practices: []Practice{
		{ID: "low", Title: "Low", Category: "architecture", Confidence: 0.2},
		{ID: "high", Title: "High", Category: "architecture", Confidence: 0.9},
		{ID: "untitled", Category: "architecture"},
	}}
	svc, err := NewService(WithRemote(remote), WithRateLimit(1000))
	require.NoError(t, err)

	q := Query{Language: "go"}
	first := svc.Get(context.Background(), q)
	assert.Equal(t, SourceMCP, first.Source)
	require.Len(t, first.Practices, 2)
	assert.Equal(t, "High", first.Practices[0].Title)

	second := svc.Get(context.Background(), Query{Language: "Go"})
	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, first.Practices, second.Practices)
	assert.Equal(t, 1, remote.calls)

	require.NoError(t, svc.ClearCache())
	svc.Get(context.Background(), q)
	assert.Equal(t, 2, remote.calls)
}

func TestService_FallsBackOnRemoteError(t *testing.T) {
	remote := &countingRemote{err: errors.New("connection refused")}
	svc, err := NewService(WithRemote(remote), WithRateLimit(1000))
	require.NoError(t, err)

	resp := svc.Get(context.Background(), Query{Language: "php", Framework: "laravel"})
	assert.Equal(t, SourceFallback, resp.Source)
	assert.NotEmpty(t, resp.Practices)

	svc.Get(context.Background(), Query{Language: "php", Framework: "laravel"})
	assert.Equal(t, 2, remote.calls, "fallback answers are not cached")
}

func TestService_RemoteTimeout(t *testing.T) {
	slow := &blockingRemote{}
	svc, err := NewService(WithRemote(slow), WithTimeout(20*time.Millisecond), WithRateLimit(1000))
	require.NoError(t, err)

	resp := svc.Get(context.Background(), Query{Language: "python"})
	assert.Equal(t, SourceFallback, resp.Source)
}

type blockingRemote struct{}

func (blockingRemote) Fetch(ctx context.Context, _ Query) ([]Practice, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestService_NoRemote(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)

	resp := svc.Get(context.Background(), Query{})
	assert.Equal(t, SourceFallback, resp.Source)
	for _, p := range resp.Practices {
		assert.Empty(t, p.Language, "only general practices match an empty query")
	}
	assert.Len(t, resp.Titles(2), 2)
	assert.NoError(t, svc.Close())
}

func TestService_CacheFileSharedBetweenRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "practices_cache.json")
	remote := &countingRemote{practices: []Practice{
		{ID: "migrations", Title: "Use migrations", Category: "architecture", Confidence: 0.8},
	}}
	q := Query{Language: "python", Framework: "django"}

	first, err := NewService(WithRemote(remote), WithRateLimit(1000), WithCacheFile(path))
	require.NoError(t, err)
	assert.Equal(t, SourceMCP, first.Get(context.Background(), q).Source)

	second, err := NewService(WithRemote(remote), WithRateLimit(1000), WithCacheFile(path))
	require.NoError(t, err)
	assert.Equal(t, 1, second.CachedEntries())
	resp := second.Get(context.Background(), q)
	assert.Equal(t, SourceCache, resp.Source)
	require.Len(t, resp.Practices, 1)
	assert.Equal(t, "Use migrations", resp.Practices[0].Title)
	assert.Equal(t, 1, remote.calls)

	require.NoError(t, second.ClearCache())
	third, err := NewService(WithRemote(remote), WithRateLimit(1000), WithCacheFile(path))
	require.NoError(t, err)
	assert.Equal(t, 0, third.CachedEntries())
	assert.Equal(t, SourceMCP, third.Get(context.Background(), q).Source)
	assert.Equal(t, 2, remote.calls)
}

func TestService_CacheFileSkipsExpiredEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "practices_cache.json")
	q := Query{Language: "go"}.normalized()
	stale := `{"entries": {"` + q.Key() + `": {"response": {"source": "mcp", "practices": [{"id": "old", "title": "Old"}]}, "expires_at": 1}}}`
	require.NoError(t, os.WriteFile(path, []byte(stale), 0o644))

	remote := &countingRemote{practices: []Practice{{ID: "new", Title: "New", Category: "testing"}}}
	svc, err := NewService(WithRemote(remote), WithRateLimit(1000), WithCacheFile(path))
	require.NoError(t, err)
	assert.Equal(t, 0, svc.CachedEntries())

	resp := svc.Get(context.Background(), Query{Language: "go"})
	assert.Equal(t, SourceMCP, resp.Source)
	assert.Equal(t, "New", resp.Practices[0].Title)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"Old"`)
}
