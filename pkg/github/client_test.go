package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer serves a fake GitHub API where user "ada" owns "existing".
func newTestServer(t *testing.T) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var created []map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"login":"ada","name":"Ada Lovelace"}`))
	})
	mux.HandleFunc("GET /repos/ada/existing", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"existing","full_name":"ada/existing","owner":{"login":"ada"},"private":true,"clone_url":"https://github.com/ada/existing.git"}`))
	})
	mux.HandleFunc("GET /repos/ada/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})
	mux.HandleFunc("POST /user/repos", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body["name"] == "taken" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"Repository creation failed.","errors":[{"resource":"Repository","code":"custom","field":"name","message":"name already exists on this account"}]}`))
			return
		}
		created = append(created, body)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name":      body["name"],
			"full_name": "ada/" + body["name"].(string),
			"owner":     map[string]any{"login": "ada"},
			"private":   body["private"],
			"clone_url": "https://github.com/ada/" + body["name"].(string) + ".git",
		})
	})
	mux.HandleFunc("GET /user/repos", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"one","owner":{"login":"ada"}},{"name":"two","owner":{"login":"ada"}},{"name":"three","owner":{"login":"ada"}}]`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &created
}

func newTestClient(t *testing.T, srv *httptest.Server, token string) *Client {
	t.Helper()
	c, err := NewClient(token, srv.URL+"/")
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient("  ", "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCurrentUser(t *testing.T) {
	srv, _ := newTestServer(t)

	user, err := newTestClient(t, srv, "good-token").CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Login)
	assert.Equal(t, "Ada Lovelace", user.Name)

	_, err = newTestClient(t, srv, "bad-token").CurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestEnsureRepository_Existing(t *testing.T) {
	srv, created := newTestServer(t)

	repo, wasCreated, err := newTestClient(t, srv, "good-token").EnsureRepository(context.Background(), "existing", "", true)
	require.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, "ada/existing", repo.FullName)
	assert.True(t, repo.Private)
	assert.Empty(t, *created)
}

func TestEnsureRepository_Creates(t *testing.T) {
	srv, created := newTestServer(t)

	repo, wasCreated, err := newTestClient(t, srv, "good-token").EnsureRepository(context.Background(), "fresh", "context files", true)
	require.NoError(t, err)
	assert.True(t, wasCreated)
	assert.Equal(t, "https://github.com/ada/fresh.git", repo.CloneURL)
	require.Len(t, *created, 1)
	assert.Equal(t, "fresh", (*created)[0]["name"])
	assert.Equal(t, true, (*created)[0]["private"])
	assert.Equal(t, "context files", (*created)[0]["description"])
}

func TestCreateRepository_NameInUse(t *testing.T) {
	srv, _ := newTestServer(t)

	_, err := newTestClient(t, srv, "good-token").CreateRepository(context.Background(), "taken", "", false)
	assert.ErrorIs(t, err, ErrRepositoryNameInUse)
}

func TestGetRepository_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	_, err := newTestClient(t, srv, "good-token").GetRepository(context.Background(), "ada", "missing")
	assert.ErrorIs(t, err, ErrRepositoryNotFound)
}

func TestListRepositories_Limit(t *testing.T) {
	srv, _ := newTestServer(t)

	repos, err := newTestClient(t, srv, "good-token").ListRepositories(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "one", repos[0].Name)
}

func TestSuggestRepositoryName(t *testing.T) {
	tests := map[string]string{
		"My Shop":        "my-shop",
		"api_v2":         "api_v2",
		"--weird!!name-": "weird-name",
		"???":            "my-project",
		"":               "my-project",
	}
	for in, want := range tests {
		assert.Equal(t, want, SuggestRepositoryName(in), "input %q", in)
	}
}
