// Package github wraps the GitHub REST API calls used for session backups.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

var (
	// ErrUnauthenticated is returned when no token is set or GitHub rejects it.
	ErrUnauthenticated = errors.New("not authenticated with GitHub")

	// ErrRepositoryNotFound is returned when a repository does not exist or is not visible.
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrRepositoryNameInUse is returned when creating a repository whose name is taken.
	ErrRepositoryNameInUse = errors.New("repository name already in use")
)

// User is the authenticated account.
type User struct {
	Login string `json:"login"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Repository is the subset of repository data aigenio uses.
type Repository struct {
	Owner         string `json:"owner"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description,omitempty"`
	Private       bool   `json:"private"`
	HTMLURL       string `json:"html_url"`
	CloneURL      string `json:"clone_url"`
	SSHURL        string `json:"ssh_url"`
	DefaultBranch string `json:"default_branch,omitempty"`
}

// Client talks to the GitHub API with a personal access token.
type Client struct {
	gh *gh.Client
}

// NewClient builds an authenticated client. apiURL overrides the API
// endpoint for GitHub Enterprise and tests; it must end with a slash.
func NewClient(token, apiURL string) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	oauth2Client := oauth2.NewClient(context.Background(), tokenSource)

	client := gh.NewClient(oauth2Client)
	if apiURL != "" {
		base, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
		}
		client.BaseURL = base
	}

	return &Client{gh: client}, nil
}

// CurrentUser returns the account the token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	u, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return User{}, mapError(err, "get current user")
	}
	return User{Login: u.GetLogin(), Name: u.GetName(), Email: u.GetEmail()}, nil
}

// GetRepository fetches owner/name.
func (c *Client) GetRepository(ctx context.Context, owner, name string) (Repository, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return Repository{}, mapError(err, "get repository "+owner+"/"+name)
	}
	return fromGitHub(repo), nil
}

// ListRepositories returns up to limit repositories of the current user,
// most recently updated first.
func (c *Client) ListRepositories(ctx context.Context, limit int) ([]Repository, error) {
	opts := &gh.RepositoryListByAuthenticatedUserOptions{
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var out []Repository
	for {
		repos, resp, err := c.gh.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, mapError(err, "list repositories")
		}
		for _, r := range repos {
			out = append(out, fromGitHub(r))
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// CreateRepository creates a repository owned by the current user.
func (c *Client) CreateRepository(ctx context.Context, name, description string, private bool) (Repository, error) {
	repo, _, err := c.gh.Repositories.Create(ctx, "", &gh.Repository{
		Name:        gh.Ptr(name),
		Description: gh.Ptr(description),
		Private:     gh.Ptr(private),
	})
	if err != nil {
		return Repository{}, mapError(err, "create repository "+name)
	}
	return fromGitHub(repo), nil
}

// EnsureRepository returns the current user's repository called name,
// creating it when missing. It reports whether the repository was created.
func (c *Client) EnsureRepository(ctx context.Context, name, description string, private bool) (Repository, bool, error) {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return Repository{}, false, err
	}

	repo, err := c.GetRepository(ctx, user.Login, name)
	if err == nil {
		return repo, false, nil
	}
	if !errors.Is(err, ErrRepositoryNotFound) {
		return Repository{}, false, err
	}

	repo, err = c.CreateRepository(ctx, name, description, private)
	if err != nil {
		return Repository{}, false, err
	}
	return repo, true, nil
}

var (
	invalidRepoChars = regexp.MustCompile(`[^a-z0-9\-_]`)
	repeatedDashes   = regexp.MustCompile(`-+`)
)

// SuggestRepositoryName turns a project directory name into a valid
// repository name.
func SuggestRepositoryName(projectName string) string {
	name := strings.ToLower(strings.TrimSpace(projectName))
	name = invalidRepoChars.ReplaceAllString(name, "-")
	name = repeatedDashes.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		return "my-project"
	}
	return name
}

func fromGitHub(r *gh.Repository) Repository {
	return Repository{
		Owner:         r.GetOwner().GetLogin(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Description:   r.GetDescription(),
		Private:       r.GetPrivate(),
		HTMLURL:       r.GetHTMLURL(),
		CloneURL:      r.GetCloneURL(),
		SSHURL:        r.GetSSHURL(),
		DefaultBranch: r.GetDefaultBranch(),
	}
}

func mapError(err error, action string) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", action, ErrUnauthenticated)
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", action, ErrRepositoryNotFound)
		case http.StatusUnprocessableEntity:
			return fmt.Errorf("%s: %w", action, ErrRepositoryNameInUse)
		}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
