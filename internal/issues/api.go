package issues

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v84/github"

	internalgit "github.com/smykla-skalski/claude-hooks/internal/git"
)

var (
	// ErrRateLimitExceeded is returned when the API rate limit is exhausted.
	ErrRateLimitExceeded = errors.New("github API rate limit exceeded")

	// ErrRepositoryNotFound is returned for unknown or inaccessible repositories.
	ErrRepositoryNotFound = errors.New("repository not found")
)

// Token returns the API token from GH_TOKEN or GITHUB_TOKEN.
func Token() string {
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token
	}

	return os.Getenv("GITHUB_TOKEN")
}

// APILister queries the GitHub REST API for the repository behind the
// origin remote.
type APILister struct {
	client    *github.Client
	inspector internalgit.Inspector
	remote    string
	timeout   time.Duration
}

// NewAPILister creates a lister. An empty token yields an anonymous client.
func NewAPILister(inspector internalgit.Inspector, token string) *APILister {
	var httpClient *http.Client
	if token != "" {
		httpClient = &http.Client{Transport: &authTransport{token: token}}
	}

	return &APILister{
		client:    github.NewClient(httpClient),
		inspector: inspector,
		remote:    "origin",
	}
}

// WithClient replaces the API client.
func (l *APILister) WithClient(client *github.Client) *APILister {
	l.client = client

	return l
}

// WithTimeout bounds each List call. Zero means no bound.
func (l *APILister) WithTimeout(timeout time.Duration) *APILister {
	l.timeout = timeout

	return l
}

// List returns the most recent open issues, skipping pull requests.
func (l *APILister) List(ctx context.Context, limit int) ([]Issue, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	remoteURL, err := l.inspector.RemoteURL(ctx, l.remote)
	if err != nil {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}

	owner, repo, ok := internalgit.ParseGitHubRemote(remoteURL)
	if !ok {
		return nil, errors.Wrapf(ErrUnavailable, "remote %q is not a GitHub repository", remoteURL)
	}

	opts := &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: limit},
	}

	ghIssues, resp, err := l.client.Issues.ListByRepo(ctx, owner, repo, opts)
	if err != nil {
		return nil, handleError(resp, err)
	}

	list := make([]Issue, 0, len(ghIssues))
	for _, is := range ghIssues {
		if is.IsPullRequest() {
			continue
		}

		list = append(list, Issue{
			Number: is.GetNumber(),
			Title:  is.GetTitle(),
			State:  is.GetState(),
		})

		if len(list) == limit {
			break
		}
	}

	return list, nil
}

type authTransport struct {
	token string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)

	return http.DefaultTransport.RoundTrip(req)
}

func handleError(resp *github.Response, err error) error {
	if resp == nil {
		return errors.Wrap(err, "github request failed")
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrRepositoryNotFound
	case http.StatusForbidden:
		if resp.Rate.Remaining == 0 {
			return ErrRateLimitExceeded
		}
	}

	return errors.Wrap(err, "github request failed")
}
