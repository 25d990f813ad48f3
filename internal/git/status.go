// Package git collects repository summaries for session context.
package git

import (
	"context"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNotRepository is returned when the directory is not inside a repository.
	ErrNotRepository = errors.New("not a git repository")

	// ErrRemoteNotFound is returned when a remote does not exist.
	ErrRemoteNotFound = errors.New("remote not found")
)

// Status summarises a working tree.
type Status struct {
	IsRepo           bool   `json:"is_git_repo"`
	Branch           string `json:"branch,omitempty"`
	UncommittedCount int    `json:"uncommitted_count"`
	IsClean          bool   `json:"is_clean"`
	LastCommit       string `json:"last_commit,omitempty"`
}

// Inspector reads repository state. Implementations degrade to empty values
// rather than failing.
type Inspector interface {
	// Status returns the working tree summary. A directory outside any
	// repository yields a zero Status.
	Status(ctx context.Context) Status

	// RemoteURL returns the first URL of the named remote.
	RemoteURL(ctx context.Context, remote string) (string, error)
}

// ParseGitHubRemote extracts owner and repository from a GitHub remote URL in
// scp-like (git@github.com:o/r.git) or URL form.
func ParseGitHubRemote(remote string) (owner, repo string, ok bool) {
	remote = strings.TrimSpace(remote)

	var path string

	switch {
	case strings.HasPrefix(remote, "git@github.com:"):
		path = strings.TrimPrefix(remote, "git@github.com:")
	default:
		u, err := url.Parse(remote)
		if err != nil || !strings.EqualFold(u.Hostname(), "github.com") {
			return "", "", false
		}

		path = strings.TrimPrefix(u.Path, "/")
	}

	path = strings.TrimSuffix(strings.TrimSuffix(path, "/"), ".git")

	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}

	return parts[0], parts[1], true
}
