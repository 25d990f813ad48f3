package git

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/go-git/go-git/v6"
)

const shortHashLength = 7

func init() {
	// An inherited GIT_INDEX_FILE from a parent git process would point
	// go-git at the wrong index.
	_ = os.Unsetenv("GIT_INDEX_FILE")
}

// SDKInspector reads repository state through go-git without spawning git.
type SDKInspector struct {
	repo *git.Repository
}

// OpenSDKInspector opens the repository containing dir.
func OpenSDKInspector(dir string) (*SDKInspector, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		// go-git v6 always resolves the commondir (worktree support).
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}

		return nil, errors.Wrap(err, "failed to open repository")
	}

	return &SDKInspector{repo: repo}, nil
}

// Status reads HEAD and the worktree status.
func (s *SDKInspector) Status(_ context.Context) Status {
	st := Status{IsRepo: true}

	head, headErr := s.repo.Head()
	if headErr == nil && head.Name().IsBranch() {
		st.Branch = head.Name().Short()
	}

	if wt, err := s.repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			for _, fs := range status {
				if fs.Staging != git.Unmodified || fs.Worktree != git.Unmodified {
					st.UncommittedCount++
				}
			}
		}
	}

	st.IsClean = st.UncommittedCount == 0

	if headErr == nil {
		if commit, err := s.repo.CommitObject(head.Hash()); err == nil {
			hash := commit.Hash.String()
			if len(hash) > shortHashLength {
				hash = hash[:shortHashLength]
			}

			subject, _, _ := strings.Cut(commit.Message, "\n")
			st.LastCommit = fmt.Sprintf("%s - %s (%s)", hash, subject, humanize.Time(commit.Committer.When))
		}
	}

	return st
}

// RemoteURL returns the first configured URL of remote.
func (s *SDKInspector) RemoteURL(_ context.Context, remote string) (string, error) {
	rem, err := s.repo.Remote(remote)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", errors.Wrapf(ErrRemoteNotFound, "remote %q", remote)
		}

		return "", errors.Wrap(err, "failed to get remote")
	}

	urls := rem.Config().URLs
	if len(urls) == 0 {
		return "", errors.Wrapf(ErrRemoteNotFound, "remote %q has no URLs", remote)
	}

	return urls[0], nil
}

// emptyInspector stands in when no repository could be opened.
type emptyInspector struct{}

func (emptyInspector) Status(context.Context) Status { return Status{} }

func (emptyInspector) RemoteURL(_ context.Context, remote string) (string, error) {
	return "", errors.Wrapf(ErrNotRepository, "remote %q", remote)
}

// NewInspector picks the SDK or CLI implementation. When the SDK cannot open
// a repository the result reports no repository.
//
//nolint:ireturn // factory selects between implementations
func NewInspector(useSDK bool, cli *CLIInspector, dir string) Inspector {
	if !useSDK {
		return cli
	}

	sdk, err := OpenSDKInspector(dir)
	if err != nil {
		return emptyInspector{}
	}

	return sdk
}
