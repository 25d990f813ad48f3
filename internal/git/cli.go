package git

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	execpkg "github.com/smykla-skalski/claude-hooks/internal/exec"
)

// CLIInspector shells out to the git binary.
type CLIInspector struct {
	runner execpkg.CommandRunner
	dir    string
}

// NewCLIInspector creates an inspector running git in dir.
func NewCLIInspector(runner execpkg.CommandRunner, dir string) *CLIInspector {
	return &CLIInspector{runner: runner, dir: dir}
}

func (c *CLIInspector) git(ctx context.Context, args ...string) (string, bool) {
	result := c.runner.Run(ctx, c.dir, "git", args...)
	if !result.Success() {
		return "", false
	}

	return strings.TrimSpace(result.Stdout), true
}

// Status runs rev-parse, branch, status and log.
func (c *CLIInspector) Status(ctx context.Context) Status {
	if _, ok := c.git(ctx, "rev-parse", "--git-dir"); !ok {
		return Status{}
	}

	st := Status{IsRepo: true}

	if branch, ok := c.git(ctx, "branch", "--show-current"); ok {
		st.Branch = branch
	}

	if porcelain, ok := c.git(ctx, "status", "--porcelain"); ok {
		st.UncommittedCount = countNonEmptyLines(porcelain)
	}

	st.IsClean = st.UncommittedCount == 0

	if last, ok := c.git(ctx, "log", "-1", "--pretty=%h - %s (%cr)"); ok {
		st.LastCommit = last
	}

	return st
}

// RemoteURL runs git remote get-url.
func (c *CLIInspector) RemoteURL(ctx context.Context, remote string) (string, error) {
	out, ok := c.git(ctx, "remote", "get-url", remote)
	if !ok || out == "" {
		return "", errors.Wrapf(ErrRemoteNotFound, "remote %q", remote)
	}

	return out, nil
}

func countNonEmptyLines(s string) int {
	n := 0

	for line := range strings.SplitSeq(s, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}

	return n
}
