// Package issues lists recent issues for the session-start context block.
package issues

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"

	execpkg "github.com/smykla-skalski/claude-hooks/internal/exec"
)

// DefaultLimit is the number of issues fetched for session context.
const DefaultLimit = 5

// ErrUnavailable is returned when no issue source can be queried.
var ErrUnavailable = errors.New("issue source unavailable")

// Issue is the subset of issue fields rendered into context.
type Issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
}

// Lister fetches the most recent open issues of the current repository.
type Lister interface {
	List(ctx context.Context, limit int) ([]Issue, error)
}

// CLILister shells out to the gh CLI.
type CLILister struct {
	runner execpkg.CommandRunner
	dir    string
}

// NewCLILister creates a lister running gh in dir.
func NewCLILister(runner execpkg.CommandRunner, dir string) *CLILister {
	return &CLILister{runner: runner, dir: dir}
}

// List runs `gh issue list` and decodes its JSON output.
func (l *CLILister) List(ctx context.Context, limit int) ([]Issue, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	if !l.runner.IsAvailable("gh") {
		return nil, errors.Wrap(ErrUnavailable, "gh not found in PATH")
	}

	result := l.runner.Run(ctx, l.dir, "gh",
		"issue", "list",
		"--limit", strconv.Itoa(limit),
		"--json", "number,title,state",
	)
	if !result.Success() {
		if result.Err != nil {
			return nil, errors.Wrap(result.Err, "gh issue list failed")
		}

		return nil, errors.Newf("gh issue list exited %d: %s", result.ExitCode, result.Stderr)
	}

	var list []Issue
	if err := json.Unmarshal([]byte(result.Stdout), &list); err != nil {
		return nil, errors.Wrap(err, "failed to decode gh output")
	}

	return list, nil
}
