// Package exec runs external tools with bounded lifetimes.
package exec

//go:generate mockgen -source=command.go -destination=command_mock.go -package=exec

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrTimeout is returned when a command exceeds its timeout.
var ErrTimeout = errors.New("command timed out")

// CommandResult contains the result of a command execution.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Success reports whether the command ran and exited zero.
func (r *CommandResult) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// CommandRunner executes external commands.
type CommandRunner interface {
	// Run executes name with args in dir. An empty dir means the current
	// working directory.
	Run(ctx context.Context, dir, name string, args ...string) *CommandResult

	// IsAvailable reports whether name resolves in PATH.
	IsAvailable(name string) bool
}

// commandRunner implements CommandRunner on os/exec.
type commandRunner struct {
	timeout time.Duration
}

// NewCommandRunner creates a runner that bounds every call by timeout.
//
//nolint:ireturn // factory returns the interface so callers can swap in mocks
func NewCommandRunner(timeout time.Duration) CommandRunner {
	return &commandRunner{timeout: timeout}
}

// Run executes a command and captures its output.
func (r *commandRunner) Run(ctx context.Context, dir, name string, args ...string) *CommandResult {
	if r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.ExitCode = -1
		result.Err = errors.Wrapf(ErrTimeout, "%s after %s", name, r.timeout)
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		result.Err = errors.Wrapf(err, "%s exited with %d", name, result.ExitCode)
	case err != nil:
		result.ExitCode = -1
		result.Err = errors.Wrapf(err, "executing %s", name)
	}

	return result
}

// IsAvailable checks if a tool is available in PATH.
func (*commandRunner) IsAvailable(name string) bool {
	_, err := exec.LookPath(name)

	return err == nil
}
