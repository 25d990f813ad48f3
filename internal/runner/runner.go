// Package runner implements the process contract shared by every hook: one
// JSON event on stdin, at most one JSON object on stdout, and the decision
// carried by the exit code.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/smykla-skalski/claude-hooks/internal/decision"
	"github.com/smykla-skalski/claude-hooks/internal/hookresponse"
	"github.com/smykla-skalski/claude-hooks/internal/parser"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
	"github.com/smykla-skalski/claude-hooks/pkg/logger"
)

// Result is what a handler hands back to the runner.
type Result struct {
	// Decision selects the exit code. Block and Warn messages go to stderr.
	Decision decision.Decision

	// Response is written to stdout as JSON when set.
	Response *hookresponse.Response

	// Stdout is plain text written to stdout when no Response is set.
	Stdout string

	// Notice is an informational line for stderr that does not change the
	// exit code.
	Notice string
}

// Handler processes one decoded event.
type Handler func(ctx context.Context, ev *hook.Event) (Result, error)

// Runner wires standard streams to a handler.
type Runner struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	logger     logger.Logger
	isTerminal func(io.Reader) bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithStdin sets the event source.
func WithStdin(r io.Reader) Option {
	return func(rn *Runner) {
		if r != nil {
			rn.stdin = r
		}
	}
}

// WithStdout sets the response destination.
func WithStdout(w io.Writer) Option {
	return func(rn *Runner) {
		if w != nil {
			rn.stdout = w
		}
	}
}

// WithStderr sets the destination for block reasons and warnings.
func WithStderr(w io.Writer) Option {
	return func(rn *Runner) {
		if w != nil {
			rn.stderr = w
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log logger.Logger) Option {
	return func(rn *Runner) {
		if log != nil {
			rn.logger = log
		}
	}
}

// WithTerminalCheck overrides interactive stdin detection.
func WithTerminalCheck(fn func(io.Reader) bool) Option {
	return func(rn *Runner) {
		if fn != nil {
			rn.isTerminal = fn
		}
	}
}

// New creates a Runner bound to the process streams unless overridden.
func New(opts ...Option) *Runner {
	rn := &Runner{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		logger:     logger.NewNoOpLogger(),
		isTerminal: isTerminal,
	}

	for _, opt := range opts {
		opt(rn)
	}

	return rn
}

// Run decodes the event, invokes h and returns the process exit code.
// Unreadable input and handler failures exit 0 with a warning on stderr and
// nothing on stdout.
func (rn *Runner) Run(ctx context.Context, name string, kind hook.EventKind, h Handler) int {
	log := rn.logger.With("hook", name)

	ev, err := rn.parse(kind)
	if err != nil {
		log.Debug("input rejected", "error", err)
		rn.warn(name, err)

		return decision.ExitAllow
	}

	log.Debug("event decoded",
		"event", ev.Kind.String(),
		"tool", ev.ToolName,
		"session", ev.SessionID,
	)

	var res Result

	out := decision.Guard(func() (decision.Decision, error) {
		var herr error

		res, herr = h(ctx, ev)

		return res.Decision, herr
	})

	if out.FailedOpen() {
		log.Error("hook failed open", "error", out.Err)
		rn.warn(name, out.Err)

		return decision.ExitAllow
	}

	rn.emit(log, res)

	if out.Decision.Message != "" {
		fmt.Fprintln(rn.stderr, out.Decision.Message)
	}

	if out.Decision.IsBlock() {
		log.Info("blocked", "reason", out.Decision.Message)
	}

	return out.Decision.ExitCode()
}

func (rn *Runner) parse(kind hook.EventKind) (*hook.Event, error) {
	if rn.isTerminal(rn.stdin) {
		return nil, parser.ErrEmptyInput
	}

	return parser.NewJSONParser(rn.stdin).Parse(kind)
}

func (rn *Runner) emit(log logger.Logger, res Result) {
	if res.Notice != "" {
		fmt.Fprintln(rn.stderr, res.Notice)
	}

	if res.Response != nil {
		if err := hookresponse.Write(rn.stdout, res.Response); err != nil {
			log.Error("writing response", "error", err)
		}

		return
	}

	if res.Stdout != "" {
		fmt.Fprintln(rn.stdout, res.Stdout)
	}
}

func (rn *Runner) warn(name string, err error) {
	fmt.Fprintf(rn.stderr, "Warning: %s hook error: %v\n", name, err)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
