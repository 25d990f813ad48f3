// Package handlers implements the individual lifecycle hooks on top of the
// shared runner contract and event log.
package handlers

import (
	"time"

	internalconfig "github.com/smykla-skalski/claude-hooks/internal/config"
	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	execpkg "github.com/smykla-skalski/claude-hooks/internal/exec"
	internalgit "github.com/smykla-skalski/claude-hooks/internal/git"
	"github.com/smykla-skalski/claude-hooks/internal/issues"
	"github.com/smykla-skalski/claude-hooks/pkg/config"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
	"github.com/smykla-skalski/claude-hooks/pkg/logger"
)

// Event names written to the log records.
const (
	EventSecurityBlock     = "security_block"
	EventSessionStart      = "session_start"
	EventSessionEnd        = "session_end"
	EventSubagentStart     = "subagent_start"
	EventSubagentStop      = "subagent_stop"
	EventNotification      = "notification"
	EventPreCompact        = "pre_compact"
	EventPermissionRequest = "permission_request"
	EventUserPromptSubmit  = "user_prompt_submit"
	EventToolFailure       = "tool_failure"
	EventSetup             = "setup"
)

// Field defaults for absent payload values.
const (
	unknown        = "unknown"
	defaultStatus  = "completed"
	defaultLevel   = "info"
	lastPromptFile = "last_prompt.txt"
)

// RunnerFactory returns a command runner bounded by timeout.
type RunnerFactory func(timeout time.Duration) execpkg.CommandRunner

// Hooks holds what the individual hooks share.
type Hooks struct {
	paths     eventlog.Paths
	pathsSet  bool
	sink      *eventlog.Sink
	cfg       *config.Config
	logger    logger.Logger
	runners   RunnerFactory
	inspector internalgit.Inspector
	issues    issues.Lister
	now       func() time.Time
}

// Option configures Hooks.
type Option func(*Hooks)

// WithPaths sets the project paths instead of resolving them.
func WithPaths(paths eventlog.Paths) Option {
	return func(h *Hooks) {
		h.paths = paths
		h.pathsSet = true
	}
}

// WithSink sets the event log sink.
func WithSink(sink *eventlog.Sink) Option {
	return func(h *Hooks) {
		if sink != nil {
			h.sink = sink
		}
	}
}

// WithConfig sets the loaded configuration.
func WithConfig(cfg *config.Config) Option {
	return func(h *Hooks) {
		if cfg != nil {
			h.cfg = cfg
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log logger.Logger) Option {
	return func(h *Hooks) {
		if log != nil {
			h.logger = log
		}
	}
}

// WithRunnerFactory sets how subprocess runners are created.
func WithRunnerFactory(factory RunnerFactory) Option {
	return func(h *Hooks) {
		if factory != nil {
			h.runners = factory
		}
	}
}

// WithInspector sets the repository inspector used for session context.
func WithInspector(inspector internalgit.Inspector) Option {
	return func(h *Hooks) {
		h.inspector = inspector
	}
}

// WithIssueLister sets the issue source used for session context.
func WithIssueLister(lister issues.Lister) Option {
	return func(h *Hooks) {
		h.issues = lister
	}
}

// WithClock sets the time source for backups and the default sink.
func WithClock(now func() time.Time) Option {
	return func(h *Hooks) {
		if now != nil {
			h.now = now
		}
	}
}

// New creates Hooks. Unset dependencies fall back to the defaults, the
// project root from the environment and real subprocesses.
func New(opts ...Option) *Hooks {
	h := &Hooks{
		logger:  logger.NewNoOpLogger(),
		runners: execpkg.NewCommandRunner,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.cfg == nil {
		h.cfg = internalconfig.Defaults()
	}

	if !h.pathsSet {
		p := h.cfg.GetPaths()
		h.paths = eventlog.NewPaths(eventlog.ResolveProjectRoot(), p.LogsDir, p.DataDir, p.BackupsDir)
	}

	if h.sink == nil {
		h.sink = eventlog.NewSink(eventlog.WithLogger(h.logger), eventlog.WithClock(h.now))
	}

	return h
}

// Paths returns the resolved project paths.
func (h *Hooks) Paths() eventlog.Paths {
	return h.paths
}

func (h *Hooks) append(name string, rec eventlog.Record) {
	h.sink.Append(h.paths.Log(name), rec)
}

// base starts a record with the event tag and session id.
func base(event string, ev *hook.Event) eventlog.Record {
	return eventlog.Record{
		eventlog.KeyEvent: event,
		"session_id":      nullable(ev.SessionID),
	}
}

// nullable keeps absent payload fields as JSON null.
func nullable(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func (h *Hooks) gitInspector() internalgit.Inspector {
	if h.inspector != nil {
		return h.inspector
	}

	gitCfg := h.cfg.GetGit()
	cli := internalgit.NewCLIInspector(h.runners(gitCfg.GetTimeout()), h.paths.Root)
	h.inspector = internalgit.NewInspector(gitCfg.UseSDK, cli, h.paths.Root)

	return h.inspector
}

func (h *Hooks) issueLister() issues.Lister {
	if h.issues != nil {
		return h.issues
	}

	timeout := h.cfg.GetGitHub().GetTimeout()

	if h.cfg.GetContext().GetIssueSource() == config.IssueSourceAPI {
		h.issues = issues.NewAPILister(h.gitInspector(), issues.Token()).WithTimeout(timeout)
	} else {
		h.issues = issues.NewCLILister(h.runners(timeout), h.paths.Root)
	}

	return h.issues
}
