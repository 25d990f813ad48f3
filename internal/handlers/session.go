package handlers

import (
	"context"

	"github.com/smykla-skalski/claude-hooks/internal/decision"
	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	"github.com/smykla-skalski/claude-hooks/internal/hookresponse"
	"github.com/smykla-skalski/claude-hooks/internal/runner"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
)

// SessionStartOptions are the session-start flags.
type SessionStartOptions struct {
	// LoadContext gathers git, issue and document context for the session.
	LoadContext bool

	// Announce speaks the session source aloud.
	Announce bool
}

// SessionStart logs the session start and optionally injects development
// context and announces the session.
func (h *Hooks) SessionStart(opts SessionStartOptions) runner.Handler {
	return func(ctx context.Context, ev *hook.Event) (runner.Result, error) {
		source := hook.StringOr(ev.Source, unknown)

		rec := base(EventSessionStart, ev)
		rec["source"] = source

		var dc *DevelopmentContext
		if opts.LoadContext {
			dc = h.loadContext(ctx, ev)
			rec["context_loaded"] = true
			rec["context_keys"] = dc.Keys()
		}

		h.append(eventlog.FileSessionStart, rec)

		res := runner.Result{Decision: decision.Allow()}

		if dc != nil {
			ctxCfg := h.cfg.GetContext()
			res.Response = hookresponse.WithContext(
				hook.EventKindSessionStart,
				dc.Markdown(ctxCfg.GetIssueLimit(), ctxCfg.GetDocPreviewChars()),
			)
		}

		if opts.Announce {
			h.announce(ctx, "Claude session "+source)
		}

		return res, nil
	}
}

// announce speaks msg and ignores every failure.
func (h *Hooks) announce(ctx context.Context, msg string) {
	a := h.cfg.GetAnnounce()

	res := h.runners(a.GetTimeout()).Run(ctx, h.paths.Root, a.GetCommand(), msg)
	if !res.Success() {
		h.logger.Debug("announce failed", "command", a.GetCommand(), "error", res.Err)
	}
}

// SessionEnd logs the session end reason.
func (h *Hooks) SessionEnd(_ context.Context, ev *hook.Event) (runner.Result, error) {
	rec := base(EventSessionEnd, ev)
	rec["reason"] = hook.StringOr(ev.Reason, unknown)

	h.append(eventlog.FileSessionEnd, rec)

	return runner.Result{Decision: decision.Allow()}, nil
}
