package handlers

import (
	"context"
	"maps"

	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	"github.com/smykla-skalski/claude-hooks/internal/runner"
	"github.com/smykla-skalski/claude-hooks/internal/security"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
)

// SecurityCheck blocks destructive commands and credential file access.
// A block is recorded with the full payload.
func (h *Hooks) SecurityCheck(_ context.Context, ev *hook.Event) (runner.Result, error) {
	d := h.checker().Evaluate(ev)
	if !d.IsBlock() {
		return runner.Result{Decision: d}, nil
	}

	rec := make(eventlog.Record, len(ev.Raw)+3)
	maps.Copy(rec, ev.Raw)
	rec[eventlog.KeyEvent] = EventSecurityBlock
	rec["blocked"] = true
	rec["reason"] = d.Message

	h.append(eventlog.FileSecurityBlocks, rec)
	h.logger.Info("security block", "tool", ev.ToolName, "reason", d.Message)

	return runner.Result{Decision: d}, nil
}

func (h *Hooks) checker() *security.Checker {
	sec := h.cfg.GetSecurity()

	rules := make([]security.FileRule, 0, len(sec.FileRules))
	for _, r := range sec.FileRules {
		rules = append(rules, security.FileRule{Glob: r.Glob, Reason: r.Reason, Except: r.Except})
	}

	c, err := security.NewChecker(security.Options{
		ExtraRmPatterns: sec.ExtraRmPatterns,
		ProtectedPaths:  sec.ProtectedPaths,
		ExtraFileRules:  rules,
	})
	if err != nil {
		h.logger.Error("ignoring invalid security rules", "error", err)
	}

	return c
}
