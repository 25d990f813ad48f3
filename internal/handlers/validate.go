package handlers

import (
	"context"
	"os"
	"path/filepath"

	"github.com/smykla-skalski/claude-hooks/internal/decision"
	"github.com/smykla-skalski/claude-hooks/internal/hookresponse"
	"github.com/smykla-skalski/claude-hooks/internal/runner"
	"github.com/smykla-skalski/claude-hooks/internal/td"
	"github.com/smykla-skalski/claude-hooks/internal/transcript"
	"github.com/smykla-skalski/claude-hooks/internal/validators/markdown"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
)

// MarkdownValidator reports structural problems in a markdown file the
// assistant just wrote.
func (h *Hooks) MarkdownValidator(_ context.Context, ev *hook.Event) (runner.Result, error) {
	path := ev.ToolInput.FilePath
	if path != "" && !filepath.IsAbs(path) && ev.Cwd != "" {
		path = filepath.Join(ev.Cwd, path)
	}

	ok, err := markdown.Applies(path)
	if err != nil || !ok {
		return allow, err
	}

	issues := markdown.AnalyzeFile(path)
	if len(issues) == 0 {
		return allow, nil
	}

	h.logger.Debug("markdown issues", "file", path, "issues", issues)

	return runner.Result{
		Decision: decision.Allow(),
		Response: hookresponse.WithContext(hook.EventKindPostToolUse, markdown.Summary(ev.ToolInput.FilePath, issues)),
	}, nil
}

// IdleDetector asks the assistant to keep going when code it wrote recently
// still carries TODO or FIXME markers.
func (h *Hooks) IdleDetector(_ context.Context, ev *hook.Event) (runner.Result, error) {
	if ev.TranscriptPath == "" {
		return allow, nil
	}

	if _, err := os.Stat(ev.TranscriptPath); err != nil {
		return allow, nil //nolint:nilerr // a missing transcript means nothing to inspect
	}

	finding, found, err := transcript.NewIdleDetector(h.cfg.GetIdle().GetWindow()).Inspect(ev.TranscriptPath)
	if err != nil {
		h.logger.Debug("transcript not inspected", "error", err)

		return allow, nil
	}

	if !found {
		return allow, nil
	}

	return runner.Result{Decision: decision.Allow(), Stdout: finding.Prompt()}, nil
}

// TDEnforcer blocks code edits while no td task is active.
func (h *Hooks) TDEnforcer(ctx context.Context, ev *hook.Event) (runner.Result, error) {
	enforcer := td.NewEnforcer(h.runners(h.cfg.GetTD().GetTimeout()), h.paths.Root, h.logger)

	return runner.Result{Decision: enforcer.Evaluate(ctx, ev)}, nil
}
