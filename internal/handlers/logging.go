package handlers

import (
	"context"
	"maps"
	"os"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/claude-hooks/internal/decision"
	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	"github.com/smykla-skalski/claude-hooks/internal/runner"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
)

const promptFilePerm = 0o644

var allow = runner.Result{Decision: decision.Allow()}

// Notification logs a host notification.
func (h *Hooks) Notification(_ context.Context, ev *hook.Event) (runner.Result, error) {
	rec := base(EventNotification, ev)
	rec["notification_type"] = nullable(ev.NotificationType)
	rec["message"] = nullable(ev.Message)
	rec["level"] = hook.StringOr(ev.Level, defaultLevel)

	h.append(eventlog.FileNotifications, rec)

	return allow, nil
}

// PermissionRequest records the requested tool call. Nothing is written
// unless logOnly is set.
func (h *Hooks) PermissionRequest(logOnly bool) runner.Handler {
	return func(_ context.Context, ev *hook.Event) (runner.Result, error) {
		if !logOnly {
			return allow, nil
		}

		rec := base(EventPermissionRequest, ev)
		rec["tool_name"] = nullable(ev.ToolName)
		rec["tool_input"] = ev.RawToolInput()

		h.append(eventlog.FilePermissions, rec)

		return allow, nil
	}
}

// ToolLogger appends the payload as received.
func (h *Hooks) ToolLogger(_ context.Context, ev *hook.Event) (runner.Result, error) {
	h.append(eventlog.FileToolUse, maps.Clone(eventlog.Record(ev.Raw)))

	return allow, nil
}

// UserPromptSubmit logs the prompt length. The prompt itself is only kept,
// in the data directory, when storeLastPrompt is set.
func (h *Hooks) UserPromptSubmit(storeLastPrompt bool) runner.Handler {
	return func(_ context.Context, ev *hook.Event) (runner.Result, error) {
		rec := base(EventUserPromptSubmit, ev)
		rec["prompt_length"] = utf8.RuneCountInString(ev.Prompt)

		h.append(eventlog.FileUserPrompts, rec)

		if !storeLastPrompt {
			return allow, nil
		}

		if err := os.MkdirAll(h.paths.DataDir, eventlog.DirPerm); err != nil {
			return allow, errors.Wrap(err, "failed to create data directory")
		}

		//nolint:gosec // the data directory belongs to the project
		if err := os.WriteFile(h.paths.Data(lastPromptFile), []byte(ev.Prompt), promptFilePerm); err != nil {
			return allow, errors.Wrap(err, "failed to store last prompt")
		}

		return allow, nil
	}
}

// Setup creates the hook directories and logs the initialisation.
func (h *Hooks) Setup(_ context.Context, ev *hook.Event) (runner.Result, error) {
	for _, dir := range []string{h.paths.LogsDir, h.paths.Backups, h.paths.DataDir} {
		if err := os.MkdirAll(dir, eventlog.DirPerm); err != nil {
			return allow, errors.Wrapf(err, "failed to create %s", dir)
		}
	}

	h.append(eventlog.FileSetup, base(EventSetup, ev))

	return allow, nil
}
