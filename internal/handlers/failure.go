package handlers

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"unicode/utf8"

	"github.com/smykla-skalski/claude-hooks/internal/decision"
	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	"github.com/smykla-skalski/claude-hooks/internal/hookresponse"
	"github.com/smykla-skalski/claude-hooks/internal/runner"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
)

// debuggingTips are appended to the failure context per tool.
var debuggingTips = map[string][]string{
	hook.ToolBash: {
		"Check command syntax",
		"Verify file paths exist",
		"Check permissions",
		"Ensure required tools are installed",
	},
	hook.ToolEdit: {
		"Verify file path is correct",
		"Check write permissions",
		"Ensure directory exists",
	},
	hook.ToolWrite: {
		"Verify file path is correct",
		"Check write permissions",
		"Ensure directory exists",
	},
	hook.ToolRead: {
		"Verify file exists",
		"Check read permissions",
		"Ensure path is absolute",
	},
}

// PostToolUseFailure logs the failed call and hands debugging context back
// to the host.
func (h *Hooks) PostToolUseFailure(_ context.Context, ev *hook.Event) (runner.Result, error) {
	rec := base(EventToolFailure, ev)
	rec["tool_name"] = nullable(ev.ToolName)
	rec["tool_use_id"] = nullable(ev.ToolUseID)
	rec["error_message"] = nullable(ev.Error)
	rec["exit_code"] = ev.ExitCode

	if input, ok := ev.RawToolInput().(map[string]any); ok {
		rec["tool_input"] = redactContent(input)
	}

	h.append(eventlog.FileToolFailures, rec)

	return runner.Result{
		Decision: decision.Allow(),
		Response: hookresponse.WithContext(hook.EventKindPostToolUseFailure, failureContext(ev)),
	}, nil
}

// redactContent replaces file content with its length.
func redactContent(input map[string]any) map[string]any {
	out := maps.Clone(input)

	if content, ok := out["content"]; ok {
		s, isString := content.(string)
		if !isString {
			s = fmt.Sprint(content)
		}

		out["content"] = fmt.Sprintf("<%d chars>", utf8.RuneCountInString(s))
	}

	return out
}

func failureContext(ev *hook.Event) string {
	tool := hook.StringOr(ev.ToolName, unknown)

	var b strings.Builder

	fmt.Fprintf(&b, "## Tool Failure: %s\n\n", tool)
	fmt.Fprintf(&b, "**Error:** %s\n\n", hook.StringOr(ev.Error, "Unknown error"))

	if code, ok := exitCode(ev.ExitCode); ok {
		fmt.Fprintf(&b, "**Exit Code:** %s\n\n", code)
	}

	if tips, ok := debuggingTips[tool]; ok {
		b.WriteString("**Debugging Tips:**\n")

		for _, tip := range tips {
			fmt.Fprintf(&b, "- %s\n", tip)
		}
	}

	return b.String()
}

// exitCode renders a truthy exit code. Absent, zero and empty values report
// false.
func exitCode(v any) (string, bool) {
	switch c := v.(type) {
	case nil:
		return "", false
	case float64:
		if c == 0 {
			return "", false
		}

		return fmt.Sprintf("%g", c), true
	case string:
		return c, c != ""
	case bool:
		return "true", c
	default:
		return fmt.Sprint(c), true
	}
}
