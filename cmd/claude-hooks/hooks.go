package main

import (
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/claude-hooks/internal/handlers"
	"github.com/smykla-skalski/claude-hooks/internal/runner"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
)

var (
	loadContextFlag     bool
	announceFlag        bool
	notifyFlag          bool
	logOnlyFlag         bool
	storeLastPromptFlag bool
)

// newHookCmd builds a subcommand that feeds stdin through the handler
// returned by build and exits with the handler's decision.
func newHookCmd(
	use, short string,
	kind hook.EventKind,
	build func(*handlers.Hooks) runner.Handler,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			a := newApp(cmd)
			defer a.close()

			commandExitCode = a.runner(cmd).Run(cmd.Context(), use, kind, build(a.hooks()))
		},
	}
}

func init() {
	sessionStartCmd := newHookCmd(
		"session-start",
		"Log session start and optionally inject development context",
		hook.EventKindSessionStart,
		func(h *handlers.Hooks) runner.Handler {
			return h.SessionStart(handlers.SessionStartOptions{
				LoadContext: loadContextFlag,
				Announce:    announceFlag,
			})
		},
	)
	sessionStartCmd.Flags().BoolVar(
		&loadContextFlag,
		"load-context",
		false,
		"Add git status, recent issues and project docs as session context",
	)
	sessionStartCmd.Flags().BoolVar(&announceFlag, "announce", false, "Announce the session start aloud")

	subagentStartCmd := newHookCmd(
		"subagent-start",
		"Log a subagent start",
		hook.EventKindSubagentStart,
		func(h *handlers.Hooks) runner.Handler { return h.SubagentStart(notifyFlag) },
	)
	subagentStartCmd.Flags().BoolVar(&notifyFlag, "notify", false, "Print a notice to stderr")

	subagentStopCmd := newHookCmd(
		"subagent-stop",
		"Log a subagent stop with its duration",
		hook.EventKindSubagentStop,
		func(h *handlers.Hooks) runner.Handler { return h.SubagentStop(notifyFlag) },
	)
	subagentStopCmd.Flags().BoolVar(&notifyFlag, "notify", false, "Print a notice with the duration to stderr")

	permissionCmd := newHookCmd(
		"permission-request",
		"Record permission dialogs",
		hook.EventKindPermissionRequest,
		func(h *handlers.Hooks) runner.Handler { return h.PermissionRequest(logOnlyFlag) },
	)
	permissionCmd.Flags().BoolVar(&logOnlyFlag, "log-only", false, "Record the request")

	promptCmd := newHookCmd(
		"user-prompt-submit",
		"Log the length of submitted prompts",
		hook.EventKindUserPromptSubmit,
		func(h *handlers.Hooks) runner.Handler { return h.UserPromptSubmit(storeLastPromptFlag) },
	)
	promptCmd.Flags().BoolVar(
		&storeLastPromptFlag,
		"store-last-prompt",
		false,
		"Keep the latest prompt in the data directory",
	)

	rootCmd.AddCommand(
		newHookCmd(
			"security-check",
			"Block destructive commands and credential file access",
			hook.EventKindPreToolUse,
			func(h *handlers.Hooks) runner.Handler { return h.SecurityCheck },
		),
		sessionStartCmd,
		newHookCmd(
			"session-end",
			"Log session end",
			hook.EventKindSessionEnd,
			func(h *handlers.Hooks) runner.Handler { return h.SessionEnd },
		),
		subagentStartCmd,
		subagentStopCmd,
		newHookCmd(
			"notification",
			"Log notifications",
			hook.EventKindNotification,
			func(h *handlers.Hooks) runner.Handler { return h.Notification },
		),
		newHookCmd(
			"pre-compact",
			"Back up the transcript before compaction",
			hook.EventKindPreCompact,
			func(h *handlers.Hooks) runner.Handler { return h.PreCompact },
		),
		permissionCmd,
		newHookCmd(
			"tool-logger",
			"Log every tool call verbatim",
			hook.EventKindPostToolUse,
			func(h *handlers.Hooks) runner.Handler { return h.ToolLogger },
		),
		promptCmd,
		newHookCmd(
			"post-tool-use-failure",
			"Log tool failures and suggest debugging steps",
			hook.EventKindPostToolUseFailure,
			func(h *handlers.Hooks) runner.Handler { return h.PostToolUseFailure },
		),
		newHookCmd(
			"setup",
			"Create the hook directories",
			hook.EventKindSetup,
			func(h *handlers.Hooks) runner.Handler { return h.Setup },
		),
		newHookCmd(
			"markdown-validator",
			"Report markdown problems in written files",
			hook.EventKindPostToolUse,
			func(h *handlers.Hooks) runner.Handler { return h.MarkdownValidator },
		),
		newHookCmd(
			"idle-detector",
			"Ask to continue when the transcript left TODO markers",
			hook.EventKindStop,
			func(h *handlers.Hooks) runner.Handler { return h.IdleDetector },
		),
		newHookCmd(
			"td-enforcer",
			"Require an active td task before editing code",
			hook.EventKindPreToolUse,
			func(h *handlers.Hooks) runner.Handler { return h.TDEnforcer },
		),
	)
}
