// Package hook provides the event types exchanged with the host over stdin.
package hook

import "slices"

// EventKind identifies the lifecycle point a hook is invoked for.
type EventKind int

const (
	// EventKindUnknown represents an unrecognised event.
	EventKindUnknown EventKind = iota

	// EventKindSessionStart fires when a session starts or resumes.
	EventKindSessionStart

	// EventKindSessionEnd fires when a session terminates.
	EventKindSessionEnd

	// EventKindPreToolUse fires before a tool executes.
	EventKindPreToolUse

	// EventKindPostToolUse fires after a tool completes.
	EventKindPostToolUse

	// EventKindPostToolUseFailure fires after a tool fails.
	EventKindPostToolUseFailure

	// EventKindNotification fires for user notifications.
	EventKindNotification

	// EventKindSubagentStart fires when a subagent is spawned.
	EventKindSubagentStart

	// EventKindSubagentStop fires when a subagent finishes.
	EventKindSubagentStop

	// EventKindPreCompact fires before the transcript is compacted.
	EventKindPreCompact

	// EventKindPermissionRequest fires when a permission dialog is shown.
	EventKindPermissionRequest

	// EventKindUserPromptSubmit fires when the user submits a prompt.
	EventKindUserPromptSubmit

	// EventKindStop fires when the main agent finishes responding.
	EventKindStop

	// EventKindSetup fires during repository initialisation.
	EventKindSetup
)

var eventKindNames = []string{
	"Unknown",
	"SessionStart",
	"SessionEnd",
	"PreToolUse",
	"PostToolUse",
	"PostToolUseFailure",
	"Notification",
	"SubagentStart",
	"SubagentStop",
	"PreCompact",
	"PermissionRequest",
	"UserPromptSubmit",
	"Stop",
	"Setup",
}

// String returns the host's name for the event kind.
func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return eventKindNames[EventKindUnknown]
	}

	return eventKindNames[k]
}

// ParseEventKind maps a host event name to an EventKind.
func ParseEventKind(name string) EventKind {
	idx := slices.Index(eventKindNames, name)
	if idx < 0 {
		return EventKindUnknown
	}

	return EventKind(idx)
}

// Tool names the hooks care about.
const (
	ToolBash         = "Bash"
	ToolRead         = "Read"
	ToolEdit         = "Edit"
	ToolWrite        = "Write"
	ToolMultiEdit    = "MultiEdit"
	ToolNotebookEdit = "NotebookEdit"
)

// ToolInput is the typed view over the tool_input object.
type ToolInput struct {
	// Command is the shell command for the Bash tool.
	Command string `json:"command,omitempty"`

	// FilePath is the target of Read, Edit and Write.
	FilePath string `json:"file_path,omitempty"`

	// Path is an alternative field for file path.
	Path string `json:"path,omitempty"`

	// Content is the file content for Write.
	Content string `json:"content,omitempty"`

	// NewString is the replacement string for Edit.
	NewString string `json:"new_string,omitempty"`
}

// Event is one decoded hook payload. Every field is optional; absent ones
// stay at their zero value.
type Event struct {
	Kind EventKind

	SessionID      string
	HookEventName  string
	TranscriptPath string
	Cwd            string
	Timestamp      string

	ToolName  string
	ToolUseID string
	ToolInput ToolInput

	// Source is the session-start trigger (startup, resume, clear, compact).
	Source string
	// Reason is the session-end reason.
	Reason string

	SubagentID   string
	SubagentType string
	Description  string
	Status       string

	NotificationType string
	Message          string
	Level            string

	Error    string
	ExitCode any

	// Prompt is the submitted user prompt.
	Prompt string

	// Raw is the full decoded payload.
	Raw map[string]any
}

// FilePath returns the file target, preferring file_path over path.
func (e *Event) FilePath() string {
	if e.ToolInput.FilePath != "" {
		return e.ToolInput.FilePath
	}

	return e.ToolInput.Path
}

// Command returns the Bash command, if any.
func (e *Event) Command() string {
	return e.ToolInput.Command
}

// IsBash reports whether the event targets the Bash tool.
func (e *Event) IsBash() bool {
	return e.ToolName == ToolBash
}

// IsFileAccess reports whether the event targets Read, Edit or Write.
func (e *Event) IsFileAccess() bool {
	switch e.ToolName {
	case ToolRead, ToolEdit, ToolWrite:
		return true
	default:
		return false
	}
}

// RawToolInput returns the undecoded tool_input value, or nil.
func (e *Event) RawToolInput() any {
	if e.Raw == nil {
		return nil
	}

	return e.Raw["tool_input"]
}

// StringOr returns s, or fallback when s is empty.
func StringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}

	return s
}
