// Package parser decodes hook payloads read from standard input.
package parser

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/claude-hooks/pkg/hook"
)

var (
	// ErrEmptyInput is returned when the input is empty.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidJSON is returned when the input is not a JSON object.
	ErrInvalidJSON = errors.New("invalid JSON")
)

// payload is the typed projection of the wire format.
type payload struct {
	SessionID        string          `json:"session_id"`
	HookEventName    string          `json:"hook_event_name"`
	TranscriptPath   string          `json:"transcript_path"`
	Cwd              string          `json:"cwd"`
	Timestamp        string          `json:"timestamp"`
	ToolName         string          `json:"tool_name"`
	Tool             string          `json:"tool"`
	ToolUseID        string          `json:"tool_use_id"`
	ToolInput        json.RawMessage `json:"tool_input"`
	Source           string          `json:"source"`
	Reason           string          `json:"reason"`
	SubagentID       string          `json:"subagent_id"`
	AgentID          string          `json:"agent_id"`
	SubagentType     string          `json:"subagent_type"`
	AgentType        string          `json:"agent_type"`
	Description      string          `json:"description"`
	Status           string          `json:"status"`
	Type             string          `json:"type"`
	NotificationType string          `json:"notification_type"`
	Message          string          `json:"message"`
	Level            string          `json:"level"`
	Error            string          `json:"error"`
	ExitCode         any             `json:"exit_code"`
	Prompt           string          `json:"prompt"`
	Content          string          `json:"content"`
}

// JSONParser reads a single hook payload.
type JSONParser struct {
	reader io.Reader
}

// NewJSONParser creates a new JSONParser that reads from the given reader.
func NewJSONParser(reader io.Reader) *JSONParser {
	return &JSONParser{reader: reader}
}

// Parse reads the payload and decodes it. A field with an unexpected type is
// dropped instead of failing the whole payload. When kind is unknown it is
// taken from hook_event_name.
func (p *JSONParser) Parse(kind hook.EventKind) (*hook.Event, error) {
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return nil, errors.Wrap(err, "reading input")
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.CombineErrors(ErrInvalidJSON, err)
	}

	if raw == nil {
		return nil, errors.Wrap(ErrInvalidJSON, "payload is null")
	}

	fields := decodeLenient(data)

	ev := &hook.Event{
		Kind:             kind,
		SessionID:        fields.SessionID,
		HookEventName:    fields.HookEventName,
		TranscriptPath:   fields.TranscriptPath,
		Cwd:              fields.Cwd,
		Timestamp:        fields.Timestamp,
		ToolName:         hook.StringOr(fields.ToolName, fields.Tool),
		ToolUseID:        fields.ToolUseID,
		Source:           fields.Source,
		Reason:           fields.Reason,
		SubagentID:       hook.StringOr(fields.SubagentID, fields.AgentID),
		SubagentType:     hook.StringOr(fields.SubagentType, fields.AgentType),
		Description:      fields.Description,
		Status:           fields.Status,
		NotificationType: hook.StringOr(fields.NotificationType, fields.Type),
		Message:          fields.Message,
		Level:            fields.Level,
		Error:            fields.Error,
		ExitCode:         fields.ExitCode,
		Prompt:           hook.StringOr(fields.Prompt, fields.Content),
		Raw:              raw,
	}

	if kind == hook.EventKindUnknown {
		ev.Kind = hook.ParseEventKind(fields.HookEventName)
	}

	if len(fields.ToolInput) > 0 {
		// Non-object tool_input (string, array) leaves the typed view empty.
		_ = json.Unmarshal(fields.ToolInput, &ev.ToolInput)
	}

	return ev, nil
}

// decodeLenient decodes the typed projection. encoding/json skips fields
// whose type does not match and keeps going, so the error is dropped.
func decodeLenient(data []byte) payload {
	var p payload

	_ = json.Unmarshal(data, &p)

	return p
}
