// Package hookresponse builds the optional JSON object written to stdout.
package hookresponse

import (
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/claude-hooks/pkg/hook"
)

// Response is the top-level JSON structure written to stdout.
type Response struct {
	HookSpecificOutput *HookSpecificOutput `json:"hookSpecificOutput,omitempty"`
}

// HookSpecificOutput carries context the host injects into the session.
type HookSpecificOutput struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext,omitempty"`
}

// WithContext returns a response injecting additionalContext for kind.
// An empty context yields nil, meaning nothing is written.
func WithContext(kind hook.EventKind, additionalContext string) *Response {
	if additionalContext == "" {
		return nil
	}

	return &Response{
		HookSpecificOutput: &HookSpecificOutput{
			HookEventName:     kind.String(),
			AdditionalContext: additionalContext,
		},
	}
}

// Write encodes r as a single line. A nil response writes nothing.
func Write(w io.Writer, r *Response) error {
	if r == nil {
		return nil
	}

	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "marshal hook response")
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "write hook response")
	}

	return nil
}
