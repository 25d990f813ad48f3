// Package transcript inspects session transcripts for unfinished work.
package transcript

import (
	"bufio"
	"encoding/json"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	// DefaultWindow is the number of trailing transcript entries inspected.
	DefaultWindow = 20

	maxLineSize = 16 * 1024 * 1024
)

// codeTools are the tools whose inputs carry code.
var codeTools = []string{"Edit", "Write", "Bash", "NotebookEdit"}

// codeFields are the tool input fields holding code.
var codeFields = []string{"content", "new_string", "command", "new_source"}

type marker struct {
	re     *regexp.Regexp
	reason string
}

var markers = []marker{
	{regexp.MustCompile(`(?i)#\s*TODO\b`), "TODO comments in code"},
	{regexp.MustCompile(`(?i)#\s*FIXME\b`), "FIXME comments in code"},
	{regexp.MustCompile(`(?i)//\s*TODO\b`), "TODO comments in code"},
	{regexp.MustCompile(`(?i)//\s*FIXME\b`), "FIXME comments in code"},
}

// Finding describes why a session looks unfinished.
type Finding struct {
	Reason string
}

// Prompt is the continuation message printed for the host.
func (f Finding) Prompt() string {
	return "There appear to be incomplete tasks or errors (" + f.Reason +
		"). Please verify all work is complete before stopping."
}

// IdleDetector looks for TODO and FIXME markers in code the assistant wrote
// recently.
type IdleDetector struct {
	window int
}

// NewIdleDetector creates a detector inspecting the last window entries.
func NewIdleDetector(window int) *IdleDetector {
	if window <= 0 {
		window = DefaultWindow
	}

	return &IdleDetector{window: window}
}

// Inspect reads the transcript at path. It returns false when nothing
// unfinished was found.
func (d *IdleDetector) Inspect(path string) (Finding, bool, error) {
	lines, err := d.tail(path)
	if err != nil {
		return Finding{}, false, err
	}

	var code []string

	for _, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}

		code = append(code, codeFromEntry(entry)...)
	}

	all := strings.Join(code, "\n")

	for _, m := range markers {
		if m.re.MatchString(all) {
			return Finding{Reason: m.reason}, true, nil
		}
	}

	return Finding{}, false, nil
}

func (d *IdleDetector) tail(path string) ([]string, error) {
	//nolint:gosec // transcript path comes from the host
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open transcript")
	}
	defer file.Close()

	ring := make([]string, 0, d.window)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if len(ring) == d.window {
			ring = ring[1:]
		}

		ring = append(ring, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read transcript")
	}

	return ring, nil
}

// codeFromEntry collects code from a top-level tool_use entry or from
// tool_use blocks nested in message.content.
func codeFromEntry(entry map[string]any) []string {
	var blocks []map[string]any

	if entry["type"] == "tool_use" {
		blocks = append(blocks, entry)
	}

	if msg, ok := entry["message"].(map[string]any); ok {
		if content, ok := msg["content"].([]any); ok {
			for _, item := range content {
				if block, ok := item.(map[string]any); ok && block["type"] == "tool_use" {
					blocks = append(blocks, block)
				}
			}
		}
	}

	var code []string

	for _, block := range blocks {
		name, _ := block["name"].(string)
		if !slices.Contains(codeTools, name) {
			continue
		}

		input, ok := block["input"].(map[string]any)
		if !ok {
			continue
		}

		for _, field := range codeFields {
			if s, ok := input[field].(string); ok {
				code = append(code, s)
			}
		}
	}

	return code
}
