// Package td links code edits to the active task of the td task tracker.
package td

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/smykla-skalski/claude-hooks/internal/decision"
	execpkg "github.com/smykla-skalski/claude-hooks/internal/exec"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
	"github.com/smykla-skalski/claude-hooks/pkg/logger"
)

// StoreDir marks a project initialised for td.
const StoreDir = ".todos"

// NoTaskMessage is the block reason when no task is focused.
const NoTaskMessage = `No active TD task. Create a task first using: td create "<description>" && td start <task-id>`

// CodeExtensions are the file suffixes treated as code.
var CodeExtensions = []string{
	".ts", ".tsx", ".js", ".jsx", ".go", ".py", ".java", ".kt",
	".rs", ".c", ".cpp", ".h", ".hpp", ".rb", ".php", ".swift",
}

// IsCodeFile reports whether path has a code extension.
func IsCodeFile(path string) bool {
	return slices.ContainsFunc(CodeExtensions, func(ext string) bool {
		return strings.HasSuffix(path, ext)
	})
}

type status struct {
	Focused *struct {
		Issue *struct {
			ID string `json:"id"`
		} `json:"issue"`
	} `json:"focused"`
}

// Enforcer blocks code edits made outside a td task.
type Enforcer struct {
	runner execpkg.CommandRunner
	root   string
	log    logger.Logger
}

// NewEnforcer creates an enforcer for the project at root.
func NewEnforcer(runner execpkg.CommandRunner, root string, log logger.Logger) *Enforcer {
	return &Enforcer{runner: runner, root: root, log: log}
}

// Available reports whether td is installed and the project has a store.
func (e *Enforcer) Available(ctx context.Context) bool {
	if !e.runner.Run(ctx, e.root, "td", "--version").Success() {
		return false
	}

	info, err := os.Stat(filepath.Join(e.root, StoreDir))

	return err == nil && info.IsDir()
}

// ActiveTask returns the focused task id, or "".
func (e *Enforcer) ActiveTask(ctx context.Context) string {
	res := e.runner.Run(ctx, e.root, "td", "status", "--json")
	if !res.Success() {
		return ""
	}

	var st status
	if err := json.Unmarshal([]byte(res.Stdout), &st); err != nil {
		e.log.Debug("undecodable td status", "error", err)

		return ""
	}

	if st.Focused == nil || st.Focused.Issue == nil {
		return ""
	}

	return st.Focused.Issue.ID
}

// Evaluate blocks Edit and Write on code files when no task is active and
// links the file to the active task otherwise.
func (e *Enforcer) Evaluate(ctx context.Context, ev *hook.Event) decision.Decision {
	if ev.ToolName != hook.ToolEdit && ev.ToolName != hook.ToolWrite {
		return decision.Allow()
	}

	path := ev.FilePath()
	if path == "" || !IsCodeFile(path) {
		return decision.Allow()
	}

	if !e.Available(ctx) {
		return decision.Allow()
	}

	task := e.ActiveTask(ctx)
	if task == "" {
		return decision.Block(NoTaskMessage)
	}

	linked := e.runner.Run(ctx, e.root, "td", "status", "--file", path)
	if linked.Success() && strings.Contains(linked.Stdout, task) {
		return decision.Allow()
	}

	if res := e.runner.Run(ctx, e.root, "td", "link", task, path); !res.Success() {
		e.log.Debug("td link failed", "task", task, "file", path, "stderr", res.Stderr)
	}

	return decision.Allow()
}
