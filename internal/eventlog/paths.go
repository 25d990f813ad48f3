package eventlog

import (
	"os"
	"path/filepath"
)

// ProjectDirEnv names the environment variable holding the project root.
const ProjectDirEnv = "CLAUDE_PROJECT_DIR"

// Log file names, one per event kind.
const (
	FileSecurityBlocks = "security_blocks.jsonl"
	FileSessionStart   = "session_start.jsonl"
	FileSessionEnd     = "session_end.jsonl"
	FileToolUse        = "tool_use.jsonl"
	FileSubagents      = "subagents.jsonl"
	FileNotifications  = "notifications.jsonl"
	FilePreCompact     = "pre_compact.jsonl"
	FilePermissions    = "permissions.jsonl"
	FileUserPrompts    = "user_prompts.jsonl"
	FileToolFailures   = "tool_failures.jsonl"
	FileSetup          = "setup.jsonl"
)

// Default locations relative to the project root.
const (
	DefaultLogsDir    = ".claude/logs"
	DefaultDataDir    = ".claude/data"
	DefaultBackupsDir = "transcript_backups"
)

// ResolveProjectRoot returns $CLAUDE_PROJECT_DIR, or the working directory
// when it is unset. An unreadable working directory resolves to ".".
func ResolveProjectRoot() string {
	if dir := os.Getenv(ProjectDirEnv); dir != "" {
		return dir
	}

	wd, err := os.Getwd()
	if err != nil {
		return "."
	}

	return wd
}

// Paths locates everything the hooks persist for one project.
type Paths struct {
	Root    string
	LogsDir string
	DataDir string
	Backups string
}

// NewPaths builds Paths under root. Relative dirs are joined to root and
// the backup dir is joined to the logs dir; empty values use the defaults.
func NewPaths(root, logsDir, dataDir, backupsDir string) Paths {
	logs := resolve(root, logsDir, DefaultLogsDir)

	return Paths{
		Root:    root,
		LogsDir: logs,
		DataDir: resolve(root, dataDir, DefaultDataDir),
		Backups: resolve(logs, backupsDir, DefaultBackupsDir),
	}
}

// Log returns the path of the named log file.
func (p Paths) Log(name string) string {
	return filepath.Join(p.LogsDir, name)
}

// Data returns the path of the named data file.
func (p Paths) Data(name string) string {
	return filepath.Join(p.DataDir, name)
}

func resolve(base, dir, fallback string) string {
	if dir == "" {
		dir = fallback
	}

	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}

	return filepath.Join(base, filepath.FromSlash(dir))
}
