package config

import (
	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	"github.com/smykla-skalski/claude-hooks/internal/security"
	"github.com/smykla-skalski/claude-hooks/pkg/config"
)

// defaultLogFile is the diagnostic log path before home expansion.
const defaultLogFile = "~/.claude/hooks/claude-hooks.log"

// DefaultDocFiles are the project documents loaded into session context.
var DefaultDocFiles = []string{
	".claude/CONTEXT.md",
	"TODO.md",
	"ROADMAP.md",
	".claude/docs/README.md",
}

func defaultsToMap() map[string]any {
	return map[string]any{
		"version": config.CurrentConfigVersion,
		"paths": map[string]any{
			"logs_dir":    eventlog.DefaultLogsDir,
			"data_dir":    eventlog.DefaultDataDir,
			"backups_dir": eventlog.DefaultBackupsDir,
		},
		"logging": map[string]any{
			"file":  defaultLogFile,
			"debug": false,
			"trace": false,
		},
		"security": map[string]any{
			"extra_rm_patterns": []string{},
			"protected_paths":   append([]string(nil), security.DefaultProtectedPaths...),
			"file_rules":        []any{},
		},
		"context": map[string]any{
			"doc_files":         append([]string(nil), DefaultDocFiles...),
			"doc_max_chars":     config.DefaultDocMaxChars,
			"doc_preview_chars": config.DefaultDocPreviewChars,
			"issue_limit":       config.DefaultIssueLimit,
			"issue_source":      config.IssueSourceCLI,
		},
		"git": map[string]any{
			"use_sdk": false,
			"timeout": config.DefaultGitTimeout.String(),
		},
		"github": map[string]any{
			"timeout": config.DefaultGitHubTimeout.String(),
		},
		"announce": map[string]any{
			"command": config.DefaultAnnounceCommand,
			"timeout": config.DefaultAnnounceTimeout.String(),
		},
		"td": map[string]any{
			"timeout": config.DefaultTDTimeout.String(),
		},
		"backup": map[string]any{
			"max_backups": 0,
			"max_age":     "0s",
		},
		"idle": map[string]any{
			"window": config.DefaultIdleWindow,
		},
	}
}
