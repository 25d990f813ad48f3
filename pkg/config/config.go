package config

// CurrentConfigVersion is the latest config schema version.
const CurrentConfigVersion = 1

// Issue sources for session context.
const (
	IssueSourceCLI = "cli"
	IssueSourceAPI = "api"
)

// Config represents the root configuration for claude-hooks.
type Config struct {
	// Version is the config schema version. Defaults to 1 when omitted.
	Version int `json:"version,omitempty" koanf:"version" toml:"version,omitempty"`

	// Paths controls where event logs and data are written.
	Paths *PathsConfig `json:"paths,omitempty" koanf:"paths" toml:"paths,omitempty"`

	// Logging configures the diagnostic log.
	Logging *LoggingConfig `json:"logging,omitempty" koanf:"logging" toml:"logging,omitempty"`

	// Security extends the security-check rules.
	Security *SecurityConfig `json:"security,omitempty" koanf:"security" toml:"security,omitempty"`

	// Context configures the session-start context block.
	Context *ContextConfig `json:"context,omitempty" koanf:"context" toml:"context,omitempty"`

	// Git configures repository inspection.
	Git *GitConfig `json:"git,omitempty" koanf:"git" toml:"git,omitempty"`

	// GitHub configures issue listing.
	GitHub *GitHubConfig `json:"github,omitempty" koanf:"github" toml:"github,omitempty"`

	// Announce configures the spoken session announcement.
	Announce *AnnounceConfig `json:"announce,omitempty" koanf:"announce" toml:"announce,omitempty"`

	// TD configures the td task enforcer.
	TD *TDConfig `json:"td,omitempty" koanf:"td" toml:"td,omitempty"`

	// Backup configures transcript backup retention.
	Backup *BackupConfig `json:"backup,omitempty" koanf:"backup" toml:"backup,omitempty"`

	// Idle configures the idle detector.
	Idle *IdleConfig `json:"idle,omitempty" koanf:"idle" toml:"idle,omitempty"`
}

// PathsConfig locates the per-project log and data directories.
type PathsConfig struct {
	// LogsDir is relative to the project root unless absolute.
	// Default: ".claude/logs"
	LogsDir string `json:"logs_dir,omitempty" koanf:"logs_dir" toml:"logs_dir,omitempty"`

	// DataDir is relative to the project root unless absolute.
	// Default: ".claude/data"
	DataDir string `json:"data_dir,omitempty" koanf:"data_dir" toml:"data_dir,omitempty"`

	// BackupsDir is relative to LogsDir unless absolute.
	// Default: "transcript_backups"
	BackupsDir string `json:"backups_dir,omitempty" koanf:"backups_dir" toml:"backups_dir,omitempty"`
}

// LoggingConfig configures the diagnostic log file.
type LoggingConfig struct {
	// File is the diagnostic log path. A leading ~ expands to the home directory.
	// Default: "~/.claude/hooks/claude-hooks.log"
	File string `json:"file,omitempty" koanf:"file" toml:"file,omitempty"`

	// Debug enables debug level.
	Debug bool `json:"debug,omitempty" koanf:"debug" toml:"debug,omitempty"`

	// Trace enables trace level, which implies debug.
	Trace bool `json:"trace,omitempty" koanf:"trace" toml:"trace,omitempty"`
}

// FileRuleConfig is an additional protected file pattern.
type FileRuleConfig struct {
	// Glob is a doublestar pattern, e.g. "**/secrets/**".
	Glob string `json:"glob" koanf:"glob" toml:"glob"`

	// Reason is printed when the rule blocks.
	Reason string `json:"reason,omitempty" koanf:"reason" toml:"reason,omitempty"`

	// Except lists substrings that exempt a matching path.
	Except []string `json:"except,omitempty" koanf:"except" toml:"except,omitempty"`
}

// SecurityConfig extends the built-in security rules.
type SecurityConfig struct {
	// ExtraRmPatterns are case-insensitive regexes for destructive commands.
	ExtraRmPatterns []string `json:"extra_rm_patterns,omitempty" koanf:"extra_rm_patterns" toml:"extra_rm_patterns,omitempty"`

	// ProtectedPaths replaces the default protected prefixes when non-empty.
	// Default: ["/etc/", "/usr/", "/var/", "/System/"]
	ProtectedPaths []string `json:"protected_paths,omitempty" koanf:"protected_paths" toml:"protected_paths,omitempty"`

	// FileRules are appended to the built-in file rules.
	FileRules []FileRuleConfig `json:"file_rules,omitempty" koanf:"file_rules" toml:"file_rules,omitempty"`
}

// ContextConfig configures the development context block.
type ContextConfig struct {
	// DocFiles are project-relative documents included in the context.
	// Default: [".claude/CONTEXT.md", "TODO.md", "ROADMAP.md", ".claude/docs/README.md"]
	DocFiles []string `json:"doc_files,omitempty" koanf:"doc_files" toml:"doc_files,omitempty"`

	// DocMaxChars caps how much of each document is read.
	// Default: 1000
	DocMaxChars int `json:"doc_max_chars,omitempty" koanf:"doc_max_chars" toml:"doc_max_chars,omitempty"`

	// DocPreviewChars caps how much of each document is rendered.
	// Default: 500
	DocPreviewChars int `json:"doc_preview_chars,omitempty" koanf:"doc_preview_chars" toml:"doc_preview_chars,omitempty"`

	// IssueLimit is the number of recent issues listed.
	// Default: 5
	IssueLimit int `json:"issue_limit,omitempty" koanf:"issue_limit" toml:"issue_limit,omitempty"`

	// IssueSource selects "cli" (gh) or "api" (GitHub REST).
	// Default: "cli"
	IssueSource string `json:"issue_source,omitempty" koanf:"issue_source" toml:"issue_source,omitempty" jsonschema:"enum=cli,enum=api"`
}

// GitConfig configures repository inspection.
type GitConfig struct {
	// UseSDK reads the repository with go-git instead of the git binary.
	// Default: false
	UseSDK bool `json:"use_sdk,omitempty" koanf:"use_sdk" toml:"use_sdk,omitempty"`

	// Timeout bounds each git invocation.
	// Default: "5s"
	Timeout Duration `json:"timeout,omitempty" koanf:"timeout" toml:"timeout,omitempty"`
}

// GitHubConfig configures issue listing.
type GitHubConfig struct {
	// Timeout bounds gh invocations and API requests.
	// Default: "10s"
	Timeout Duration `json:"timeout,omitempty" koanf:"timeout" toml:"timeout,omitempty"`
}

// AnnounceConfig configures the say command.
type AnnounceConfig struct {
	// Command is the speech program.
	// Default: "say"
	Command string `json:"command,omitempty" koanf:"command" toml:"command,omitempty"`

	// Timeout bounds the speech program.
	// Default: "2s"
	Timeout Duration `json:"timeout,omitempty" koanf:"timeout" toml:"timeout,omitempty"`
}

// TDConfig configures the td enforcer.
type TDConfig struct {
	// Timeout bounds each td invocation.
	// Default: "5s"
	Timeout Duration `json:"timeout,omitempty" koanf:"timeout" toml:"timeout,omitempty"`
}

// BackupConfig configures transcript backup retention.
type BackupConfig struct {
	// MaxBackups keeps at most this many backups. Zero keeps all.
	// Default: 0
	MaxBackups int `json:"max_backups,omitempty" koanf:"max_backups" toml:"max_backups,omitempty"`

	// MaxAge removes backups older than this. Zero keeps all.
	// Default: "0s"
	MaxAge Duration `json:"max_age,omitempty" koanf:"max_age" toml:"max_age,omitempty"`
}

// IdleConfig configures the idle detector.
type IdleConfig struct {
	// Window is the number of trailing transcript entries inspected.
	// Default: 20
	Window int `json:"window,omitempty" koanf:"window" toml:"window,omitempty"`
}
