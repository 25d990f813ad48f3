package config

import "time"

// Defaults used when a section or field is unset.
const (
	DefaultDocMaxChars     = 1000
	DefaultDocPreviewChars = 500
	DefaultIssueLimit      = 5
	DefaultGitTimeout      = 5 * time.Second
	DefaultGitHubTimeout   = 10 * time.Second
	DefaultAnnounceCommand = "say"
	DefaultAnnounceTimeout = 2 * time.Second
	DefaultTDTimeout       = 5 * time.Second
	DefaultIdleWindow      = 20
)

// GetPaths returns the paths config, creating it if it doesn't exist.
func (c *Config) GetPaths() *PathsConfig {
	if c.Paths == nil {
		c.Paths = &PathsConfig{}
	}

	return c.Paths
}

// GetLogging returns the logging config, creating it if it doesn't exist.
func (c *Config) GetLogging() *LoggingConfig {
	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}

	return c.Logging
}

// GetSecurity returns the security config, creating it if it doesn't exist.
func (c *Config) GetSecurity() *SecurityConfig {
	if c.Security == nil {
		c.Security = &SecurityConfig{}
	}

	return c.Security
}

// GetContext returns the context config, creating it if it doesn't exist.
func (c *Config) GetContext() *ContextConfig {
	if c.Context == nil {
		c.Context = &ContextConfig{}
	}

	return c.Context
}

// GetGit returns the git config, creating it if it doesn't exist.
func (c *Config) GetGit() *GitConfig {
	if c.Git == nil {
		c.Git = &GitConfig{}
	}

	return c.Git
}

// GetGitHub returns the GitHub config, creating it if it doesn't exist.
func (c *Config) GetGitHub() *GitHubConfig {
	if c.GitHub == nil {
		c.GitHub = &GitHubConfig{}
	}

	return c.GitHub
}

// GetAnnounce returns the announce config, creating it if it doesn't exist.
func (c *Config) GetAnnounce() *AnnounceConfig {
	if c.Announce == nil {
		c.Announce = &AnnounceConfig{}
	}

	return c.Announce
}

// GetTD returns the td config, creating it if it doesn't exist.
func (c *Config) GetTD() *TDConfig {
	if c.TD == nil {
		c.TD = &TDConfig{}
	}

	return c.TD
}

// GetBackup returns the backup config, creating it if it doesn't exist.
func (c *Config) GetBackup() *BackupConfig {
	if c.Backup == nil {
		c.Backup = &BackupConfig{}
	}

	return c.Backup
}

// GetIdle returns the idle config, creating it if it doesn't exist.
func (c *Config) GetIdle() *IdleConfig {
	if c.Idle == nil {
		c.Idle = &IdleConfig{}
	}

	return c.Idle
}

// GetDocMaxChars returns the per-document read limit.
func (c *ContextConfig) GetDocMaxChars() int {
	if c == nil || c.DocMaxChars <= 0 {
		return DefaultDocMaxChars
	}

	return c.DocMaxChars
}

// GetDocPreviewChars returns the per-document render limit.
func (c *ContextConfig) GetDocPreviewChars() int {
	if c == nil || c.DocPreviewChars <= 0 {
		return DefaultDocPreviewChars
	}

	return c.DocPreviewChars
}

// GetIssueLimit returns the number of issues to list.
func (c *ContextConfig) GetIssueLimit() int {
	if c == nil || c.IssueLimit <= 0 {
		return DefaultIssueLimit
	}

	return c.IssueLimit
}

// GetIssueSource returns the issue source, defaulting to the gh CLI.
func (c *ContextConfig) GetIssueSource() string {
	if c == nil || c.IssueSource == "" {
		return IssueSourceCLI
	}

	return c.IssueSource
}

// GetTimeout returns the git timeout, using default if not set.
func (g *GitConfig) GetTimeout() time.Duration {
	if g == nil || g.Timeout.ToDuration() <= 0 {
		return DefaultGitTimeout
	}

	return g.Timeout.ToDuration()
}

// GetTimeout returns the GitHub timeout, using default if not set.
func (g *GitHubConfig) GetTimeout() time.Duration {
	if g == nil || g.Timeout.ToDuration() <= 0 {
		return DefaultGitHubTimeout
	}

	return g.Timeout.ToDuration()
}

// GetCommand returns the speech program.
func (a *AnnounceConfig) GetCommand() string {
	if a == nil || a.Command == "" {
		return DefaultAnnounceCommand
	}

	return a.Command
}

// GetTimeout returns the announce timeout, using default if not set.
func (a *AnnounceConfig) GetTimeout() time.Duration {
	if a == nil || a.Timeout.ToDuration() <= 0 {
		return DefaultAnnounceTimeout
	}

	return a.Timeout.ToDuration()
}

// GetTimeout returns the td timeout, using default if not set.
func (t *TDConfig) GetTimeout() time.Duration {
	if t == nil || t.Timeout.ToDuration() <= 0 {
		return DefaultTDTimeout
	}

	return t.Timeout.ToDuration()
}

// GetWindow returns the idle detector window.
func (i *IdleConfig) GetWindow() int {
	if i == nil || i.Window <= 0 {
		return DefaultIdleWindow
	}

	return i.Window
}
