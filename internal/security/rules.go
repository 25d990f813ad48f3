// Package security decides whether a tool call touches dangerous commands
// or sensitive files.
//
// The rule set matches the command text and file paths against fixed
// patterns. It is evadable by construction (aliases, variables, eval,
// encoded payloads) and is meant as a second line behind the host's own
// permission rules.
package security

import "regexp"

const (
	// ReasonRecursiveDelete is reported for recursive forced deletion.
	ReasonRecursiveDelete = "Blocked dangerous rm -rf command for security"

	// ReasonSystemPathPrefix prefixes the reason for system path writes.
	ReasonSystemPathPrefix = "Blocked system file modification: "

	// ReasonEnvFile is reported for .env access.
	ReasonEnvFile = "Blocked access to .env file for security"

	// ReasonCredentialFile is reported for key and credential files.
	ReasonCredentialFile = "Blocked access to credential file for security"
)

// DefaultRmPatterns match recursive forced deletion. They are compiled
// case-insensitively.
var DefaultRmPatterns = []string{
	`rm\s+(-[a-z]*r[a-z]*f|--recursive.*--force|-[a-z]*f[a-z]*r|--force.*--recursive)`,
	`rm\s+-rf\s+/`,
	`rm\s+-rf\s+\.`,
	`rm\s+-rf\s+\*`,
}

// DefaultProtectedPaths are the path prefixes write commands may not touch.
var DefaultProtectedPaths = []string{"/etc/", "/usr/", "/var/", "/System/"}

// WriteCommands are the programs treated as modifying the filesystem.
var WriteCommands = []string{
	"rm", "mv", "cp", "chmod", "chown", "chgrp", "install",
	"ln", "mkdir", "rmdir", "tee", "dd", "mkfs", "mount",
}

// writePrefixPattern is used when the command does not parse as shell.
var writePrefixPattern = regexp.MustCompile(
	`(^|[;&|]\s*)(sudo\s+)?(rm|mv|cp|chmod|chown|chgrp|install|ln|mkdir|rmdir|tee|dd|mkfs|mount)\b`,
)

// FileRule blocks file access for paths matching Glob.
type FileRule struct {
	// Glob is a doublestar pattern matched against the slash-separated path
	// without its leading slash.
	Glob string `json:"glob" koanf:"glob"`

	// Reason is reported when the rule blocks.
	Reason string `json:"reason" koanf:"reason"`

	// Except lists substrings that exempt a matching path.
	Except []string `json:"except,omitempty" koanf:"except"`
}

// DefaultFileRules protect environment files and credentials.
var DefaultFileRules = []FileRule{
	{
		Glob:   "**/*.env",
		Reason: ReasonEnvFile,
		Except: []string{".example", ".sample", ".template"},
	},
	{Glob: "**/*.key", Reason: ReasonCredentialFile},
	{Glob: "**/*.pem", Reason: ReasonCredentialFile},
	{Glob: "**/*credentials.json", Reason: ReasonCredentialFile},
}
