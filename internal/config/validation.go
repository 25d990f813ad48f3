package config

import (
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/claude-hooks/pkg/config"
)

// Validate checks value ranges and patterns. Every problem is reported.
func Validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.Wrap(ErrInvalidConfig, "config is nil")
	}

	var errs []error

	if cfg.Context != nil {
		switch cfg.Context.IssueSource {
		case config.IssueSourceCLI, config.IssueSourceAPI:
		default:
			errs = append(errs, errors.Wrapf(ErrInvalidConfig,
				"context.issue_source %q must be %q or %q",
				cfg.Context.IssueSource, config.IssueSourceCLI, config.IssueSourceAPI))
		}

		if cfg.Context.DocMaxChars < 0 || cfg.Context.DocPreviewChars < 0 || cfg.Context.IssueLimit < 0 {
			errs = append(errs, errors.Wrap(ErrInvalidConfig, "context limits must be non-negative"))
		}
	}

	if cfg.Backup != nil && cfg.Backup.MaxBackups < 0 {
		errs = append(errs, errors.Wrap(ErrInvalidConfig, "backup.max_backups must be non-negative"))
	}

	if cfg.Idle != nil && cfg.Idle.Window < 0 {
		errs = append(errs, errors.Wrap(ErrInvalidConfig, "idle.window must be non-negative"))
	}

	if cfg.Security != nil {
		for _, p := range cfg.Security.ExtraRmPatterns {
			if _, err := regexp.Compile(p); err != nil {
				errs = append(errs, errors.Wrapf(ErrInvalidConfig, "security.extra_rm_patterns %q: %v", p, err))
			}
		}

		for _, r := range cfg.Security.FileRules {
			if r.Glob == "" || !doublestar.ValidatePattern(r.Glob) {
				errs = append(errs, errors.Wrapf(ErrInvalidConfig, "security.file_rules glob %q", r.Glob))
			}
		}
	}

	return errors.Join(errs...)
}
