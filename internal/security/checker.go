package security

import (
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/claude-hooks/internal/decision"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
)

// ErrInvalidRule is returned for extra patterns that do not compile.
var ErrInvalidRule = errors.New("invalid security rule")

// Options extends the built-in rule set.
type Options struct {
	// ExtraRmPatterns are additional case-insensitive regexes for
	// destructive commands.
	ExtraRmPatterns []string

	// ProtectedPaths replaces the default protected prefixes when set.
	ProtectedPaths []string

	// ExtraFileRules are appended to the default file rules.
	ExtraFileRules []FileRule
}

// Checker evaluates tool calls against the rule set.
type Checker struct {
	rmPatterns     []*regexp.Regexp
	protectedPaths []string
	fileRules      []FileRule
	analyzer       *CommandAnalyzer
}

// NewChecker compiles the rule set. Invalid extra rules are skipped and
// reported together in the returned error; the checker is usable either way.
func NewChecker(opts Options) (*Checker, error) {
	c := &Checker{
		protectedPaths: DefaultProtectedPaths,
		fileRules:      append([]FileRule(nil), DefaultFileRules...),
		analyzer:       NewCommandAnalyzer(),
	}

	if len(opts.ProtectedPaths) > 0 {
		c.protectedPaths = opts.ProtectedPaths
	}

	var errs []error

	for _, p := range append(append([]string(nil), DefaultRmPatterns...), opts.ExtraRmPatterns...) {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			errs = append(errs, errors.Wrapf(ErrInvalidRule, "pattern %q: %v", p, err))

			continue
		}

		c.rmPatterns = append(c.rmPatterns, re)
	}

	for _, rule := range opts.ExtraFileRules {
		if !doublestar.ValidatePattern(rule.Glob) {
			errs = append(errs, errors.Wrapf(ErrInvalidRule, "glob %q", rule.Glob))

			continue
		}

		if rule.Reason == "" {
			rule.Reason = ReasonCredentialFile
		}

		c.fileRules = append(c.fileRules, rule)
	}

	return c, errors.Join(errs...)
}

// NewDefaultChecker returns a checker with only the built-in rules.
func NewDefaultChecker() *Checker {
	c, _ := NewChecker(Options{})

	return c
}

// Evaluate returns Block with a reason for dangerous calls and Allow
// otherwise.
func (c *Checker) Evaluate(ev *hook.Event) decision.Decision {
	switch {
	case ev.IsBash():
		return c.evaluateCommand(ev.Command())
	case ev.IsFileAccess():
		return c.evaluateFile(ev.FilePath())
	default:
		return decision.Allow()
	}
}

func (c *Checker) evaluateCommand(command string) decision.Decision {
	if command == "" {
		return decision.Allow()
	}

	for _, re := range c.rmPatterns {
		if re.MatchString(command) {
			return decision.Block(ReasonRecursiveDelete)
		}
	}

	if !c.analyzer.HasWriteCommand(command) {
		return decision.Allow()
	}

	for _, prefix := range c.protectedPaths {
		if strings.Contains(command, prefix) {
			return decision.Block(ReasonSystemPathPrefix + prefix)
		}
	}

	return decision.Allow()
}

func (c *Checker) evaluateFile(path string) decision.Decision {
	if rule, ok := MatchFile(c.fileRules, path); ok {
		return decision.Block(rule.Reason)
	}

	return decision.Allow()
}
