// Package doctor provides health checks for the hook installation of a project
package doctor

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/claude-hooks/pkg/logger"
)

// ErrChecksFailed is returned when at least one check failed with error severity.
var ErrChecksFailed = errors.New("health checks failed")

// Severity represents the severity level of a check result
type Severity string

const (
	// SeverityError indicates a problem that breaks hooks
	SeverityError Severity = "error"
	// SeverityWarning indicates a problem that degrades hooks
	SeverityWarning Severity = "warning"
	// SeverityInfo indicates informational output
	SeverityInfo Severity = "info"
)

// Status represents the status of a health check
type Status string

const (
	// StatusPass indicates the check passed
	StatusPass Status = "pass"
	// StatusFail indicates the check failed
	StatusFail Status = "fail"
	// StatusSkipped indicates the check was skipped
	StatusSkipped Status = "skipped"
)

// Category represents the category of a health check
type Category string

const (
	// CategoryConfig checks configuration files
	CategoryConfig Category = "config"
	// CategoryPaths checks the log, data and backup directories
	CategoryPaths Category = "paths"
	// CategoryTools checks external commands used by the hooks
	CategoryTools Category = "tools"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Name     string
	Category Category
	Severity Severity
	Status   Status
	Message  string
	Details  []string
}

// HealthChecker performs a health check and returns a result
type HealthChecker interface {
	Name() string
	Category() Category
	Check(ctx context.Context) CheckResult
}

// NewCheckResult creates a new CheckResult with the given parameters
func NewCheckResult(name string, severity Severity, status Status, message string) CheckResult {
	return CheckResult{
		Name:     name,
		Severity: severity,
		Status:   status,
		Message:  message,
	}
}

// WithDetails adds details to a CheckResult
func (r CheckResult) WithDetails(details ...string) CheckResult {
	r.Details = append(r.Details, details...)

	return r
}

// Pass creates a passing check result
func Pass(name, message string) CheckResult {
	return NewCheckResult(name, SeverityInfo, StatusPass, message)
}

// Fail creates a failing check result with the given severity
func Fail(name string, severity Severity, message string) CheckResult {
	return NewCheckResult(name, severity, StatusFail, message)
}

// Skip creates a skipped check result
func Skip(name, message string) CheckResult {
	return NewCheckResult(name, SeverityInfo, StatusSkipped, message)
}

// IsError returns true if the result is an error
func (r CheckResult) IsError() bool {
	return r.Status == StatusFail && r.Severity == SeverityError
}

// IsWarning returns true if the result is a warning
func (r CheckResult) IsWarning() bool {
	return r.Status == StatusFail && r.Severity == SeverityWarning
}

// IsPassed returns true if the check passed
func (r CheckResult) IsPassed() bool {
	return r.Status == StatusPass
}

// Registry holds checkers in registration order.
type Registry struct {
	checkers []HealthChecker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends checkers to the registry.
func (r *Registry) Register(checkers ...HealthChecker) {
	r.checkers = append(r.checkers, checkers...)
}

// Run executes every checker, or only those in categories when given. The
// category of each result is taken from its checker.
func (r *Registry) Run(ctx context.Context, log logger.Logger, categories ...Category) []CheckResult {
	results := make([]CheckResult, 0, len(r.checkers))

	for _, c := range r.checkers {
		if len(categories) > 0 && !slices.Contains(categories, c.Category()) {
			continue
		}

		res := c.Check(ctx)
		res.Category = c.Category()

		log.Debug("check completed", "check", res.Name, "status", res.Status)

		results = append(results, res)
	}

	return results
}

// Summary counts errors, warnings and passed checks.
func Summary(results []CheckResult) (errs, warnings, passed int) {
	for _, r := range results {
		switch {
		case r.IsPassed():
			passed++
		case r.IsError():
			errs++
		case r.IsWarning():
			warnings++
		}
	}

	return errs, warnings, passed
}

// Verdict returns ErrChecksFailed when any result is an error.
func Verdict(results []CheckResult) error {
	if errs, _, _ := Summary(results); errs > 0 {
		return errors.Wrapf(ErrChecksFailed, "%d error(s)", errs)
	}

	return nil
}
