package doctor

import (
	"context"
	"os"
	"strings"

	internalconfig "github.com/smykla-skalski/claude-hooks/internal/config"
	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	execpkg "github.com/smykla-skalski/claude-hooks/internal/exec"
	"github.com/smykla-skalski/claude-hooks/pkg/config"
)

// ConfigChecker verifies that the global and project configuration load.
type ConfigChecker struct {
	loader *internalconfig.KoanfLoader
}

// NewConfigChecker creates a checker for the files loader reads.
func NewConfigChecker(loader *internalconfig.KoanfLoader) *ConfigChecker {
	return &ConfigChecker{loader: loader}
}

// Name returns the name of the check
func (*ConfigChecker) Name() string {
	return "configuration"
}

// Category returns the category of the check
func (*ConfigChecker) Category() Category {
	return CategoryConfig
}

// Check loads the configuration the same way the hooks do.
func (c *ConfigChecker) Check(_ context.Context) CheckResult {
	var found []string

	for _, path := range []string{c.loader.GlobalConfigPath(), c.loader.ProjectConfigPath()} {
		if _, err := os.Stat(path); err == nil {
			found = append(found, path)
		}
	}

	if _, err := c.loader.Load(nil); err != nil {
		return Fail(c.Name(), SeverityError, "invalid configuration, hooks fall back to defaults").
			WithDetails(err.Error())
	}

	if len(found) == 0 {
		return Pass(c.Name(), "using built-in defaults")
	}

	return Pass(c.Name(), "loaded "+strings.Join(found, ", "))
}

// DirChecker verifies that a hook directory is writable.
type DirChecker struct {
	label string
	path  string
}

// NewDirChecker creates a checker for the directory at path.
func NewDirChecker(label, path string) *DirChecker {
	return &DirChecker{label: label, path: path}
}

// Name returns the name of the check
func (c *DirChecker) Name() string {
	return c.label + " directory"
}

// Category returns the category of the check
func (*DirChecker) Category() Category {
	return CategoryPaths
}

// Check reports missing directories as skipped since hooks create them on
// demand.
func (c *DirChecker) Check(_ context.Context) CheckResult {
	info, err := os.Stat(c.path)
	if os.IsNotExist(err) {
		return Skip(c.Name(), "not created yet").WithDetails(c.path)
	}

	if err != nil {
		return Fail(c.Name(), SeverityError, "cannot access "+c.path).WithDetails(err.Error())
	}

	if !info.IsDir() {
		return Fail(c.Name(), SeverityError, c.path+" is not a directory")
	}

	probe, err := os.CreateTemp(c.path, ".doctor-*")
	if err != nil {
		return Fail(c.Name(), SeverityError, c.path+" is not writable").WithDetails(err.Error())
	}

	_ = probe.Close()
	_ = os.Remove(probe.Name())

	return Pass(c.Name(), c.path)
}

// ToolChecker verifies that an external command is on PATH.
type ToolChecker struct {
	tool     string
	purpose  string
	severity Severity
	runner   execpkg.CommandRunner
}

// NewToolChecker creates a checker for tool. purpose says what degrades
// without it.
func NewToolChecker(runner execpkg.CommandRunner, tool, purpose string, severity Severity) *ToolChecker {
	return &ToolChecker{tool: tool, purpose: purpose, severity: severity, runner: runner}
}

// Name returns the name of the check
func (c *ToolChecker) Name() string {
	return c.tool + " available"
}

// Category returns the category of the check
func (*ToolChecker) Category() Category {
	return CategoryTools
}

// Check performs the tool availability check
func (c *ToolChecker) Check(_ context.Context) CheckResult {
	if c.runner.IsAvailable(c.tool) {
		return Pass(c.Name(), "found "+c.tool)
	}

	return Fail(c.Name(), c.severity, c.tool+" not found").WithDetails(c.purpose + " is unavailable")
}

// DefaultRegistry registers the checks for a project.
func DefaultRegistry(
	cfg *config.Config,
	loader *internalconfig.KoanfLoader,
	paths eventlog.Paths,
	runner execpkg.CommandRunner,
) *Registry {
	r := NewRegistry()

	r.Register(
		NewConfigChecker(loader),
		NewDirChecker("logs", paths.LogsDir),
		NewDirChecker("backups", paths.Backups),
		NewDirChecker("data", paths.DataDir),
		NewToolChecker(runner, "git", "git status in session context", SeverityWarning),
	)

	if cfg.GetContext().GetIssueSource() == config.IssueSourceCLI {
		r.Register(NewToolChecker(runner, "gh", "recent issues in session context", SeverityInfo))
	}

	r.Register(
		NewToolChecker(runner, "td", "task enforcement", SeverityInfo),
		NewToolChecker(runner, cfg.GetAnnounce().GetCommand(), "session announcements", SeverityInfo),
	)

	return r
}
