package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/claude-hooks/internal/config"
	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	"github.com/smykla-skalski/claude-hooks/internal/handlers"
	"github.com/smykla-skalski/claude-hooks/internal/runner"
	"github.com/smykla-skalski/claude-hooks/pkg/config"
	"github.com/smykla-skalski/claude-hooks/pkg/logger"
)

// app is the per-invocation wiring shared by the subcommands.
type app struct {
	root     string
	cfg      *config.Config
	log      logger.Logger
	closeLog func() error
}

// newApp resolves the project root, loads configuration and opens the
// diagnostic log. Every failure degrades to defaults.
func newApp(cmd *cobra.Command) *app {
	root := eventlog.ResolveProjectRoot()
	cfg, logPath, cfgErr := loadConfig(cmd, root)

	a := &app{
		root:     root,
		cfg:      cfg,
		log:      logger.NewNoOpLogger(),
		closeLog: func() error { return nil },
	}

	lc := cfg.GetLogging()

	if logPath != "" {
		if fileLog, err := logger.NewFileLogger(logPath, lc.Debug || debugMode, lc.Trace || traceMode); err == nil {
			a.log = fileLog
			a.closeLog = fileLog.Close
		}
	}

	if cfgErr != nil {
		a.log.Error("configuration rejected, using defaults", "error", cfgErr)
	}

	a.log.Debug("invoked", "command", cmd.Name(), "root", root)

	return a
}

func (a *app) close() {
	_ = a.closeLog()
}

func (a *app) paths() eventlog.Paths {
	p := a.cfg.GetPaths()

	return eventlog.NewPaths(a.root, p.LogsDir, p.DataDir, p.BackupsDir)
}

func (a *app) hooks() *handlers.Hooks {
	return handlers.New(
		handlers.WithConfig(a.cfg),
		handlers.WithLogger(a.log),
		handlers.WithPaths(a.paths()),
	)
}

func (a *app) runner(cmd *cobra.Command) *runner.Runner {
	return runner.New(
		runner.WithStdin(cmd.InOrStdin()),
		runner.WithStdout(cmd.OutOrStdout()),
		runner.WithStderr(cmd.ErrOrStderr()),
		runner.WithLogger(a.log),
	)
}

// loadConfig returns the merged configuration and the expanded diagnostic log
// path. On error the returned config is the built-in default.
func loadConfig(cmd *cobra.Command, root string) (*config.Config, string, error) {
	loader, err := internalconfig.NewKoanfLoader(root)
	if err != nil {
		return internalconfig.Defaults(), "", errors.Wrap(err, "failed to create config loader")
	}

	cfg, err := loader.Load(buildFlagsMap(cmd))
	if err != nil {
		cfg = internalconfig.Defaults()
		err = errors.Wrap(err, "failed to load config")
	}

	return cfg, loader.ExpandHome(cfg.GetLogging().File), err
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)

	if debugMode {
		flags["debug"] = true
	}

	if traceMode {
		flags["trace"] = true
	}

	if logFile != "" {
		flags["log-file"] = logFile
	}

	if cmd.Flags().Changed("use-sdk-git") {
		flags["use-sdk-git"] = useSDKGit
	}

	return flags
}
