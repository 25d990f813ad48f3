// Package main provides the CLI entry point for claude-hooks.
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

const (
	// ExitCodeAllow indicates the operation should be allowed.
	ExitCodeAllow = 0

	// ExitCodeError indicates a failed operator command or validation.
	ExitCodeError = 1
)

var (
	debugMode bool
	traceMode bool
	logFile   string
	useSDKGit bool

	// commandExitCode is set by subcommands whose exit status carries a
	// result (hooks and validators).
	commandExitCode int
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Warning: claude-hooks crashed: %v\n", r)

			exitCode = ExitCodeAllow
		}
	}()

	commandExitCode = ExitCodeAllow

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}

		return ExitCodeError
	}

	return commandExitCode
}

var rootCmd = &cobra.Command{
	Use:   "claude-hooks",
	Short: "Lifecycle hooks for Claude Code",
	Long: `Lifecycle hooks for Claude Code - each subcommand reads one hook event
as JSON from stdin, records it under the project's .claude/logs directory and
answers with an exit code (0 allow, 2 block, 1 warning).`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&traceMode, "trace", false, "Enable trace logging")
	rootCmd.PersistentFlags().StringVar(
		&logFile,
		"log-file",
		"",
		"Diagnostic log file (default: ~/.claude/hooks/claude-hooks.log)",
	)
	rootCmd.PersistentFlags().BoolVar(
		&useSDKGit,
		"use-sdk-git",
		false,
		"Read git status with go-git instead of the git binary",
	)
}
