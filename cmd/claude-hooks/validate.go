package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	"github.com/smykla-skalski/claude-hooks/internal/validators/files"
)

var (
	directoryFlag string
	extensionFlag string
	containsFlag  []string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check files produced under the project",
}

var fileContainsCmd = &cobra.Command{
	Use:   "file-contains",
	Short: "Check that the newest file in a directory contains the given strings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		f := files.NewFinder(eventlog.ResolveProjectRoot())
		report(cmd, f.FileContains(directoryFlag, extensionFlag, containsFlag))
	},
}

var newFileCmd = &cobra.Command{
	Use:   "new-file",
	Short: "Check that a directory holds at least one file with the extension",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		f := files.NewFinder(eventlog.ResolveProjectRoot())
		report(cmd, f.NewFile(directoryFlag, extensionFlag))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.AddCommand(fileContainsCmd, newFileCmd)

	for _, c := range []*cobra.Command{fileContainsCmd, newFileCmd} {
		c.Flags().StringVar(&directoryFlag, "directory", "", "Directory relative to the project root")
		c.Flags().StringVar(&extensionFlag, "extension", "", "File extension, with or without the dot")
		_ = c.MarkFlagRequired("directory")
		_ = c.MarkFlagRequired("extension")
	}

	fileContainsCmd.Flags().StringArrayVar(&containsFlag, "contains", nil, "Required string (repeatable)")
	_ = fileContainsCmd.MarkFlagRequired("contains")
}

func report(cmd *cobra.Command, res files.Result) {
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)

	if !res.Valid {
		commandExitCode = ExitCodeError
	}
}
