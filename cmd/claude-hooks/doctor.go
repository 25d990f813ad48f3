package main

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/claude-hooks/internal/config"
	"github.com/smykla-skalski/claude-hooks/internal/doctor"
	execpkg "github.com/smykla-skalski/claude-hooks/internal/exec"
)

// toolLookupTimeout bounds the runner used only for PATH lookups.
const toolLookupTimeout = 5 * time.Second

var (
	verboseFlag  bool
	categoryFlag []string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the hook installation of the current project",
	Long: `Check that configuration loads, the log, data and backup directories are
writable, and the external commands used by the hooks are installed.

Exits with status 1 when any check fails with error severity.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show check details")
	doctorCmd.Flags().StringSliceVar(
		&categoryFlag,
		"category",
		nil,
		"Only run checks of these categories (config, paths, tools)",
	)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	a := newApp(cmd)
	defer a.close()

	loader, err := internalconfig.NewKoanfLoader(a.root)
	if err != nil {
		return errors.Wrap(err, "failed to create config loader")
	}

	registry := doctor.DefaultRegistry(a.cfg, loader, a.paths(), execpkg.NewCommandRunner(toolLookupTimeout))

	categories := make([]doctor.Category, 0, len(categoryFlag))
	for _, c := range categoryFlag {
		categories = append(categories, doctor.Category(c))
	}

	results := registry.Run(cmd.Context(), a.log, categories...)

	if err := doctor.Report(cmd.OutOrStdout(), results, verboseFlag); err != nil {
		return err
	}

	return doctor.Verdict(results)
}
