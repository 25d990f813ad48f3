package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/smykla-skalski/claude-hooks/internal/stats"
)

var outputFlag string

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Inspect the event logs",
}

var logsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the event log files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := stats.ParseFormat(outputFlag)
		if err != nil {
			return err
		}

		a := newApp(cmd)
		defer a.close()

		report, err := stats.Collect(a.paths())
		if err != nil {
			return err
		}

		return report.Write(cmd.OutOrStdout(), format, time.Now())
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsStatsCmd)

	logsStatsCmd.Flags().StringVarP(&outputFlag, "output", "o", string(stats.FormatTable), "Output format: table, json or yaml")
}
