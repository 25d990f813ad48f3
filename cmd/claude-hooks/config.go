package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/claude-hooks/internal/config"
	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	"github.com/smykla-skalski/claude-hooks/internal/schema"
)

var forceFlag bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage claude-hooks configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default project configuration",
	Long: `Write the default configuration to .claude/hooks.toml in the project root,
together with its JSON Schema.

Use --force to overwrite an existing configuration file.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration JSON Schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := schema.GenerateJSON(true)
		if err != nil {
			return errors.Wrap(err, "failed to generate schema")
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))

		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configSchemaCmd)

	configInitCmd.Flags().BoolVarP(
		&forceFlag,
		"force",
		"f",
		false,
		"Overwrite existing configuration file",
	)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	writer := internalconfig.NewWriter(eventlog.ResolveProjectRoot())

	path, err := writer.InitProject(internalconfig.Defaults(), forceFlag)
	if err != nil {
		if errors.Is(err, internalconfig.ErrConfigExists) {
			return errors.WithHint(err, "use --force to overwrite")
		}

		return errors.Wrap(err, "failed to write configuration")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", writer.SchemaPath())

	return nil
}
