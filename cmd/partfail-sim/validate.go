package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"partfail-sim/internal/config"
)

var (
	validateConfigPath string
	validateSchemaPath string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check failure tunables against the CUE schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateWithCue(validateConfigPath, validateSchemaPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", validateConfigPath)
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateConfigPath, "config", config.DefaultPath, "Path to failure tunables YAML")
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "schemas/failure.cue", "Path to CUE schema file")
}
