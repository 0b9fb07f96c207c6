package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"partfail-sim/internal/logging"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "partfail-sim",
	Short: "Part failure simulation toolkit",
	Long:  "partfail-sim injects random part failures into a simulated vessel and lets operators repair them.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log := logging.New(logging.ParseLevel(logLevel))
		slog.SetDefault(log)
		cmd.SetContext(logging.NewContext(cmd.Context(), log))
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(statusCmd)
}
