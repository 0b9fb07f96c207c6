package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"partfail-sim/internal/config"
	"partfail-sim/internal/logging"
	"partfail-sim/internal/sim"
)

var (
	repairScenario string
	repairDB       string
	repairPart     string
	repairDistance float64
	repairConfig   string
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair a part in a stored session",
	Long:  "repair loads the stored session of a vessel, clears the damage on one part and deletes its stored record.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepair(cmd.Context(), cmd)
	},
}

func runRepair(ctx context.Context, cmd *cobra.Command) error {
	log := logging.FromContext(ctx)
	sc, err := loadScenario(repairScenario)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, storeDSN(repairDB))
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	v := sc.BuildVessel()
	sess, err := st.LoadSession(ctx, v.ID)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("no stored session for vessel %s", v.ID)
	}
	s, err := sim.NewSimulator(v, config.Load(repairConfig), nil, time.Second, sim.Options{Logger: log})
	if err != nil {
		return err
	}
	if _, err := s.Restore(ctx, *sess); err != nil {
		return err
	}
	row, err := s.Repair(ctx, repairPart, repairDistance)
	if err != nil {
		return fmt.Errorf("repair %s: %w", repairPart, err)
	}
	if err := st.DeleteRecord(ctx, v.ID, row.PartID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "repaired %s (%s)\n", row.PartTitle, row.Label)
	return nil
}

func init() {
	repairCmd.Flags().StringVar(&repairScenario, "scenario", "orbiter", "Built-in craft name or path to a scenario YAML")
	repairCmd.Flags().StringVar(&repairDB, "db", "", "Session store DSN; defaults to PARTFAIL_DB")
	repairCmd.Flags().StringVar(&repairPart, "part", "", "Part id to repair")
	repairCmd.Flags().Float64Var(&repairDistance, "distance", 0, "Operator distance from the part in metres")
	repairCmd.Flags().StringVar(&repairConfig, "config", config.DefaultPath, "Path to failure tunables YAML")
	repairCmd.MarkFlagRequired("part")
}
