package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"partfail-sim/internal/store"
)

var (
	statusDB     string
	statusVessel string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored sessions and their damage records",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx, storeDSN(statusDB))
		if err != nil {
			return err
		}
		defer st.Close(context.Background())
		if statusVessel != "" {
			return printRecords(ctx, cmd.OutOrStdout(), st, statusVessel)
		}
		return printVessels(ctx, cmd.OutOrStdout(), st)
	},
}

func printVessels(ctx context.Context, out io.Writer, st store.Store) error {
	vessels, err := st.ListVessels(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VESSEL\tLAST CHECK (s)\tRECORDS")
	for _, v := range vessels {
		fmt.Fprintf(tw, "%s\t%.1f\t%d\n", v.VesselID, v.LastPollTime, v.Records)
	}
	return tw.Flush()
}

func printRecords(ctx context.Context, out io.Writer, st store.Store, vesselID string) error {
	nodes, err := st.ListRecords(ctx, vesselID)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PART\tKIND\tSEVERITY\tCASCADE\tLABEL")
	for _, n := range nodes {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%s\n", n.PartID, n.Kind, n.Severity, n.CascadeChance, n.DisplayLabel)
	}
	return tw.Flush()
}

func init() {
	statusCmd.Flags().StringVar(&statusDB, "db", "", "Session store DSN; defaults to PARTFAIL_DB")
	statusCmd.Flags().StringVar(&statusVessel, "vessel", "", "List the records of one vessel")
}
