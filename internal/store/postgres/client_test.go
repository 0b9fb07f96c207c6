package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"partfail-sim/internal/damage"
	"partfail-sim/internal/failure"
)

// Runs against a live server only when PARTFAIL_TEST_POSTGRES holds a DSN.
func TestSessionRoundTrip(t *testing.T) {
	dsn := os.Getenv("PARTFAIL_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("PARTFAIL_TEST_POSTGRES not set")
	}
	ctx := context.Background()
	c, err := New(ctx, dsn)
	require.NoError(t, err)
	defer c.Close(ctx)
	require.NoError(t, c.EnsureSchema(ctx))

	vesselID := "test-" + t.Name()
	rec := &damage.Record{VesselID: vesselID, PartID: "tank", Kind: damage.KindLeak, Severity: 1, Interval: 5, LastPollTime: 12.5, Resource: "Oxidizer"}
	s := failure.Session{
		VesselID:  vesselID,
		Scheduler: failure.SchedulerState{LastPollTime: 12.5, CheckInterval: 10, CheckThreshold: 0.9, RandomTries: 5},
		Records:   []damage.Node{rec.Node()},
	}
	require.NoError(t, c.SaveSession(ctx, s))

	got, err := c.LoadSession(ctx, vesselID)
	require.NoError(t, err)
	require.Equal(t, s, *got)

	require.NoError(t, c.DeleteRecord(ctx, vesselID, "tank"))
	recs, err := c.ListRecords(ctx, vesselID)
	require.NoError(t, err)
	require.Empty(t, recs)
}
