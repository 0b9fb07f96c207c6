package sim

import (
	"context"
	"fmt"
	"net"
	"strconv"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"partfail-sim/internal/telemetry"
)

// greptimeClient is the subset of the ingester client the writer uses.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes failure events and scheduler rows to GreptimeDB.
// Tables are created by the server on first write.
type GreptimeDBWriter struct {
	client     greptimeClient
	eventTable string
	stateTable string
}

// NewGreptimeDBWriter connects to endpoint (host or host:port).
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	host, port := endpoint, 0
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("greptime endpoint port %q: %w", p, err)
		}
		host, port = h, n
	}
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if port > 0 {
		cfg = cfg.WithPort(port)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GreptimeDBWriter{
		client:     client,
		eventTable: telemetry.FailureEventTableName,
		stateTable: telemetry.SchedulerStateTableName,
	}, nil
}

// WriteEvent inserts a single failure event.
func (w *GreptimeDBWriter) WriteEvent(row telemetry.FailureEventRow) error {
	return w.WriteEvents([]telemetry.FailureEventRow{row})
}

// WriteEvents inserts multiple failure events.
func (w *GreptimeDBWriter) WriteEvents(rows []telemetry.FailureEventRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.eventTable)
	if err != nil {
		return err
	}
	cols := []struct {
		name string
		tag  bool
		typ  types.ColumnType
	}{
		{"vessel_id", true, types.STRING},
		{"part_id", true, types.STRING},
		{"event_id", false, types.STRING},
		{"part_title", false, types.STRING},
		{"event_type", false, types.STRING},
		{"kind", false, types.STRING},
		{"severity", false, types.INT64},
		{"source_part_id", false, types.STRING},
		{"label", false, types.STRING},
		{"ut", false, types.FLOAT64},
	}
	for _, c := range cols {
		if c.tag {
			err = tbl.AddTagColumn(c.name, c.typ)
		} else {
			err = tbl.AddFieldColumn(c.name, c.typ)
		}
		if err != nil {
			return err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.VesselID, r.PartID, r.EventID, r.PartTitle, r.EventType, r.Kind,
			int64(r.Severity), r.SourcePartID, r.Label, r.UT, r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(w.eventTable, tbl)
}

// WriteState inserts a scheduler state row.
func (w *GreptimeDBWriter) WriteState(row telemetry.SchedulerStateRow) error {
	return w.WriteStates([]telemetry.SchedulerStateRow{row})
}

// WriteStates inserts multiple scheduler state rows.
func (w *GreptimeDBWriter) WriteStates(rows []telemetry.SchedulerStateRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.stateTable)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("vessel_id", types.STRING); err != nil {
		return err
	}
	fields := []struct {
		name string
		typ  types.ColumnType
	}{
		{"ut", types.FLOAT64},
		{"check_interval", types.FLOAT64},
		{"check_threshold", types.FLOAT64},
		{"random_tries", types.INT64},
		{"sample", types.FLOAT64},
		{"rolled", types.BOOLEAN},
		{"selected_part_id", types.STRING},
		{"damaged_parts", types.INT64},
	}
	for _, f := range fields {
		if err := tbl.AddFieldColumn(f.name, f.typ); err != nil {
			return err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.VesselID, r.UT, r.CheckInterval, r.CheckThreshold, int64(r.RandomTries),
			r.Sample, r.Rolled, r.SelectedPartID, int64(r.DamagedParts), r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(w.stateTable, tbl)
}

func (w *GreptimeDBWriter) write(name string, tbl *table.Table) error {
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		return fmt.Errorf("greptime write %s: %w", name, err)
	}
	return nil
}
