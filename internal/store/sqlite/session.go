package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"partfail-sim/internal/damage"
	"partfail-sim/internal/failure"
	"partfail-sim/internal/store"
)

func (c *Client) SaveSession(ctx context.Context, s failure.Session) error {
	if s.VesselID == "" {
		return fmt.Errorf("vessel id is required")
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	st := s.Scheduler
	_, err = tx.ExecContext(ctx, `
	INSERT INTO scheduler_sessions (vessel_id, last_poll_time, check_interval, check_threshold, random_tries, saved_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (vessel_id) DO UPDATE SET
		last_poll_time = excluded.last_poll_time,
		check_interval = excluded.check_interval,
		check_threshold = excluded.check_threshold,
		random_tries = excluded.random_tries,
		saved_at = excluded.saved_at`,
		s.VesselID, st.LastPollTime, st.CheckInterval, st.CheckThreshold, st.RandomTries,
		c.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving scheduler state: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM damage_records WHERE vessel_id = ?`, s.VesselID); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	for _, n := range s.Records {
		r := store.RowFromNode(n)
		_, err := tx.ExecContext(ctx, `
		INSERT INTO damage_records (vessel_id, part_id, kind, severity, cascade_chance, interval_s, last_poll_time, resource, display_label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.VesselID, r.PartID, r.Kind, r.Severity, r.CascadeChance, r.Interval, r.LastPollTime, r.Resource, r.DisplayLabel)
		if err != nil {
			return fmt.Errorf("saving record %s: %w", r.PartID, err)
		}
	}
	return tx.Commit()
}

func (c *Client) LoadSession(ctx context.Context, vesselID string) (*failure.Session, error) {
	s := failure.Session{VesselID: vesselID}
	err := c.db.QueryRowContext(ctx, `
	SELECT last_poll_time, check_interval, check_threshold, random_tries
	FROM scheduler_sessions WHERE vessel_id = ?`, vesselID).Scan(
		&s.Scheduler.LastPollTime, &s.Scheduler.CheckInterval, &s.Scheduler.CheckThreshold, &s.Scheduler.RandomTries)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading scheduler state: %w", err)
	}
	s.Records, err = c.ListRecords(ctx, vesselID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) ListRecords(ctx context.Context, vesselID string) ([]damage.Node, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT vessel_id, part_id, kind, severity, cascade_chance, interval_s, last_poll_time, resource, display_label
	FROM damage_records WHERE vessel_id = ? ORDER BY rowid`, vesselID)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var out []damage.Node
	for rows.Next() {
		var r store.RecordRow
		if err := rows.Scan(&r.VesselID, &r.PartID, &r.Kind, &r.Severity, &r.CascadeChance, &r.Interval, &r.LastPollTime, &r.Resource, &r.DisplayLabel); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		n, err := r.Node()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (c *Client) DeleteRecord(ctx context.Context, vesselID, partID string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM damage_records WHERE vessel_id = ? AND part_id = ?`, vesselID, partID); err != nil {
		return fmt.Errorf("deleting record %s: %w", partID, err)
	}
	return nil
}

func (c *Client) ListVessels(ctx context.Context) ([]store.VesselSummary, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT s.vessel_id, s.last_poll_time, COUNT(r.part_id)
	FROM scheduler_sessions s
	LEFT JOIN damage_records r ON r.vessel_id = s.vessel_id
	GROUP BY s.vessel_id, s.last_poll_time
	ORDER BY s.vessel_id`)
	if err != nil {
		return nil, fmt.Errorf("listing vessels: %w", err)
	}
	defer rows.Close()

	var out []store.VesselSummary
	for rows.Next() {
		var v store.VesselSummary
		if err := rows.Scan(&v.VesselID, &v.LastPollTime, &v.Records); err != nil {
			return nil, fmt.Errorf("scanning vessel: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
