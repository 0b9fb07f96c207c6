package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"partfail-sim/internal/damage"
	"partfail-sim/internal/failure"
	"partfail-sim/internal/store"
)

func (c *Client) SaveSession(ctx context.Context, s failure.Session) error {
	if s.VesselID == "" {
		return fmt.Errorf("vessel id is required")
	}
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	st := s.Scheduler
	_, err = tx.Exec(ctx, `
INSERT INTO scheduler_sessions (vessel_id, last_poll_time, check_interval, check_threshold, random_tries, saved_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (vessel_id) DO UPDATE SET
    last_poll_time = EXCLUDED.last_poll_time,
    check_interval = EXCLUDED.check_interval,
    check_threshold = EXCLUDED.check_threshold,
    random_tries = EXCLUDED.random_tries,
    saved_at = now()`,
		s.VesselID, st.LastPollTime, st.CheckInterval, st.CheckThreshold, st.RandomTries)
	if err != nil {
		return fmt.Errorf("saving scheduler state: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM damage_records WHERE vessel_id = $1`, s.VesselID); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	batch := &pgx.Batch{}
	for i, n := range s.Records {
		r := store.RowFromNode(n)
		batch.Queue(`
INSERT INTO damage_records (vessel_id, part_id, kind, severity, cascade_chance, interval_s, last_poll_time, resource, display_label, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			s.VesselID, r.PartID, r.Kind, r.Severity, r.CascadeChance, r.Interval, r.LastPollTime, r.Resource, r.DisplayLabel, i)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("saving records: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (c *Client) LoadSession(ctx context.Context, vesselID string) (*failure.Session, error) {
	s := failure.Session{VesselID: vesselID}
	err := c.pool.QueryRow(ctx, `
SELECT last_poll_time, check_interval, check_threshold, random_tries
FROM scheduler_sessions WHERE vessel_id = $1`, vesselID).Scan(
		&s.Scheduler.LastPollTime, &s.Scheduler.CheckInterval, &s.Scheduler.CheckThreshold, &s.Scheduler.RandomTries)
	if errors.Is(err, pgx.ErrNoRows) {
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
	rows, err := c.pool.Query(ctx, `
SELECT vessel_id, part_id, kind, severity, cascade_chance, interval_s, last_poll_time, resource, display_label
FROM damage_records WHERE vessel_id = $1 ORDER BY position`, vesselID)
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
	if _, err := c.pool.Exec(ctx, `DELETE FROM damage_records WHERE vessel_id = $1 AND part_id = $2`, vesselID, partID); err != nil {
		return fmt.Errorf("deleting record %s: %w", partID, err)
	}
	return nil
}

func (c *Client) ListVessels(ctx context.Context) ([]store.VesselSummary, error) {
	rows, err := c.pool.Query(ctx, `
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
