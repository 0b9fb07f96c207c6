package sqlite

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS scheduler_sessions (
		vessel_id       TEXT PRIMARY KEY,
		last_poll_time  REAL NOT NULL DEFAULT 0,
		check_interval  REAL NOT NULL,
		check_threshold REAL NOT NULL,
		random_tries    INTEGER NOT NULL,
		saved_at        TEXT DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS damage_records (
		vessel_id      TEXT NOT NULL REFERENCES scheduler_sessions(vessel_id) ON DELETE CASCADE,
		part_id        TEXT NOT NULL,
		kind           TEXT NOT NULL,
		severity       INTEGER NOT NULL DEFAULT 0,
		cascade_chance REAL NOT NULL DEFAULT 0,
		interval_s     REAL NOT NULL,
		last_poll_time REAL NOT NULL,
		resource       TEXT DEFAULT '',
		display_label  TEXT DEFAULT '',
		CONSTRAINT pk_damage_record PRIMARY KEY (vessel_id, part_id)
	);

	CREATE INDEX IF NOT EXISTS idx_damage_records_kind ON damage_records (kind);
	`
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
