package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS scheduler_sessions (
    vessel_id       TEXT PRIMARY KEY,
    last_poll_time  DOUBLE PRECISION NOT NULL DEFAULT 0,
    check_interval  DOUBLE PRECISION NOT NULL,
    check_threshold DOUBLE PRECISION NOT NULL,
    random_tries    INTEGER NOT NULL,
    saved_at        TIMESTAMPTZ DEFAULT now()
);

CREATE TABLE IF NOT EXISTS damage_records (
    vessel_id      TEXT NOT NULL REFERENCES scheduler_sessions(vessel_id) ON DELETE CASCADE,
    part_id        TEXT NOT NULL,
    kind           TEXT NOT NULL,
    severity       INTEGER NOT NULL DEFAULT 0,
    cascade_chance DOUBLE PRECISION NOT NULL DEFAULT 0,
    interval_s     DOUBLE PRECISION NOT NULL,
    last_poll_time DOUBLE PRECISION NOT NULL,
    resource       TEXT DEFAULT '',
    display_label  TEXT DEFAULT '',
    position       INTEGER NOT NULL DEFAULT 0,
    CONSTRAINT pk_damage_record PRIMARY KEY (vessel_id, part_id)
);

CREATE INDEX IF NOT EXISTS idx_damage_records_kind ON damage_records (kind);
`
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
