// Package store persists failure engine sessions between runs.
package store

import (
	"context"

	"partfail-sim/internal/damage"
	"partfail-sim/internal/failure"
)

// Store keeps one session per vessel: the scheduler timer plus one node per
// damaged part.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	// SaveSession replaces everything stored for s.VesselID.
	SaveSession(ctx context.Context, s failure.Session) error
	// LoadSession returns nil without error when nothing is stored.
	LoadSession(ctx context.Context, vesselID string) (*failure.Session, error)
	DeleteRecord(ctx context.Context, vesselID, partID string) error
	ListRecords(ctx context.Context, vesselID string) ([]damage.Node, error)
	ListVessels(ctx context.Context) ([]VesselSummary, error)
}

// VesselSummary is one row of ListVessels.
type VesselSummary struct {
	VesselID     string
	LastPollTime float64
	Records      int
}
