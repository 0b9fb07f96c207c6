package store

import (
	"fmt"

	"partfail-sim/internal/damage"
)

// RecordRow is the column layout shared by the SQL backends.
type RecordRow struct {
	VesselID      string
	PartID        string
	Kind          string
	Severity      int
	CascadeChance float64
	Interval      float64
	LastPollTime  float64
	Resource      string
	DisplayLabel  string
}

// RowFromNode flattens a node for insertion.
func RowFromNode(n damage.Node) RecordRow {
	return RecordRow{
		VesselID:      n.VesselID,
		PartID:        n.PartID,
		Kind:          n.Kind.String(),
		Severity:      n.Severity,
		CascadeChance: n.CascadeChance,
		Interval:      n.Interval,
		LastPollTime:  n.LastPollTime,
		Resource:      n.Resource,
		DisplayLabel:  n.DisplayLabel,
	}
}

// Node turns a scanned row back into a persisted node.
func (r RecordRow) Node() (damage.Node, error) {
	k, err := damage.ParseKind(r.Kind)
	if err != nil {
		return damage.Node{}, fmt.Errorf("record %s/%s: %w", r.VesselID, r.PartID, err)
	}
	return damage.Node{
		Name:          damage.NodeName,
		Kind:          k,
		Severity:      r.Severity,
		CascadeChance: r.CascadeChance,
		Interval:      r.Interval,
		LastPollTime:  r.LastPollTime,
		VesselID:      r.VesselID,
		PartID:        r.PartID,
		Resource:      r.Resource,
		DisplayLabel:  r.DisplayLabel,
	}, nil
}
