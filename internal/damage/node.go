package damage

import (
	"errors"
	"fmt"
)

// NodeName tags a persisted damage node.
const NodeName = "DamageRecord"

// ErrInvalidNode is returned when a persisted node cannot be turned back into
// a record.
var ErrInvalidNode = errors.New("invalid damage node")

// Node is the persisted form of a Record, one per damaged part.
type Node struct {
	Name          string  `yaml:"name" json:"name"`
	Kind          Kind    `yaml:"kind" json:"kind"`
	Severity      int     `yaml:"severity" json:"severity"`
	CascadeChance float64 `yaml:"cascadeChance" json:"cascadeChance"`
	Interval      float64 `yaml:"interval" json:"interval"`
	LastPollTime  float64 `yaml:"lastPollTime" json:"lastPollTime"`
	VesselID      string  `yaml:"vesselId" json:"vesselId"`
	PartID        string  `yaml:"partId" json:"partId"`
	Resource      string  `yaml:"resource,omitempty" json:"resource,omitempty"`
	DisplayLabel  string  `yaml:"displayLabel,omitempty" json:"displayLabel,omitempty"`
}

// Node converts the record to its persisted form.
func (r *Record) Node() Node {
	return Node{
		Name:          NodeName,
		Kind:          r.Kind,
		Severity:      r.Severity,
		CascadeChance: r.CascadeChance,
		Interval:      r.Interval,
		LastPollTime:  r.LastPollTime,
		VesselID:      r.VesselID,
		PartID:        r.PartID,
		Resource:      r.Resource,
		DisplayLabel:  r.Label(),
	}
}

// FromNode rebuilds a record. The display label is derived and ignored.
func FromNode(n Node) (*Record, error) {
	switch {
	case n.Name != NodeName:
		return nil, fmt.Errorf("%w: name %q", ErrInvalidNode, n.Name)
	case n.Kind == KindNone:
		return nil, fmt.Errorf("%w: kind none", ErrInvalidNode)
	case n.Severity < 0:
		return nil, fmt.Errorf("%w: negative severity %d", ErrInvalidNode, n.Severity)
	case n.CascadeChance < 0 || n.CascadeChance > 1:
		return nil, fmt.Errorf("%w: cascade chance %v out of range", ErrInvalidNode, n.CascadeChance)
	case n.VesselID == "" || n.PartID == "":
		return nil, fmt.Errorf("%w: missing vessel or part id", ErrInvalidNode)
	}
	return &Record{
		VesselID:      n.VesselID,
		PartID:        n.PartID,
		Kind:          n.Kind,
		Severity:      n.Severity,
		CascadeChance: n.CascadeChance,
		Interval:      n.Interval,
		LastPollTime:  n.LastPollTime,
		Resource:      n.Resource,
	}, nil
}
