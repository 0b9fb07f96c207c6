package damage

import (
	"fmt"

	"partfail-sim/internal/rng"
)

// State is the lifecycle position of a record.
type State int

const (
	StateLatent State = iota
	StateActive
	StateRepaired
)

func (s State) String() string {
	switch s {
	case StateLatent:
		return "latent"
	case StateActive:
		return "active"
	case StateRepaired:
		return "repaired"
	}
	return "unknown"
}

// Record is the damage attached to one part. Its identity is the owning
// part's identity.
type Record struct {
	VesselID      string
	PartID        string
	Kind          Kind
	Severity      int
	CascadeChance float64
	Interval      float64
	LastPollTime  float64
	// Resource names the leaking resource for KindLeak records.
	Resource string
}

// New builds a latent record for a part, stamped at now.
func New(vesselID, partID string, kind Kind, pol Policy, now float64) *Record {
	return &Record{
		VesselID:      vesselID,
		PartID:        partID,
		Kind:          kind,
		CascadeChance: pol.CascadeChance,
		Interval:      pol.Interval,
		LastPollTime:  now,
	}
}

// State reports whether the record is latent or active. A cleared record is
// repaired.
func (r *Record) State() State {
	if r == nil {
		return StateRepaired
	}
	if r.Severity < 1 {
		return StateLatent
	}
	return StateActive
}

// Label is the human readable summary shown next to the part.
func (r *Record) Label() string {
	name := r.Kind.String()
	if r.Kind == KindLeak && r.Resource != "" {
		name = r.Resource + " leak"
	}
	if r.Severity < 1 {
		return name + " (latent)"
	}
	return fmt.Sprintf("%s (severity %d)", name, r.Severity)
}

// Step describes the outcome of one Advance call.
type Step struct {
	Checked    bool
	Escalated  bool
	From, To   int
	CascadeDue bool
}

// Advance evaluates the record at simulation time now. Nothing happens until
// more than Interval seconds have passed since the last check; after that the
// check runs and LastPollTime moves to now whatever the outcome.
//
// A latent record rolls for escalation. An active record reports a due
// cascade check when CascadeChance > 0 and may escalate further up to the
// policy's MaxSeverity. Severity never decreases here.
func (r *Record) Advance(now float64, src rng.Source, pol Policy) Step {
	if now-r.LastPollTime <= r.Interval {
		return Step{}
	}
	active := r.Severity >= 1
	canEscalate := !active || pol.MaxSeverity > r.Severity
	if active && r.CascadeChance <= 0 && !canEscalate {
		return Step{}
	}

	r.LastPollTime = now
	st := Step{Checked: true, From: r.Severity, To: r.Severity}
	if active && r.CascadeChance > 0 {
		st.CascadeDue = true
	}
	if canEscalate && pol.EscalationChance > 0 && src.Float64() < pol.EscalationChance {
		next := r.Severity + pol.step(src)
		if active && next > pol.MaxSeverity {
			next = pol.MaxSeverity
		}
		if next > r.Severity {
			r.Severity = next
			st.Escalated = true
			st.To = next
		}
	}
	return st
}
