package failure

import (
	"errors"

	"partfail-sim/internal/damage"
	"partfail-sim/internal/vessel"
)

var (
	// ErrNotDamaged is returned when repair finds no record on the part.
	ErrNotDamaged = errors.New("part is not damaged")
	// ErrOutOfRange is returned when the operator is not close enough.
	ErrOutOfRange = errors.New("operator out of repair range")
	// ErrAlreadyDamaged is returned when forcing a failure onto a damaged part.
	ErrAlreadyDamaged = errors.New("part already damaged")
)

// DefaultRepairRange is the distance in metres within which an operator can
// work on a part.
const DefaultRepairRange = 2.0

// WithinRange returns a proximity check for an operator standing distance
// metres away from the part.
func WithinRange(distance, limit float64) func(*vessel.Part) bool {
	return func(*vessel.Part) bool { return distance <= limit }
}

// Notifier receives the engine's user-facing signals.
type Notifier interface {
	Broadcast(msg string)
	InvalidateDisplay(p *vessel.Part)
}

// Repairer clears records on operator request.
type Repairer struct {
	Host     vessel.Host
	Notifier Notifier
}

// Repair removes the record from p. inRange may be nil; when set and false the
// repair is refused without side effects. The cleared record is returned with
// its severity reset.
func (r *Repairer) Repair(p *vessel.Part, inRange func(*vessel.Part) bool) (*damage.Record, error) {
	rec := p.Damage
	if rec == nil {
		return nil, ErrNotDamaged
	}
	if inRange != nil && !inRange(p) {
		return nil, ErrOutOfRange
	}
	rec.Severity = 0
	r.Host.DetachCapability(p, vessel.FailureModule)
	p.Damage = nil
	r.Notifier.InvalidateDisplay(p)
	r.Notifier.Broadcast(p.Title + " has been repaired.")
	return rec, nil
}
