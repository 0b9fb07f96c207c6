package failure

import (
	"log/slog"

	"partfail-sim/internal/damage"
	"partfail-sim/internal/vessel"
)

// Attacher materialises a record on a part through the host.
type Attacher struct {
	VesselID string
	Host     vessel.Host
	Policies damage.Policies
	Log      *slog.Logger
}

// Attach builds a latent record for m and hands the failure module to the
// host. If the host refuses, the part is left untouched and the error is
// returned.
func (a *Attacher) Attach(p *vessel.Part, m Match, now float64) (*damage.Record, error) {
	rec := damage.New(a.VesselID, p.ID, m.Kind, a.Policies.For(m.Kind), now)
	rec.Resource = m.Resource
	if err := a.Host.AttachCapability(p, vessel.FailureModule); err != nil {
		a.logger().Error("attach failed", "vessel_id", a.VesselID, "part_id", p.ID, "kind", m.Kind, "err", err)
		return nil, err
	}
	p.Damage = rec
	return rec, nil
}

func (a *Attacher) logger() *slog.Logger {
	if a.Log != nil {
		return a.Log
	}
	return slog.Default()
}
