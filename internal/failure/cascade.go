package failure

import (
	"partfail-sim/internal/damage"
	"partfail-sim/internal/rng"
	"partfail-sim/internal/vessel"
)

// Relation defines which parts a failure can spread to, and as what.
type Relation interface {
	Related(src *vessel.Part, v *vessel.Vessel) []*vessel.Part
	Kind() damage.Kind
}

// NetworkRelation links parts that share a network and spreads electrical
// failures along it.
type NetworkRelation struct{}

// Related returns every other part sharing a network with src, in vessel order.
func (NetworkRelation) Related(src *vessel.Part, v *vessel.Vessel) []*vessel.Part {
	var out []*vessel.Part
	for _, p := range v.Parts {
		if p != src && src.SharesNetwork(p) {
			out = append(out, p)
		}
	}
	return out
}

func (NetworkRelation) Kind() damage.Kind { return damage.KindElectrical }

// CascadeEngine spreads active failures to related parts.
type CascadeEngine struct {
	Resolver *Resolver
	Attacher *Attacher
	Relation Relation
	Source   rng.Source
}

// Propose rolls once against the source record's cascade chance and, on a
// hit, attaches a latent record of the relation's kind to one eligible
// related part. No related eligible part means no cascade this check.
func (c *CascadeEngine) Propose(src *vessel.Part, v *vessel.Vessel, now float64) (*vessel.Part, *damage.Record, error) {
	rec := src.Damage
	if rec == nil || rec.State() != damage.StateActive || rec.CascadeChance <= 0 {
		return nil, nil, nil
	}
	if c.Source.Float64() >= rec.CascadeChance {
		return nil, nil, nil
	}
	var candidates []*vessel.Part
	for _, p := range c.Relation.Related(src, v) {
		if c.Resolver.IsEligible(p) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil, nil, nil
	}
	target := candidates[0]
	if len(candidates) > 1 {
		target = candidates[c.Source.Intn(len(candidates))]
	}
	created, err := c.Attacher.Attach(target, Match{Kind: c.Relation.Kind()}, now)
	if err != nil {
		return target, nil, err
	}
	return target, created, nil
}
