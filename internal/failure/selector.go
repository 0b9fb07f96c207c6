package failure

import (
	"partfail-sim/internal/damage"
	"partfail-sim/internal/rng"
	"partfail-sim/internal/vessel"
)

// Selector picks the part a new failure lands on: up to Tries uniform draws,
// then a scan in vessel order that stops at the first eligible part.
type Selector struct {
	Resolver *Resolver
	Attacher *Attacher
	Source   rng.Source
	Tries    int
}

// Pick chooses a part without mutating anything.
func (s *Selector) Pick(parts []*vessel.Part) (*vessel.Part, Match, bool) {
	n := len(parts)
	if n == 0 {
		return nil, Match{}, false
	}
	for k := 0; k < s.Tries; k++ {
		p := parts[s.Source.Intn(n)]
		if m, ok := s.Resolver.Match(p); ok {
			return p, m, true
		}
	}
	for _, p := range parts {
		if m, ok := s.Resolver.Match(p); ok {
			return p, m, true
		}
	}
	return nil, Match{}, false
}

// Select picks a part and attaches a fresh record to it. It returns a nil
// part when nothing is eligible, and the attach error when the host refused;
// in both cases no record exists afterwards.
func (s *Selector) Select(parts []*vessel.Part, now float64) (*vessel.Part, *damage.Record, error) {
	p, m, ok := s.Pick(parts)
	if !ok {
		return nil, nil, nil
	}
	rec, err := s.Attacher.Attach(p, m, now)
	if err != nil {
		return p, nil, err
	}
	return p, rec, nil
}
