package damage

import "partfail-sim/internal/rng"

// Policy tunes how a record of one kind evolves once attached.
type Policy struct {
	// Interval is the number of seconds between state checks.
	Interval float64 `yaml:"interval" json:"interval"`
	// EscalationChance is the per-check probability that severity rises.
	EscalationChance float64 `yaml:"escalation_chance" json:"escalation_chance"`
	// MinStep and MaxStep bound the severity increase of one escalation.
	MinStep int `yaml:"min_step" json:"min_step"`
	MaxStep int `yaml:"max_step" json:"max_step"`
	// CascadeChance seeds Record.CascadeChance for new records.
	CascadeChance float64 `yaml:"cascade_chance" json:"cascade_chance"`
	// MaxSeverity caps escalation of an already active record. Values <= 1
	// stop escalation once the record is active.
	MaxSeverity int `yaml:"max_severity" json:"max_severity"`
}

// DefaultPolicy is applied to kinds without their own block.
var DefaultPolicy = Policy{
	Interval:         5,
	EscalationChance: 0.25,
	MinStep:          1,
	MaxStep:          1,
	CascadeChance:    0,
	MaxSeverity:      3,
}

// Policies resolves the policy for a kind.
type Policies struct {
	Default Policy
	Kinds   map[Kind]Policy
}

// DefaultPolicies returns the built-in per-kind tuning.
func DefaultPolicies() Policies {
	electrical := DefaultPolicy
	electrical.CascadeChance = 0.3

	generator := DefaultPolicy
	generator.CascadeChance = 0.2

	solar := DefaultPolicy
	solar.CascadeChance = 0.1

	leak := DefaultPolicy
	leak.MaxStep = 3

	explosion := DefaultPolicy
	explosion.EscalationChance = 1
	explosion.CascadeChance = 0.5

	return Policies{
		Default: DefaultPolicy,
		Kinds: map[Kind]Policy{
			KindElectrical: electrical,
			KindGenerator:  generator,
			KindSolarPanel: solar,
			KindLeak:       leak,
			KindExplosion:  explosion,
		},
	}
}

// For returns the policy for k, falling back to Default.
func (p Policies) For(k Kind) Policy {
	if pol, ok := p.Kinds[k]; ok {
		return pol
	}
	return p.Default
}

// step draws the size of one escalation. A fixed range consumes no randomness.
func (p Policy) step(src rng.Source) int {
	lo := p.MinStep
	if lo < 1 {
		lo = 1
	}
	hi := p.MaxStep
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}
