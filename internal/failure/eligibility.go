// Package failure decides when, and to which part, damage is applied, and
// drives the records it attaches.
package failure

import (
	"partfail-sim/internal/damage"
	"partfail-sim/internal/vessel"
)

// Capability tags recognised out of the box.
const (
	TagEngineGimbal      = "engine-gimbal"
	TagEngine            = "engine"
	TagParachute         = "parachute"
	TagDecoupler         = "decoupler"
	TagAnchoredDecoupler = "anchored-decoupler"
	TagDockingNode       = "docking-node"
	TagResourceIntake    = "resource-intake"
	TagWheel             = "wheel"
	TagEnvironmentSensor = "environment-sensor"
	TagSolarPanel        = "deployable-solar-panel"
	TagGenerator         = "generator"
)

// Rule maps a capability tag to the failure kind it enables. A rule with
// Inventory set matches any part carrying consumables instead of a tag.
type Rule struct {
	Tag       string      `yaml:"tag"`
	Kind      damage.Kind `yaml:"kind"`
	Inventory bool        `yaml:"-"`
}

// BaselineRules is the recognised set in evaluation order. The first match
// decides the kind of the new record.
var BaselineRules = []Rule{
	{Tag: TagEngineGimbal, Kind: damage.KindEngineGimbal},
	{Tag: TagEngine, Kind: damage.KindEngineCoolant},
	{Tag: TagParachute, Kind: damage.KindParachute},
	{Tag: TagDecoupler, Kind: damage.KindDecoupler},
	{Tag: TagAnchoredDecoupler, Kind: damage.KindDecoupler},
	{Tag: TagDockingNode, Kind: damage.KindDockingPort},
	{Inventory: true, Kind: damage.KindLeak},
	{Tag: TagResourceIntake, Kind: damage.KindIntake},
	{Tag: TagWheel, Kind: damage.KindWheel},
	{Tag: TagEnvironmentSensor, Kind: damage.KindEnvironmentSensor},
	{Tag: TagSolarPanel, Kind: damage.KindSolarPanel},
	{Tag: TagGenerator, Kind: damage.KindGenerator},
}

// Match is the outcome of a successful eligibility check.
type Match struct {
	Kind damage.Kind
	// Resource is the leaking consumable for KindLeak matches.
	Resource string
}

// Resolver classifies parts as eligible for a new failure. It only tests tag
// membership, so parts may expose any tags the host defines; unknown ones are
// simply not matched unless an extra rule names them.
type Resolver struct {
	rules []Rule
}

// NewResolver returns a resolver over the baseline rules followed by extra.
func NewResolver(extra ...Rule) *Resolver {
	rules := make([]Rule, 0, len(BaselineRules)+len(extra))
	rules = append(rules, BaselineRules...)
	rules = append(rules, extra...)
	return &Resolver{rules: rules}
}

// Match reports whether p can receive a new failure and which kind it would
// get. Parts that already carry a record never match.
func (r *Resolver) Match(p *vessel.Part) (Match, bool) {
	if p == nil || p.Damage != nil {
		return Match{}, false
	}
	for _, rule := range r.rules {
		if rule.Inventory {
			if !p.HasResources() {
				continue
			}
			if leak := p.LeakableResources(); len(leak) > 0 {
				return Match{Kind: damage.KindLeak, Resource: leak[0].Name}, true
			}
			if p.HasElectricCharge() {
				return Match{Kind: damage.KindElectrical}, true
			}
			continue
		}
		if p.HasTag(rule.Tag) {
			return Match{Kind: rule.Kind}, true
		}
	}
	return Match{}, false
}

// IsEligible is Match without the kind.
func (r *Resolver) IsEligible(p *vessel.Part) bool {
	_, ok := r.Match(p)
	return ok
}
