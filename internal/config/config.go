// Tunables loader. Load never fails: anything missing or malformed falls back
// to its default. ValidateWithCue is the strict counterpart.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"partfail-sim/internal/damage"
	"partfail-sim/internal/failure"
)

// DefaultPath is where simulate looks for tunables when --config is unset.
const DefaultPath = "config/failure.yaml"

// DamageConfig holds the per-kind escalation policies.
type DamageConfig struct {
	Default damage.Policy            `yaml:"default"`
	Kinds   map[string]damage.Policy `yaml:"kinds,omitempty"`
}

// RuleConfig extends the recognised capability tags.
type RuleConfig struct {
	Tag  string `yaml:"tag"`
	Kind string `yaml:"kind"`
}

// CascadeConfig selects how failures spread. Relation is "network" or a CEL
// expression over source and target.
type CascadeConfig struct {
	Relation string `yaml:"relation"`
	Kind     string `yaml:"kind,omitempty"`
}

// FailureConfig is the root configuration of the failure engine.
type FailureConfig struct {
	CheckInterval  float64       `yaml:"check_interval"`
	CheckThreshold float64       `yaml:"check_threshold"`
	RandomTries    int           `yaml:"random_tries"`
	Seed           int64         `yaml:"seed"`
	TimeWarp       float64       `yaml:"time_warp"`
	RepairRange    float64       `yaml:"repair_range"`
	Damage         DamageConfig  `yaml:"damage"`
	ExtraRules     []RuleConfig  `yaml:"extra_rules,omitempty"`
	Cascade        CascadeConfig `yaml:"cascade"`
}

// Default returns the built-in tunables.
func Default() *FailureConfig {
	pols := damage.DefaultPolicies()
	kinds := make(map[string]damage.Policy, len(pols.Kinds))
	for k, p := range pols.Kinds {
		kinds[k.String()] = p
	}
	return &FailureConfig{
		CheckInterval:  10,
		CheckThreshold: 0.9,
		RandomTries:    5,
		TimeWarp:       1,
		RepairRange:    failure.DefaultRepairRange,
		Damage:         DamageConfig{Default: pols.Default, Kinds: kinds},
		Cascade:        CascadeConfig{Relation: "network"},
	}
}

// Load reads tunables from path. A missing or unreadable file yields the
// defaults; each key that fails to decode or is out of range keeps its
// default. Problems are only logged at debug level.
func Load(path string) *FailureConfig {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("config not loaded, using defaults", "path", path, "err", err)
		return cfg
	}
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		slog.Debug("config malformed, using defaults", "path", path, "err", err)
		return cfg
	}

	def := Default()
	decodeKey(doc, "check_interval", &cfg.CheckInterval, func() bool { return cfg.CheckInterval >= 0 }, func() { cfg.CheckInterval = def.CheckInterval })
	decodeKey(doc, "check_threshold", &cfg.CheckThreshold, func() bool { return cfg.CheckThreshold >= 0 && cfg.CheckThreshold <= 1 }, func() { cfg.CheckThreshold = def.CheckThreshold })
	decodeKey(doc, "random_tries", &cfg.RandomTries, func() bool { return cfg.RandomTries >= 0 }, func() { cfg.RandomTries = def.RandomTries })
	decodeKey(doc, "seed", &cfg.Seed, nil, func() { cfg.Seed = def.Seed })
	decodeKey(doc, "time_warp", &cfg.TimeWarp, func() bool { return cfg.TimeWarp > 0 }, func() { cfg.TimeWarp = def.TimeWarp })
	decodeKey(doc, "repair_range", &cfg.RepairRange, func() bool { return cfg.RepairRange > 0 }, func() { cfg.RepairRange = def.RepairRange })
	decodeKey(doc, "extra_rules", &cfg.ExtraRules, nil, func() { cfg.ExtraRules = nil })
	decodeKey(doc, "cascade", &cfg.Cascade, nil, func() { cfg.Cascade = def.Cascade })
	if cfg.Cascade.Relation == "" {
		cfg.Cascade.Relation = def.Cascade.Relation
	}
	if _, err := cfg.Relation(nil); err != nil {
		slog.Debug("config key ignored", "key", "cascade", "err", err)
		cfg.Cascade = def.Cascade
	}
	if n, ok := doc["damage"]; ok {
		decodeDamage(&n, cfg)
	}
	return cfg
}

func decodeKey[T any](doc map[string]yaml.Node, key string, dst *T, valid func() bool, reset func()) {
	n, ok := doc[key]
	if !ok {
		return
	}
	if err := n.Decode(dst); err != nil {
		slog.Debug("config key ignored", "key", key, "err", err)
		reset()
		return
	}
	if valid != nil && !valid() {
		slog.Debug("config key out of range", "key", key)
		reset()
	}
}

func decodeDamage(n *yaml.Node, cfg *FailureConfig) {
	var blocks map[string]yaml.Node
	if err := n.Decode(&blocks); err != nil {
		slog.Debug("config key ignored", "key", "damage", "err", err)
		return
	}
	if d, ok := blocks["default"]; ok {
		pol := cfg.Damage.Default
		if err := d.Decode(&pol); err == nil && validPolicy(pol) {
			cfg.Damage.Default = pol
		}
	}
	kinds, ok := blocks["kinds"]
	if !ok {
		return
	}
	var raw map[string]yaml.Node
	if err := kinds.Decode(&raw); err != nil {
		slog.Debug("config key ignored", "key", "damage.kinds", "err", err)
		return
	}
	for name, body := range raw {
		if _, err := damage.ParseKind(name); err != nil {
			slog.Debug("unknown damage kind ignored", "kind", name)
			continue
		}
		pol, ok := cfg.Damage.Kinds[name]
		if !ok {
			pol = cfg.Damage.Default
		}
		if err := body.Decode(&pol); err != nil || !validPolicy(pol) {
			slog.Debug("damage policy ignored", "kind", name, "err", err)
			continue
		}
		cfg.Damage.Kinds[name] = pol
	}
}

func validPolicy(p damage.Policy) bool {
	return p.Interval >= 0 &&
		p.EscalationChance >= 0 && p.EscalationChance <= 1 &&
		p.CascadeChance >= 0 && p.CascadeChance <= 1 &&
		p.MinStep >= 0 && p.MaxStep >= 0 && p.MaxSeverity >= 0
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg *FailureConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SchedulerState returns the discovery timer tunables with a zero poll time.
func (c *FailureConfig) SchedulerState() failure.SchedulerState {
	return failure.SchedulerState{
		CheckInterval:  c.CheckInterval,
		CheckThreshold: c.CheckThreshold,
		RandomTries:    c.RandomTries,
	}
}

// Policies converts the damage block. Unknown kind names are skipped.
func (c *FailureConfig) Policies() damage.Policies {
	pols := damage.Policies{Default: c.Damage.Default, Kinds: make(map[damage.Kind]damage.Policy, len(c.Damage.Kinds))}
	for name, p := range c.Damage.Kinds {
		k, err := damage.ParseKind(name)
		if err != nil {
			continue
		}
		pols.Kinds[k] = p
	}
	return pols
}

// Rules converts extra_rules, skipping entries without a tag or with an
// unknown kind.
func (c *FailureConfig) Rules() []failure.Rule {
	var out []failure.Rule
	for _, r := range c.ExtraRules {
		k, err := damage.ParseKind(r.Kind)
		if r.Tag == "" || err != nil || k == damage.KindNone {
			continue
		}
		out = append(out, failure.Rule{Tag: r.Tag, Kind: k})
	}
	return out
}

// Relation builds the cascade relation and reports a bad expression or kind.
// Load drops such a block, so only hand-built configs reach the error here.
func (c *FailureConfig) Relation(log *slog.Logger) (failure.Relation, error) {
	switch c.Cascade.Relation {
	case "", "network":
		return failure.NetworkRelation{}, nil
	}
	kind := damage.KindElectrical
	if c.Cascade.Kind != "" {
		k, err := damage.ParseKind(c.Cascade.Kind)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	return failure.NewExprRelation(c.Cascade.Relation, kind, log)
}

// RelationOrDefault is Relation with the network relation substituted for
// anything that does not compile.
func (c *FailureConfig) RelationOrDefault(log *slog.Logger) failure.Relation {
	rel, err := c.Relation(log)
	if err != nil {
		if log == nil {
			log = slog.Default()
		}
		log.Debug("cascade relation ignored", "relation", c.Cascade.Relation, "kind", c.Cascade.Kind, "err", err)
		return failure.NetworkRelation{}
	}
	return rel
}
