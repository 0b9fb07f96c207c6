package scenario

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"partfail-sim/internal/damage"
	"partfail-sim/internal/vessel"
)

// Action types understood by the simulator.
const (
	ActionRepair = "repair"
	ActionFail   = "fail"
)

// Trigger events.
const (
	EventTimeElapsed   = "time_elapsed"
	EventPartsDamaged  = "parts_damaged"
	EventPartsRepaired = "parts_repaired"
)

// ErrInvalid wraps every scenario validation failure.
var ErrInvalid = errors.New("invalid scenario")

// Scenario defines a craft and an ordered set of phases of operator activity.
type Scenario struct {
	Name        string     `yaml:"name,omitempty"`
	Description string     `yaml:"description,omitempty"`
	Vessel      VesselSpec `yaml:"vessel"`
	Phases      []Phase    `yaml:"phases,omitempty"`
}

// VesselSpec is the manifest of the simulated craft.
type VesselSpec struct {
	ID    string     `yaml:"id,omitempty"`
	Name  string     `yaml:"name"`
	Parts []PartSpec `yaml:"parts"`
}

// PartSpec declares one part of the manifest.
type PartSpec struct {
	ID        string            `yaml:"id"`
	Title     string            `yaml:"title"`
	Tags      []string          `yaml:"tags,omitempty"`
	Resources []vessel.Resource `yaml:"resources,omitempty"`
	Networks  []string          `yaml:"networks,omitempty"`
}

// Phase describes a stage of the run with scripted actions and triggers for transitions.
type Phase struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Actions     []Action  `yaml:"actions,omitempty"`
	Triggers    []Trigger `yaml:"triggers,omitempty"`
}

// Action is an operator intervention scheduled relative to the phase start.
type Action struct {
	After float64 `yaml:"after"`
	Type  string  `yaml:"type"`
	Part  string  `yaml:"part"`
	// Kind forces the failure kind of a fail action; empty infers it.
	Kind string `yaml:"kind,omitempty"`
	// Distance is how far the operator stands from the part for a repair.
	Distance float64 `yaml:"distance,omitempty"`
}

// Trigger moves the scenario to another phase based on an event.
type Trigger struct {
	Event string `yaml:"event"`
	Value int    `yaml:"value"`
	Next  string `yaml:"next"`
}

// Event represents a runtime occurrence that may advance the scenario.
type Event struct {
	Type  string
	Value int
}

// Load reads a YAML scenario definition from disk and validates it.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks part ids, action references and phase links.
func (s *Scenario) Validate() error {
	parts := make(map[string]bool, len(s.Vessel.Parts))
	for i, p := range s.Vessel.Parts {
		if p.ID == "" {
			return fmt.Errorf("%w: part %d has no id", ErrInvalid, i)
		}
		if parts[p.ID] {
			return fmt.Errorf("%w: duplicate part id %q", ErrInvalid, p.ID)
		}
		parts[p.ID] = true
	}
	phases := make(map[string]bool, len(s.Phases))
	for _, ph := range s.Phases {
		phases[ph.Name] = true
	}
	for _, ph := range s.Phases {
		for _, a := range ph.Actions {
			if !parts[a.Part] {
				return fmt.Errorf("%w: phase %q acts on unknown part %q", ErrInvalid, ph.Name, a.Part)
			}
			switch a.Type {
			case ActionRepair:
			case ActionFail:
				if a.Kind != "" {
					if _, err := damage.ParseKind(a.Kind); err != nil {
						return fmt.Errorf("%w: phase %q: %v", ErrInvalid, ph.Name, err)
					}
				}
			default:
				return fmt.Errorf("%w: phase %q has unknown action %q", ErrInvalid, ph.Name, a.Type)
			}
		}
		for _, tr := range ph.Triggers {
			if !phases[tr.Next] {
				return fmt.Errorf("%w: phase %q triggers unknown phase %q", ErrInvalid, ph.Name, tr.Next)
			}
		}
	}
	return nil
}

// BuildVessel materialises the manifest. A manifest without an id gets a
// random one, so repeated builds of such a manifest are distinct vessels.
func (s *Scenario) BuildVessel() *vessel.Vessel {
	id := s.Vessel.ID
	if id == "" {
		id = uuid.NewString()
	}
	v := &vessel.Vessel{ID: id, Name: s.Vessel.Name}
	for _, ps := range s.Vessel.Parts {
		p := vessel.NewPart(ps.ID, ps.Title, ps.Tags...)
		if p.Title == "" {
			p.Title = ps.ID
		}
		p.Resources = append([]vessel.Resource(nil), ps.Resources...)
		p.Networks = append([]string(nil), ps.Networks...)
		v.Parts = append(v.Parts, p)
	}
	return v
}

// Phase looks a phase up by name.
func (s *Scenario) Phase(name string) (Phase, bool) {
	for _, p := range s.Phases {
		if p.Name == name {
			return p, true
		}
	}
	return Phase{}, false
}

// FirstPhase is the phase a run starts in, or "" without phases.
func (s *Scenario) FirstPhase() string {
	if len(s.Phases) == 0 {
		return ""
	}
	return s.Phases[0].Name
}

// NextPhase returns the name of the next phase given the current phase and event.
// If no trigger matches, ok will be false.
func (s *Scenario) NextPhase(current string, ev Event) (next string, ok bool) {
	for _, p := range s.Phases {
		if p.Name != current {
			continue
		}
		for _, tr := range p.Triggers {
			if tr.Event == ev.Type && ev.Value >= tr.Value {
				return tr.Next, true
			}
		}
	}
	return "", false
}
