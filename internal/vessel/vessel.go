// Package vessel models the craft the failure engine works on. Parts are
// owned by the host; the engine only attaches and detaches damage.
package vessel

import "partfail-sim/internal/damage"

// ElectricCharge is the resource that cannot leak; parts holding only it fail
// electrically instead.
const ElectricCharge = "ElectricCharge"

// Resource is a consumable held by a part.
type Resource struct {
	Name   string  `yaml:"name" json:"name"`
	Amount float64 `yaml:"amount" json:"amount"`
	Max    float64 `yaml:"max" json:"max"`
}

// Part is one addressable component of a vessel.
type Part struct {
	ID        string
	Title     string
	Tags      map[string]struct{}
	Resources []Resource
	// Networks groups parts that share a bus or plumbing; the default cascade
	// relation uses it.
	Networks []string
	// Modules are the capabilities the host has attached at runtime.
	Modules map[string]struct{}
	// Damage is the active record, or nil.
	Damage *damage.Record
}

// NewPart builds a part from a tag list.
func NewPart(id, title string, tags ...string) *Part {
	p := &Part{ID: id, Title: title, Tags: make(map[string]struct{}, len(tags))}
	for _, t := range tags {
		p.Tags[t] = struct{}{}
	}
	return p
}

// HasTag reports whether the part exposes a capability tag.
func (p *Part) HasTag(tag string) bool {
	_, ok := p.Tags[tag]
	return ok
}

// AddTag extends the part's capability set.
func (p *Part) AddTag(tag string) {
	if p.Tags == nil {
		p.Tags = make(map[string]struct{})
	}
	p.Tags[tag] = struct{}{}
}

// HasResources reports whether the part carries any consumable.
func (p *Part) HasResources() bool {
	return len(p.Resources) > 0
}

// LeakableResources returns every resource except ElectricCharge.
func (p *Part) LeakableResources() []Resource {
	var out []Resource
	for _, r := range p.Resources {
		if r.Name != ElectricCharge {
			out = append(out, r)
		}
	}
	return out
}

// HasElectricCharge reports whether the part stores ElectricCharge.
func (p *Part) HasElectricCharge() bool {
	for _, r := range p.Resources {
		if r.Name == ElectricCharge {
			return true
		}
	}
	return false
}

// HasModule reports whether the host attached a module of that name.
func (p *Part) HasModule(name string) bool {
	_, ok := p.Modules[name]
	return ok
}

// SharesNetwork reports whether both parts list a common network.
func (p *Part) SharesNetwork(o *Part) bool {
	for _, a := range p.Networks {
		for _, b := range o.Networks {
			if a == b {
				return true
			}
		}
	}
	return false
}

// Vessel is an ordered collection of parts. Iteration order is insertion
// order and stays stable for the life of the vessel.
type Vessel struct {
	ID    string
	Name  string
	Parts []*Part
}

// Part looks a part up by id.
func (v *Vessel) Part(id string) (*Part, bool) {
	for _, p := range v.Parts {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Damaged returns the parts that carry a record, in vessel order.
func (v *Vessel) Damaged() []*Part {
	var out []*Part
	for _, p := range v.Parts {
		if p.Damage != nil {
			out = append(out, p)
		}
	}
	return out
}
