package vessel

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrInvalidDescriptor is returned for a module descriptor without a name.
	ErrInvalidDescriptor = errors.New("invalid module descriptor")
	// ErrDuplicateModule is returned when the part already has the module.
	ErrDuplicateModule = errors.New("module already attached")
	// ErrUnknownPart is returned when a part id does not resolve.
	ErrUnknownPart = errors.New("unknown part")
)

// ModuleDescriptor names a capability the host can attach to a part.
type ModuleDescriptor struct {
	Name string
}

// FailureModule is the capability that materialises a damage record.
var FailureModule = ModuleDescriptor{Name: "PartFailureModule"}

// AttachError reports a refused attachment.
type AttachError struct {
	PartID string
	Module string
	Err    error
}

func (e *AttachError) Error() string {
	return fmt.Sprintf("attach %s to part %s: %v", e.Module, e.PartID, e.Err)
}

func (e *AttachError) Unwrap() error { return e.Err }

// Host is the simulation's module attachment mechanism.
type Host interface {
	AttachCapability(p *Part, m ModuleDescriptor) error
	DetachCapability(p *Part, m ModuleDescriptor)
}

// MemoryHost records modules on the part itself.
type MemoryHost struct {
	mu sync.Mutex
}

// AttachCapability adds m to p or refuses duplicates and unnamed modules.
func (h *MemoryHost) AttachCapability(p *Part, m ModuleDescriptor) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m.Name == "" {
		return &AttachError{PartID: p.ID, Module: m.Name, Err: ErrInvalidDescriptor}
	}
	if p.HasModule(m.Name) {
		return &AttachError{PartID: p.ID, Module: m.Name, Err: ErrDuplicateModule}
	}
	if p.Modules == nil {
		p.Modules = make(map[string]struct{})
	}
	p.Modules[m.Name] = struct{}{}
	return nil
}

// DetachCapability removes m from p. Detaching a missing module is a no-op.
func (h *MemoryHost) DetachCapability(p *Part, m ModuleDescriptor) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(p.Modules, m.Name)
}
