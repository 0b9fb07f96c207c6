package failure

import (
	"fmt"

	"partfail-sim/internal/vessel"
)

type recordingNotifier struct {
	broadcasts  []string
	invalidated []string
}

func (n *recordingNotifier) Broadcast(msg string) { n.broadcasts = append(n.broadcasts, msg) }

func (n *recordingNotifier) InvalidateDisplay(p *vessel.Part) {
	n.invalidated = append(n.invalidated, p.ID)
}

type refusingHost struct{ err error }

func (h refusingHost) AttachCapability(p *vessel.Part, m vessel.ModuleDescriptor) error {
	return &vessel.AttachError{PartID: p.ID, Module: m.Name, Err: h.err}
}

func (refusingHost) DetachCapability(*vessel.Part, vessel.ModuleDescriptor) {}

// plainVessel builds n parts without tags or resources.
func plainVessel(n int) *vessel.Vessel {
	v := &vessel.Vessel{ID: "v1", Name: "Test Craft"}
	for i := 0; i < n; i++ {
		v.Parts = append(v.Parts, vessel.NewPart(fmt.Sprintf("p%d", i), fmt.Sprintf("Part %d", i)))
	}
	return v
}
