package vessel

import (
	"errors"
	"testing"
)

func TestPartResources(t *testing.T) {
	p := NewPart("tank", "FL-T400")
	p.Resources = []Resource{{Name: "LiquidFuel", Amount: 180}, {Name: ElectricCharge, Amount: 10}, {Name: "Oxidizer", Amount: 220}}
	leak := p.LeakableResources()
	if len(leak) != 2 || leak[0].Name != "LiquidFuel" || leak[1].Name != "Oxidizer" {
		t.Fatalf("unexpected leakable resources: %+v", leak)
	}
	if !p.HasElectricCharge() || !p.HasResources() {
		t.Fatalf("expected resources and electric charge")
	}
}

func TestVesselPartLookupAndOrder(t *testing.T) {
	v := &Vessel{ID: "v1", Parts: []*Part{NewPart("a", "A"), NewPart("b", "B"), NewPart("c", "C")}}
	if p, ok := v.Part("b"); !ok || p.Title != "B" {
		t.Fatalf("lookup failed: %v %v", p, ok)
	}
	if _, ok := v.Part("zz"); ok {
		t.Fatalf("unexpected hit for unknown id")
	}
	if len(v.Damaged()) != 0 {
		t.Fatalf("fresh vessel should have no damaged parts")
	}
}

func TestSharesNetwork(t *testing.T) {
	a := NewPart("a", "A")
	a.Networks = []string{"main-bus"}
	b := NewPart("b", "B")
	b.Networks = []string{"aux", "main-bus"}
	c := NewPart("c", "C")
	if !a.SharesNetwork(b) || a.SharesNetwork(c) {
		t.Fatalf("unexpected network relation")
	}
}

func TestMemoryHost(t *testing.T) {
	h := &MemoryHost{}
	p := NewPart("a", "A")
	if err := h.AttachCapability(p, FailureModule); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if !p.HasModule(FailureModule.Name) {
		t.Fatalf("module not recorded")
	}
	err := h.AttachCapability(p, FailureModule)
	if !errors.Is(err, ErrDuplicateModule) {
		t.Fatalf("err = %v, want ErrDuplicateModule", err)
	}
	var ae *AttachError
	if !errors.As(err, &ae) || ae.PartID != "a" {
		t.Fatalf("expected AttachError for part a, got %v", err)
	}
	if err := h.AttachCapability(p, ModuleDescriptor{}); !errors.Is(err, ErrInvalidDescriptor) {
		t.Fatalf("err = %v, want ErrInvalidDescriptor", err)
	}
	h.DetachCapability(p, FailureModule)
	if p.HasModule(FailureModule.Name) {
		t.Fatalf("module not removed")
	}
	h.DetachCapability(p, FailureModule)
}
