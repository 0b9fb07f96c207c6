package failure

import (
	"testing"

	"partfail-sim/internal/damage"
	"partfail-sim/internal/rng"
	"partfail-sim/internal/vessel"
)

func cascadeVessel() *vessel.Vessel {
	v := plainVessel(4)
	v.Parts[0].Networks = []string{"bus-a"}
	v.Parts[0].AddTag(TagGenerator)
	v.Parts[0].Damage = &damage.Record{VesselID: "v1", PartID: "p0", Kind: damage.KindGenerator, Severity: 2, CascadeChance: 0.3, Interval: 5}
	v.Parts[1].Networks = []string{"bus-a"}
	v.Parts[1].AddTag(TagSolarPanel)
	v.Parts[2].Networks = []string{"bus-b"}
	v.Parts[2].AddTag(TagWheel)
	v.Parts[3].Networks = []string{"bus-a"}
	return v
}

func newCascade(src rng.Source, rel Relation) *CascadeEngine {
	if rel == nil {
		rel = NetworkRelation{}
	}
	return &CascadeEngine{
		Resolver: NewResolver(),
		Attacher: &Attacher{VesselID: "v1", Host: &vessel.MemoryHost{}, Policies: damage.DefaultPolicies()},
		Relation: rel,
		Source:   src,
	}
}

func TestCascadeProposesElectricalFailure(t *testing.T) {
	v := cascadeVessel()
	src := &rng.Sequence{Floats: []float64{0.1}}
	target, rec, err := newCascade(src, nil).Propose(v.Parts[0], v, 30)
	if err != nil {
		t.Fatal(err)
	}
	if target != v.Parts[1] {
		t.Fatalf("target = %v, want p1", target)
	}
	if rec.Kind != damage.KindElectrical || rec.State() != damage.StateLatent || rec.LastPollTime != 30 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if v.Parts[1].Damage != rec {
		t.Fatal("record not attached to the target")
	}
}

func TestCascadeMiss(t *testing.T) {
	v := cascadeVessel()
	target, rec, _ := newCascade(&rng.Sequence{Floats: []float64{0.3}}, nil).Propose(v.Parts[0], v, 30)
	if target != nil || rec != nil {
		t.Fatalf("cascade fired at the chance boundary")
	}
}

func TestCascadeLatentSourceDoesNothing(t *testing.T) {
	v := cascadeVessel()
	v.Parts[0].Damage.Severity = 0
	src := &rng.Sequence{}
	if _, rec, _ := newCascade(src, nil).Propose(v.Parts[0], v, 30); rec != nil {
		t.Fatal("latent record cascaded")
	}
	if f, _ := src.Draws(); f != 0 {
		t.Fatal("latent record consumed a draw")
	}
}

func TestCascadeNoEligibleRelatedPart(t *testing.T) {
	v := cascadeVessel()
	v.Parts[1].Damage = damage.New("v1", "p1", damage.KindSolarPanel, damage.DefaultPolicy, 0)
	_, rec, err := newCascade(&rng.Sequence{Floats: []float64{0.1}}, nil).Propose(v.Parts[0], v, 30)
	if rec != nil || err != nil {
		t.Fatalf("got %v %v, want no cascade", rec, err)
	}
}

func TestCascadeChoosesAmongCandidates(t *testing.T) {
	v := cascadeVessel()
	v.Parts[3].AddTag(TagWheel)
	src := &rng.Sequence{Floats: []float64{0.1}, Ints: []int{1}}
	target, _, _ := newCascade(src, nil).Propose(v.Parts[0], v, 30)
	if target != v.Parts[3] {
		t.Fatalf("target = %v, want p3", target)
	}
}

func TestExprRelation(t *testing.T) {
	v := cascadeVessel()
	rel, err := NewExprRelation(`target.id != source.id && "wheel" in target.tags`, damage.KindExplosion, nil)
	if err != nil {
		t.Fatal(err)
	}
	related := rel.Related(v.Parts[0], v)
	if len(related) != 1 || related[0] != v.Parts[2] {
		t.Fatalf("related = %v, want [p2]", related)
	}
	target, rec, err := newCascade(&rng.Sequence{Floats: []float64{0.1}}, rel).Propose(v.Parts[0], v, 30)
	if err != nil || target != v.Parts[2] || rec.Kind != damage.KindExplosion {
		t.Fatalf("got %v %+v %v", target, rec, err)
	}
}

func TestExprRelationRejectsBadExpression(t *testing.T) {
	if _, err := NewExprRelation(`target.id +`, damage.KindElectrical, nil); err == nil {
		t.Fatal("expected a compile error")
	}
	if _, err := NewExprRelation(`size(target.tags) + 1`, damage.KindElectrical, nil); err == nil {
		t.Fatal("expected a non-bool expression to be rejected")
	}
}
