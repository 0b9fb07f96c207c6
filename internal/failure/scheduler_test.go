package failure

import (
	"errors"
	"testing"

	"partfail-sim/internal/damage"
	"partfail-sim/internal/rng"
	"partfail-sim/internal/vessel"
)

func newSelector(src rng.Source, tries int, host vessel.Host) *Selector {
	if host == nil {
		host = &vessel.MemoryHost{}
	}
	return &Selector{
		Resolver: NewResolver(),
		Attacher: &Attacher{VesselID: "v1", Host: host, Policies: damage.DefaultPolicies()},
		Source:   src,
		Tries:    tries,
	}
}

func TestSchedulerRollSucceeds(t *testing.T) {
	v := plainVessel(1)
	v.Parts[0].AddTag(TagWheel)
	src := &rng.Sequence{Floats: []float64{0.5}, Ints: []int{0}}
	s := &Scheduler{
		State:    SchedulerState{LastPollTime: 0, CheckInterval: 10, CheckThreshold: 0.9, RandomTries: 1},
		Source:   src,
		Selector: newSelector(src, 1, nil),
	}
	r := s.Tick(11, v)
	if !r.Expired || !r.Rolled {
		t.Fatalf("roll = %+v, want expired and rolled", r)
	}
	if r.Part != v.Parts[0] || r.Record == nil || r.Record.Kind != damage.KindWheel {
		t.Fatalf("unexpected selection: %+v", r)
	}
	if s.State.LastPollTime != 11 {
		t.Fatalf("last poll = %v, want 11", s.State.LastPollTime)
	}
}

func TestSchedulerWaitsForInterval(t *testing.T) {
	src := &rng.Sequence{}
	s := &Scheduler{
		State:    SchedulerState{LastPollTime: 5, CheckInterval: 10, CheckThreshold: 1},
		Source:   src,
		Selector: newSelector(src, 3, nil),
	}
	if r := s.Tick(15, plainVessel(3)); r.Expired {
		t.Fatalf("tick at exactly the interval fired: %+v", r)
	}
	if f, i := src.Draws(); f != 0 || i != 0 {
		t.Fatalf("draws = %d/%d, want none", f, i)
	}
	if s.State.LastPollTime != 5 {
		t.Fatalf("last poll moved to %v", s.State.LastPollTime)
	}
}

func TestSchedulerMissResetsTimer(t *testing.T) {
	src := &rng.Sequence{Floats: []float64{0.95}}
	s := &Scheduler{
		State:    SchedulerState{CheckInterval: 10, CheckThreshold: 0.9, RandomTries: 5},
		Source:   src,
		Selector: newSelector(src, 5, nil),
	}
	r := s.Tick(20, plainVessel(2))
	if !r.Expired || r.Rolled {
		t.Fatalf("roll = %+v, want expired miss", r)
	}
	if s.State.LastPollTime != 20 {
		t.Fatalf("last poll = %v, want 20", s.State.LastPollTime)
	}
	if _, ints := src.Draws(); ints != 0 {
		t.Fatalf("selection ran after a miss")
	}
}

func TestSelectorFindsTaggedPartOnFifthDraw(t *testing.T) {
	v := plainVessel(10)
	v.Parts[3].AddTag(TagEngineGimbal)
	src := &rng.Sequence{Ints: []int{7, 2, 9, 1, 3}}
	p, rec, err := newSelector(src, 5, nil).Select(v.Parts, 42)
	if err != nil {
		t.Fatal(err)
	}
	if p != v.Parts[3] || rec.Kind != damage.KindEngineGimbal {
		t.Fatalf("selected %v kind %v", p.ID, rec.Kind)
	}
	if rec.State() != damage.StateLatent || rec.LastPollTime != 42 {
		t.Fatalf("record not fresh: %+v", rec)
	}
	if _, ints := src.Draws(); ints != 5 {
		t.Fatalf("int draws = %d, want 5", ints)
	}
}

func TestSelectorNothingEligible(t *testing.T) {
	for _, tries := range []int{0, 1, 10} {
		v := plainVessel(4)
		src := &rng.Sequence{Ints: make([]int, tries)}
		p, rec, err := newSelector(src, tries, nil).Select(v.Parts, 1)
		if p != nil || rec != nil || err != nil {
			t.Fatalf("tries=%d: got %v %v %v", tries, p, rec, err)
		}
		if len(v.Damaged()) != 0 {
			t.Fatalf("tries=%d: vessel gained damage", tries)
		}
	}
}

func TestSelectorFallbackTakesFirstEligible(t *testing.T) {
	v := plainVessel(5)
	v.Parts[2].AddTag(TagParachute)
	v.Parts[4].AddTag(TagWheel)
	src := &rng.Sequence{Ints: []int{0, 1}}
	p, rec, err := newSelector(src, 2, nil).Select(v.Parts, 0)
	if err != nil {
		t.Fatal(err)
	}
	if p != v.Parts[2] || rec.Kind != damage.KindParachute {
		t.Fatalf("fallback picked %s", p.ID)
	}
	if v.Parts[4].Damage != nil {
		t.Fatal("second eligible part was also damaged")
	}
}

func TestSelectorEmptyVesselDrawsNothing(t *testing.T) {
	src := &rng.Sequence{}
	if p, _, _ := newSelector(src, 5, nil).Select(nil, 0); p != nil {
		t.Fatal("selected from an empty vessel")
	}
}

func TestSelectorAttachRefused(t *testing.T) {
	v := plainVessel(1)
	v.Parts[0].AddTag(TagWheel)
	host := refusingHost{err: vessel.ErrDuplicateModule}
	p, rec, err := newSelector(&rng.Sequence{Ints: []int{0}}, 1, host).Select(v.Parts, 0)
	if !errors.Is(err, vessel.ErrDuplicateModule) {
		t.Fatalf("err = %v", err)
	}
	var ae *vessel.AttachError
	if !errors.As(err, &ae) || ae.PartID != "p0" {
		t.Fatalf("err is not an attach error for p0: %v", err)
	}
	if rec != nil || p.Damage != nil {
		t.Fatal("refused attach left a record behind")
	}
}
