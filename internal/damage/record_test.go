package damage

import (
	"testing"

	"partfail-sim/internal/rng"
)

func TestAdvanceWaitsForInterval(t *testing.T) {
	r := New("v1", "p1", KindWheel, Policy{Interval: 5, EscalationChance: 1}, 100)
	src := &rng.Sequence{}
	if st := r.Advance(105, src, Policy{EscalationChance: 1}); st.Checked {
		t.Fatalf("check ran at exactly the interval: %+v", st)
	}
	if r.LastPollTime != 100 {
		t.Fatalf("last poll moved without a check: %v", r.LastPollTime)
	}
}

func TestAdvanceLatentEscalates(t *testing.T) {
	pol := Policy{Interval: 5, EscalationChance: 0.5, MinStep: 1, MaxStep: 3}
	r := New("v1", "p1", KindLeak, pol, 0)
	src := &rng.Sequence{Floats: []float64{0.2}, Ints: []int{1}}
	st := r.Advance(6, src, pol)
	if !st.Checked || !st.Escalated {
		t.Fatalf("expected escalation, got %+v", st)
	}
	if r.Severity != 2 || r.State() != StateActive {
		t.Fatalf("severity = %d state = %s, want 2 active", r.Severity, r.State())
	}
	if r.LastPollTime != 6 {
		t.Fatalf("last poll = %v, want 6", r.LastPollTime)
	}
}

func TestAdvanceLatentMissStillPolls(t *testing.T) {
	pol := Policy{Interval: 5, EscalationChance: 0.5, MinStep: 1, MaxStep: 1}
	r := New("v1", "p1", KindWheel, pol, 0)
	src := &rng.Sequence{Floats: []float64{0.9}}
	st := r.Advance(10, src, pol)
	if !st.Checked || st.Escalated {
		t.Fatalf("expected a checked miss, got %+v", st)
	}
	if r.Severity != 0 || r.LastPollTime != 10 {
		t.Fatalf("unexpected record after miss: %+v", r)
	}
}

func TestAdvanceActiveCascadeDue(t *testing.T) {
	pol := Policy{Interval: 5, MaxSeverity: 1}
	r := &Record{Kind: KindElectrical, Severity: 2, CascadeChance: 0.3, Interval: 5}
	st := r.Advance(6, &rng.Sequence{}, pol)
	if !st.CascadeDue || st.Escalated {
		t.Fatalf("expected cascade due without escalation, got %+v", st)
	}
	if r.Severity != 2 {
		t.Fatalf("severity changed to %d", r.Severity)
	}
}

func TestAdvanceActiveIdleDoesNotPoll(t *testing.T) {
	r := &Record{Kind: KindWheel, Severity: 1, Interval: 5, LastPollTime: 1}
	if st := r.Advance(50, &rng.Sequence{}, Policy{MaxSeverity: 1}); st.Checked {
		t.Fatalf("idle active record should not be checked: %+v", st)
	}
	if r.LastPollTime != 1 {
		t.Fatalf("last poll moved: %v", r.LastPollTime)
	}
}

func TestAdvanceActiveEscalationCapped(t *testing.T) {
	pol := Policy{Interval: 1, EscalationChance: 1, MinStep: 5, MaxStep: 5, MaxSeverity: 3}
	r := &Record{Kind: KindLeak, Severity: 2, Interval: 1}
	st := r.Advance(2, &rng.Sequence{Floats: []float64{0}}, pol)
	if !st.Escalated || r.Severity != 3 {
		t.Fatalf("expected capped escalation to 3, got %+v severity %d", st, r.Severity)
	}
}

func TestSeverityNeverDecreases(t *testing.T) {
	pol := DefaultPolicies().For(KindLeak)
	r := New("v", "p", KindLeak, pol, 0)
	src := rng.New(7)
	prev := r.Severity
	for now := 0.0; now < 500; now += 1 {
		r.Advance(now, src, pol)
		if r.Severity < prev {
			t.Fatalf("severity dropped from %d to %d at %v", prev, r.Severity, now)
		}
		prev = r.Severity
	}
}

func TestLabel(t *testing.T) {
	cases := []struct {
		rec  Record
		want string
	}{
		{Record{Kind: KindEngineGimbal}, "engine-gimbal (latent)"},
		{Record{Kind: KindLeak, Resource: "LiquidFuel", Severity: 2}, "LiquidFuel leak (severity 2)"},
		{Record{Kind: KindElectrical, Severity: 1}, "electrical (severity 1)"},
	}
	for _, tc := range cases {
		if got := tc.rec.Label(); got != tc.want {
			t.Errorf("Label() = %q, want %q", got, tc.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("warp-core"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
