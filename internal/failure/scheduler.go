package failure

import (
	"partfail-sim/internal/damage"
	"partfail-sim/internal/rng"
	"partfail-sim/internal/vessel"
)

// SchedulerState is the per-vessel discovery timer and its tunables.
type SchedulerState struct {
	LastPollTime   float64 `json:"last_poll_time"`
	CheckInterval  float64 `json:"check_interval"`
	CheckThreshold float64 `json:"check_threshold"`
	RandomTries    int     `json:"random_tries"`
}

// Roll describes what one scheduler tick did.
type Roll struct {
	// Expired is false when the interval had not elapsed; nothing else is set.
	Expired bool
	Sample  float64
	// Rolled reports Sample < CheckThreshold.
	Rolled bool
	Part   *vessel.Part
	Record *damage.Record
	Err    error
}

// Scheduler makes one probabilistic failure decision per interval.
type Scheduler struct {
	State    SchedulerState
	Source   rng.Source
	Selector *Selector
}

// Tick checks the interval at simulation time now. Once it has expired the
// timer restarts at now whether or not a failure follows, one sample is drawn
// and, below the threshold, one selection pass runs over v.
func (s *Scheduler) Tick(now float64, v *vessel.Vessel) Roll {
	if now-s.State.LastPollTime <= s.State.CheckInterval {
		return Roll{}
	}
	s.State.LastPollTime = now
	r := Roll{Expired: true, Sample: s.Source.Float64()}
	if r.Sample >= s.State.CheckThreshold {
		return r
	}
	r.Rolled = true
	r.Part, r.Record, r.Err = s.Selector.Select(v.Parts, now)
	return r
}
