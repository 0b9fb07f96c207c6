// Simulator driving the failure engine on a simulated clock
package sim

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"partfail-sim/internal/config"
	"partfail-sim/internal/failure"
	"partfail-sim/internal/rng"
	"partfail-sim/internal/scenario"
	"partfail-sim/internal/telemetry"
	"partfail-sim/internal/vessel"
)

// EventWriter is an interface to support different output writers.
type EventWriter interface {
	WriteEvent(telemetry.FailureEventRow) error
}

// Optional: writers can also support batch mode
type batchEventWriter interface {
	WriteEvents([]telemetry.FailureEventRow) error
}

// PartsWriter receives the full part status after every step.
type PartsWriter interface {
	WriteParts([]telemetry.PartStatusRow) error
}

// Options carries the optional collaborators of a Simulator.
type Options struct {
	// Source defaults to a generator seeded from the config.
	Source rng.Source
	// Host defaults to an in-memory host.
	Host vessel.Host
	// Scenario scripts operator actions; nil runs the vessel unattended.
	Scenario *scenario.Scenario
	// StateWriter defaults to the event writer when it also writes state.
	StateWriter StateWriter
	Logger      *slog.Logger
	WallClock   func() time.Time
}

// Simulator advances simulated time and runs the failure engine on every tick.
type Simulator struct {
	engine       *failure.Engine
	cfg          *config.FailureConfig
	writer       EventWriter
	stateWriter  StateWriter
	notifier     *Notifier
	tickInterval time.Duration
	log          *slog.Logger

	mu           sync.Mutex
	ut           float64
	scenario     *scenario.Scenario
	phase        string
	phaseStart   float64
	phaseRepairs int
	done         map[int]bool
	// partRevs holds the display revisions of the last parts write; nil
	// forces the next write.
	partRevs map[string]int
}

// NewSimulator builds the engine for v from cfg. writer receives every
// failure event; it may be nil.
func NewSimulator(v *vessel.Vessel, cfg *config.FailureConfig, writer EventWriter, tickInterval time.Duration, opts Options) (*Simulator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	src := opts.Source
	if src == nil {
		src = rng.New(cfg.Seed)
	}
	s := &Simulator{
		cfg:          cfg,
		writer:       writer,
		stateWriter:  opts.StateWriter,
		notifier:     NewNotifier(defaultBroadcastLimit, opts.WallClock),
		tickInterval: tickInterval,
		log:          log,
		scenario:     opts.Scenario,
		done:         make(map[int]bool),
	}
	if s.stateWriter == nil {
		if sw, ok := writer.(StateWriter); ok {
			s.stateWriter = sw
		}
	}
	if bw, ok := writer.(BroadcastWriter); ok {
		s.notifier.Forward(bw)
	}
	if s.scenario != nil {
		s.phase = s.scenario.FirstPhase()
	}
	s.engine = failure.NewEngine(v, failure.Options{
		Scheduler:  cfg.SchedulerState(),
		Policies:   cfg.Policies(),
		ExtraRules: cfg.Rules(),
		Relation:   cfg.RelationOrDefault(log),
		Host:       opts.Host,
		Notifier:   s.notifier,
		Source:     src,
		Logger:     log,
		WallClock:  opts.WallClock,
	})
	return s, nil
}

// UT returns the current simulation time in seconds.
func (s *Simulator) UT() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ut
}

// Phase returns the active scenario phase, or "" without a scenario.
func (s *Simulator) Phase() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// VesselID identifies the simulated vessel.
func (s *Simulator) VesselID() string { return s.engine.VesselID() }

// Snapshot returns the status of every part.
func (s *Simulator) Snapshot() []telemetry.PartStatusRow { return s.engine.Snapshot() }

// SchedulerState returns the discovery timer.
func (s *Simulator) SchedulerState() failure.SchedulerState { return s.engine.SchedulerState() }

// Broadcasts returns the retained operator messages, oldest first.
func (s *Simulator) Broadcasts() []Broadcast { return s.notifier.Broadcasts() }

// Notifier exposes the broadcast log so more listeners can be attached.
func (s *Simulator) Notifier() *Notifier { return s.notifier }

// Session captures the engine state for persistence.
func (s *Simulator) Session() failure.Session { return s.engine.Session() }

// Restore reattaches a persisted session and moves the clock to the latest
// time recorded in it, so elapsed-time accounting continues where it stopped.
func (s *Simulator) Restore(ctx context.Context, sess failure.Session) (int, error) {
	n, err := s.engine.Restore(ctx, sess)
	if err != nil {
		return n, err
	}
	latest := sess.Scheduler.LastPollTime
	for _, rec := range sess.Records {
		if rec.LastPollTime > latest {
			latest = rec.LastPollTime
		}
	}
	s.mu.Lock()
	if latest > s.ut {
		s.ut = latest
	}
	s.phaseStart = s.ut
	s.partRevs = nil
	s.mu.Unlock()
	return n, nil
}

// Repair clears the damage on partID for an operator standing distance
// metres away. The resulting event is written like any other.
func (s *Simulator) Repair(ctx context.Context, partID string, distance float64) (telemetry.FailureEventRow, error) {
	now := s.UT()
	row, err := s.engine.Repair(ctx, partID, now, failure.WithinRange(distance, s.cfg.RepairRange))
	if err != nil {
		return row, err
	}
	s.mu.Lock()
	s.phaseRepairs++
	s.mu.Unlock()
	s.writeEvents(ctx, []telemetry.FailureEventRow{row})
	s.writeParts(ctx)
	return row, nil
}
