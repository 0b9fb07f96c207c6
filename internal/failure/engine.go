package failure

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"partfail-sim/internal/damage"
	"partfail-sim/internal/logging"
	"partfail-sim/internal/rng"
	"partfail-sim/internal/telemetry"
	"partfail-sim/internal/vessel"
)

// Options configures an Engine.
type Options struct {
	Scheduler  SchedulerState
	Policies   damage.Policies
	ExtraRules []Rule
	// Relation defaults to NetworkRelation.
	Relation Relation
	// Host defaults to a MemoryHost.
	Host     vessel.Host
	Notifier Notifier
	Source   rng.Source
	Logger   *slog.Logger
	// WallClock stamps event rows; defaults to time.Now.
	WallClock func() time.Time
}

// TickResult is everything one tick produced, ready for the writers.
type TickResult struct {
	Events []telemetry.FailureEventRow
	// State is set when the discovery interval expired this tick.
	State *telemetry.SchedulerStateRow
}

// Session is the persisted state of one vessel's failure engine.
type Session struct {
	VesselID  string
	Scheduler SchedulerState
	Records   []damage.Node
}

// Engine runs the failure pipeline for one vessel. Every mutation happens
// under one lock and notifications are delivered only after it is released,
// so observers never see a record half way through a tick.
type Engine struct {
	mu        sync.Mutex
	vessel    *vessel.Vessel
	scheduler *Scheduler
	resolver  *Resolver
	cascade   *CascadeEngine
	repairer  *Repairer
	attacher  *Attacher
	policies  damage.Policies
	source    rng.Source
	notifier  Notifier
	outbox    outbox
	log       *slog.Logger
	wallClock func() time.Time
}

// NewEngine wires the scheduler, selector, cascade and repair components
// around one shared random source.
func NewEngine(v *vessel.Vessel, opts Options) *Engine {
	if opts.Host == nil {
		opts.Host = &vessel.MemoryHost{}
	}
	if opts.Relation == nil {
		opts.Relation = NetworkRelation{}
	}
	if opts.Notifier == nil {
		opts.Notifier = discardNotifier{}
	}
	if opts.Source == nil {
		opts.Source = rng.New(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.WallClock == nil {
		opts.WallClock = time.Now
	}
	if opts.Policies.Kinds == nil && opts.Policies.Default == (damage.Policy{}) {
		opts.Policies = damage.DefaultPolicies()
	}

	e := &Engine{
		vessel:    v,
		policies:  opts.Policies,
		source:    opts.Source,
		notifier:  opts.Notifier,
		log:       opts.Logger.With("vessel_id", v.ID),
		wallClock: opts.WallClock,
	}
	e.resolver = NewResolver(opts.ExtraRules...)
	e.attacher = &Attacher{VesselID: v.ID, Host: opts.Host, Policies: opts.Policies, Log: e.log}
	selector := &Selector{Resolver: e.resolver, Attacher: e.attacher, Source: opts.Source, Tries: opts.Scheduler.RandomTries}
	e.scheduler = &Scheduler{State: opts.Scheduler, Source: opts.Source, Selector: selector}
	e.cascade = &CascadeEngine{Resolver: e.resolver, Attacher: e.attacher, Relation: opts.Relation, Source: opts.Source}
	e.repairer = &Repairer{Host: opts.Host, Notifier: &e.outbox}
	return e
}

// Tick runs one simulation step at time now: the discovery pass first, then
// the state machine of every damaged part in vessel order.
func (e *Engine) Tick(ctx context.Context, now float64) TickResult {
	e.mu.Lock()
	res := e.tickLocked(ctx, now)
	pending := e.outbox.drain()
	e.mu.Unlock()

	pending.deliver(e.notifier)
	return res
}

func (e *Engine) tickLocked(ctx context.Context, now float64) TickResult {
	log := e.logger(ctx)
	var res TickResult

	roll := e.scheduler.Tick(now, e.vessel)
	if roll.Expired {
		st := e.scheduler.State
		row := &telemetry.SchedulerStateRow{
			VesselID:       e.vessel.ID,
			UT:             now,
			CheckInterval:  st.CheckInterval,
			CheckThreshold: st.CheckThreshold,
			RandomTries:    st.RandomTries,
			Sample:         roll.Sample,
			Rolled:         roll.Rolled,
			Timestamp:      e.wallClock().UTC(),
		}
		log.Debug("damage roll", "ut", now, "sample", roll.Sample, "threshold", st.CheckThreshold, "rolled", roll.Rolled)
		switch {
		case roll.Err != nil:
			res.Events = append(res.Events, e.event(telemetry.EventAttachFailed, roll.Part, nil, now))
		case roll.Record != nil:
			row.SelectedPartID = roll.Part.ID
			res.Events = append(res.Events, e.attached(log, telemetry.EventAttached, roll.Part, nil, now))
		}
		res.State = row
	}

	parts := append([]*vessel.Part(nil), e.vessel.Parts...)
	for _, p := range parts {
		rec := p.Damage
		if rec == nil {
			continue
		}
		st := rec.Advance(now, e.source, e.policies.For(rec.Kind))
		if st.Escalated {
			log.Info("damage escalated", "part_id", p.ID, "kind", rec.Kind, "from", st.From, "to", st.To)
			e.outbox.InvalidateDisplay(p)
			res.Events = append(res.Events, e.event(telemetry.EventEscalated, p, nil, now))
		}
		if !st.CascadeDue {
			continue
		}
		target, created, err := e.cascade.Propose(p, e.vessel, now)
		switch {
		case err != nil:
			res.Events = append(res.Events, e.event(telemetry.EventAttachFailed, target, p, now))
		case created != nil:
			res.Events = append(res.Events, e.attached(log, telemetry.EventCascade, target, p, now))
		}
	}

	if res.State != nil {
		res.State.DamagedParts = len(e.vessel.Damaged())
	}
	return res
}

func (e *Engine) attached(log *slog.Logger, eventType string, p, source *vessel.Part, now float64) telemetry.FailureEventRow {
	log.Info("part damaged", "part_id", p.ID, "kind", p.Damage.Kind, "event", eventType)
	e.outbox.InvalidateDisplay(p)
	e.outbox.Broadcast(p.Title + " has been damaged!")
	return e.event(eventType, p, source, now)
}

// Repair clears the record on partID at time now. inRange may be nil.
func (e *Engine) Repair(ctx context.Context, partID string, now float64, inRange func(*vessel.Part) bool) (telemetry.FailureEventRow, error) {
	e.mu.Lock()
	row, err := e.repairLocked(ctx, partID, now, inRange)
	pending := e.outbox.drain()
	e.mu.Unlock()

	pending.deliver(e.notifier)
	return row, err
}

func (e *Engine) repairLocked(ctx context.Context, partID string, now float64, inRange func(*vessel.Part) bool) (telemetry.FailureEventRow, error) {
	p, ok := e.vessel.Part(partID)
	if !ok {
		return telemetry.FailureEventRow{}, fmt.Errorf("%w: %s", vessel.ErrUnknownPart, partID)
	}
	rec, err := e.repairer.Repair(p, inRange)
	if err != nil {
		return telemetry.FailureEventRow{}, err
	}
	e.logger(ctx).Info("part repaired", "part_id", p.ID, "kind", rec.Kind)
	row := e.event(telemetry.EventRepaired, p, nil, now)
	row.Kind = rec.Kind.String()
	row.Label = rec.Label()
	return row, nil
}

// Fail forces a failure of kind onto partID at time now. KindNone uses the
// kind eligibility would infer.
func (e *Engine) Fail(ctx context.Context, partID string, kind damage.Kind, now float64) (telemetry.FailureEventRow, error) {
	e.mu.Lock()
	row, err := e.failLocked(ctx, partID, kind, now)
	pending := e.outbox.drain()
	e.mu.Unlock()

	pending.deliver(e.notifier)
	return row, err
}

func (e *Engine) failLocked(ctx context.Context, partID string, kind damage.Kind, now float64) (telemetry.FailureEventRow, error) {
	p, ok := e.vessel.Part(partID)
	if !ok {
		return telemetry.FailureEventRow{}, fmt.Errorf("%w: %s", vessel.ErrUnknownPart, partID)
	}
	if p.Damage != nil {
		return telemetry.FailureEventRow{}, fmt.Errorf("%w: %s", ErrAlreadyDamaged, partID)
	}
	m, ok := e.resolver.Match(p)
	if kind != damage.KindNone {
		m = Match{Kind: kind}
		if kind == damage.KindLeak {
			if leak := p.LeakableResources(); len(leak) > 0 {
				m.Resource = leak[0].Name
			}
		}
	} else if !ok {
		return telemetry.FailureEventRow{}, fmt.Errorf("part %s has no damageable capability", partID)
	}
	if _, err := e.attacher.Attach(p, m, now); err != nil {
		return telemetry.FailureEventRow{}, err
	}
	return e.attached(e.logger(ctx), telemetry.EventAttached, p, nil, now), nil
}

// Session captures the scheduler state and every record for persistence.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Session{VesselID: e.vessel.ID, Scheduler: e.scheduler.State}
	for _, p := range e.vessel.Damaged() {
		s.Records = append(s.Records, p.Damage.Node())
	}
	return s
}

// Restore reattaches persisted records and resumes the scheduler timer. The
// tunables already configured on the engine win over the persisted ones.
// Invalid records and records for unknown or already damaged parts are
// skipped with a warning; the number restored is returned.
func (e *Engine) Restore(ctx context.Context, s Session) (int, error) {
	log := e.logger(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.scheduler.State.LastPollTime = s.Scheduler.LastPollTime
	restored := 0
	for _, n := range s.Records {
		rec, err := damage.FromNode(n)
		if err != nil {
			log.Warn("skipping invalid persisted record", "part_id", n.PartID, "err", err)
			continue
		}
		p, ok := e.vessel.Part(rec.PartID)
		if !ok || p.Damage != nil {
			log.Warn("skipping persisted record", "part_id", rec.PartID)
			continue
		}
		if err := e.attacher.Host.AttachCapability(p, vessel.FailureModule); err != nil {
			log.Error("reattach failed", "part_id", rec.PartID, "err", err)
			continue
		}
		rec.VesselID = e.vessel.ID
		p.Damage = rec
		restored++
	}
	return restored, nil
}

// Snapshot returns the status of every part.
func (e *Engine) Snapshot() []telemetry.PartStatusRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return telemetry.Snapshot(e.vessel)
}

// SchedulerState returns a copy of the discovery timer.
func (e *Engine) SchedulerState() SchedulerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scheduler.State
}

// IsEligible reports whether partID could receive a new failure now.
func (e *Engine) IsEligible(partID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.vessel.Part(partID)
	return ok && e.resolver.IsEligible(p)
}

// logger prefers a logger carried by ctx over the engine's own.
func (e *Engine) logger(ctx context.Context) *slog.Logger {
	if l := logging.FromContext(ctx); l != slog.Default() {
		return l.With("vessel_id", e.vessel.ID)
	}
	return e.log
}

// VesselID identifies the vessel this engine drives.
func (e *Engine) VesselID() string { return e.vessel.ID }

func (e *Engine) event(eventType string, p, source *vessel.Part, now float64) telemetry.FailureEventRow {
	row := telemetry.FailureEventRow{
		EventID:   uuid.NewString(),
		VesselID:  e.vessel.ID,
		EventType: eventType,
		UT:        now,
		Timestamp: e.wallClock().UTC(),
	}
	if p != nil {
		row.PartID = p.ID
		row.PartTitle = p.Title
		if rec := p.Damage; rec != nil {
			row.Kind = rec.Kind.String()
			row.Severity = rec.Severity
			row.Label = rec.Label()
		}
	}
	if source != nil {
		row.SourcePartID = source.ID
	}
	return row
}
