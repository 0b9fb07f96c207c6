package sim

import (
	"context"
	"time"

	"partfail-sim/internal/damage"
	"partfail-sim/internal/failure"
	"partfail-sim/internal/logging"
	"partfail-sim/internal/scenario"
	"partfail-sim/internal/telemetry"
)

// Run starts the simulation loop and stops when the context is done.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "tick_interval", s.tickInterval, "time_warp", s.cfg.TimeWarp, "vessel_id", s.VesselID())
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Step(ctx)
		case <-ctx.Done():
			log.Info("stopping simulator", "ut", s.UT())
			return
		}
	}
}

// Step advances the clock by one tick and runs the engine, then any scripted
// actions that fell due, then the phase triggers.
func (s *Simulator) Step(ctx context.Context) {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	s.ut += s.tickInterval.Seconds() * s.cfg.TimeWarp
	now := s.ut
	due := s.dueActions(now)
	s.mu.Unlock()

	res := s.engine.Tick(ctx, now)
	events := res.Events
	repairs := 0
	for _, a := range due {
		row, err := s.apply(ctx, a, now)
		if err != nil {
			log.Warn("scripted action failed", "type", a.Type, "part_id", a.Part, "err", err)
			continue
		}
		if a.Type == scenario.ActionRepair {
			repairs++
		}
		events = append(events, row)
	}

	s.writeEvents(ctx, events)
	if res.State != nil && s.stateWriter != nil {
		if err := s.stateWriter.WriteState(*res.State); err != nil {
			log.Error("state write failed", "err", err)
		}
	}
	s.writeParts(ctx)

	damaged := 0
	for _, p := range s.engine.Snapshot() {
		if p.Damaged {
			damaged++
		}
	}
	s.mu.Lock()
	s.phaseRepairs += repairs
	s.advancePhase(ctx, now, damaged)
	s.mu.Unlock()
}

func (s *Simulator) apply(ctx context.Context, a scenario.Action, now float64) (telemetry.FailureEventRow, error) {
	if a.Type == scenario.ActionRepair {
		return s.engine.Repair(ctx, a.Part, now, failure.WithinRange(a.Distance, s.cfg.RepairRange))
	}
	kind := damage.KindNone
	if a.Kind != "" {
		k, err := damage.ParseKind(a.Kind)
		if err != nil {
			return telemetry.FailureEventRow{}, err
		}
		kind = k
	}
	return s.engine.Fail(ctx, a.Part, kind, now)
}

// dueActions returns the actions of the current phase whose time has come and
// marks them done. Callers hold s.mu.
func (s *Simulator) dueActions(now float64) []scenario.Action {
	if s.scenario == nil || s.phase == "" {
		return nil
	}
	ph, ok := s.scenario.Phase(s.phase)
	if !ok {
		return nil
	}
	var due []scenario.Action
	for i, a := range ph.Actions {
		if s.done[i] || now-s.phaseStart < a.After {
			continue
		}
		s.done[i] = true
		due = append(due, a)
	}
	return due
}

// advancePhase follows the first matching trigger of the current phase.
// Callers hold s.mu.
func (s *Simulator) advancePhase(ctx context.Context, now float64, damaged int) {
	if s.scenario == nil || s.phase == "" {
		return
	}
	events := []scenario.Event{
		{Type: scenario.EventTimeElapsed, Value: int(now - s.phaseStart)},
		{Type: scenario.EventPartsDamaged, Value: damaged},
		{Type: scenario.EventPartsRepaired, Value: s.phaseRepairs},
	}
	for _, ev := range events {
		next, ok := s.scenario.NextPhase(s.phase, ev)
		if !ok {
			continue
		}
		logging.FromContext(ctx).Info("phase changed", "from", s.phase, "to", next, "ut", now, "event", ev.Type)
		s.phase = next
		s.phaseStart = now
		s.phaseRepairs = 0
		s.done = make(map[int]bool)
		return
	}
}

func (s *Simulator) writeEvents(ctx context.Context, events []telemetry.FailureEventRow) {
	if s.writer == nil || len(events) == 0 {
		return
	}
	log := logging.FromContext(ctx)
	if bw, ok := s.writer.(batchEventWriter); ok {
		if err := bw.WriteEvents(events); err != nil {
			log.Error("batch write failed", "err", err)
		}
		return
	}
	for _, row := range events {
		if err := s.writer.WriteEvent(row); err != nil {
			log.Error("write failed", "part_id", row.PartID, "err", err)
		}
	}
}

func (s *Simulator) writeParts(ctx context.Context) {
	pw, ok := s.writer.(PartsWriter)
	if !ok {
		return
	}
	rows := s.engine.Snapshot()
	if !s.partsChanged(rows) {
		return
	}
	if err := pw.WriteParts(rows); err != nil {
		logging.FromContext(ctx).Error("parts write failed", "err", err)
	}
}

// partsChanged reports whether any part was invalidated since the last parts
// write and remembers the revisions it saw.
func (s *Simulator) partsChanged(rows []telemetry.PartStatusRow) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.partRevs == nil
	if changed {
		s.partRevs = make(map[string]int, len(rows))
	}
	for _, r := range rows {
		rev := s.notifier.Revision(r.PartID)
		if rev != s.partRevs[r.PartID] {
			s.partRevs[r.PartID] = rev
			changed = true
		}
	}
	return changed
}
