package sim

import (
	"partfail-sim/internal/telemetry"
)

// RepairFunc repairs a part on behalf of an interactive writer.
type RepairFunc func(partID string) error

// repairSetter is implemented by writers that let the operator repair parts.
type repairSetter interface {
	SetRepairer(RepairFunc)
}

// AdminStatusWriter allows writers to show whether the admin console is up.
type AdminStatusWriter interface {
	SetAdminStatus(listening bool)
}

// MultiWriter fans out events, state rows, part status and broadcasts to
// multiple writers. Each kind goes only to writers that handle it.
type MultiWriter struct {
	writers []EventWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(ws ...EventWriter) *MultiWriter {
	return &MultiWriter{writers: ws}
}

// WriteEvent sends an event to all writers.
func (mw *MultiWriter) WriteEvent(row telemetry.FailureEventRow) error {
	for _, w := range mw.writers {
		if err := w.WriteEvent(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvents sends multiple events to all writers, using batch if supported.
func (mw *MultiWriter) WriteEvents(rows []telemetry.FailureEventRow) error {
	for _, w := range mw.writers {
		if bw, ok := w.(batchEventWriter); ok {
			if err := bw.WriteEvents(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteEvent(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteState sends a scheduler row to every state writer.
func (mw *MultiWriter) WriteState(row telemetry.SchedulerStateRow) error {
	for _, w := range mw.writers {
		if sw, ok := w.(StateWriter); ok {
			if err := sw.WriteState(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteStates sends multiple scheduler rows, using batch if supported.
func (mw *MultiWriter) WriteStates(rows []telemetry.SchedulerStateRow) error {
	for _, w := range mw.writers {
		if bw, ok := w.(batchStateWriter); ok {
			if err := bw.WriteStates(rows); err != nil {
				return err
			}
			continue
		}
		if sw, ok := w.(StateWriter); ok {
			for _, r := range rows {
				if err := sw.WriteState(r); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// WriteParts forwards the part status to writers that show it.
func (mw *MultiWriter) WriteParts(rows []telemetry.PartStatusRow) error {
	for _, w := range mw.writers {
		if pw, ok := w.(PartsWriter); ok {
			if err := pw.WriteParts(rows); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteBroadcast forwards operator messages.
func (mw *MultiWriter) WriteBroadcast(b Broadcast) error {
	for _, w := range mw.writers {
		if bw, ok := w.(BroadcastWriter); ok {
			if err := bw.WriteBroadcast(b); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetRepairer forwards the repair callback to interactive writers.
func (mw *MultiWriter) SetRepairer(fn RepairFunc) {
	for _, w := range mw.writers {
		if rs, ok := w.(repairSetter); ok {
			rs.SetRepairer(fn)
		}
	}
}

// SetAdminStatus forwards the admin UI state.
func (mw *MultiWriter) SetAdminStatus(listening bool) {
	for _, w := range mw.writers {
		if aw, ok := w.(AdminStatusWriter); ok {
			aw.SetAdminStatus(listening)
		}
	}
}
