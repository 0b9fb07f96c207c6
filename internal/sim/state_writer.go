package sim

import "partfail-sim/internal/telemetry"

// StateWriter handles scheduler state rows.
type StateWriter interface {
	WriteState(telemetry.SchedulerStateRow) error
}

// Optional: writers may support batch mode for state rows.
type batchStateWriter interface {
	WriteStates([]telemetry.SchedulerStateRow) error
}
