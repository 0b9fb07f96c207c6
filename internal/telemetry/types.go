// Failure event rows with greptime tags
package telemetry

import (
	"os"
	"time"
)

// Failure event types.
const (
	EventAttached     = "attached"
	EventAttachFailed = "attach_failed"
	EventEscalated    = "escalated"
	EventCascade      = "cascade"
	EventRepaired     = "repaired"
)

// FailureEventRow records one change to a part's damage.
type FailureEventRow struct {
	EventID      string    `json:"event_id"`       // FIELD
	VesselID     string    `json:"vessel_id"`      // TAG
	PartID       string    `json:"part_id"`        // TAG
	PartTitle    string    `json:"part_title"`     // FIELD
	EventType    string    `json:"event_type"`     // FIELD
	Kind         string    `json:"kind"`           // FIELD
	Severity     int       `json:"severity"`       // FIELD
	SourcePartID string    `json:"source_part_id"` // FIELD, cascades only
	Label        string    `json:"label"`          // FIELD
	UT           float64   `json:"ut"`             // FIELD, simulation seconds
	Timestamp    time.Time `json:"ts"`             // TIME INDEX
}

// SchedulerStateRow captures one expired discovery interval.
type SchedulerStateRow struct {
	VesselID       string    `json:"vessel_id"`
	UT             float64   `json:"ut"`
	CheckInterval  float64   `json:"check_interval"`
	CheckThreshold float64   `json:"check_threshold"`
	RandomTries    int       `json:"random_tries"`
	Sample         float64   `json:"sample"`
	Rolled         bool      `json:"rolled"`
	SelectedPartID string    `json:"selected_part_id"`
	DamagedParts   int       `json:"damaged_parts"`
	Timestamp      time.Time `json:"ts"`
}

// FailureEventTableName holds the table name used when writing events to
// GreptimeDB. It can be overridden via FAILURE_EVENT_TABLE.
var FailureEventTableName = func() string {
	if env := os.Getenv("FAILURE_EVENT_TABLE"); env != "" {
		return env
	}
	return "part_failure_events"
}()

// SchedulerStateTableName is the GreptimeDB table for scheduler rows,
// overridable via SCHEDULER_STATE_TABLE.
var SchedulerStateTableName = func() string {
	if env := os.Getenv("SCHEDULER_STATE_TABLE"); env != "" {
		return env
	}
	return "failure_scheduler_state"
}()

func (FailureEventRow) TableName() string {
	return FailureEventTableName
}

func (SchedulerStateRow) TableName() string {
	return SchedulerStateTableName
}
