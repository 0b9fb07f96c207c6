package sim

import (
	"encoding/json"
	"os"
	"sync"

	"partfail-sim/internal/telemetry"
)

// FileWriter writes failure events and scheduler state to JSONL files.
type FileWriter struct {
	mu        sync.Mutex
	eventFile *os.File
	stateFile *os.File
	eventEnc  *json.Encoder
	stateEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. statePath may be empty to skip the
// scheduler log.
func NewFileWriter(eventPath, statePath string) (*FileWriter, error) {
	ef, err := os.Create(eventPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{eventFile: ef, eventEnc: json.NewEncoder(ef)}
	if statePath != "" {
		sf, err := os.Create(statePath)
		if err != nil {
			ef.Close()
			return nil, err
		}
		fw.stateFile = sf
		fw.stateEnc = json.NewEncoder(sf)
	}
	return fw, nil
}

// WriteEvent logs a single failure event.
func (f *FileWriter) WriteEvent(row telemetry.FailureEventRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.eventEnc.Encode(row)
}

// WriteEvents logs multiple failure events.
func (f *FileWriter) WriteEvents(rows []telemetry.FailureEventRow) error {
	for _, r := range rows {
		if err := f.WriteEvent(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteState logs a scheduler state row, if enabled.
func (f *FileWriter) WriteState(row telemetry.SchedulerStateRow) error {
	if f.stateEnc == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateEnc.Encode(row)
}

// WriteStates logs multiple scheduler state rows.
func (f *FileWriter) WriteStates(rows []telemetry.SchedulerStateRow) error {
	for _, r := range rows {
		if err := f.WriteState(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.eventFile != nil {
		if e := f.eventFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.stateFile != nil {
		if e := f.stateFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
