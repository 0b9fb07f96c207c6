package sim

import (
	"errors"
	"testing"

	"partfail-sim/internal/telemetry"
)

type batchRecorder struct {
	MockWriter
	batches int
	admin   bool
	repair  RepairFunc
}

func (b *batchRecorder) WriteEvents(rows []telemetry.FailureEventRow) error {
	b.batches++
	b.Events = append(b.Events, rows...)
	return nil
}

func (b *batchRecorder) SetAdminStatus(listening bool) { b.admin = listening }

func (b *batchRecorder) SetRepairer(fn RepairFunc) { b.repair = fn }

type failingWriter struct{}

func (failingWriter) WriteEvent(telemetry.FailureEventRow) error { return errors.New("boom") }

func TestMultiWriterFansOut(t *testing.T) {
	plain := &collectWriter{}
	full := &batchRecorder{}
	mw := NewMultiWriter(plain, full)

	rows := []telemetry.FailureEventRow{{PartID: "p1"}, {PartID: "p2"}}
	if err := mw.WriteEvents(rows); err != nil {
		t.Fatalf("write events: %v", err)
	}
	if len(plain.rows) != 2 || len(full.Events) != 2 || full.batches != 1 {
		t.Fatalf("events not fanned out: plain=%d full=%d batches=%d", len(plain.rows), len(full.Events), full.batches)
	}
	if err := mw.WriteState(telemetry.SchedulerStateRow{UT: 1}); err != nil {
		t.Fatalf("write state: %v", err)
	}
	if len(full.States) != 1 {
		t.Fatalf("state not forwarded")
	}
	if err := mw.WriteParts([]telemetry.PartStatusRow{{PartID: "p1"}}); err != nil {
		t.Fatalf("write parts: %v", err)
	}
	if len(full.Parts) != 1 {
		t.Fatalf("parts not forwarded")
	}
	if err := mw.WriteBroadcast(Broadcast{Message: "m"}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if len(full.Broadcasts) != 1 {
		t.Fatalf("broadcast not forwarded")
	}
	mw.SetAdminStatus(true)
	mw.SetRepairer(func(string) error { return nil })
	if !full.admin || full.repair == nil {
		t.Fatalf("admin status or repairer not forwarded")
	}
}

func TestMultiWriterStopsOnError(t *testing.T) {
	after := &collectWriter{}
	mw := NewMultiWriter(failingWriter{}, after)
	if err := mw.WriteEvent(telemetry.FailureEventRow{}); err == nil {
		t.Fatalf("expected error")
	}
	if len(after.rows) != 0 {
		t.Fatalf("writers after a failure should not run")
	}
}
