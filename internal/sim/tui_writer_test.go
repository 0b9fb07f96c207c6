package sim

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"partfail-sim/internal/config"
	"partfail-sim/internal/telemetry"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}
	row := telemetry.FailureEventRow{VesselID: "v", PartID: "p1", EventType: telemetry.EventAttached, Timestamp: time.Unix(0, 0).UTC()}
	if err := w.WriteEvent(row); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := p.msgs[0].(logMsg); !ok {
		t.Fatalf("expected logMsg, got %T", p.msgs[0])
	}
	if err := w.WriteStates([]telemetry.SchedulerStateRow{{UT: 1}, {UT: 2}}); err != nil {
		t.Fatalf("state: %v", err)
	}
	st, ok := p.msgs[1].(stateMsg)
	if !ok || st.UT != 2 || len(p.msgs) != 2 {
		t.Fatalf("expected only the latest stateMsg, got %+v", p.msgs[1:])
	}
	w.SetAdminStatus(true)
	if _, ok := p.msgs[2].(adminMsg); !ok {
		t.Fatalf("expected adminMsg, got %T", p.msgs[2])
	}
	if err := w.WriteParts([]telemetry.PartStatusRow{{PartID: "p1"}}); err != nil {
		t.Fatalf("parts: %v", err)
	}
	if _, ok := p.msgs[3].(partsMsg); !ok {
		t.Fatalf("expected partsMsg, got %T", p.msgs[3])
	}
	if err := w.WriteBroadcast(Broadcast{Message: "Wheel has been damaged!"}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if _, ok := p.msgs[4].(broadcastMsg); !ok {
		t.Fatalf("expected broadcastMsg, got %T", p.msgs[4])
	}
}

func sizedModel(t *testing.T) tuiModel {
	t.Helper()
	m := newTUIModel(config.Default())
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 30})
	return mi.(tuiModel)
}

func TestWrapToggle(t *testing.T) {
	m := sizedModel(t)
	long := strings.Repeat("word ", 20)
	mi, _ := m.Update(logMsg{line: long})
	m = mi.(tuiModel)
	lines := strings.Split(m.vp.View(), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[1]) != "" {
		t.Fatalf("expected single line before wrap")
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	m = mi.(tuiModel)
	if !m.wrap {
		t.Fatalf("wrap not toggled")
	}
	lines = strings.Split(m.vp.View(), "\n")
	if strings.TrimSpace(lines[1]) == "" {
		t.Fatalf("expected wrapped content on second line")
	}
}

func TestScrollToggle(t *testing.T) {
	m := newTUIModel(nil)
	m.vp.Height = 1
	m.vp.Width = 20
	mi, _ := m.Update(logMsg{line: "l1"})
	m = mi.(tuiModel)
	mi, _ = m.Update(logMsg{line: "l2"})
	m = mi.(tuiModel)
	if m.vp.YOffset != 1 {
		t.Fatalf("expected YOffset 1, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if m.autoscroll {
		t.Fatalf("autoscroll should be off")
	}
	mi, _ = m.Update(logMsg{line: "l3"})
	m = mi.(tuiModel)
	if m.vp.YOffset != 1 {
		t.Fatalf("expected YOffset unchanged, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = mi.(tuiModel)
	if m.vp.YOffset != 0 {
		t.Fatalf("expected YOffset 0 after scrolling up, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if !m.autoscroll {
		t.Fatalf("autoscroll should be on")
	}
	if m.vp.YOffset != len(m.logs)-m.vp.Height {
		t.Fatalf("expected YOffset %d, got %d", len(m.logs)-m.vp.Height, m.vp.YOffset)
	}
}

func TestRepairKey(t *testing.T) {
	m := sizedModel(t)
	parts := []telemetry.PartStatusRow{
		{PartID: "p0", Title: "Tank"},
		{PartID: "p1", Title: "Wheel", Damaged: true, State: "active", Kind: "wheel", Severity: 1},
	}
	mi, _ := m.Update(partsMsg{rows: parts})
	m = mi.(tuiModel)

	var repaired []string
	mi, _ = m.Update(setRepairMsg{fn: func(id string) error {
		repaired = append(repaired, id)
		return nil
	}})
	m = mi.(tuiModel)

	mi, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = mi.(tuiModel)
	if cmd != nil || !m.statusErr {
		t.Fatalf("repairing an intact part should be refused")
	}

	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = mi.(tuiModel)
	mi, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = mi.(tuiModel)
	if cmd == nil {
		t.Fatalf("expected repair command")
	}
	done := cmd()
	if len(repaired) != 1 || repaired[0] != "p1" {
		t.Fatalf("unexpected repairs %v", repaired)
	}
	mi, _ = m.Update(done)
	m = mi.(tuiModel)
	if m.statusErr || !strings.Contains(m.status, "repaired p1") {
		t.Fatalf("unexpected status %q", m.status)
	}

	mi, _ = m.Update(repairDoneMsg{partID: "p1", err: errors.New("operator out of repair range")})
	m = mi.(tuiModel)
	if !m.statusErr || !strings.Contains(m.View(), "out of repair range") {
		t.Fatalf("repair error not shown")
	}
}

func TestHelpView(t *testing.T) {
	m := sizedModel(t)
	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	m = mi.(tuiModel)
	if !strings.Contains(m.View(), "Key Bindings:") {
		t.Fatalf("help not shown")
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = mi.(tuiModel)
	if m.help {
		t.Fatalf("help should close on esc")
	}
}
