package sim

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"partfail-sim/internal/config"
	"partfail-sim/internal/telemetry"
)

const maxSectionHeightPct = 0.25

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a log line for the event viewport.
type logMsg struct{ line string }

// partsMsg replaces the part table.
type partsMsg struct{ rows []telemetry.PartStatusRow }

// stateMsg updates the scheduler summary.
type stateMsg struct{ telemetry.SchedulerStateRow }

// broadcastMsg appends an operator message.
type broadcastMsg struct{ Broadcast }

type adminMsg struct{ active bool }

type setRepairMsg struct{ fn RepairFunc }

// repairDoneMsg reports the outcome of a repair started from the TUI.
type repairDoneMsg struct {
	partID string
	err    error
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// TUIWriter renders failure activity using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.FailureConfig) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteEvent appends a failure event to the log.
func (w *TUIWriter) WriteEvent(row telemetry.FailureEventRow) error {
	w.program.Send(logMsg{line: formatEvent(row)})
	return nil
}

// WriteEvents appends multiple failure events.
func (w *TUIWriter) WriteEvents(rows []telemetry.FailureEventRow) error {
	for _, r := range rows {
		if err := w.WriteEvent(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteState updates the scheduler summary.
func (w *TUIWriter) WriteState(row telemetry.SchedulerStateRow) error {
	w.program.Send(stateMsg{row})
	return nil
}

// WriteStates keeps only the latest row; earlier ones would be overwritten.
func (w *TUIWriter) WriteStates(rows []telemetry.SchedulerStateRow) error {
	if len(rows) == 0 {
		return nil
	}
	return w.WriteState(rows[len(rows)-1])
}

// WriteParts refreshes the part table.
func (w *TUIWriter) WriteParts(rows []telemetry.PartStatusRow) error {
	cp := make([]telemetry.PartStatusRow, len(rows))
	copy(cp, rows)
	w.program.Send(partsMsg{rows: cp})
	return nil
}

// WriteBroadcast shows an operator message.
func (w *TUIWriter) WriteBroadcast(b Broadcast) error {
	w.program.Send(broadcastMsg{b})
	return nil
}

// SetAdminStatus shows whether the admin UI is listening.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// SetRepairer enables the repair key.
func (w *TUIWriter) SetRepairer(fn RepairFunc) {
	w.program.Send(setRepairMsg{fn: fn})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	cfg          *config.FailureConfig
	table        table.Model
	vp           viewport.Model
	bcVP         viewport.Model
	parts        []telemetry.PartStatusRow
	logs         []string
	broadcasts   []string
	state        telemetry.SchedulerStateRow
	haveState    bool
	admin        bool
	wrap         bool
	autoscroll   bool
	help         bool
	status       string
	statusErr    bool
	header       string
	headerHeight int
	height       int
	repair       RepairFunc
}

func newTUIModel(cfg *config.FailureConfig) tuiModel {
	if cfg == nil {
		cfg = config.Default()
	}
	cols := []table.Column{
		{Title: "Part", Width: 14},
		{Title: "Title", Width: 22},
		{Title: "State", Width: 9},
		{Title: "Kind", Width: 10},
		{Title: "Sev", Width: 4},
		{Title: "Label", Width: 24},
	}
	t := table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(2))
	return tuiModel{
		cfg:        cfg,
		table:      t,
		vp:         viewport.New(0, 0),
		bcVP:       viewport.New(0, 0),
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.bcVP.Width = msg.Width
		m.height = msg.Height
		m.relayout()
		m.refreshViewport()
		m.refreshBroadcasts()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case logMsg:
		m.logs = append(m.logs, msg.line)
		m.refreshViewport()
	case partsMsg:
		m.parts = msg.rows
		m.table.SetRows(partRows(msg.rows))
		if m.table.Cursor() >= len(msg.rows) && len(msg.rows) > 0 {
			m.table.SetCursor(len(msg.rows) - 1)
		}
		m.relayout()
	case stateMsg:
		m.state = msg.SchedulerStateRow
		m.haveState = true
	case broadcastMsg:
		m.broadcasts = append(m.broadcasts, msg.Message)
		m.relayout()
		m.refreshBroadcasts()
	case adminMsg:
		m.admin = msg.active
	case setRepairMsg:
		m.repair = msg.fn
	case repairDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("repair %s: %v", msg.partID, msg.err)
			m.statusErr = true
		} else {
			m.status = fmt.Sprintf("repaired %s", msg.partID)
			m.statusErr = false
		}
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.help {
		switch msg.String() {
		case "?", "h", "esc":
			m.help = false
			m.relayout()
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "w":
		m.wrap = !m.wrap
		m.refreshViewport()
		m.refreshBroadcasts()
		return m, nil
	case "s":
		m.autoscroll = !m.autoscroll
		if m.autoscroll {
			m.vp.GotoBottom()
			m.bcVP.GotoBottom()
		}
		return m, nil
	case "?", "h":
		m.help = true
		return m, nil
	case "r":
		return m, m.repairSelected()
	}
	if !m.autoscroll {
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// repairSelected returns a command repairing the highlighted part. The
// repair runs outside Update since it takes the simulator lock.
func (m *tuiModel) repairSelected() tea.Cmd {
	if len(m.parts) == 0 {
		return nil
	}
	if m.repair == nil {
		m.status = "repair unavailable"
		m.statusErr = true
		return nil
	}
	row := m.parts[m.table.Cursor()]
	if !row.Damaged {
		m.status = fmt.Sprintf("%s is not damaged", row.PartID)
		m.statusErr = true
		return nil
	}
	fn, id := m.repair, row.PartID
	m.status = fmt.Sprintf("repairing %s...", id)
	m.statusErr = false
	return func() tea.Msg {
		return repairDoneMsg{partID: id, err: fn(id)}
	}
}

func partRows(rows []telemetry.PartStatusRow) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		state, sev := "ok", ""
		if r.Damaged {
			state = r.State
			sev = fmt.Sprintf("%d", r.Severity)
		}
		out = append(out, table.Row{r.PartID, r.Title, state, r.Kind, sev, r.Label})
	}
	return out
}

func (m *tuiModel) relayout() {
	maxLines := m.maxSectionLines()
	tableHeight := len(m.parts) + 1
	if tableHeight > maxLines+1 {
		tableHeight = maxLines + 1
	}
	if tableHeight < 2 {
		tableHeight = 2
	}
	m.table.SetHeight(tableHeight)
	m.header = m.renderHeader()
	m.headerHeight = lipgloss.Height(m.header)

	bcLines := len(m.broadcasts)
	if bcLines == 0 {
		bcLines = 1
	}
	if bcLines > maxLines {
		bcLines = maxLines
	}
	m.bcVP.Height = bcLines

	bottomHeight := lipgloss.Height(m.renderBottom())
	h := m.height - m.headerHeight - bottomHeight - (1 + m.bcVP.Height) - 4
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
		m.bcVP.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	m.vp.SetContent(m.wrapLines(m.logs, m.vp.Width))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshBroadcasts() {
	content := "none"
	if len(m.broadcasts) > 0 {
		content = m.wrapLines(m.broadcasts, m.bcVP.Width)
	}
	m.bcVP.SetContent(content)
	if m.autoscroll {
		m.bcVP.GotoBottom()
	}
}

func (m tuiModel) wrapLines(lines []string, width int) string {
	if !m.wrap || width <= 0 {
		return strings.Join(lines, "\n")
	}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, wordwrap.String(l, width))
	}
	return strings.Join(out, "\n")
}

func (m tuiModel) maxSectionLines() int {
	h := int(float64(m.height) * maxSectionHeightPct)
	if h < 1 {
		h = 1
	}
	return h
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.vp.Width)
	sections := []string{
		m.header,
		divider,
		m.vp.View(),
		divider,
		titleStyle.Render("Broadcasts:"),
		m.bcVP.View(),
		divider,
		m.renderBottom(),
	}
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	cfg := fmt.Sprintf("interval %.0fs  threshold %.2f  tries %d  warp %.1fx  repair range %.1fm",
		m.cfg.CheckInterval, m.cfg.CheckThreshold, m.cfg.RandomTries, m.cfg.TimeWarp, m.cfg.RepairRange)
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Parts"), statusStyle.Render(cfg), m.table.View())
}

func (m tuiModel) renderBottom() string {
	var b strings.Builder
	if m.haveState {
		roll := "no roll"
		if m.state.Rolled {
			roll = "ROLLED"
		}
		fmt.Fprintf(&b, "UT %.1f | last sample %.3f (%s) | damaged %d", m.state.UT, m.state.Sample, roll, m.state.DamagedParts)
	} else {
		b.WriteString("waiting for first check")
	}
	admin := "off"
	if m.admin {
		admin = "on"
	}
	fmt.Fprintf(&b, " | admin %s | r repair  h help  q quit", admin)
	line := statusStyle.Render(b.String())
	if m.status == "" {
		return line
	}
	st := okStyle.Render(m.status)
	if m.statusErr {
		st = errorStyle.Render(m.status)
	}
	return line + "\n" + st
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" r  repair selected part",
		" w  toggle wrap for event log",
		" s  toggle auto-scroll",
		" h/? toggle this help view",
		"",
		"With auto-scroll enabled:",
		" j/k or up/down    select part",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll event log",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}
