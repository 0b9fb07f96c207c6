// Writer implementation printing failure events to STDOUT
package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"

	"partfail-sim/internal/config"
	"partfail-sim/internal/telemetry"
)

// StdoutWriter prints events as JSON lines, or colourised lines for a
// terminal.
type StdoutWriter struct {
	cfg      *config.FailureConfig
	out      io.Writer
	colorize bool
	once     sync.Once
	mu       sync.Mutex
}

// NewStdoutWriter creates a StdoutWriter writing to os.Stdout.
func NewStdoutWriter(cfg *config.FailureConfig, colorize bool) *StdoutWriter {
	return &StdoutWriter{cfg: cfg, out: os.Stdout, colorize: colorize}
}

func (w *StdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}
	fmt.Fprintln(w.out, "Failure Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Check Interval (s):\t%.1f\n", w.cfg.CheckInterval)
	fmt.Fprintf(tw, "Check Threshold:\t%.2f\n", w.cfg.CheckThreshold)
	fmt.Fprintf(tw, "Random Tries:\t%d\n", w.cfg.RandomTries)
	fmt.Fprintf(tw, "Time Warp:\t%.1fx\n", w.cfg.TimeWarp)
	fmt.Fprintf(tw, "Repair Range (m):\t%.1f\n", w.cfg.RepairRange)
	fmt.Fprintf(tw, "Cascade Relation:\t%s\n", w.cfg.Cascade.Relation)
	tw.Flush()
	fmt.Fprintln(w.out)
}

func (w *StdoutWriter) emit(v any, colored func() string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.colorize {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w.out, string(data))
		return err
	}
	w.once.Do(w.printOverview)
	_, err := fmt.Fprintln(w.out, colored())
	return err
}

// WriteEvent outputs a single failure event.
func (w *StdoutWriter) WriteEvent(row telemetry.FailureEventRow) error {
	return w.emit(row, func() string { return formatEvent(row) })
}

// WriteEvents outputs multiple failure events.
func (w *StdoutWriter) WriteEvents(rows []telemetry.FailureEventRow) error {
	for _, r := range rows {
		if err := w.WriteEvent(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteState outputs a scheduler state row.
func (w *StdoutWriter) WriteState(row telemetry.SchedulerStateRow) error {
	return w.emit(row, func() string { return formatState(row) })
}

// WriteBroadcast prints operator messages in colour mode only; JSON output
// stays machine readable.
func (w *StdoutWriter) WriteBroadcast(b Broadcast) error {
	if !w.colorize {
		return nil
	}
	return w.emit(b, func() string {
		return fmt.Sprintf("%s>>> %s%s", colorYellow, b.Message, colorReset)
	})
}
