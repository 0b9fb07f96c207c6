package sim

import (
	"fmt"
	"time"

	"partfail-sim/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorWhite   = "\x1b[37m"
	colorGray    = "\x1b[90m"
)

func eventColor(eventType string) string {
	switch eventType {
	case telemetry.EventAttached:
		return colorYellow
	case telemetry.EventEscalated:
		return colorRed
	case telemetry.EventCascade:
		return colorMagenta
	case telemetry.EventRepaired:
		return colorGreen
	case telemetry.EventAttachFailed:
		return colorGray
	}
	return colorWhite
}

func formatEvent(row telemetry.FailureEventRow) string {
	line := fmt.Sprintf("%s[%s]%s %sut=%.1f%s %s%-13s%s %svessel=%s%s %spart=%s%s",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorCyan, row.UT, colorReset,
		eventColor(row.EventType), row.EventType, colorReset,
		colorBlue, row.VesselID, colorReset,
		colorWhite, row.PartID, colorReset)
	if row.Label != "" {
		line += fmt.Sprintf(" %s%s%s", eventColor(row.EventType), row.Label, colorReset)
	}
	if row.SourcePartID != "" {
		line += fmt.Sprintf(" %sfrom=%s%s", colorMagenta, row.SourcePartID, colorReset)
	}
	return line
}

func formatState(row telemetry.SchedulerStateRow) string {
	rolled := colorGray
	if row.Rolled {
		rolled = colorYellow
	}
	line := fmt.Sprintf("%s[%s]%s %sut=%.1f%s %sROLL%s %ssample=%.3f/%.3f%s %sdamaged=%d%s",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorCyan, row.UT, colorReset,
		colorBlue, colorReset,
		rolled, row.Sample, row.CheckThreshold, colorReset,
		colorRed, row.DamagedParts, colorReset)
	if row.SelectedPartID != "" {
		line += fmt.Sprintf(" %spart=%s%s", colorWhite, row.SelectedPartID, colorReset)
	}
	return line
}
