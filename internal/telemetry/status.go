package telemetry

import (
	"sort"

	"partfail-sim/internal/vessel"
)

// PartStatusRow is the operator-facing view of one part.
type PartStatusRow struct {
	VesselID      string   `json:"vessel_id"`
	PartID        string   `json:"part_id"`
	Title         string   `json:"title"`
	Tags          []string `json:"tags"`
	Resources     []string `json:"resources,omitempty"`
	Damaged       bool     `json:"damaged"`
	Kind          string   `json:"kind,omitempty"`
	State         string   `json:"state,omitempty"`
	Severity      int      `json:"severity"`
	CascadeChance float64  `json:"cascade_chance,omitempty"`
	Label         string   `json:"label,omitempty"`
}

// Snapshot returns one row per part in vessel order.
func Snapshot(v *vessel.Vessel) []PartStatusRow {
	rows := make([]PartStatusRow, 0, len(v.Parts))
	for _, p := range v.Parts {
		row := PartStatusRow{
			VesselID: v.ID,
			PartID:   p.ID,
			Title:    p.Title,
			Tags:     sortedTags(p),
		}
		for _, r := range p.Resources {
			row.Resources = append(row.Resources, r.Name)
		}
		if rec := p.Damage; rec != nil {
			row.Damaged = true
			row.Kind = rec.Kind.String()
			row.State = rec.State().String()
			row.Severity = rec.Severity
			row.CascadeChance = rec.CascadeChance
			row.Label = rec.Label()
		}
		rows = append(rows, row)
	}
	return rows
}

func sortedTags(p *vessel.Part) []string {
	tags := make([]string, 0, len(p.Tags))
	for t := range p.Tags {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
