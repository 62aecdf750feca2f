// internal/models/process.go
package models

// Edge is an ordered transition between two named activities. Duration may
// arrive as hours or days from the surrounding layer; Minutes resolves the
// precedence (explicit hours win over days).
type Edge struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	DurationHours float64 `json:"durationHours,omitempty"`
	AvgDays       float64 `json:"avgDays,omitempty"`
}

// Minutes returns the edge duration in minutes.
func (e Edge) Minutes() float64 {
	if e.DurationHours != 0 {
		return e.DurationHours * 60
	}
	if e.AvgDays != 0 {
		return e.AvgDays * 24 * 60
	}
	return 0
}

// ActivityKPI carries the per-activity timing and cost parameters supplied by
// the caller alongside the graph. Timing arrives either as numeric hours or
// as a compact string ("30m", "2h", "1.5d") — the same format node timings
// are rendered in on the way out.
type ActivityKPI struct {
	AvgTimeHours float64 `json:"avg_time"`
	Time         string  `json:"time,omitempty"`
	Cost         float64 `json:"cost"`
}

// ProcessGraph is a caller-supplied process instance: an ordered activity
// sequence plus transition metadata and optional per-activity parameters.
type ProcessGraph struct {
	Activities []string               `json:"activities"`
	Edges      []Edge                 `json:"edges"`
	KPIs       map[string]ActivityKPI `json:"kpis,omitempty"`
}
