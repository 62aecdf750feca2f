// internal/features/enrich.go
package features

import (
	"strconv"
	"strings"

	"kpi-prediction-service/internal/catalog"
	"kpi-prediction-service/internal/models"
)

// EnrichEdges returns a copy of the edges with missing durations filled in.
// Precedence for an edge with no duration: the destination activity's
// supplied timing parameter, then the canonical catalog timing, then the
// one-hour default. Edges that already carry a duration are untouched.
func EnrichEdges(graph models.ProcessGraph) []models.Edge {
	enriched := make([]models.Edge, len(graph.Edges))
	for i, edge := range graph.Edges {
		if edge.DurationHours == 0 && edge.AvgDays == 0 {
			edge.DurationHours = activityHours(graph, edge.To)
		}
		enriched[i] = edge
	}
	return enriched
}

func activityHours(graph models.ProcessGraph, activity string) float64 {
	if kpi, ok := graph.KPIs[activity]; ok && kpi.AvgTimeHours > 0 {
		return kpi.AvgTimeHours
	}
	if hours, ok := catalog.BaselineTimings[activity]; ok {
		return hours
	}
	return catalog.DefaultActivityHours
}

// ResolveTimings returns a copy of the KPI map with string timings parsed
// into hours. Numeric timings win over strings so a caller sending both
// keeps the explicit value.
func ResolveTimings(kpis map[string]models.ActivityKPI) map[string]models.ActivityKPI {
	if len(kpis) == 0 {
		return kpis
	}
	resolved := make(map[string]models.ActivityKPI, len(kpis))
	for name, kpi := range kpis {
		if kpi.AvgTimeHours == 0 && kpi.Time != "" {
			kpi.AvgTimeHours = ParseDuration(kpi.Time)
		}
		resolved[name] = kpi
	}
	return resolved
}

// ParseDuration converts a compact duration string such as "2h", "1.5d" or
// "30m" to hours. Bare numbers are read as hours; anything unparseable
// falls back to one hour.
func ParseDuration(s string) float64 {
	s = strings.ToLower(strings.TrimSpace(s))

	switch {
	case strings.HasSuffix(s, "h"):
		if v, err := strconv.ParseFloat(strings.TrimSuffix(s, "h"), 64); err == nil {
			return v
		}
	case strings.HasSuffix(s, "d"):
		if v, err := strconv.ParseFloat(strings.TrimSuffix(s, "d"), 64); err == nil {
			return v * 24
		}
	case strings.HasSuffix(s, "m"):
		if v, err := strconv.ParseFloat(strings.TrimSuffix(s, "m"), 64); err == nil {
			return v / 60
		}
	default:
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return catalog.DefaultActivityHours
}
