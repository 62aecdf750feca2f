// internal/engine/baseline.go

// Package engine orchestrates one simulation: session and scenario
// resolution, feature encoding, the baseline identity check and the model
// (or degraded) prediction.
package engine

import (
	"math"

	"kpi-prediction-service/internal/catalog"
	"kpi-prediction-service/internal/models"
)

// TimingToleranceHours bounds how far a per-activity timing may drift from
// the canonical value while the process still counts as the baseline.
const TimingToleranceHours = 0.25

// isBaselineProcess reports whether the supplied process is materially the
// canonical variant: the same activity multiset and every activity's timing
// within tolerance of its canonical value. A regressor cannot be trusted to
// reproduce the baseline output for the baseline input, so identity is
// checked explicitly and short-circuited.
func isBaselineProcess(graph models.ProcessGraph) bool {
	if len(graph.Activities) != len(catalog.BaselineActivities) {
		return false
	}

	counts := make(map[string]int, len(catalog.BaselineActivities))
	for _, a := range catalog.BaselineActivities {
		counts[a]++
	}
	for _, a := range graph.Activities {
		counts[a]--
		if counts[a] < 0 {
			return false
		}
	}

	for _, a := range graph.Activities {
		kpi, ok := graph.KPIs[a]
		if !ok || kpi.AvgTimeHours <= 0 {
			continue // no explicit timing: canonical by definition
		}
		if math.Abs(kpi.AvgTimeHours-catalog.BaselineTimings[a]) > TimingToleranceHours {
			return false
		}
	}
	return true
}
