// internal/features/enrich_test.go
package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kpi-prediction-service/internal/models"
)

func TestEnrichEdges(t *testing.T) {
	graph := models.ProcessGraph{
		Edges: []models.Edge{
			{From: "Receive Customer Order", To: "Validate Customer Order", DurationHours: 4}, // explicit, kept
			{From: "Validate Customer Order", To: "Perform Credit Check"},                     // from KPIs
			{From: "Perform Credit Check", To: "Approve Order"},                               // from catalog timing
			{From: "Approve Order", To: "Unknown Step"},                                       // default
		},
		KPIs: map[string]models.ActivityKPI{
			"Perform Credit Check": {AvgTimeHours: 6},
		},
	}

	enriched := EnrichEdges(graph)
	require.Len(t, enriched, 4)

	assert.Equal(t, 4.0, enriched[0].DurationHours)
	assert.Equal(t, 6.0, enriched[1].DurationHours)
	assert.Equal(t, 1.5, enriched[2].DurationHours, "Approve Order canonical timing")
	assert.Equal(t, 1.0, enriched[3].DurationHours)

	// The input graph is never mutated.
	assert.Zero(t, graph.Edges[1].DurationHours)
}

func TestEnrichEdgesKeepsAvgDays(t *testing.T) {
	graph := models.ProcessGraph{
		Edges: []models.Edge{{From: "Ship Order", To: "Generate Invoice", AvgDays: 2}},
	}
	enriched := EnrichEdges(graph)
	assert.Zero(t, enriched[0].DurationHours)
	assert.Equal(t, 2.0*24*60, enriched[0].Minutes())
}

func TestResolveTimings(t *testing.T) {
	kpis := map[string]models.ActivityKPI{
		"Pack Items":           {Time: "30m"},
		"Ship Order":           {Time: "1d"},
		"Perform Credit Check": {AvgTimeHours: 6, Time: "2h"}, // numeric wins
		"Approve Order":        {Cost: 50},
	}

	resolved := ResolveTimings(kpis)
	assert.Equal(t, 0.5, resolved["Pack Items"].AvgTimeHours)
	assert.Equal(t, 24.0, resolved["Ship Order"].AvgTimeHours)
	assert.Equal(t, 6.0, resolved["Perform Credit Check"].AvgTimeHours)
	assert.Zero(t, resolved["Approve Order"].AvgTimeHours)
	assert.Equal(t, 50.0, resolved["Approve Order"].Cost)

	// The input map is never mutated.
	assert.Zero(t, kpis["Pack Items"].AvgTimeHours)
}

func TestResolveTimingsNilMap(t *testing.T) {
	assert.Nil(t, ResolveTimings(nil))
}

func TestEnrichEdgesWithStringTimings(t *testing.T) {
	graph := models.ProcessGraph{
		Edges: []models.Edge{{From: "Receive Customer Order", To: "Pack Items"}},
		KPIs: map[string]models.ActivityKPI{
			"Pack Items": {Time: "45m"},
		},
	}
	graph.KPIs = ResolveTimings(graph.KPIs)

	enriched := EnrichEdges(graph)
	assert.Equal(t, 0.75, enriched[0].DurationHours)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"2h", 2},
		{"1.5d", 36},
		{"30m", 0.5},
		{" 3H ", 3},
		{"4", 4},
		{"garbage", 1},
		{"", 1},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseDuration(tt.in), 1e-12)
		})
	}
}
