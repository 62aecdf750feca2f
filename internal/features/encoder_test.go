// internal/features/encoder_test.go
package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kpi-prediction-service/internal/catalog"
	"kpi-prediction-service/internal/models"
)

func baselineGraph() models.ProcessGraph {
	activities := append([]string(nil), catalog.BaselineActivities...)
	edges := make([]models.Edge, 0, len(activities)-1)
	for i := 0; i < len(activities)-1; i++ {
		edges = append(edges, models.Edge{
			From:          activities[i],
			To:            activities[i+1],
			DurationHours: catalog.BaselineTimings[activities[i+1]],
		})
	}
	return models.ProcessGraph{Activities: activities, Edges: edges}
}

func TestEncodeFixedDimension(t *testing.T) {
	enc := NewEncoder()

	tests := []struct {
		name       string
		activities int
	}{
		{"empty", 0},
		{"single", 1},
		{"catalog size", 13},
		{"oversized", 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activities := make([]string, tt.activities)
			for i := range activities {
				activities[i] = catalog.Events[i%len(catalog.Events)]
			}
			vec := enc.Encode(models.ProcessGraph{Activities: activities}, nil)
			assert.Len(t, vec, TotalDim)
		})
	}
}

func TestEncodeEmptyInputIsZeroVector(t *testing.T) {
	vec := NewEncoder().Encode(models.ProcessGraph{}, nil)
	require.Len(t, vec, TotalDim)
	for i, v := range vec {
		require.Zero(t, v, "index %d", i)
	}
}

func TestEncodeTransitionAsymmetry(t *testing.T) {
	// The same ordered pair twice: frequency sums, duration keeps the last
	// value.
	graph := models.ProcessGraph{
		Edges: []models.Edge{
			{From: "Pack Items", To: "Ship Order", DurationHours: 1},
			{From: "Pack Items", To: "Ship Order", DurationHours: 2},
		},
	}
	vec := NewEncoder().Encode(graph, nil)

	fromIdx, _ := catalog.EventIndex("Pack Items")
	toIdx, _ := catalog.EventIndex("Ship Order")
	cell := fromIdx*catalog.NumEvents + toIdx

	assert.Equal(t, 2.0, vec[FreqOffset+cell], "frequency accumulates")
	assert.Equal(t, 120.0, vec[DurationOffset+cell], "duration is last write, in minutes")
}

func TestEncodeIgnoresUnknownActivities(t *testing.T) {
	graph := models.ProcessGraph{
		Activities: []string{"Ship Order", "Summon Kraken"},
		Edges: []models.Edge{
			{From: "Summon Kraken", To: "Ship Order", DurationHours: 1},
			{From: "Ship Order", To: "Summon Kraken", DurationHours: 1},
		},
	}
	vec := NewEncoder().Encode(graph, nil)

	for i := FreqOffset; i < UsersOffset; i++ {
		assert.Zero(t, vec[i], "unknown pairs must not touch the matrices")
	}
	// But the unknown activity still counts toward completeness.
	assert.InDelta(t, 2.0/10.0, vec[OutcomeOffset+4], 1e-12)
}

func TestEncodeEntityBlocks(t *testing.T) {
	scenario := &models.Scenario{
		UserIDs: []string{"U002", "U007", "U099"}, // U099 out of range
		Items: []models.ItemLine{
			{ItemID: "I001", Quantity: 3, LineTotal: 45.0},
			{ItemID: "I024", Quantity: 5, LineTotal: 250.0},
			{ItemID: "I050", Quantity: 9, LineTotal: 999.0}, // ignored
		},
		SupplierIDs: []string{"S001", "S016"},
	}
	vec := NewEncoder().Encode(models.ProcessGraph{}, scenario)

	assert.Equal(t, 1.0, vec[UsersOffset+1])
	assert.Equal(t, 1.0, vec[UsersOffset+6])
	assert.Equal(t, 0.0, vec[UsersOffset+0])

	assert.Equal(t, 3.0, vec[ItemsOffset+0])
	assert.Equal(t, 45.0, vec[ItemsOffset+1])
	assert.Equal(t, 5.0, vec[ItemsOffset+2*23])
	assert.Equal(t, 250.0, vec[ItemsOffset+2*23+1])

	assert.Equal(t, 1.0, vec[SuppliersOffset+0])
	assert.Equal(t, 1.0, vec[SuppliersOffset+15])

	// Out-of-range entities leave no trace anywhere.
	sum := 0.0
	for _, v := range vec {
		sum += v
	}
	assert.InDelta(t, 1+1+3+45+5+250+1+1, sum, 1e-9)
}

func TestEncodeOutcomeIndicators(t *testing.T) {
	t.Run("baseline happy path", func(t *testing.T) {
		vec := NewEncoder().Encode(baselineGraph(), nil)
		out := vec[OutcomeOffset:]

		assert.Equal(t, 0.0, out[0], "hasRejection")
		assert.Equal(t, 0.0, out[1], "hasReturn")
		assert.Equal(t, 0.0, out[2], "hasCancellation")
		assert.Equal(t, 1.0, out[3], "processCompleted")
		assert.Equal(t, 1.0, out[4], "completenessRatio")
		assert.Equal(t, 0.0, out[5], "rejectionPosition")
		assert.Equal(t, 1.0, out[6], "generatesRevenue")
		assert.Equal(t, 0.0, out[7], "hasDiscount")
	})

	t.Run("rejection path", func(t *testing.T) {
		graph := models.ProcessGraph{
			Activities: []string{
				"Receive Customer Order",
				"Validate Customer Order",
				"Perform Credit Check",
				"Reject Order",
			},
		}
		vec := NewEncoder().Encode(graph, nil)
		out := vec[OutcomeOffset:]

		assert.Equal(t, 1.0, out[0])
		assert.Equal(t, 0.0, out[3], "no invoice")
		assert.InDelta(t, 3.0/4.0, out[5], 1e-12, "rejection position")
		assert.Equal(t, 0.0, out[6], "no revenue without shipping")
	})

	t.Run("completeness caps at two", func(t *testing.T) {
		activities := make([]string, 40)
		for i := range activities {
			activities[i] = "Pack Items"
		}
		vec := NewEncoder().Encode(models.ProcessGraph{Activities: activities}, nil)
		assert.Equal(t, 2.0, vec[OutcomeOffset+4])
	})

	t.Run("discount and cancellation", func(t *testing.T) {
		graph := models.ProcessGraph{
			Activities: []string{"Receive Customer Order", "Apply Discount", "Cancel Order"},
		}
		vec := NewEncoder().Encode(graph, nil)
		out := vec[OutcomeOffset:]

		assert.Equal(t, 1.0, out[2])
		assert.Equal(t, 1.0, out[7])
	})
}

func TestLayoutBoundaries(t *testing.T) {
	assert.Equal(t, 0, FreqOffset)
	assert.Equal(t, 169, DurationOffset)
	assert.Equal(t, 338, UsersOffset)
	assert.Equal(t, 345, ItemsOffset)
	assert.Equal(t, 393, SuppliersOffset)
	assert.Equal(t, 409, OutcomeOffset)
	assert.Equal(t, 417, TotalDim)

	total := 0
	for _, w := range GroupWidths {
		total += w
	}
	assert.Equal(t, TotalDim, total, "group widths partition the vector")
}
