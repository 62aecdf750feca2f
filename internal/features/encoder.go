// internal/features/encoder.go
package features

import (
	"kpi-prediction-service/internal/catalog"
	"kpi-prediction-service/internal/models"
)

// Encoder turns a process graph and an entity scenario into the fixed
// TotalDim vector. It is stateless and safe for concurrent use.
type Encoder struct{}

// NewEncoder creates a feature encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode builds the full feature vector. Activities and entity identifiers
// outside the catalog contribute nothing to the matrices but still count in
// the structural ratios; the output length never varies with input size.
func (e *Encoder) Encode(graph models.ProcessGraph, scenario *models.Scenario) []float64 {
	vec := make([]float64, TotalDim)

	e.encodeTransitions(vec, graph.Edges)
	if scenario != nil {
		e.encodeUsers(vec, scenario.UserIDs)
		e.encodeItems(vec, scenario.Items)
		e.encodeSuppliers(vec, scenario.SupplierIDs)
	}
	e.encodeOutcome(vec, graph.Activities)

	return vec
}

// encodeTransitions fills both transition matrices. Frequency accumulates
// per ordered pair; duration is last-write-wins. The asymmetry matches the
// fitted scalers and must not be "fixed".
func (e *Encoder) encodeTransitions(vec []float64, edges []models.Edge) {
	for _, edge := range edges {
		fromIdx, ok := catalog.EventIndex(edge.From)
		if !ok {
			continue
		}
		toIdx, ok := catalog.EventIndex(edge.To)
		if !ok {
			continue
		}
		cell := fromIdx*catalog.NumEvents + toIdx
		vec[FreqOffset+cell]++
		vec[DurationOffset+cell] = edge.Minutes()
	}
}

func (e *Encoder) encodeUsers(vec []float64, userIDs []string) {
	for _, id := range userIDs {
		n := catalog.EntityNumber(id)
		if n >= 1 && n <= catalog.NumUsers {
			vec[UsersOffset+n-1] = 1
		}
	}
}

// encodeItems writes quantity and line total into the interleaved item
// block: slot 2i holds quantity, slot 2i+1 holds amount. A repeated item ID
// overwrites its slots.
func (e *Encoder) encodeItems(vec []float64, items []models.ItemLine) {
	for _, line := range items {
		n := catalog.EntityNumber(line.ItemID)
		if n < 1 || n > catalog.NumItems {
			continue
		}
		idx := ItemsOffset + 2*(n-1)
		vec[idx] = float64(line.Quantity)
		vec[idx+1] = line.LineTotal
	}
}

func (e *Encoder) encodeSuppliers(vec []float64, supplierIDs []string) {
	for _, id := range supplierIDs {
		n := catalog.EntityNumber(id)
		if n >= 1 && n <= catalog.NumSuppliers {
			vec[SuppliersOffset+n-1] = 1
		}
	}
}

// encodeOutcome fills the 8 structural indicators derived from the activity
// sequence alone. Unknown activities still count toward length ratios.
func (e *Encoder) encodeOutcome(vec []float64, activities []string) {
	present := make(map[string]bool, len(activities))
	for _, a := range activities {
		present[a] = true
	}

	out := vec[OutcomeOffset:]
	if present[catalog.ActivityRejectOrder] {
		out[0] = 1
		for i, a := range activities {
			if a == catalog.ActivityRejectOrder {
				out[5] = float64(i) / float64(max(len(activities), 1))
				break
			}
		}
	}
	if present[catalog.ActivityProcessReturn] {
		out[1] = 1
	}
	if present[catalog.ActivityCancelOrder] {
		out[2] = 1
	}
	if present[catalog.ActivityGenInvoice] {
		out[3] = 1
	}
	if len(activities) > 0 {
		out[4] = min(float64(len(activities))/float64(len(catalog.BaselineActivities)), 2.0)
	}
	if present[catalog.ActivityShipOrder] && present[catalog.ActivityGenInvoice] {
		out[6] = 1
	}
	if present[catalog.ActivityApplyDiscount] {
		out[7] = 1
	}
}
