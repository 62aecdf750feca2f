// internal/model/fixtures_test.go
package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kpi-prediction-service/internal/features"
	"kpi-prediction-service/internal/models"
	"kpi-prediction-service/internal/scaler"
)

// identityBundle builds a scaler set that passes every value through
// unchanged, so test expectations can be computed by hand.
func identityBundle(t *testing.T) *scaler.Bundle {
	t.Helper()
	scalers := make(map[string]*scaler.Scaler, len(features.GroupWidths))
	for group, width := range features.GroupWidths {
		s := &scaler.Scaler{
			Kind:   scaler.KindMinMax,
			Width:  width,
			Center: make([]float64, width),
			Scale:  make([]float64, width),
		}
		for i := range s.Scale {
			s.Scale[i] = 1
		}
		scalers[group] = s
	}
	b, err := scaler.NewBundle(scalers)
	require.NoError(t, err)
	return b
}

// fixtureNetwork is a trunk-less regressor whose heads read only the
// structural rejection indicator, so a rejection path measurably lowers
// on-time delivery and raises days sales outstanding.
func fixtureNetwork() *Network {
	headWeights := func(bias, rejectionWeight float64) Layer {
		w := make([]float64, features.TotalDim)
		w[features.OutcomeOffset] = rejectionWeight // hasRejection slot
		return Layer{Weights: [][]float64{w}, Bias: []float64{bias}, Activation: ActivationLinear}
	}
	return &Network{
		InputDim: features.TotalDim,
		Heads: []Layer{
			headWeights(0.80, -0.30), // on_time_delivery
			headWeights(0.40, 0.30),  // days_sales_outstanding
			headWeights(0.81, -0.10), // order_accuracy
			headWeights(0.76, -0.10), // invoice_accuracy
			headWeights(0.33, 0.20),  // avg_cost_delivery
		},
	}
}

func fixtureManifest() *Manifest {
	return &Manifest{
		LayoutVersion: features.LayoutVersion,
		FeatureDim:    features.TotalDim,
		KPINames:      models.KPINames[:],
		Multipliers:   DefaultMultipliers,
		CreatedAt:     time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC).Format(time.RFC3339),
	}
}

func fixtureArtifactSet(t *testing.T) *ArtifactSet {
	t.Helper()
	return &ArtifactSet{
		Network:  fixtureNetwork(),
		Scalers:  identityBundle(t),
		Manifest: fixtureManifest(),
	}
}
