// internal/scaler/transform_test.go
package scaler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "kpi-prediction-service/internal/common/errors"
)

func TestFitMinMax(t *testing.T) {
	samples := [][]float64{
		{0, 10, 5},
		{2, 20, 5},
		{4, 30, 5},
	}
	s := FitMinMax(samples)
	require.NoError(t, s.Validate())

	out, err := s.Transform([]float64{2, 10, 5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out[0], 1e-12)
	assert.InDelta(t, 0.0, out[1], 1e-12)
	assert.InDelta(t, 0.0, out[2], 1e-12, "constant column maps to zero")
}

func TestFitStandard(t *testing.T) {
	samples := [][]float64{{1, 7}, {3, 7}, {5, 7}}
	s := FitStandard(samples)
	require.NoError(t, s.Validate())

	out, err := s.Transform([]float64{3, 7})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, out[0], 1e-12, "mean maps to zero")
	assert.InDelta(t, 0.0, out[1], 1e-12, "constant column keeps unit scale")

	out, err = s.Transform([]float64{5, 7})
	require.NoError(t, err)
	assert.Greater(t, out[0], 1.0)
}

func TestFitRobust(t *testing.T) {
	// A heavy outlier should barely move the robust parameters.
	samples := [][]float64{{1}, {2}, {3}, {4}, {1000}}
	s := FitRobust(samples)
	require.NoError(t, s.Validate())

	assert.InDelta(t, 3.0, s.Center[0], 1e-12, "median")
	assert.InDelta(t, 2.0, s.Scale[0], 1e-12, "IQR of {1,2,3,4,1000}")

	out, err := s.Transform([]float64{3})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, out[0], 1e-12)
}

func TestTransformWidthMismatchIsHardError(t *testing.T) {
	s := FitMinMax([][]float64{{1, 2}, {3, 4}})

	_, err := s.Transform([]float64{1, 2, 3})
	require.Error(t, err)
	assert.True(t, apperrors.IsDimensionMismatch(err))

	_, err = s.Transform([]float64{1})
	require.Error(t, err)
	assert.True(t, apperrors.IsDimensionMismatch(err))
}

func TestValidateRejectsBrokenScalers(t *testing.T) {
	tests := []struct {
		name   string
		scaler Scaler
	}{
		{"unknown kind", Scaler{Kind: "quantum", Width: 1, Center: []float64{0}, Scale: []float64{1}}},
		{"width mismatch", Scaler{Kind: KindMinMax, Width: 2, Center: []float64{0}, Scale: []float64{1}}},
		{"zero scale", Scaler{Kind: KindMinMax, Width: 1, Center: []float64{0}, Scale: []float64{0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.scaler.Validate())
		})
	}
}
