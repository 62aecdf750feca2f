// internal/model/network_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "kpi-prediction-service/internal/common/errors"
	"kpi-prediction-service/internal/features"
)

func TestNetworkValidate(t *testing.T) {
	t.Run("fixture is well formed", func(t *testing.T) {
		assert.NoError(t, fixtureNetwork().Validate())
	})

	t.Run("hidden layer chain mismatch", func(t *testing.T) {
		n := &Network{
			InputDim: 3,
			Hidden: []Layer{
				{Weights: [][]float64{{1, 1}}, Bias: []float64{0}, Activation: ActivationReLU},
			},
			Heads: []Layer{},
		}
		err := n.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "hidden layer 0")
	})

	t.Run("wrong head count", func(t *testing.T) {
		n := fixtureNetwork()
		n.Heads = n.Heads[:3]
		assert.Error(t, n.Validate())
	})

	t.Run("multi-output head rejected", func(t *testing.T) {
		n := fixtureNetwork()
		w := make([]float64, features.TotalDim)
		n.Heads[0] = Layer{Weights: [][]float64{w, w}, Bias: []float64{0, 0}, Activation: ActivationLinear}
		assert.Error(t, n.Validate())
	})
}

func TestNetworkForward(t *testing.T) {
	n := fixtureNetwork()

	t.Run("dimension mismatch is typed", func(t *testing.T) {
		_, err := n.Forward(make([]float64, 409))
		require.Error(t, err)
		assert.True(t, apperrors.IsDimensionMismatch(err))
	})

	t.Run("heads read their inputs", func(t *testing.T) {
		vec := make([]float64, features.TotalDim)
		out, err := n.Forward(vec)
		require.NoError(t, err)
		assert.InDelta(t, 0.80, out[0], 1e-12)
		assert.InDelta(t, 0.40, out[1], 1e-12)

		vec[features.OutcomeOffset] = 1 // rejection present
		out, err = n.Forward(vec)
		require.NoError(t, err)
		assert.InDelta(t, 0.50, out[0], 1e-12)
		assert.InDelta(t, 0.70, out[1], 1e-12)
	})

	t.Run("outputs clamp to unit interval", func(t *testing.T) {
		vec := make([]float64, features.TotalDim)
		vec[features.OutcomeOffset] = 10 // absurd input drives heads out of range
		out, err := n.Forward(vec)
		require.NoError(t, err)
		assert.Equal(t, 0.0, out[0])
		assert.Equal(t, 1.0, out[1])
	})
}

func TestNetworkForwardReLUTrunk(t *testing.T) {
	// One hidden neuron with ReLU: negative pre-activations must not leak.
	n := &Network{
		InputDim: 2,
		Hidden: []Layer{
			{Weights: [][]float64{{1, -1}}, Bias: []float64{0}, Activation: ActivationReLU},
		},
		Heads: []Layer{
			{Weights: [][]float64{{1}}, Bias: []float64{0}, Activation: ActivationLinear},
			{Weights: [][]float64{{1}}, Bias: []float64{0}, Activation: ActivationLinear},
			{Weights: [][]float64{{1}}, Bias: []float64{0}, Activation: ActivationLinear},
			{Weights: [][]float64{{1}}, Bias: []float64{0}, Activation: ActivationLinear},
			{Weights: [][]float64{{1}}, Bias: []float64{0}, Activation: ActivationLinear},
		},
	}
	require.NoError(t, n.Validate())

	out, err := n.Forward([]float64{0.3, 0.1})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, out[0], 1e-12)

	out, err = n.Forward([]float64{0.1, 0.3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out[0], "ReLU clips the negative pre-activation")
}
