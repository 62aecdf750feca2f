// internal/model/network.go

// Package model implements the trained KPI regressor: artifact loading, the
// dataset fingerprint cache gate, the serving-time forward pass and the
// lifecycle manager that ties them together.
package model

import (
	"fmt"

	apperrors "kpi-prediction-service/internal/common/errors"
	"kpi-prediction-service/internal/models"
)

// Activation names accepted in persisted layers.
const (
	ActivationReLU   = "relu"
	ActivationLinear = "linear"
)

// Layer is one dense layer: Weights is row-major [out][in].
type Layer struct {
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation"`
}

func (l *Layer) outDim() int { return len(l.Weights) }

func (l *Layer) inDim() int {
	if len(l.Weights) == 0 {
		return 0
	}
	return len(l.Weights[0])
}

func (l *Layer) apply(in []float64) []float64 {
	out := make([]float64, len(l.Weights))
	for i, row := range l.Weights {
		sum := l.Bias[i]
		for j, w := range row {
			sum += w * in[j]
		}
		if l.Activation == ActivationReLU && sum < 0 {
			sum = 0
		}
		out[i] = sum
	}
	return out
}

// Network is the serving form of the trained regressor: a shared dense trunk
// followed by one single-output linear head per KPI. Batch normalization is
// folded into the dense weights at export time, so inference is pure affine
// arithmetic. Forward is read-only and safe for concurrent use.
type Network struct {
	InputDim int     `json:"inputDim"`
	Hidden   []Layer `json:"hidden"`
	Heads    []Layer `json:"heads"`
}

// Validate checks that layer shapes chain correctly from InputDim through
// the trunk to exactly NumKPIs single-output heads.
func (n *Network) Validate() error {
	if n.InputDim <= 0 {
		return fmt.Errorf("non-positive input dimension %d", n.InputDim)
	}
	dim := n.InputDim
	for i := range n.Hidden {
		l := &n.Hidden[i]
		if l.inDim() != dim {
			return fmt.Errorf("hidden layer %d expects %d inputs, previous layer provides %d", i, l.inDim(), dim)
		}
		if len(l.Bias) != l.outDim() {
			return fmt.Errorf("hidden layer %d: bias length %d does not match %d outputs", i, len(l.Bias), l.outDim())
		}
		dim = l.outDim()
	}
	if len(n.Heads) != models.NumKPIs {
		return fmt.Errorf("expected %d output heads, got %d", models.NumKPIs, len(n.Heads))
	}
	for i := range n.Heads {
		h := &n.Heads[i]
		if h.inDim() != dim {
			return fmt.Errorf("head %d expects %d inputs, trunk provides %d", i, h.inDim(), dim)
		}
		if h.outDim() != 1 || len(h.Bias) != 1 {
			return fmt.Errorf("head %d must produce exactly one output", i)
		}
	}
	return nil
}

// Forward runs the trunk and heads over one already-scaled feature vector
// and returns the normalized head outputs clamped to [0, 1].
func (n *Network) Forward(input []float64) ([models.NumKPIs]float64, error) {
	var out [models.NumKPIs]float64
	if len(input) != n.InputDim {
		return out, apperrors.NewDimensionMismatchError("network", n.InputDim, len(input))
	}

	x := input
	for i := range n.Hidden {
		x = n.Hidden[i].apply(x)
	}
	for i := range n.Heads {
		v := n.Heads[i].apply(x)[0]
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		out[i] = v
	}
	return out, nil
}
