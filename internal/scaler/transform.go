// internal/scaler/transform.go

// Package scaler implements the per-sub-range normalization pipeline applied
// between feature encoding and model inference. Fitted transforms are
// persisted as JSON and loaded read-only at startup; a width disagreement is
// always a hard error, never padded or truncated.
package scaler

import (
	"fmt"
	"math"
	"sort"

	apperrors "kpi-prediction-service/internal/common/errors"
)

// Transform kinds. The kind records how Center/Scale were fitted; the online
// transform itself is uniformly (x - center) / scale.
const (
	KindMinMax   = "minmax"
	KindStandard = "standard"
	KindRobust   = "robust"
)

// Scaler is one fitted normalization transform for a named feature
// sub-range.
type Scaler struct {
	Kind   string    `json:"kind"`
	Width  int       `json:"width"`
	Center []float64 `json:"center"`
	Scale  []float64 `json:"scale"`
}

// Transform normalizes one sub-range. The input width must match the fitted
// width exactly.
func (s *Scaler) Transform(values []float64) ([]float64, error) {
	if len(values) != s.Width {
		return nil, apperrors.NewDimensionMismatchError("scaler:"+s.Kind, s.Width, len(values))
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - s.Center[i]) / s.Scale[i]
	}
	return out, nil
}

// Validate checks internal consistency of a loaded scaler.
func (s *Scaler) Validate() error {
	switch s.Kind {
	case KindMinMax, KindStandard, KindRobust:
	default:
		return fmt.Errorf("unknown scaler kind %q", s.Kind)
	}
	if s.Width <= 0 || len(s.Center) != s.Width || len(s.Scale) != s.Width {
		return fmt.Errorf("scaler %s: width %d does not match parameter arrays (%d, %d)",
			s.Kind, s.Width, len(s.Center), len(s.Scale))
	}
	for i, sc := range s.Scale {
		if sc == 0 || math.IsNaN(sc) || math.IsInf(sc, 0) {
			return fmt.Errorf("scaler %s: invalid scale at column %d", s.Kind, i)
		}
	}
	return nil
}

// ==========================
// Fitting (offline / tooling)
// ==========================

// FitMinMax fits a bounded linear transform mapping each column's observed
// [min, max] to [0, 1]. Constant columns map to zero.
func FitMinMax(samples [][]float64) *Scaler {
	width := sampleWidth(samples)
	s := &Scaler{Kind: KindMinMax, Width: width, Center: make([]float64, width), Scale: make([]float64, width)}
	for col := 0; col < width; col++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, row := range samples {
			lo = math.Min(lo, row[col])
			hi = math.Max(hi, row[col])
		}
		s.Center[col] = lo
		if r := hi - lo; r > 0 {
			s.Scale[col] = r
		} else {
			s.Scale[col] = 1
		}
	}
	return s
}

// FitStandard fits a zero-mean, unit-variance transform. Constant columns
// keep unit scale.
func FitStandard(samples [][]float64) *Scaler {
	width := sampleWidth(samples)
	s := &Scaler{Kind: KindStandard, Width: width, Center: make([]float64, width), Scale: make([]float64, width)}
	n := float64(len(samples))
	for col := 0; col < width; col++ {
		var sum float64
		for _, row := range samples {
			sum += row[col]
		}
		mean := sum / n
		var variance float64
		for _, row := range samples {
			d := row[col] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / n)
		s.Center[col] = mean
		if std > 0 {
			s.Scale[col] = std
		} else {
			s.Scale[col] = 1
		}
	}
	return s
}

// FitRobust fits a median/IQR transform, resistant to the heavy-tailed
// duration and amount columns.
func FitRobust(samples [][]float64) *Scaler {
	width := sampleWidth(samples)
	s := &Scaler{Kind: KindRobust, Width: width, Center: make([]float64, width), Scale: make([]float64, width)}
	column := make([]float64, len(samples))
	for col := 0; col < width; col++ {
		for i, row := range samples {
			column[i] = row[col]
		}
		sort.Float64s(column)
		s.Center[col] = quantile(column, 0.5)
		if iqr := quantile(column, 0.75) - quantile(column, 0.25); iqr > 0 {
			s.Scale[col] = iqr
		} else {
			s.Scale[col] = 1
		}
	}
	return s
}

func sampleWidth(samples [][]float64) int {
	if len(samples) == 0 {
		return 0
	}
	return len(samples[0])
}

// quantile interpolates linearly over a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
