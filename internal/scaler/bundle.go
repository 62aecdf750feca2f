// internal/scaler/bundle.go
package scaler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	apperrors "kpi-prediction-service/internal/common/errors"
	"kpi-prediction-service/internal/features"
)

// Bundle holds the fitted transform for every named feature sub-range. It is
// loaded once at startup and shared read-only; Apply is safe for concurrent
// use.
type Bundle struct {
	Scalers map[string]*Scaler
}

// groupOrder is the concatenation order of the final vector. The items
// quantity and amount columns are scaled separately and interleaved back
// into the single items block.
var groupOrder = []string{
	features.GroupFreq,
	features.GroupDuration,
	features.GroupUsers,
	features.GroupItemsQty,
	features.GroupItemsAmt,
	features.GroupSuppliers,
	features.GroupOutcome,
}

// NewBundle wraps a complete scaler set, verifying every group is present
// with the width the layout demands.
func NewBundle(scalers map[string]*Scaler) (*Bundle, error) {
	for _, group := range groupOrder {
		s, ok := scalers[group]
		if !ok {
			return nil, apperrors.NewArtifactInvalidError(fmt.Sprintf("scaler group %q missing", group), nil)
		}
		if err := s.Validate(); err != nil {
			return nil, apperrors.NewArtifactInvalidError(fmt.Sprintf("scaler group %q", group), err)
		}
		if want := features.GroupWidths[group]; s.Width != want {
			return nil, apperrors.NewDimensionMismatchError("scaler:"+group, want, s.Width)
		}
	}
	return &Bundle{Scalers: scalers}, nil
}

// Load reads one scaler_<group>.json per sub-range from dir.
func Load(dir string) (*Bundle, error) {
	scalers := make(map[string]*Scaler, len(groupOrder))
	for _, group := range groupOrder {
		path := filepath.Join(dir, scalerFileName(group))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.NewArtifactInvalidError(fmt.Sprintf("reading scaler %q", group), err)
		}
		var s Scaler
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, apperrors.NewArtifactInvalidError(fmt.Sprintf("parsing scaler %q", group), err)
		}
		scalers[group] = &s
	}
	return NewBundle(scalers)
}

// Save writes the bundle's scaler files into dir.
func (b *Bundle) Save(dir string) error {
	for _, group := range groupOrder {
		data, err := json.MarshalIndent(b.Scalers[group], "", "  ")
		if err != nil {
			return fmt.Errorf("encoding scaler %q: %w", group, err)
		}
		path := filepath.Join(dir, scalerFileName(group))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing scaler %q: %w", group, err)
		}
	}
	return nil
}

func scalerFileName(group string) string {
	return "scaler_" + group + ".json"
}

// Apply normalizes a full feature vector, sub-range by sub-range, and
// re-concatenates in the original layout order.
func (b *Bundle) Apply(vec []float64) ([]float64, error) {
	if len(vec) != features.TotalDim {
		return nil, apperrors.NewDimensionMismatchError("bundle", features.TotalDim, len(vec))
	}

	freq, err := b.Scalers[features.GroupFreq].Transform(vec[features.FreqOffset : features.FreqOffset+features.FreqDim])
	if err != nil {
		return nil, err
	}
	duration, err := b.Scalers[features.GroupDuration].Transform(vec[features.DurationOffset : features.DurationOffset+features.DurationDim])
	if err != nil {
		return nil, err
	}
	users, err := b.Scalers[features.GroupUsers].Transform(vec[features.UsersOffset : features.UsersOffset+features.UsersDim])
	if err != nil {
		return nil, err
	}

	// Items: de-interleave quantity and amount columns, scale each with its
	// own transform, interleave back.
	itemsBlock := vec[features.ItemsOffset : features.ItemsOffset+features.ItemsDim]
	qty := make([]float64, features.ItemsDim/2)
	amt := make([]float64, features.ItemsDim/2)
	for i := range qty {
		qty[i] = itemsBlock[2*i]
		amt[i] = itemsBlock[2*i+1]
	}
	qtyScaled, err := b.Scalers[features.GroupItemsQty].Transform(qty)
	if err != nil {
		return nil, err
	}
	amtScaled, err := b.Scalers[features.GroupItemsAmt].Transform(amt)
	if err != nil {
		return nil, err
	}

	suppliers, err := b.Scalers[features.GroupSuppliers].Transform(vec[features.SuppliersOffset : features.SuppliersOffset+features.SuppliersDim])
	if err != nil {
		return nil, err
	}
	outcome, err := b.Scalers[features.GroupOutcome].Transform(vec[features.OutcomeOffset : features.OutcomeOffset+features.OutcomeDim])
	if err != nil {
		return nil, err
	}

	out := make([]float64, 0, features.TotalDim)
	out = append(out, freq...)
	out = append(out, duration...)
	out = append(out, users...)
	for i := range qtyScaled {
		out = append(out, qtyScaled[i], amtScaled[i])
	}
	out = append(out, suppliers...)
	out = append(out, outcome...)
	return out, nil
}
