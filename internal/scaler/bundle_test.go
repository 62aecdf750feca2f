// internal/scaler/bundle_test.go
package scaler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "kpi-prediction-service/internal/common/errors"
	"kpi-prediction-service/internal/features"
)

func identityScaler(kind string, width int) *Scaler {
	s := &Scaler{Kind: kind, Width: width, Center: make([]float64, width), Scale: make([]float64, width)}
	for i := range s.Scale {
		s.Scale[i] = 1
	}
	return s
}

func identityBundle(t *testing.T) *Bundle {
	t.Helper()
	scalers := map[string]*Scaler{
		features.GroupFreq:      identityScaler(KindMinMax, features.GroupWidths[features.GroupFreq]),
		features.GroupDuration:  identityScaler(KindRobust, features.GroupWidths[features.GroupDuration]),
		features.GroupUsers:     identityScaler(KindMinMax, features.GroupWidths[features.GroupUsers]),
		features.GroupItemsQty:  identityScaler(KindStandard, features.GroupWidths[features.GroupItemsQty]),
		features.GroupItemsAmt:  identityScaler(KindRobust, features.GroupWidths[features.GroupItemsAmt]),
		features.GroupSuppliers: identityScaler(KindMinMax, features.GroupWidths[features.GroupSuppliers]),
		features.GroupOutcome:   identityScaler(KindMinMax, features.GroupWidths[features.GroupOutcome]),
	}
	b, err := NewBundle(scalers)
	require.NoError(t, err)
	return b
}

func TestNewBundleRejectsIncompleteSets(t *testing.T) {
	b := identityBundle(t)

	t.Run("missing group", func(t *testing.T) {
		scalers := map[string]*Scaler{}
		for k, v := range b.Scalers {
			scalers[k] = v
		}
		delete(scalers, features.GroupOutcome)

		_, err := NewBundle(scalers)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeArtifactInvalid, apperrors.CodeOf(err))
	})

	t.Run("wrong width", func(t *testing.T) {
		scalers := map[string]*Scaler{}
		for k, v := range b.Scalers {
			scalers[k] = v
		}
		scalers[features.GroupUsers] = identityScaler(KindMinMax, 5)

		_, err := NewBundle(scalers)
		require.Error(t, err)
		assert.True(t, apperrors.IsDimensionMismatch(err))
	})
}

func TestBundleApplyIdentity(t *testing.T) {
	b := identityBundle(t)

	vec := make([]float64, features.TotalDim)
	for i := range vec {
		vec[i] = float64(i)
	}

	out, err := b.Apply(vec)
	require.NoError(t, err)
	assert.Equal(t, vec, out, "identity scalers must preserve the vector and its order")
}

func TestBundleApplyInterleavesItems(t *testing.T) {
	b := identityBundle(t)

	// Amount columns get halved; quantity columns stay. If interleaving were
	// wrong the two would swap.
	amt := b.Scalers[features.GroupItemsAmt]
	for i := range amt.Scale {
		amt.Scale[i] = 2
	}

	vec := make([]float64, features.TotalDim)
	vec[features.ItemsOffset] = 10   // item 1 quantity
	vec[features.ItemsOffset+1] = 40 // item 1 amount

	out, err := b.Apply(vec)
	require.NoError(t, err)
	assert.Equal(t, 10.0, out[features.ItemsOffset])
	assert.Equal(t, 20.0, out[features.ItemsOffset+1])
}

func TestBundleApplyWrongLength(t *testing.T) {
	b := identityBundle(t)

	_, err := b.Apply(make([]float64, 409))
	require.Error(t, err)
	assert.True(t, apperrors.IsDimensionMismatch(err))
}

func TestBundleSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	b := identityBundle(t)
	b.Scalers[features.GroupDuration].Center[0] = 42.5
	b.Scalers[features.GroupDuration].Scale[0] = 3.25
	require.NoError(t, b.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, b.Scalers[features.GroupDuration], loaded.Scalers[features.GroupDuration])
	assert.Equal(t, KindStandard, loaded.Scalers[features.GroupItemsQty].Kind)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeArtifactInvalid, apperrors.CodeOf(err))
}
