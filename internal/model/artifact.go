// internal/model/artifact.go
package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "kpi-prediction-service/internal/common/errors"
	"kpi-prediction-service/internal/features"
	"kpi-prediction-service/internal/models"
	"kpi-prediction-service/internal/scaler"
)

// Artifact file names within the artifacts directory. The scaler files are
// owned by the scaler package.
const (
	ModelFileName       = "model.json"
	ManifestFileName    = "manifest.json"
	FingerprintFileName = "dataset_fingerprint.txt"
)

// Manifest describes a persisted artifact set: the vector layout it was
// fitted against and the per-KPI denormalization constants. The manifest,
// scalers and model are valid only as a unit.
type Manifest struct {
	LayoutVersion int       `json:"layoutVersion"`
	FeatureDim    int       `json:"featureDim"`
	KPINames      []string  `json:"kpiNames"`
	Multipliers   []float64 `json:"multipliers"`
	CreatedAt     string    `json:"createdAt"`
}

// manifestSchema guards manifest files against hand-editing damage before
// any field is interpreted.
const manifestSchema = `{
	"type": "object",
	"required": ["layoutVersion", "featureDim", "kpiNames", "multipliers"],
	"properties": {
		"layoutVersion": {"type": "integer", "minimum": 1},
		"featureDim": {"type": "integer", "minimum": 1},
		"kpiNames": {
			"type": "array",
			"items": {"type": "string"},
			"minItems": 5,
			"maxItems": 5
		},
		"multipliers": {
			"type": "array",
			"items": {"type": "number", "exclusiveMinimum": 0},
			"minItems": 5,
			"maxItems": 5
		},
		"createdAt": {"type": "string"}
	}
}`

// DefaultMultipliers are the canonical head denormalization constants in KPI
// head order.
var DefaultMultipliers = []float64{100, 90, 100, 100, 100}

// ArtifactSet is a loaded, mutually validated artifact bundle.
type ArtifactSet struct {
	Network  *Network
	Scalers  *scaler.Bundle
	Manifest *Manifest
}

// LoadArtifacts reads and cross-validates the full artifact set from dir.
// Every file must be present and consistent with the current vector layout.
func LoadArtifacts(dir string) (*ArtifactSet, error) {
	manifest, err := loadManifest(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return nil, err
	}
	if manifest.LayoutVersion != features.LayoutVersion {
		return nil, apperrors.NewArtifactInvalidError(
			fmt.Sprintf("manifest layout version %d, runtime expects %d", manifest.LayoutVersion, features.LayoutVersion), nil)
	}
	if manifest.FeatureDim != features.TotalDim {
		return nil, apperrors.NewDimensionMismatchError("manifest", features.TotalDim, manifest.FeatureDim)
	}
	for i, name := range manifest.KPINames {
		if name != models.KPINames[i] {
			return nil, apperrors.NewArtifactInvalidError(
				fmt.Sprintf("manifest KPI head %d is %q, runtime expects %q", i, name, models.KPINames[i]), nil)
		}
	}

	network, err := loadNetwork(filepath.Join(dir, ModelFileName))
	if err != nil {
		return nil, err
	}
	if network.InputDim != features.TotalDim {
		return nil, apperrors.NewDimensionMismatchError("model", features.TotalDim, network.InputDim)
	}

	bundle, err := scaler.Load(dir)
	if err != nil {
		return nil, err
	}

	return &ArtifactSet{Network: network, Scalers: bundle, Manifest: manifest}, nil
}

func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewArtifactInvalidError("reading manifest", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(manifestSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, apperrors.NewArtifactInvalidError("validating manifest", err)
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			reasons = append(reasons, e.String())
		}
		return nil, apperrors.NewArtifactInvalidError("manifest schema: "+strings.Join(reasons, "; "), nil)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, apperrors.NewArtifactInvalidError("parsing manifest", err)
	}
	return &m, nil
}

func loadNetwork(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewArtifactInvalidError("reading model", err)
	}
	var n Network
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, apperrors.NewArtifactInvalidError("parsing model", err)
	}
	if err := n.Validate(); err != nil {
		return nil, apperrors.NewArtifactInvalidError("model shape", err)
	}
	return &n, nil
}

// SaveArtifacts writes a complete artifact set plus its fingerprint file.
// Used by the offline export tooling and by tests.
func SaveArtifacts(dir string, set *ArtifactSet, fingerprint string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	modelData, err := json.MarshalIndent(set.Network, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ModelFileName), modelData, 0o644); err != nil {
		return err
	}

	manifestData, err := json.MarshalIndent(set.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), manifestData, 0o644); err != nil {
		return err
	}

	if err := set.Scalers.Save(dir); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, FingerprintFileName), []byte(fingerprint+"\n"), 0o644)
}

// StoredFingerprint reads the fingerprint a cached artifact set was built
// from. Absence is reported as empty, not as an error: it simply means no
// cache.
func StoredFingerprint(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, FingerprintFileName))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
