// internal/model/manager.go
package model

import (
	"sync"

	apperrors "kpi-prediction-service/internal/common/errors"
	"kpi-prediction-service/internal/common/logger"
	"kpi-prediction-service/internal/common/metrics"
	"kpi-prediction-service/internal/models"
)

// Manager owns the model lifecycle: fingerprint gating at startup, artifact
// loading, serving-time prediction and the baseline KPI record. After a
// successful Initialize all state is read-only, so concurrent Predict calls
// need no serialization; the mutex only guards the initialize transition.
type Manager struct {
	dataDir      string
	artifactsDir string
	dataFiles    []string
	logger       logger.Logger

	mu          sync.RWMutex
	artifacts   *ArtifactSet
	baseline    models.KPIRecord
	fingerprint string
	initialized bool
}

// NewManager creates an uninitialized manager. dataFiles is the canonical
// set of training-data file names that define the dataset fingerprint.
func NewManager(dataDir, artifactsDir string, dataFiles []string, log logger.Logger) *Manager {
	return &Manager{
		dataDir:      dataDir,
		artifactsDir: artifactsDir,
		dataFiles:    dataFiles,
		logger:       log,
		baseline:     defaultBaseline,
	}
}

// Initialize computes the dataset fingerprint and loads the cached artifact
// set if — and only if — its stored fingerprint matches. A miss or mismatch
// returns the typed training-unavailable signal: this runtime serves cached
// models, it never trains. The baseline KPI record is loaded in every case
// so degraded callers still have it.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fingerprint, err := ComputeFingerprint(m.dataDir, m.dataFiles)
	if err != nil {
		return apperrors.NewInitializationError(err.Error())
	}
	m.fingerprint = fingerprint
	m.loadBaseline(DefaultMultipliers)

	stored := StoredFingerprint(m.artifactsDir)
	if stored == "" || stored != fingerprint {
		metrics.ArtifactCacheChecks.WithLabelValues("miss").Inc()
		m.logger.Warn("No cached model for current dataset", map[string]interface{}{
			"datasetFingerprint": shortHash(fingerprint),
			"storedFingerprint":  shortHash(stored),
		})
		return apperrors.NewTrainingUnavailableError(fingerprint)
	}
	metrics.ArtifactCacheChecks.WithLabelValues("hit").Inc()

	artifacts, err := LoadArtifacts(m.artifactsDir)
	if err != nil {
		return err
	}
	m.artifacts = artifacts
	m.loadBaseline(artifacts.Manifest.Multipliers)
	m.initialized = true

	m.logger.Info("Model initialized from cached artifacts", map[string]interface{}{
		"datasetFingerprint": shortHash(fingerprint),
		"layoutVersion":      artifacts.Manifest.LayoutVersion,
		"featureDim":         artifacts.Manifest.FeatureDim,
	})
	return nil
}

func (m *Manager) loadBaseline(multipliers []float64) {
	baseline, err := loadBaselineKPIs(m.dataDir, multipliers)
	if err != nil {
		m.logger.Warn("Using default baseline KPIs", map[string]interface{}{
			"error": err.Error(),
		})
	}
	m.baseline = baseline
}

// Predict scales the raw feature vector, runs the forward pass and
// denormalizes each head with its manifest multiplier. Calling Predict on an
// uninitialized manager is a hard error, not a silent fallback; degraded
// behavior is the caller's decision.
func (m *Manager) Predict(rawVector []float64) (models.KPIRecord, error) {
	m.mu.RLock()
	artifacts := m.artifacts
	initialized := m.initialized
	m.mu.RUnlock()

	if !initialized {
		return models.KPIRecord{}, apperrors.NewInitializationError("Predict called before Initialize succeeded")
	}

	scaled, err := artifacts.Scalers.Apply(rawVector)
	if err != nil {
		return models.KPIRecord{}, err
	}
	normalized, err := artifacts.Network.Forward(scaled)
	if err != nil {
		return models.KPIRecord{}, err
	}

	var heads [models.NumKPIs]float64
	for i := range heads {
		heads[i] = normalized[i] * artifacts.Manifest.Multipliers[i]
	}
	return models.FromHeads(heads), nil
}

// BaselineKPIs returns the baseline record for the canonical process
// variant. Always available, even when the model is not.
func (m *Manager) BaselineKPIs() models.KPIRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.baseline
}

// IsInitialized reports whether Predict is serviceable.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Fingerprint returns the dataset fingerprint computed at startup.
func (m *Manager) Fingerprint() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fingerprint
}

func shortHash(h string) string {
	if len(h) > 16 {
		return h[:16]
	}
	return h
}
