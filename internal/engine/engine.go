// internal/engine/engine.go
package engine

import (
	"context"
	"time"

	apperrors "kpi-prediction-service/internal/common/errors"
	"kpi-prediction-service/internal/common/logger"
	"kpi-prediction-service/internal/common/metrics"
	"kpi-prediction-service/internal/features"
	"kpi-prediction-service/internal/model"
	"kpi-prediction-service/internal/models"
	"kpi-prediction-service/internal/scenario"
	"kpi-prediction-service/internal/session"
)

// Confidence levels attached to the three result sources.
const (
	ConfidenceBaseline = 0.95
	ConfidenceModel    = 0.85
	ConfidenceDegraded = 0.50
)

// SimulateRequest is one simulation call: a process graph plus an optional
// session and entity-count overrides.
type SimulateRequest struct {
	SessionID string
	Graph     models.ProcessGraph
	NumUsers  int
	NumItems  int
}

// Engine wires the pipeline together. All dependencies are read-only or
// internally synchronized, so one Engine serves concurrent requests.
type Engine struct {
	manager   *model.Manager
	encoder   *features.Encoder
	generator *scenario.Generator
	store     session.Store
	logger    logger.Logger
}

// New creates a simulation engine.
func New(manager *model.Manager, generator *scenario.Generator, store session.Store, log logger.Logger) *Engine {
	return &Engine{
		manager:   manager,
		encoder:   features.NewEncoder(),
		generator: generator,
		store:     store,
		logger:    log,
	}
}

// Simulate runs one prediction. The baseline identity check short-circuits
// before any model involvement; with no usable model the call degrades to
// the baseline record instead of failing.
func (e *Engine) Simulate(ctx context.Context, req SimulateRequest) (*models.SimulationResult, error) {
	start := time.Now()
	defer func() {
		metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	}()

	sc, sessionID := e.sessionScenario(ctx, req)

	graph := req.Graph
	graph.KPIs = features.ResolveTimings(graph.KPIs)
	graph.Edges = features.EnrichEdges(graph)

	baseline := e.manager.BaselineKPIs()
	result := &models.SimulationResult{
		Baseline:  baseline,
		SessionID: sessionID,
	}

	switch {
	case isBaselineProcess(graph):
		result.Predicted = baseline
		result.Source = models.SourceBaseline
		result.Confidence = ConfidenceBaseline

	case e.manager.IsInitialized():
		vec := e.encoder.Encode(graph, sc)
		predicted, err := e.manager.Predict(vec)
		if err != nil {
			metrics.PredictionErrors.WithLabelValues(string(apperrors.CodeOf(err))).Inc()
			return nil, err
		}
		result.Predicted = predicted
		result.Source = models.SourceModel
		result.Confidence = ConfidenceModel

	default:
		result.Predicted = baseline
		result.Source = models.SourceDegraded
		result.Confidence = ConfidenceDegraded
	}

	result.Summary = e.generator.Summarize(sc, result.Predicted)
	metrics.PredictionsTotal.WithLabelValues(string(result.Source)).Inc()

	e.logger.Info("Simulation complete", map[string]interface{}{
		"sessionId":  sessionID,
		"source":     string(result.Source),
		"activities": len(graph.Activities),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return result, nil
}

// sessionScenario resolves the scenario for a request. Session continuity is
// best effort: when the store is down the seed is derived from the activity
// set instead, so identical graphs still map to identical entities within
// the request and across retries.
func (e *Engine) sessionScenario(ctx context.Context, req SimulateRequest) (*models.Scenario, string) {
	sess, err := e.store.GetOrCreate(ctx, req.SessionID)
	if err != nil {
		return e.fallbackScenario(req, err), req.SessionID
	}
	sc, err := e.resolveScenario(ctx, sess, req)
	if err != nil {
		return e.fallbackScenario(req, err), sess.ID
	}
	return sc, sess.ID
}

func (e *Engine) fallbackScenario(req SimulateRequest, cause error) *models.Scenario {
	metrics.PredictionErrors.WithLabelValues(string(apperrors.CodeOf(cause))).Inc()
	e.logger.Warn("Session store unavailable, deriving scenario seed from activities", map[string]interface{}{
		"sessionId": req.SessionID,
		"error":     cause.Error(),
	})
	seed := scenario.ActivitySeed(req.Graph.Activities)
	return e.generator.Generate(seed, req.NumUsers, req.NumItems)
}

// resolveScenario returns the session's cached scenario, generating and
// claiming one on first use. The claim resolves races: whichever concurrent
// request wins, both see the same entities.
func (e *Engine) resolveScenario(ctx context.Context, sess *models.Session, req SimulateRequest) (*models.Scenario, error) {
	cached, found, err := e.store.Scenario(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	if found {
		return cached, nil
	}
	generated := e.generator.Generate(sess.Seed, req.NumUsers, req.NumItems)
	return e.store.ClaimScenario(ctx, sess.ID, generated)
}

// Baseline exposes the baseline KPI record for callers that render it
// without running a simulation.
func (e *Engine) Baseline() models.KPIRecord {
	return e.manager.BaselineKPIs()
}

// ModelReady reports whether live predictions are available.
func (e *Engine) ModelReady() bool {
	return e.manager.IsInitialized()
}
