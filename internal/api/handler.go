// internal/api/handler.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kpi-prediction-service/internal/catalog"
	apperrors "kpi-prediction-service/internal/common/errors"
	"kpi-prediction-service/internal/common/logger"
	"kpi-prediction-service/internal/engine"
	"kpi-prediction-service/internal/models"
	"kpi-prediction-service/internal/session"
)

// Handler holds the dependencies behind the HTTP endpoints.
type Handler struct {
	engine *engine.Engine
	store  session.Store
	logger logger.Logger
}

// NewHandler creates the API handler set.
func NewHandler(eng *engine.Engine, store session.Store, log logger.Logger) *Handler {
	return &Handler{engine: eng, store: store, logger: log}
}

// SimulateRequest is the body of POST /api/simulate. The process graph
// fields are inlined.
type SimulateRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	models.ProcessGraph
	NumUsers int `json:"numUsers,omitempty"`
	NumItems int `json:"numItems,omitempty"`
}

// Simulate handles POST /api/simulate.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}
	if len(req.Activities) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "activities is required",
		})
		return
	}

	result, err := h.engine.Simulate(r.Context(), engine.SimulateRequest{
		SessionID: req.SessionID,
		Graph:     req.ProcessGraph,
		NumUsers:  req.NumUsers,
		NumItems:  req.NumItems,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// BaselineResponse is the body of GET /api/baseline.
type BaselineResponse struct {
	Baseline   models.KPIRecord `json:"baseline"`
	Activities []string         `json:"activities"`
	ModelReady bool             `json:"modelReady"`
}

// Baseline handles GET /api/baseline.
func (h *Handler) Baseline(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, BaselineResponse{
		Baseline:   h.engine.Baseline(),
		Activities: baselineActivityNames(),
		ModelReady: h.engine.ModelReady(),
	})
}

// CreateSession handles POST /api/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.GetOrCreate(r.Context(), "")
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// ResetSession handles POST /api/sessions/{id}/reset.
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// DeleteSession handles DELETE /api/sessions/{id}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status     string `json:"status"`
	ModelReady bool   `json:"modelReady"`
}

// Health handles GET /api/health. The service is healthy even without a
// model; modelReady distinguishes degraded deployments.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		ModelReady: h.engine.ModelReady(),
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeSessionStoreUnavailable:
		status = http.StatusServiceUnavailable
	case apperrors.ErrCodeDimensionMismatch, apperrors.ErrCodeArtifactInvalid:
		status = http.StatusInternalServerError
	}

	h.logger.WithError(err).Error("Request failed", map[string]interface{}{
		"status": status,
	})
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  string(apperrors.CodeOf(err)),
	})
}

func baselineActivityNames() []string {
	return append([]string(nil), catalog.BaselineActivities...)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
