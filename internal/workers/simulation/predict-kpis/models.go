// internal/workers/simulation/predict-kpis/models.go
package predictkpis

import "kpi-prediction-service/internal/models"

type Input struct {
	SessionID  string                        `json:"sessionId,omitempty"`
	Activities []string                      `json:"activities"`
	Edges      []models.Edge                 `json:"edges,omitempty"`
	KPIs       map[string]models.ActivityKPI `json:"kpis,omitempty"`
	NumUsers   int                           `json:"numUsers,omitempty"`
	NumItems   int                           `json:"numItems,omitempty"`
}

type Output struct {
	Predicted  models.KPIRecord `json:"predictedKpis"`
	Baseline   models.KPIRecord `json:"baselineKpis"`
	Source     string           `json:"source"`
	Confidence float64          `json:"confidence"`
	Summary    string           `json:"summary"`
	SessionID  string           `json:"sessionId"`
}
