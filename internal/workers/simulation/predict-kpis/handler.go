// internal/workers/simulation/predict-kpis/handler.go
package predictkpis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"kpi-prediction-service/internal/common/logger"
	"kpi-prediction-service/internal/engine"
	"kpi-prediction-service/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "predict-kpis"
)

var (
	ErrPredictionFailed = errors.New("PREDICTION_FAILED")
)

type Handler struct {
	config *Config
	engine *engine.Engine
	logger logger.Logger
}

func NewHandler(config *Config, eng *engine.Engine, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: eng,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "PREDICTION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Activities) == 0 {
		return nil, fmt.Errorf("activities is required")
	}

	result, err := h.engine.Simulate(ctx, engine.SimulateRequest{
		SessionID: input.SessionID,
		Graph: models.ProcessGraph{
			Activities: input.Activities,
			Edges:      input.Edges,
			KPIs:       input.KPIs,
		},
		NumUsers: input.NumUsers,
		NumItems: input.NumItems,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("prediction complete", map[string]interface{}{
		"sessionId": result.SessionID,
		"source":    string(result.Source),
	})

	return &Output{
		Predicted:  result.Predicted,
		Baseline:   result.Baseline,
		Source:     string(result.Source),
		Confidence: result.Confidence,
		Summary:    result.Summary,
		SessionID:  result.SessionID,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
