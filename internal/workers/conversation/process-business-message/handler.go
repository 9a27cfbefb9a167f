package processbusinessmessage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"business-health-workers/internal/common/camunda"
	"business-health-workers/internal/common/errors"
	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/common/observability"
	"business-health-workers/internal/conversation"
	"business-health-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "process-business-message"
)

// TurnProcessor is satisfied by *conversation.Machine.
type TurnProcessor interface {
	HandleTurn(ctx context.Context, ownerID, text string) (*conversation.TurnResult, error)
}

type Handler struct {
	config       *Config
	machine      TurnProcessor
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

func NewHandler(config *Config, machine TurnProcessor, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		machine:      machine,
		errorHandler: errors.NewErrorHandler(l),
		logger:       l,
	}
}

// WithObservability counts every processed turn by resulting state.
func (h *Handler) WithObservability(obs *observability.Observability) *Handler {
	h.obs = obs
	return h
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, input)
	if err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	if err := camunda.CompleteJob(context.Background(), client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Errorf("parse input: %w", err))
	}
	if strings.TrimSpace(input.OwnerID) == "" {
		return nil, errors.NewInvalidInputError(fmt.Errorf("ownerId is required"))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	turn, err := h.machine.HandleTurn(ctx, input.OwnerID, input.Message)
	if err != nil {
		return nil, err
	}
	h.obs.RecordTurn(ctx, string(turn.State))

	h.logger.Info("turn processed", map[string]interface{}{
		"sessionId": turn.SessionID,
		"state":     turn.State,
		"action":    turn.Action,
	})

	return &Output{
		Turn:             *turn,
		ReadyForAnalysis: turn.State == models.StateReadyForAnalysis,
		Completed:        turn.State == models.StateCompleted,
		Cancelled:        turn.State == models.StateCancelled,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
