package startbusinesssession

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"business-health-workers/internal/common/camunda"
	"business-health-workers/internal/common/errors"
	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/conversation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "start-business-session"
)

type SessionStarter interface {
	Start(ctx context.Context, ownerID, businessID string) (*conversation.TurnResult, error)
}

type Handler struct {
	config       *Config
	machine      SessionStarter
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, machine SessionStarter, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		machine:      machine,
		errorHandler: errors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, errors.NewInvalidInputError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.OwnerID) == "" {
		return nil, errors.NewInvalidInputError(fmt.Errorf("ownerId is required"))
	}

	turn, err := h.machine.Start(ctx, input.OwnerID, input.BusinessID)
	if err != nil {
		return nil, err
	}

	return &Output{
		SessionID: turn.SessionID,
		State:     turn.State,
		Requested: turn.Sufficiency.Requested,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
