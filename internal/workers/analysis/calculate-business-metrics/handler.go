package calculatebusinessmetrics

import (
	"context"
	"encoding/json"
	"strings"

	"business-health-workers/internal/analysis"
	"business-health-workers/internal/common/camunda"
	"business-health-workers/internal/common/errors"
	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/common/validation"
	"business-health-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-business-metrics"
)

type Handler struct {
	config       *Config
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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
	if err := validateProfile(input.Profile); err != nil {
		return nil, err
	}
	if input.PreviousProfile != nil {
		if err := validateProfile(*input.PreviousProfile); err != nil {
			return nil, err
		}
	}

	return &Output{
		Metrics:         analysis.Compute(input.Profile, input.PreviousProfile),
		MissingRequired: input.Profile.MissingFrom(models.RequiredFields),
	}, nil
}

// validateProfile rejects negative or out-of-range values before they reach the engine.
func validateProfile(profile models.BusinessProfile) error {
	v, err := validation.ExtractedFields()
	if err != nil {
		return errors.NewAnalysisFailedError(err)
	}
	res, err := v.ValidateInput(profile)
	if err != nil {
		return errors.NewInvalidProfileError(err.Error())
	}
	if !res.Valid {
		return errors.NewInvalidProfileError(strings.Join(res.GetErrorMessages(), "; "))
	}
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
