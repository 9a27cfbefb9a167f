package extractbusinessfields

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"business-health-workers/internal/common/camunda"
	"business-health-workers/internal/common/errors"
	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/extraction"
	"business-health-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "extract-business-fields"
)

type Handler struct {
	config       *Config
	extractor    extraction.FieldExtractor
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, extractor extraction.FieldExtractor, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		extractor:    extractor,
		errorHandler: errors.NewErrorHandler(l),
		logger:       l,
	}
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
		return nil, errors.NewInvalidInputError(err)
	}
	input.Text = strings.TrimSpace(input.Text)
	if input.Text == "" {
		return nil, errors.NewInvalidInputError(fmt.Errorf("text is required"))
	}
	return &input, nil
}

// execute never fails on a backend error: the turn simply contributes no fields.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	text := input.Text
	if h.config.MaxTextLength > 0 && len(text) > h.config.MaxTextLength {
		text = text[:h.config.MaxTextLength]
	}

	fields, err := h.extractor.Extract(ctx, text)
	if err != nil {
		h.logger.Warn("extraction failed", map[string]interface{}{
			"error": err.Error(),
		})
		return &Output{Found: []models.Field{}, ExtractionFailed: true}, nil
	}

	found := fields.Present()
	h.logger.Debug("fields extracted", map[string]interface{}{
		"found": len(found),
	})
	return &Output{Fields: fields, Found: found}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
