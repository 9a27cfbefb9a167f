package buildbusinessreport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"business-health-workers/internal/analysis"
	"business-health-workers/internal/common/camunda"
	"business-health-workers/internal/common/errors"
	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "build-business-report"
)

// HistoryReader is the part of repository.BusinessRepository the report needs.
type HistoryReader interface {
	GetHistory(ctx context.Context, businessID string, limit int) ([]models.MetricsSnapshot, error)
	Summarize(ctx context.Context, businessID string, since time.Time) (models.PeriodSummary, error)
}

type Handler struct {
	config       *Config
	repo         HistoryReader
	errorHandler *errors.ErrorHandler
	now          func() time.Time
	logger       logger.Logger
}

func NewHandler(config *Config, repo HistoryReader, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		repo:         repo,
		errorHandler: errors.NewErrorHandler(l),
		now:          func() time.Time { return time.Now().UTC() },
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
	if strings.TrimSpace(input.BusinessID) == "" {
		return nil, errors.NewInvalidInputError(fmt.Errorf("businessId is required"))
	}

	limit := input.HistoryLimit
	if limit <= 0 {
		limit = h.config.DefaultHistory
	}
	days := input.PeriodDays
	if days <= 0 {
		days = h.config.DefaultPeriodDays
	}

	history, err := h.repo.GetHistory(ctx, input.BusinessID, limit)
	if err != nil {
		return nil, errors.NewHistoryQueryFailedError(input.BusinessID, err)
	}
	if len(history) == 0 {
		return nil, errors.NewBusinessNotFoundError(input.BusinessID)
	}

	since := h.now().AddDate(0, 0, -days)
	period, err := h.repo.Summarize(ctx, input.BusinessID, since)
	if err != nil {
		return nil, errors.NewHistoryQueryFailedError(input.BusinessID, err)
	}

	latest := history[0]
	out := &Output{
		BusinessID:      input.BusinessID,
		Latest:          latest,
		History:         history,
		Period:          period,
		Benchmarks:      analysis.Compare(latest.Metrics, analysis.Lookup(h.config.Category)),
		Recommendations: analysis.Recommend(latest.Metrics, latest.Health, latest.Profile),
	}
	if len(history) > 1 {
		trend := analysis.CompareSnapshots(history[1], latest)
		out.Trend = &trend
	}

	h.logger.Info("report built", map[string]interface{}{
		"businessId": input.BusinessID,
		"snapshots":  len(history),
		"periodDays": days,
	})
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
