package analysis

import (
	"context"
	"time"

	"business-health-workers/internal/common/errors"
	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/common/metrics"
	"business-health-workers/internal/models"
)

// SnapshotStore is the persistence the analyzer needs.
type SnapshotStore interface {
	CreateProfile(ctx context.Context, ownerID, name string) (string, error)
	AppendSnapshot(ctx context.Context, snapshot *models.MetricsSnapshot) (string, error)
	GetHistory(ctx context.Context, businessID string, limit int) ([]models.MetricsSnapshot, error)
}

// Presenter receives every completed analysis.
type Presenter interface {
	Present(ctx context.Context, result *Result) error
}

// Result is one completed analysis with everything derived from it.
type Result struct {
	Snapshot        models.MetricsSnapshot       `json:"snapshot"`
	Benchmarks      []models.BenchmarkComparison `json:"benchmarks"`
	Recommendations []models.Recommendation      `json:"recommendations"`
	Trend           *models.Trend                `json:"trend,omitempty"`
	Category        string                       `json:"category"`
}

// Analyzer runs the metrics, scoring and benchmark engine and records the snapshot.
type Analyzer struct {
	store     SnapshotStore
	presenter Presenter
	category  string
	now       func() time.Time
	logger    logger.Logger
}

func NewAnalyzer(store SnapshotStore, presenter Presenter, category string, log logger.Logger) *Analyzer {
	if category == "" {
		category = DefaultCategory
	}
	return &Analyzer{
		store:     store,
		presenter: presenter,
		category:  category,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger.ForComponent(log, "analyzer"),
	}
}

// Analyze computes and stores a snapshot for profile. An empty businessID registers a new business first.
func (a *Analyzer) Analyze(ctx context.Context, ownerID, businessID string, profile models.BusinessProfile) (*Result, error) {
	if missing := profile.MissingFrom(models.RequiredFields); len(missing) > 0 {
		return nil, errors.NewInsufficientDataError(fieldNames(missing))
	}

	if businessID == "" {
		id, err := a.store.CreateProfile(ctx, ownerID, profile.Name())
		if err != nil {
			return nil, errors.NewSnapshotPersistFailedError("", err)
		}
		businessID = id
	}

	history, err := a.store.GetHistory(ctx, businessID, 1)
	if err != nil {
		return nil, errors.NewHistoryQueryFailedError(businessID, err)
	}

	var previous *models.MetricsSnapshot
	var previousProfile *models.BusinessProfile
	if len(history) > 0 {
		previous = &history[0]
		previousProfile = &previous.Profile
	}

	bench := Lookup(a.category)
	m := Compute(profile, previousProfile)
	health := Score(m, bench)

	snapshot := models.MetricsSnapshot{
		BusinessID: businessID,
		Profile:    profile.Clone(),
		Metrics:    m,
		Health:     health,
		CreatedAt:  a.now(),
	}
	id, err := a.store.AppendSnapshot(ctx, &snapshot)
	if err != nil {
		return nil, errors.NewSnapshotPersistFailedError(businessID, err)
	}
	snapshot.ID = id

	result := &Result{
		Snapshot:        snapshot,
		Benchmarks:      Compare(m, bench),
		Recommendations: Recommend(m, health, profile),
		Category:        bench.Category,
	}
	if previous != nil {
		trend := CompareSnapshots(*previous, snapshot)
		result.Trend = &trend
	}

	metrics.AnalysesCompleted.WithLabelValues(string(health.Tier)).Inc()
	metrics.HealthScore.Observe(float64(health.Overall))

	a.logger.Info("analysis completed", map[string]interface{}{
		"businessId": businessID,
		"snapshotId": snapshot.ID,
		"overall":    health.Overall,
		"tier":       health.Tier,
		"category":   bench.Category,
	})

	if a.presenter != nil {
		if err := a.presenter.Present(ctx, result); err != nil {
			a.logger.Warn("presenter failed", map[string]interface{}{
				"businessId": businessID,
				"error":      err.Error(),
			})
		}
	}

	return result, nil
}

func fieldNames(fields []models.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
