package buildbusinessreport

import "business-health-workers/internal/models"

type Input struct {
	BusinessID   string `json:"businessId"`
	HistoryLimit int    `json:"historyLimit,omitempty"`
	PeriodDays   int    `json:"periodDays,omitempty"`
}

type Output struct {
	BusinessID      string                       `json:"businessId"`
	Latest          models.MetricsSnapshot       `json:"latest"`
	History         []models.MetricsSnapshot     `json:"history"`
	Trend           *models.Trend                `json:"trend,omitempty"`
	Period          models.PeriodSummary         `json:"period"`
	Benchmarks      []models.BenchmarkComparison `json:"benchmarks"`
	Recommendations []models.Recommendation      `json:"recommendations"`
}
