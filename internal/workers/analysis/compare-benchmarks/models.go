package comparebenchmarks

import "business-health-workers/internal/models"

type Input struct {
	Metrics  models.MetricsRecord `json:"metrics"`
	Category string               `json:"category,omitempty"`
}

type Output struct {
	Category    string                       `json:"category"`
	Comparisons []models.BenchmarkComparison `json:"comparisons"`
	AboveCount  int                          `json:"aboveCount"`
	BelowCount  int                          `json:"belowCount"`
}
