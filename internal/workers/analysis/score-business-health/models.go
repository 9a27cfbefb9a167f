package scorebusinesshealth

import (
	"business-health-workers/internal/analysis"
	"business-health-workers/internal/models"
)

type Input struct {
	Metrics  models.MetricsRecord `json:"metrics"`
	Category string               `json:"category,omitempty"`
}

type Output struct {
	Health    models.HealthScores `json:"health"`
	Breakdown analysis.Breakdown  `json:"breakdown"`
	Category  string              `json:"category"`
}
