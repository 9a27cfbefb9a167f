package calculatebusinessmetrics

import "business-health-workers/internal/models"

type Input struct {
	Profile         models.BusinessProfile  `json:"profile"`
	PreviousProfile *models.BusinessProfile `json:"previousProfile,omitempty"`
}

type Output struct {
	Metrics         models.MetricsRecord `json:"metrics"`
	MissingRequired []models.Field       `json:"missingRequired,omitempty"`
}
