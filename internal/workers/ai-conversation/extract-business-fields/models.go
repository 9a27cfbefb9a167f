package extractbusinessfields

import "business-health-workers/internal/models"

type Input struct {
	Text string `json:"text"`
}

type Output struct {
	Fields           models.BusinessProfile `json:"fields"`
	Found            []models.Field         `json:"found"`
	ExtractionFailed bool                   `json:"extractionFailed"`
}
