package startbusinesssession

import "business-health-workers/internal/models"

type Input struct {
	OwnerID    string `json:"ownerId"`
	BusinessID string `json:"businessId,omitempty"`
}

type Output struct {
	SessionID string              `json:"sessionId"`
	State     models.SessionState `json:"state"`
	Requested []models.Field      `json:"requested"`
}
