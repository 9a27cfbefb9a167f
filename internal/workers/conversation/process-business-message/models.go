package processbusinessmessage

import "business-health-workers/internal/conversation"

type Input struct {
	OwnerID string `json:"ownerId"`
	Message string `json:"message"`
}

type Output struct {
	Turn             conversation.TurnResult `json:"turn"`
	ReadyForAnalysis bool                    `json:"readyForAnalysis"`
	Completed        bool                    `json:"completed"`
	Cancelled        bool                    `json:"cancelled"`
}
