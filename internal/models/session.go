package models

import "time"

// SessionState is the position of a conversation in the collection flow.
type SessionState string

const (
	StateStart            SessionState = "START"
	StateCollecting       SessionState = "COLLECTING"
	StateReadyForAnalysis SessionState = "READY_FOR_ANALYSIS"
	StateCompleted        SessionState = "COMPLETED"
	StateCancelled        SessionState = "CANCELLED"
)

// IsTerminal reports whether no further turns are accepted.
func (s SessionState) IsTerminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// ConversationSession is one data-collection dialog with an owner.
type ConversationSession struct {
	ID         string          `json:"id" db:"id"`
	OwnerID    string          `json:"ownerId" db:"owner_id"`
	BusinessID string          `json:"businessId,omitempty" db:"business_id"`
	State      SessionState    `json:"state" db:"state"`
	Profile    BusinessProfile `json:"profile" db:"profile"`
	Turns      int             `json:"turns" db:"turns"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
}

// Touch records activity on the session.
func (s *ConversationSession) Touch() {
	s.UpdatedAt = time.Now().UTC()
}
