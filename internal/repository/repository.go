// Package repository stores businesses and their metric snapshots.
package repository

import (
	"context"
	"errors"
	"time"

	"business-health-workers/internal/models"
)

var (
	ErrBusinessNotFound = errors.New("BUSINESS_NOT_FOUND")
	ErrInvalidName      = errors.New("INVALID_BUSINESS_NAME")
)

// BusinessRepository is the persistence used by the analyzer and the report worker.
type BusinessRepository interface {
	// CreateProfile registers a business and returns its id. The same owner and name always yield the same id.
	CreateProfile(ctx context.Context, ownerID, name string) (string, error)
	// AppendSnapshot stores an immutable snapshot and returns its id.
	AppendSnapshot(ctx context.Context, snapshot *models.MetricsSnapshot) (string, error)
	// GetHistory returns up to limit snapshots, newest first.
	GetHistory(ctx context.Context, businessID string, limit int) ([]models.MetricsSnapshot, error)
	Summarize(ctx context.Context, businessID string, since time.Time) (models.PeriodSummary, error)
}
