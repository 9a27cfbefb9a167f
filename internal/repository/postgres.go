package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Schema creates the tables used by PostgresRepository.
const Schema = `
CREATE TABLE IF NOT EXISTS businesses (
	id UUID PRIMARY KEY,
	owner_id TEXT NOT NULL,
	name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (owner_id, name)
);

CREATE TABLE IF NOT EXISTS business_snapshots (
	id UUID PRIMARY KEY,
	business_id UUID NOT NULL REFERENCES businesses(id),
	raw_fields JSONB NOT NULL,
	metrics JSONB NOT NULL,
	health JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_business_snapshots_business_created
	ON business_snapshots (business_id, created_at DESC);
`

const (
	createBusinessQuery = `INSERT INTO businesses (id, owner_id, name, created_at) VALUES ($1, $2, $3, $4) ` +
		`ON CONFLICT (owner_id, name) DO UPDATE SET name = EXCLUDED.name RETURNING id`

	appendSnapshotQuery = `INSERT INTO business_snapshots (id, business_id, raw_fields, metrics, health, created_at) ` +
		`VALUES ($1, $2, $3, $4, $5, $6)`

	historyQuery = `SELECT id, business_id, raw_fields, metrics, health, created_at FROM business_snapshots ` +
		`WHERE business_id = $1 ORDER BY created_at DESC LIMIT $2`

	summaryQuery = `SELECT COALESCE(AVG((raw_fields->>'revenue')::numeric), 0), ` +
		`COALESCE(AVG((metrics->>'profit')::numeric), 0), ` +
		`COALESCE(AVG((health->>'overallHealthScore')::numeric), 0), COUNT(*) ` +
		`FROM business_snapshots WHERE business_id = $1 AND created_at >= $2`
)

// pq foreign_key_violation
const fkViolation = "23503"

type PostgresRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresRepository(db *sql.DB, log logger.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		logger: logger.ForComponent(log, "business-repository"),
	}
}

// Migrate creates the schema if it does not exist.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateProfile(ctx context.Context, ownerID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}

	var id string
	err := r.db.QueryRowContext(ctx, createBusinessQuery, uuid.New().String(), ownerID, name, time.Now().UTC()).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create business: %w", err)
	}

	r.logger.Debug("business registered", map[string]interface{}{
		"businessId": id,
		"ownerId":    ownerID,
	})
	return id, nil
}

func (r *PostgresRepository) AppendSnapshot(ctx context.Context, snapshot *models.MetricsSnapshot) (string, error) {
	raw, err := json.Marshal(snapshot.Profile)
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	metrics, err := json.Marshal(snapshot.Metrics)
	if err != nil {
		return "", fmt.Errorf("encode metrics: %w", err)
	}
	health, err := json.Marshal(snapshot.Health)
	if err != nil {
		return "", fmt.Errorf("encode health: %w", err)
	}

	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, appendSnapshotQuery,
		snapshot.ID, snapshot.BusinessID, raw, metrics, health, snapshot.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == fkViolation {
			return "", fmt.Errorf("%w: %s", ErrBusinessNotFound, snapshot.BusinessID)
		}
		return "", fmt.Errorf("append snapshot: %w", err)
	}
	return snapshot.ID, nil
}

func (r *PostgresRepository) GetHistory(ctx context.Context, businessID string, limit int) ([]models.MetricsSnapshot, error) {
	if limit <= 0 {
		limit = 1
	}

	rows, err := r.db.QueryContext(ctx, historyQuery, businessID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []models.MetricsSnapshot
	for rows.Next() {
		var (
			s                    models.MetricsSnapshot
			raw, metrics, health []byte
		)
		if err := rows.Scan(&s.ID, &s.BusinessID, &raw, &metrics, &health, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := json.Unmarshal(raw, &s.Profile); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		if err := json.Unmarshal(metrics, &s.Metrics); err != nil {
			return nil, fmt.Errorf("decode metrics: %w", err)
		}
		if err := json.Unmarshal(health, &s.Health); err != nil {
			return nil, fmt.Errorf("decode health: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Summarize(ctx context.Context, businessID string, since time.Time) (models.PeriodSummary, error) {
	summary := models.PeriodSummary{BusinessID: businessID, Since: since}
	err := r.db.QueryRowContext(ctx, summaryQuery, businessID, since).
		Scan(&summary.AvgRevenue, &summary.AvgProfit, &summary.AvgHealth, &summary.SnapshotCount)
	if err != nil {
		return summary, fmt.Errorf("summarize: %w", err)
	}
	return summary, nil
}
