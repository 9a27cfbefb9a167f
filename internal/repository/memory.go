package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"business-health-workers/internal/analysis"
	"business-health-workers/internal/models"

	"github.com/google/uuid"
)

// MemoryRepository keeps everything in process. Used by the CLI and tests.
type MemoryRepository struct {
	mu         sync.RWMutex
	businesses map[string]models.Business
	byOwner    map[string]string
	snapshots  map[string][]models.MetricsSnapshot
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		businesses: make(map[string]models.Business),
		byOwner:    make(map[string]string),
		snapshots:  make(map[string][]models.MetricsSnapshot),
	}
}

func (r *MemoryRepository) CreateProfile(ctx context.Context, ownerID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := ownerID + "\x00" + name
	if id, ok := r.byOwner[key]; ok {
		return id, nil
	}

	b := models.Business{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	r.businesses[b.ID] = b
	r.byOwner[key] = b.ID
	return b.ID, nil
}

func (r *MemoryRepository) AppendSnapshot(ctx context.Context, snapshot *models.MetricsSnapshot) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.businesses[snapshot.BusinessID]; !ok {
		return "", ErrBusinessNotFound
	}
	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	stored := *snapshot
	stored.Profile = snapshot.Profile.Clone()
	r.snapshots[snapshot.BusinessID] = append(r.snapshots[snapshot.BusinessID], stored)
	return snapshot.ID, nil
}

func (r *MemoryRepository) GetHistory(ctx context.Context, businessID string, limit int) ([]models.MetricsSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.snapshots[businessID]
	out := make([]models.MetricsSnapshot, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		s := all[i]
		s.Profile = all[i].Profile.Clone()
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) Summarize(ctx context.Context, businessID string, since time.Time) (models.PeriodSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return analysis.Summarize(businessID, r.snapshots[businessID], since), nil
}
