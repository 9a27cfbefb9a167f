package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"business-health-workers/internal/models"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("SESSION_NOT_FOUND")

// SessionStore holds at most one live session per owner.
type SessionStore interface {
	// Get returns ErrSessionNotFound when the owner has no live session.
	Get(ctx context.Context, ownerID string) (*models.ConversationSession, error)
	// Create replaces any existing session with a fresh one in START.
	Create(ctx context.Context, ownerID string) (*models.ConversationSession, error)
	Save(ctx context.Context, session *models.ConversationSession) error
	End(ctx context.Context, ownerID string) error
}

func newSession(ownerID string) *models.ConversationSession {
	now := time.Now().UTC()
	return &models.ConversationSession{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		State:     models.StateStart,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func cloneSession(s *models.ConversationSession) *models.ConversationSession {
	c := *s
	c.Profile = s.Profile.Clone()
	return &c
}

// MemoryStore keeps sessions in process. Used by the CLI and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.ConversationSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.ConversationSession)}
}

func (m *MemoryStore) Get(ctx context.Context, ownerID string) (*models.ConversationSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[ownerID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return cloneSession(s), nil
}

func (m *MemoryStore) Create(ctx context.Context, ownerID string) (*models.ConversationSession, error) {
	s := newSession(ownerID)

	m.mu.Lock()
	m.sessions[ownerID] = cloneSession(s)
	m.mu.Unlock()

	return s, nil
}

func (m *MemoryStore) Save(ctx context.Context, session *models.ConversationSession) error {
	session.Touch()

	m.mu.Lock()
	m.sessions[session.OwnerID] = cloneSession(session)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) End(ctx context.Context, ownerID string) error {
	m.mu.Lock()
	delete(m.sessions, ownerID)
	m.mu.Unlock()
	return nil
}
