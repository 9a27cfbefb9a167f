package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"business-health-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "conversation:session:"

// RedisStore keeps each session as JSON with a sliding TTL.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(ownerID string) string {
	return sessionKeyPrefix + ownerID
}

func (r *RedisStore) Get(ctx context.Context, ownerID string) (*models.ConversationSession, error) {
	data, err := r.client.Get(ctx, sessionKey(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s models.ConversationSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Create(ctx context.Context, ownerID string) (*models.ConversationSession, error) {
	s := newSession(ownerID)
	if err := r.put(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, session *models.ConversationSession) error {
	session.Touch()
	return r.put(ctx, session)
}

func (r *RedisStore) End(ctx context.Context, ownerID string) error {
	if err := r.client.Del(ctx, sessionKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

func (r *RedisStore) put(ctx context.Context, s *models.ConversationSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(s.OwnerID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
