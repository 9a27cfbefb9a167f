package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const historyKeyPrefix = "business:history:"

// CachedRepository serves GetHistory from redis and drops a business's entries whenever it gets a new snapshot.
// Cache failures are logged and fall through to the wrapped repository.
type CachedRepository struct {
	next   BusinessRepository
	client redis.UniversalClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRepository(next BusinessRepository, client redis.UniversalClient, ttl time.Duration, log logger.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRepository{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.ForComponent(log, "history-cache"),
	}
}

func historyKey(businessID string, limit int) string {
	return fmt.Sprintf("%s%s:%d", historyKeyPrefix, businessID, limit)
}

func (c *CachedRepository) CreateProfile(ctx context.Context, ownerID, name string) (string, error) {
	return c.next.CreateProfile(ctx, ownerID, name)
}

func (c *CachedRepository) AppendSnapshot(ctx context.Context, snapshot *models.MetricsSnapshot) (string, error) {
	id, err := c.next.AppendSnapshot(ctx, snapshot)
	if err != nil {
		return "", err
	}
	c.invalidate(ctx, snapshot.BusinessID)
	return id, nil
}

func (c *CachedRepository) GetHistory(ctx context.Context, businessID string, limit int) ([]models.MetricsSnapshot, error) {
	key := historyKey(businessID, limit)

	if val, err := c.client.Get(ctx, key).Result(); err == nil {
		var cached []models.MetricsSnapshot
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("history cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	history, err := c.next.GetHistory(ctx, businessID, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(history); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("history cache write failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return history, nil
}

func (c *CachedRepository) Summarize(ctx context.Context, businessID string, since time.Time) (models.PeriodSummary, error) {
	return c.next.Summarize(ctx, businessID, since)
}

func (c *CachedRepository) invalidate(ctx context.Context, businessID string) {
	pattern := historyKeyPrefix + businessID + ":*"

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.logger.Warn("history cache invalidation failed", map[string]interface{}{
				"businessId": businessID,
				"error":      err.Error(),
			})
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.logger.Warn("history cache delete failed", map[string]interface{}{
					"businessId": businessID,
					"error":      err.Error(),
				})
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}
