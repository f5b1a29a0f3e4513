// internal/events/cache.go
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"eventgate/internal/common/logger"
)

const listCacheKey = "events:list"

// CachedLister puts a short-lived redis cache in front of the store.
// Cache failures are soft: the store remains the source of truth.
type CachedLister struct {
	source Lister
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedLister(source Lister, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedLister {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedLister{
		source: source,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "event-cache"}),
	}
}

func (c *CachedLister) List(ctx context.Context) ([]Event, error) {
	if val, err := c.redis.Get(ctx, listCacheKey).Result(); err == nil {
		var cached []Event
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return cached, nil
		}
		c.logger.Warn("dropping undecodable listing cache entry", map[string]interface{}{
			"key": listCacheKey,
		})
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("listing cache read failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	list, err := c.source.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(list); err == nil {
		if err := c.redis.Set(ctx, listCacheKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("listing cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return list, nil
}
