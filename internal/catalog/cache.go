package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

const cacheKeyPrefix = "catalog:listings:"

// RedisCache is a read-through Source that keeps each category's listings
// in Redis for TTL. Redis failures are logged and fall through to the
// wrapped Source, so the cache can never make a search fail.
type RedisCache struct {
	next   Source
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache wraps next with a Redis cache.
func NewRedisCache(next Source, rdb redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

// Listings returns the cached listings for category, fetching and storing
// them on a miss.
func (c *RedisCache) Listings(ctx context.Context, category string) ([]domain.Listing, error) {
	key := cacheKeyPrefix + category

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []domain.Listing
		if jerr := json.Unmarshal(raw, &cached); jerr == nil {
			return cached, nil
		}
		c.logger.WarnContext(ctx, "discarding unreadable catalog cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "catalog cache read failed", "key", key, "error", err)
	}

	listings, err := c.next.Listings(ctx, category)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(listings); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "catalog cache write failed", "key", key, "error", err)
		}
	}
	return listings, nil
}
