package redis

import (
	"context"
	"encoding/json"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/taskforge/backend/domain"
)

// CountCache caches the unfiltered per-user status aggregation. Range-filtered
// counts always go to Postgres; only the no-filter shape is worth keeping.
type CountCache struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewCountCache creates a Redis-backed count cache.
func NewCountCache(client *redislib.Client, ttl time.Duration) *CountCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CountCache{
		client: client,
		prefix: "taskcount:",
		ttl:    ttl,
	}
}

// Get returns the cached counts for the user, or (nil, nil) on a miss.
func (c *CountCache) Get(ctx context.Context, userID string) (*domain.StatusCounts, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	result, err := c.client.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, nil
		}
		return nil, err
	}

	var counts domain.StatusCounts
	if err := json.Unmarshal([]byte(result), &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}

// Set stores the counts for the user under the configured TTL.
func (c *CountCache) Set(ctx context.Context, userID string, counts domain.StatusCounts) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID), payload, c.ttl).Err()
}

// Invalidate drops the cached counts after any task mutation for the user.
func (c *CountCache) Invalidate(ctx context.Context, userID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(userID)).Err()
}

func (c *CountCache) key(userID string) string {
	return c.prefix + userID
}
