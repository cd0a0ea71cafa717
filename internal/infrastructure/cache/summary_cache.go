package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/safedocs/backend/internal/infrastructure/summarizer"
)

const defaultSummaryPrefix = "safe:"

// RedisSummaryCache stores generated summaries in Redis
type RedisSummaryCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSummaryCache creates a cache on an existing client
func NewRedisSummaryCache(client *redis.Client) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, keyPrefix: defaultSummaryPrefix}
}

// GetSummary returns the cached summary for key
func (c *RedisSummaryCache) GetSummary(ctx context.Context, key string) (string, bool, error) {
	v, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read summary cache: %w", err)
	}
	return v, true, nil
}

// SetSummary stores summary for ttl
func (c *RedisSummaryCache) SetSummary(ctx context.Context, key, summary string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, summary, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write summary cache: %w", err)
	}
	return nil
}

// InMemorySummaryCache keeps summaries in process memory
type InMemorySummaryCache struct {
	entries *ttlMap
}

// NewInMemorySummaryCache creates an empty cache
func NewInMemorySummaryCache() *InMemorySummaryCache {
	return &InMemorySummaryCache{entries: newTTLMap(5 * time.Minute)}
}

// GetSummary returns the cached summary for key
func (c *InMemorySummaryCache) GetSummary(_ context.Context, key string) (string, bool, error) {
	v, ok := c.entries.get(key)
	return v, ok, nil
}

// SetSummary stores summary for ttl
func (c *InMemorySummaryCache) SetSummary(_ context.Context, key, summary string, ttl time.Duration) error {
	c.entries.set(key, summary, ttl)
	return nil
}

// Close stops background cleanup
func (c *InMemorySummaryCache) Close() error {
	c.entries.close()
	return nil
}

var (
	_ summarizer.Cache = (*RedisSummaryCache)(nil)
	_ summarizer.Cache = (*InMemorySummaryCache)(nil)
)
