// Package cache provides the Redis and in-memory stores for request
// idempotency and summary caching.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/safedocs/backend/internal/domain/shared"
	"github.com/safedocs/backend/internal/infrastructure/config"
	"github.com/safedocs/backend/internal/infrastructure/summarizer"
	"go.uber.org/zap"
)

// Stores bundles the caches the service uses
type Stores struct {
	Idempotency shared.IdempotencyStore
	Summaries   summarizer.Cache
	// Redis is nil when the in-memory stores are in use
	Redis *redis.Client
}

// Close releases the stores and the Redis connection
func (s *Stores) Close() error {
	if s.Idempotency != nil {
		_ = s.Idempotency.Close()
	}
	if c, ok := s.Summaries.(interface{ Close() error }); ok {
		_ = c.Close()
	}
	if s.Redis != nil {
		return s.Redis.Close()
	}
	return nil
}

// Factory creates Stores based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to in-memory stores.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// InMemory returns process-local stores
func (f *Factory) InMemory() *Stores {
	return &Stores{
		Idempotency: NewInMemoryIdempotencyStore(),
		Summaries:   NewInMemorySummaryCache(),
	}
}

// Create builds Redis-backed stores when Redis is enabled,
// falling back to in-memory ones if allowed
func (f *Factory) Create(ctx context.Context) (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory caches")
		return f.InMemory(), nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory caches. "+
			"Idempotency keys will not be shared across instances.",
			zap.Error(err))
		return f.InMemory(), nil
	}

	f.logger.Info("using Redis caches", zap.String("addr", f.redisConfig.Addr()))
	return &Stores{
		Idempotency: NewRedisIdempotencyStore(client, ""),
		Summaries:   NewRedisSummaryCache(client),
		Redis:       client,
	}, nil
}
