package safe

import (
	"context"
	"strings"

	"github.com/safedocs/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// idempotencyGuard rejects a repeated Idempotency-Key for outbound sends.
// A failed send releases its key so the caller may try again by hand.
type idempotencyGuard struct {
	store  shared.IdempotencyStore
	config shared.IdempotencyConfig
	logger *zap.Logger
}

func (g *idempotencyGuard) enabled(key string) bool {
	return g != nil && g.store != nil && g.config.Enabled && strings.TrimSpace(key) != ""
}

// do runs fn at most once per scope and key within the TTL
func (g *idempotencyGuard) do(ctx context.Context, scope, key string, fn func() error) error {
	if !g.enabled(key) {
		return fn()
	}
	full := scope + ":" + strings.TrimSpace(key)

	fresh, err := g.store.MarkProcessed(ctx, full, g.config.TTL)
	if err != nil {
		// A broken store must not block sends
		g.logger.Warn("idempotency store unavailable", zap.String("scope", scope), zap.Error(err))
		return fn()
	}
	if !fresh {
		return shared.ErrDuplicate
	}

	if err := fn(); err != nil {
		if ferr := g.store.Forget(context.WithoutCancel(ctx), full); ferr != nil {
			g.logger.Warn("failed to release idempotency key", zap.String("scope", scope), zap.Error(ferr))
		}
		return err
	}
	return nil
}
