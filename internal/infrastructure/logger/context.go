package logger

import (
	"context"

	"github.com/safedocs/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey       contextKey = "logger"
	requestIDKey    contextKey = "request_id"
	userIDKey       contextKey = "user_id"
	investmentIDKey contextKey = "investment_id"
)

// WithContext attaches l to ctx
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the attached logger or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

func withField(ctx context.Context, l *zap.Logger, key contextKey, value string) (context.Context, *zap.Logger) {
	if l == nil {
		l = FromContext(ctx)
	}
	ctx = context.WithValue(ctx, key, value)
	enriched := l.With(zap.String(string(key), value))
	return WithContext(ctx, enriched), enriched
}

// WithRequestID stores the request id and returns the enriched logger
func WithRequestID(ctx context.Context, l *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return withField(ctx, l, requestIDKey, requestID)
}

// WithUserID stores the authenticated user id and returns the enriched logger
func WithUserID(ctx context.Context, l *zap.Logger, userID string) (context.Context, *zap.Logger) {
	return withField(ctx, l, userIDKey, userID)
}

// WithInvestmentID stores the investment being worked on
func WithInvestmentID(ctx context.Context, l *zap.Logger, investmentID string) (context.Context, *zap.Logger) {
	return withField(ctx, l, investmentIDKey, investmentID)
}

func value(ctx context.Context, key contextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// GetRequestID returns the request id, or ""
func GetRequestID(ctx context.Context) string { return value(ctx, requestIDKey) }

// GetUserID returns the user id, or ""
func GetUserID(ctx context.Context) string { return value(ctx, userIDKey) }

// GetInvestmentID returns the investment id, or ""
func GetInvestmentID(ctx context.Context) string { return value(ctx, investmentIDKey) }

// L returns the context's logger with trace and span ids added, plus any
// request, user or investment id that was stored without going through the
// With helpers.
//
//	logger.L(ctx).Info("envelope sent", zap.String("envelope_id", id))
func L(ctx context.Context) *zap.Logger {
	return enrich(ctx, FromContext(ctx))
}

// For is L with an explicit base logger
func For(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return enrich(ctx, base)
}

func enrich(ctx context.Context, l *zap.Logger) *zap.Logger {
	var fields []zap.Field
	if id := telemetry.GetTraceID(ctx); id != "" {
		fields = append(fields, zap.String("trace_id", id), zap.String("span_id", telemetry.GetSpanID(ctx)))
	}
	// Fields already bound through WithContext are skipped
	if attached, ok := ctx.Value(loggerKey).(*zap.Logger); !ok || attached != l {
		for _, key := range []contextKey{requestIDKey, userIDKey, investmentIDKey} {
			if v := value(ctx, key); v != "" {
				fields = append(fields, zap.String(string(key), v))
			}
		}
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
