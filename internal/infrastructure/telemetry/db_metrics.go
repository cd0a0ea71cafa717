package telemetry

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetrics records query counts, latency and connection pool state
type DBMetrics struct {
	queryTotal     *Counter
	queryDuration  *Histogram
	slowQueryTotal *Counter
	registration   metric.Registration
	slowThreshold  time.Duration
}

// NewDBMetrics registers database instruments on meter. Pool gauges are
// observed from sqlDB on every collection.
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, slowThreshold time.Duration) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}
	m := &DBMetrics{slowThreshold: slowThreshold}

	var err error
	if m.queryTotal, err = NewCounter(meter, "db_query_total", "Database queries by operation", "{query}"); err != nil {
		return nil, err
	}
	if m.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database query latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.slowQueryTotal, err = NewCounter(meter, "db_slow_query_total", "Database queries slower than the threshold", "{query}"); err != nil {
		return nil, err
	}

	if sqlDB != nil {
		conns, err := meter.Int64ObservableGauge("db_pool_connections",
			metric.WithDescription("Connections in the pool by state"),
			metric.WithUnit("{connection}"))
		if err != nil {
			return nil, err
		}
		maxConns, err := meter.Int64ObservableGauge("db_pool_connections_max",
			metric.WithDescription("Maximum open connections"),
			metric.WithUnit("{connection}"))
		if err != nil {
			return nil, err
		}
		m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
			s := sqlDB.Stats()
			o.ObserveInt64(maxConns, int64(s.MaxOpenConnections))
			o.ObserveInt64(conns, int64(s.Idle), metric.WithAttributes(AttrDBState.String("idle")))
			o.ObserveInt64(conns, int64(s.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
			o.ObserveInt64(conns, int64(s.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
			return nil
		}, conns, maxConns)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordQuery records one finished statement
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration) {
	if operation == "" {
		operation = "unknown"
	}
	m.queryTotal.Inc(ctx, AttrDBOperation.String(operation))
	m.queryDuration.RecordDuration(ctx, duration, AttrDBOperation.String(operation))
	if duration > m.slowThreshold {
		if table == "" {
			table = "unknown"
		}
		m.slowQueryTotal.Inc(ctx, AttrDBTable.String(table))
	}
}

// Register hooks query timing into db's callbacks
func (m *DBMetrics) Register(db *gorm.DB) error {
	return registerAround(db, "otel_metrics", markQueryStart, func(tx *gorm.DB, op string) {
		ctx := tx.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		elapsed, _ := queryElapsed(ctx)
		m.RecordQuery(ctx, op, tx.Statement.Table, elapsed)
	})
}

// Stop unregisters the pool observer
func (m *DBMetrics) Stop() {
	if m.registration != nil {
		_ = m.registration.Unregister()
	}
}

// RegisterDBMetrics wires DBMetrics onto db when metrics are enabled.
// Returns nil metrics when the meter provider is disabled.
func RegisterDBMetrics(db *gorm.DB, mp *MeterProvider, slowThreshold time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if !mp.IsEnabled() {
		return nil, nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	m, err := NewDBMetrics(mp.Meter("db.client"), sqlDB, slowThreshold)
	if err != nil {
		return nil, err
	}
	if err := m.Register(db); err != nil {
		m.Stop()
		return nil, err
	}
	if logger != nil {
		logger.Info("Database metrics registered", zap.Duration("slow_query_threshold", slowThreshold))
	}
	return m, nil
}
