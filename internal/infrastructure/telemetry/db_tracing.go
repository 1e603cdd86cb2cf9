package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	DBSystem        string        // "postgresql" or "sqlite"
	SlowQueryThresh time.Duration // default 200ms
	// WithQueryVariables includes bound values in db.statement. Off outside development.
	WithQueryVariables bool
}

type queryStartKey struct{}

// RegisterDBTracing installs otelgorm and the slow query annotator on db
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.WithQueryVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := registerTimingHooks(db, slowQueryAnnotator(cfg.SlowQueryThresh)); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

// registerTimingHooks brackets each gorm operation. The after hook must run
// before otelgorm ends the span.
func registerTimingHooks(db *gorm.DB, after func(*gorm.DB)) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("fleet_timing:before_create", markQueryStart),
		cb.Query().Before("gorm:query").Register("fleet_timing:before_query", markQueryStart),
		cb.Update().Before("gorm:update").Register("fleet_timing:before_update", markQueryStart),
		cb.Delete().Before("gorm:delete").Register("fleet_timing:before_delete", markQueryStart),
		cb.Row().Before("gorm:row").Register("fleet_timing:before_row", markQueryStart),
		cb.Raw().Before("gorm:raw").Register("fleet_timing:before_raw", markQueryStart),
		cb.Create().After("gorm:create").Before("otel:after:create").Register("fleet_timing:after_create", after),
		cb.Query().After("gorm:query").Before("otel:after:query").Register("fleet_timing:after_query", after),
		cb.Update().After("gorm:update").Before("otel:after:update").Register("fleet_timing:after_update", after),
		cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("fleet_timing:after_delete", after),
		cb.Row().After("gorm:row").Before("otel:after:row").Register("fleet_timing:after_row", after),
		cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("fleet_timing:after_raw", after),
	)
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

// slowQueryAnnotator adds row counts, errors and the slow flag to the active span
func slowQueryAnnotator(threshold time.Duration) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}

		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, db.Error.Error())
			span.RecordError(db.Error)
		}

		start, ok := ctx.Value(queryStartKey{}).(time.Time)
		if !ok {
			return
		}
		if elapsed := time.Since(start); elapsed > threshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
