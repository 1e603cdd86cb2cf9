package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type tracedRow struct {
	ID   int
	Name string
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{}, zap.NewNop()))
	assert.Nil(t, db.Callback().Query().Get("fleet_timing:after_query"))
}

func TestRegisterDBTracing_AnnotatesSpans(t *testing.T) {
	recorder := installRecorder(t)
	db := openSQLite(t)

	cfg := DBTracingConfig{Enabled: true, DBSystem: "sqlite", SlowQueryThresh: 1}
	require.NoError(t, RegisterDBTracing(db, cfg, zap.NewNop()))
	assert.NotNil(t, db.Callback().Query().Get("fleet_timing:after_query"))

	ctx, span := StartServiceSpan(context.Background(), "test", "insert")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{ID: 1, Name: "a"}).Error)
	EndSpan(span, nil)

	var dbSpanAttrs []attribute.KeyValue
	for _, s := range recorder.Ended() {
		if s.Name() != "test.insert" {
			dbSpanAttrs = append(dbSpanAttrs, s.Attributes()...)
		}
	}
	assert.Contains(t, dbSpanAttrs, attribute.Int64("db.rows_affected", 1))
	assert.Contains(t, dbSpanAttrs, attribute.Bool("db.slow_query", true))
}
