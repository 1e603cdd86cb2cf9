// Package pgtest starts throwaway PostgreSQL containers for integration tests
// and brings them to the current schema with the SQL migrations.
package pgtest

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/fleet/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const image = "postgres:16-alpine"

// DB is a migrated database inside its own container
type DB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	DSN   string

	container testcontainers.Container
}

// New starts a container, applies every migration and registers cleanup.
// Set TEST_DB_DEBUG to log SQL.
func New(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, image,
		tcpostgres.WithDatabase("fleet_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	level := logger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = logger.Info
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(level)})
	require.NoError(t, err, "connect to postgres")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	t.Cleanup(func() { _ = sqlDB.Close() })

	d := &DB{DB: db, SqlDB: sqlDB, DSN: dsn, container: container}
	m := d.Migrator(t)
	defer func() { _ = m.Close() }()
	require.NoError(t, m.Up(), "apply migrations")
	return d
}

// Migrator opens a migrator on its own lib/pq connection, since closing a
// migrator closes the connection it was given. The caller closes it.
func (d *DB) Migrator(t *testing.T) *migration.Migrator {
	t.Helper()
	conn, err := sql.Open("postgres", d.DSN)
	require.NoError(t, err)
	m, err := migration.New(conn, MigrationsPath(t), zap.NewNop())
	require.NoError(t, err)
	return m
}

// MigrationsPath walks up from this file to the repository's migrations directory
func MigrationsPath(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)

	dir := filepath.Dir(file)
	for i := 0; i < 6; i++ {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	t.Fatal("migrations directory not found")
	return ""
}

// Truncate empties every application table
func (d *DB) Truncate(t *testing.T) {
	t.Helper()
	require.NoError(t, d.DB.Exec(
		`TRUNCATE inventory_items, invoices, purchase_orders, projects, vehicle_models, users RESTART IDENTITY CASCADE`,
	).Error)
}
