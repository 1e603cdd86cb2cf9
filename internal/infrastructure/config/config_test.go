package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fleetEnvKeys = []string{
	"FLEET_APP_NAME",
	"FLEET_APP_ENV",
	"FLEET_APP_PORT",
	"FLEET_DATABASE_DRIVER",
	"FLEET_DATABASE_HOST",
	"FLEET_DATABASE_PORT",
	"FLEET_DATABASE_USER",
	"FLEET_DATABASE_PASSWORD",
	"FLEET_DATABASE_DBNAME",
	"FLEET_DATABASE_SSLMODE",
	"FLEET_DATABASE_MAX_OPEN_CONNS",
	"FLEET_DATABASE_MAX_IDLE_CONNS",
	"FLEET_REDIS_ENABLED",
	"FLEET_CART_TTL",
	"FLEET_AUDIT_SCHEDULE",
	"FLEET_HTTP_CORS_ALLOW_ORIGINS",
}

// clearEnv blanks every FLEET_ key for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range fleetEnvKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "fleet-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "fleet", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "fleet:cart:", cfg.Cart.KeyPrefix)
		assert.Equal(t, 12*time.Hour, cfg.Cart.TTL)
		assert.Equal(t, "*/15 * * * *", cfg.Audit.Schedule)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("loads values from environment variables with FLEET prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FLEET_APP_NAME", "test-app")
		t.Setenv("FLEET_APP_PORT", "9000")
		t.Setenv("FLEET_DATABASE_HOST", "testdb.local")
		t.Setenv("FLEET_DATABASE_PORT", "5433")
		t.Setenv("FLEET_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("FLEET_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("FLEET_CART_TTL", "30m")
		t.Setenv("FLEET_AUDIT_SCHEDULE", "@hourly")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, 30*time.Minute, cfg.Cart.TTL)
		assert.Equal(t, "@hourly", cfg.Audit.Schedule)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FLEET_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("FLEET_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FLEET_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("rejects tiny cart ttl", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FLEET_CART_TTL", "5s")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cart.ttl")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FLEET_APP_ENV", "production")
		t.Setenv("FLEET_DATABASE_PASSWORD", "secure-password")
		t.Setenv("FLEET_DATABASE_SSLMODE", "require")
		t.Setenv("FLEET_REDIS_ENABLED", "true")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FLEET_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FLEET_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("requires redis carts in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FLEET_REDIS_ENABLED", "false")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis.enabled")
	})

	t.Run("rejects sqlite in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FLEET_DATABASE_DRIVER", "sqlite")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "/testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", cfg.Addr())
}
