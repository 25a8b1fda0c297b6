package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "touchline-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, "touchline", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "authenticated", cfg.Auth.Audience)
		assert.Equal(t, []string{"admin"}, cfg.Auth.AdminRoles)
		assert.Equal(t, "exercise-videos", cfg.Storage.Bucket)
		assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
		assert.True(t, cfg.Cache.FallbackToMemory)
	})

	t.Run("loads values from environment variables with TOUCHLINE prefix", func(t *testing.T) {
		t.Setenv("TOUCHLINE_APP_PORT", "9000")
		t.Setenv("TOUCHLINE_DATABASE_DRIVER", "sqlite")
		t.Setenv("TOUCHLINE_DATABASE_SQLITE_PATH", "/tmp/catalog.db")
		t.Setenv("TOUCHLINE_AUTH_JWT_SECRET", "secret")
		t.Setenv("TOUCHLINE_STORAGE_BUCKET", "videos")
		t.Setenv("TOUCHLINE_CACHE_FALLBACK_TO_MEMORY", "false")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, "/tmp/catalog.db", cfg.Database.DSN())
		assert.Equal(t, "secret", cfg.Auth.JWTSecret)
		assert.Equal(t, "videos", cfg.Storage.Bucket)
		assert.False(t, cfg.Cache.FallbackToMemory)
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		t.Setenv("TOUCHLINE_DATABASE_DRIVER", "mysql")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("rejects idle connections above open connections", func(t *testing.T) {
		t.Setenv("TOUCHLINE_DATABASE_MAX_OPEN_CONNS", "2")
		t.Setenv("TOUCHLINE_DATABASE_MAX_IDLE_CONNS", "5")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		t.Setenv("TOUCHLINE_APP_ENV", "production")
		t.Setenv("TOUCHLINE_AUTH_JWT_SECRET", "short")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("storage credentials required when enabled", func(t *testing.T) {
		t.Setenv("TOUCHLINE_STORAGE_ENABLED", "true")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.access_key_id")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Driver:   DriverPostgres,
		Host:     "db",
		Port:     5432,
		User:     "coach",
		Password: "p@ss word",
		DBName:   "touchline",
		SSLMode:  "require",
	}
	assert.Equal(t, "postgres://coach:p%40ss%20word@db:5432/touchline?sslmode=require", d.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
