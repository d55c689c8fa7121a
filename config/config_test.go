package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/taskmaster-go/apperror"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STORAGE_DRIVER", "SQLITE_PATH", "DB_MIGRATE", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"DB_HOST", "DB_PORT", "DB_POOL_SIZE", "JWT_SECRET", "JWT_TOKEN_DURATION",
		"AUTH_RATE_LIMIT", "AUTH_RATE_BURST", "PORT", "CORS_ALLOWED_ORIGINS", "REQUEST_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigPostgresDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_USER", "task")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "taskmaster")
	t.Setenv("JWT_SECRET", "jwt-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.Migrate)
	assert.Equal(t, "localhost", cfg.Storage.Postgres.Host)
	assert.Equal(t, 5432, cfg.Storage.Postgres.Port)
	assert.Equal(t, 10, cfg.Storage.Postgres.MaxSize)
	assert.Equal(t, 720*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoadConfigSQLiteNeedsNoDatabaseCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/tasks.db")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:4200, https://tasks.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Nil(t, cfg.Storage.Postgres)
	assert.Equal(t, "/tmp/tasks.db", cfg.Storage.SQLitePath)
	assert.Equal(t, []string{"http://localhost:4200", "https://tasks.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoadConfigCollectsAllErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("JWT_TOKEN_DURATION", "forever")

	_, err := LoadConfig()
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{"DB_USER", "DB_PASSWORD", "DB_NAME", "JWT_SECRET", "DB_PORT", "JWT_TOKEN_DURATION"} {
		assert.Contains(t, msg, want)
	}
	ae, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ConfigError, ae.Type)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "mysql")
	t.Setenv("JWT_SECRET", "jwt-secret")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestLoadConfigPoolSizeOutOfRange(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_USER", "task")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "taskmaster")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("DB_POOL_SIZE", "500")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_POOL_SIZE")
}
