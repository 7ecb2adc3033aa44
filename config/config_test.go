package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, time.Hour, cfg.Scheduler.Interval)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "legacy-secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("EVENTS_DATABASE_DRIVER", "sqlite")
	t.Setenv("EVENTS_REDIS_ENABLED", "true")
	t.Setenv("EVENTS_SCHEDULER_INTERVAL", "15m")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "legacy-secret", cfg.JWT.Secret)
	assert.Equal(t, "db", cfg.DB.Host)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.Interval)
}

func TestLoadConfigPrefixedWinsOverLegacy(t *testing.T) {
	t.Setenv("JWT_SECRET", "legacy")
	t.Setenv("EVENTS_JWT_SECRET", "prefixed")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.JWT.Secret)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "environment: production\nserver:\n  address: \":9090\"\nlogging:\n  level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestPostgresDSN(t *testing.T) {
	_, err := DatabaseConfig{Host: "db"}.PostgresDSN()
	assert.Error(t, err)

	dsn, err := DatabaseConfig{DSN: "postgres://x"}.PostgresDSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://x", dsn)

	dsn, err = DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "events"}.PostgresDSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "host=db user=u password=p dbname=events port=5432")
}
