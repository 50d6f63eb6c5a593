package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.Cache.CartTTL)
	assert.Equal(t, 60*time.Minute, cfg.Cache.ListingTTL)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.False(t, cfg.MinIO.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CACHE_LISTING_TTL", "5m")
	t.Setenv("MINIO_ENABLED", "true")
	t.Setenv("JOB_BATCH_SIZE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Cache.ListingTTL)
	assert.True(t, cfg.MinIO.Enabled)
	assert.Equal(t, 500, cfg.Job.BatchSize)
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("DB_PASSWORD", "")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_RETRY_DELAY", "250ms")

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)

	t.Setenv("DB_PORT", "abc")
	_, err = LoadDatabaseConfig()
	assert.Error(t, err)
}
