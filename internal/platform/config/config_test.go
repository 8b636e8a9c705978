package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"DONORCHECK_ADDR", "ARTIFACTS_DIR", "LOG_LEVEL", "BATCH_WORKERS",
		"MAX_BATCH_SIZE", "BATCH_NORMALIZE_CATEGORIES", "REDIS_URL", "PREDICTION_CACHE_TTL"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "./artifacts", cfg.ArtifactsDir)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 1, cfg.Inference.BatchWorkers)
	assert.Equal(t, 1000, cfg.Inference.MaxBatchSize)
	assert.True(t, cfg.Inference.NormalizeBatchCategories)
	assert.Equal(t, 10*time.Minute, cfg.Inference.CacheTTL)
	assert.Empty(t, cfg.Redis.URL)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DONORCHECK_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("BATCH_WORKERS", "4")
	t.Setenv("BATCH_NORMALIZE_CATEGORIES", "false")
	t.Setenv("PREDICTION_CACHE_TTL", "30s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 4, cfg.Inference.BatchWorkers)
	assert.False(t, cfg.Inference.NormalizeBatchCategories)
	assert.Equal(t, 30*time.Second, cfg.Inference.CacheTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestFromEnvMalformedFallsBack(t *testing.T) {
	t.Setenv("BATCH_WORKERS", "many")
	t.Setenv("BATCH_NORMALIZE_CATEGORIES", "maybe")

	cfg := FromEnv()
	assert.Equal(t, 1, cfg.Inference.BatchWorkers)
	assert.True(t, cfg.Inference.NormalizeBatchCategories)
}

func TestValidate(t *testing.T) {
	cfg := FromEnv()
	cfg.Inference.BatchWorkers = 0
	assert.ErrorContains(t, cfg.Validate(), "BATCH_WORKERS")

	cfg = FromEnv()
	cfg.Inference.MaxBatchSize = 0
	assert.ErrorContains(t, cfg.Validate(), "MAX_BATCH_SIZE")
}
