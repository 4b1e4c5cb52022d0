package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("ENABLE_MOCKS", "true")

	cfg, err := Parse("test")
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, StorageSQLite, cfg.StorageDriver)
	assert.Equal(t, 5, cfg.QueryCfg.MemoryMessages)
	assert.Equal(t, 10, cfg.QueryCfg.SimilarityTopK)
	assert.Equal(t, 15, cfg.QueryCfg.ProductLabelLimit)
	assert.Equal(t, 10, cfg.QueryCfg.FallbackLabelLimit)
	assert.Equal(t, 3, cfg.QueryCfg.FallbackMinSources)
	assert.Equal(t, 5, cfg.QueryCfg.DefaultMaxResults)
	assert.False(t, cfg.QueryCfg.RegenerateAfterClassify)
	assert.False(t, cfg.QueryCfg.InjectMemoryIntoRetrieval)
	assert.Equal(t, 1000, cfg.KnowledgeCfg.ChunkSize)
	assert.Equal(t, 200, cfg.KnowledgeCfg.ChunkOverlap)
	assert.Equal(t, uint(3), cfg.IndexCfg.Retry.Attempts)
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("ENABLE_MOCKS", "true")
	t.Setenv("QUERY_REGENERATE_AFTER_CLASSIFY", "true")
	t.Setenv("INDEX_SERVICE_URL", "http://chroma:8000")
	t.Setenv("INDEX_RETRY_ATTEMPTS", "5")

	cfg, err := Parse("test")
	require.NoError(t, err)
	assert.True(t, cfg.QueryCfg.RegenerateAfterClassify)
	assert.Equal(t, "http://chroma:8000", cfg.IndexCfg.Url)
	assert.Equal(t, uint(5), cfg.IndexCfg.Retry.Attempts)
}

func TestParse_CollectsAllValidationErrors(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("QUERY_SIMILARITY_TOP_K", "0")

	_, err := Parse("test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
	assert.Contains(t, err.Error(), "LLM_API_KEY is required")
	assert.Contains(t, err.Error(), "QUERY_SIMILARITY_TOP_K must be positive")
}

func TestValidateTelegram(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateTelegram())

	cfg.TelegramCfg.BotToken = "token"
	assert.NoError(t, cfg.ValidateTelegram())
}

func TestGetEnvFile(t *testing.T) {
	assert.Equal(t, ".env.prod", getEnvFile("production"))
	assert.Equal(t, ".env.local", getEnvFile("dev"))
	assert.Equal(t, ".env.staging", getEnvFile("staging"))
}
