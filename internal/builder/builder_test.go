package builder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/futig/assistant-backend/internal/config"
	"github.com/futig/assistant-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mockConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		StorageDriver: config.StorageSQLite,
		SQLitePath:    ":memory:",
		EnableMocks:   true,
		LogLevel:      "info",
		QueryCfg: config.QueryConfig{
			MemoryMessages:     5,
			SimilarityTopK:     10,
			ProductLabelLimit:  15,
			FallbackLabelLimit: 10,
			FallbackMinSources: 3,
			DefaultMaxResults:  5,
		},
		KnowledgeCfg: config.KnowledgeConfig{
			Path:         t.TempDir(),
			ChunkSize:    1000,
			ChunkOverlap: 200,
		},
		Environment: "test",
	}
}

func TestSetupLogger(t *testing.T) {
	logger, err := setupLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	_, err = setupLogger("loud")
	assert.Error(t, err)
}

func TestBuildCore_MockPipeline(t *testing.T) {
	ctx := context.Background()
	core, err := buildCore(ctx, mockConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer core.Close(ctx)

	assert.Equal(t, "mock", core.Models.ChatModel())

	result, err := core.Query.Query(ctx, &entity.QueryRequest{Query: "Combien coûte l'iPhone ?"})
	require.NoError(t, err)
	require.NotEmpty(t, result.SessionID)
	assert.Contains(t, result.Answer, "Combien coûte l'iPhone ?")
	assert.NotEmpty(t, result.Sources)

	history, err := core.Sessions.GetHistory(ctx, result.SessionID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entity.RoleUser, history[0].Role)
	assert.Equal(t, entity.RoleAssistant, history[1].Role)
}

func TestBuildCore_ReloadKnowledge(t *testing.T) {
	ctx := context.Background()
	cfg := mockConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.KnowledgeCfg.Path, "livraison.md"),
		[]byte("La livraison est offerte dès 50 euros d'achat."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.KnowledgeCfg.Path, "image.png"), []byte{0x89}, 0o644))

	core, err := buildCore(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer core.Close(ctx)

	result, err := core.ReloadKnowledge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Files)
	assert.Equal(t, 1, result.Chunks)

	count, err := core.Index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBuildCore_BadVocabularyPath(t *testing.T) {
	cfg := mockConfig(t)
	cfg.VocabularyPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := buildCore(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
