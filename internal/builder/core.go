package builder

import (
	"context"
	"fmt"

	"github.com/futig/assistant-backend/internal/config"
	"github.com/futig/assistant-backend/internal/entity"
	"github.com/futig/assistant-backend/internal/integration/index"
	"github.com/futig/assistant-backend/internal/integration/ingest"
	"github.com/futig/assistant-backend/internal/integration/llm"
	"github.com/futig/assistant-backend/internal/pkg/formatter"
	"github.com/futig/assistant-backend/internal/pkg/tracing"
	"github.com/futig/assistant-backend/internal/pkg/validator"
	"github.com/futig/assistant-backend/internal/prompt"
	"github.com/futig/assistant-backend/internal/repository"
	"github.com/futig/assistant-backend/internal/scenario"
	"github.com/futig/assistant-backend/internal/usecase/query"
	"github.com/futig/assistant-backend/internal/usecase/session"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// documentIndex is satisfied by both the Chroma connector and its mock
type documentIndex interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]entity.Chunk, error)
	LabelSearch(ctx context.Context, label string, limit int) ([]entity.Chunk, error)
	Upsert(ctx context.Context, chunks []entity.IndexedChunk) error
	Reset(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	FlushLabelCache()
}

// languageModel is satisfied by both the OpenAI connector and its mock
type languageModel interface {
	Generate(ctx context.Context, instruction string) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
	ChatModel() string
	EmbeddingModel() string
}

// Core holds the services shared by the HTTP server, the bot and the admin CLI
type Core struct {
	Config    *config.Config
	Logger    *zap.Logger
	Sessions  *session.SessionUsecase
	Query     *query.QueryUsecase
	Loader    *ingest.Loader
	Index     documentIndex
	Models    languageModel
	Validator *validator.Validator

	sessionRepo     repository.SessionRepository
	tracingShutdown tracing.ShutdownFunc
}

// NewCore loads configuration for environment and wires every service
func NewCore(ctx context.Context, environment string) (*Core, error) {
	cfg, err := config.LoadConfig(environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	return buildCore(ctx, cfg, logger)
}

func buildCore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Core, error) {
	logger.Info("Building core services",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.StorageDriver),
		zap.Bool("mocks", cfg.EnableMocks),
	)

	shutdownTracing, err := tracing.Init(cfg.TracingCfg, cfg.Environment, logger)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	sessionRepo, err := setupSessionRepository(ctx, cfg, logger)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, err
	}

	var (
		models languageModel
		docs   documentIndex
	)
	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		models = llm.NewMockConnector(logger)
		docs = index.NewMockConnector()
	} else {
		logger.Info("Using real connectors for external services")
		models = llm.NewConnector(cfg.LLMCfg, logger)
		docs = index.NewConnector(cfg.IndexCfg, models, logger)
	}

	vocab := scenario.DefaultVocabulary()
	if cfg.VocabularyPath != "" {
		vocab, err = scenario.LoadVocabulary(cfg.VocabularyPath)
		if err != nil {
			sessionRepo.Close()
			_ = shutdownTracing(ctx)
			return nil, fmt.Errorf("load vocabulary: %w", err)
		}
		logger.Info("vocabulary loaded", zap.String("path", cfg.VocabularyPath))
	}
	intents := scenario.NewIntents(vocab)

	sessionUC := session.NewUsecase(sessionRepo, formatter.NewFactory(), logger)
	queryUC := query.NewUsecase(
		sessionUC,
		docs,
		models,
		scenario.NewClassifier(vocab),
		prompt.NewComposer(),
		query.Intents{Product: intents.Product, Recommendation: intents.Recommendation},
		query.OptionsFromConfig(cfg.QueryCfg),
		logger,
	)
	loader := ingest.NewLoader(cfg.KnowledgeCfg, models, docs)
	logger.Info("Use cases initialized")

	return &Core{
		Config:          cfg,
		Logger:          logger,
		Sessions:        sessionUC,
		Query:           queryUC,
		Loader:          loader,
		Index:           docs,
		Models:          models,
		Validator:       validator.New(),
		sessionRepo:     sessionRepo,
		tracingShutdown: shutdownTracing,
	}, nil
}

// ReloadKnowledge rebuilds the index from the knowledge directory, logging through the core logger
func (c *Core) ReloadKnowledge(ctx context.Context) (*entity.ReloadResult, error) {
	return c.Loader.Reload(ctxzap.ToContext(ctx, c.Logger))
}

// Close releases the session store and flushes pending spans
func (c *Core) Close(ctx context.Context) {
	if c.sessionRepo != nil {
		c.sessionRepo.Close()
	}
	if c.tracingShutdown != nil {
		if err := c.tracingShutdown(ctx); err != nil {
			c.Logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}
	_ = c.Logger.Sync()
}
