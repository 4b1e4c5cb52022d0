package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/assistant-backend/internal/api"
	queryapi "github.com/futig/assistant-backend/internal/api/query"
	sessionapi "github.com/futig/assistant-backend/internal/api/session"
	systemapi "github.com/futig/assistant-backend/internal/api/system"
	"github.com/futig/assistant-backend/internal/telegram"
	"go.uber.org/zap"
)

// Build wires the HTTP application for environment
func Build(environment string) (*App, error) {
	ctx := context.Background()

	core, err := NewCore(ctx, environment)
	if err != nil {
		return nil, err
	}
	cfg, logger := core.Config, core.Logger

	if cfg.KnowledgeCfg.ReloadOnStart {
		if _, err := core.ReloadKnowledge(ctx); err != nil {
			// The service still answers from whatever the index already holds.
			logger.Error("initial knowledge reload failed", zap.Error(err))
		}
	}

	handlers := api.Handlers{
		Query:   queryapi.NewHandler(core.Query, core.Validator),
		Session: sessionapi.NewHandler(core.Sessions, core.Validator),
		System:  systemapi.NewHandler(core.Index, core.Loader, core.Models, cfg.EnableMocks),
	}
	logger.Info("API handlers initialized")

	router := api.SetupRouter(handlers, cfg.RequestTimeout, logger)
	logger.Info("HTTP router configured")

	// Generation can take most of RequestTimeout, so writes get a little more.
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	return &App{
		server:          server,
		core:            core,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}, nil
}

// BuildTelegramBot creates the Telegram bot. The caller closes the returned Core after stopping the bot.
func BuildTelegramBot(environment string) (telegram.Bot, *Core, error) {
	ctx := context.Background()

	core, err := NewCore(ctx, environment)
	if err != nil {
		return nil, nil, err
	}

	if err := core.Config.ValidateTelegram(); err != nil {
		core.Close(ctx)
		return nil, nil, fmt.Errorf("telegram config: %w", err)
	}

	bot, err := telegram.NewBot(&core.Config.TelegramCfg, core.Query, core.Sessions, core.Validator, core.Logger)
	if err != nil {
		core.Close(ctx)
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	core.Logger.Info("Telegram bot built successfully",
		zap.String("environment", core.Config.Environment),
	)

	return bot, core, nil
}
