package telegram

import (
	"context"
	"fmt"

	"github.com/futig/assistant-backend/internal/config"
	"github.com/futig/assistant-backend/internal/telegram/bot"
	"github.com/futig/assistant-backend/internal/telegram/handlers"
	"github.com/futig/assistant-backend/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot authorizes against the Bot API and wires the chat handlers
func NewBot(
	cfg *config.TelegramConfig,
	queryUC handlers.QueryUsecase,
	sessionUC handlers.SessionUsecase,
	validator handlers.Validator,
	logger *zap.Logger,
) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	chats := state.NewChatSessions(cfg.SessionTTL)
	handler := handlers.NewHandler(api, queryUC, sessionUC, chats, validator, logger)

	logger.Info("telegram bot initialized successfully")

	return bot.New(api, cfg, handler, logger), nil
}
