package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/assistant-backend/internal/config"
	"github.com/futig/assistant-backend/internal/telegram/handlers"
	"github.com/futig/assistant-backend/internal/telegram/middleware"
	"github.com/futig/assistant-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// UpdateHandler is implemented by *handlers.Handler
type UpdateHandler interface {
	HandleCommand(ctx context.Context, msg *handlers.Message) error
	HandleText(ctx context.Context, msg *handlers.Message) error
	HandleCallback(ctx context.Context, msg *handlers.Message) error
}

// Bot represents the Telegram bot
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	handler     UpdateHandler
	sender      *handlers.MessageSender
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	slots       chan struct{}
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// New creates a new Telegram bot
func New(
	api *tgbotapi.BotAPI,
	cfg *config.TelegramConfig,
	handler UpdateHandler,
	logger *zap.Logger,
) *Bot {
	maxConcurrent := cfg.MaxConcurrentUsers
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return &Bot{
		api:         api,
		cfg:         cfg,
		handler:     handler,
		sender:      handlers.NewMessageSender(api, logger),
		logger:      logger,
		loggingMW:   middleware.NewLoggingMiddleware(logger),
		recoveryMW:  middleware.NewRecoveryMiddleware(logger, api),
		rateLimitMW: middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger, api),
		slots:       make(chan struct{}, maxConcurrent),
		stopChan:    make(chan struct{}),
	}
}

// Start starts polling for updates
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot",
		zap.String("username", b.api.Self.UserName),
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	updates := b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx, updates)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()
	b.rateLimitMW.Close()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.slots <- struct{}{}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer func() {
					<-b.slots
					b.wg.Done()
				}()
				b.handleUpdateWithMiddleware(ctx, u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware runs rate limit, logging and recovery, in that order
func (b *Bot) handleUpdateWithMiddleware(ctx context.Context, update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				b.handleUpdate(ctx, u3)
			})
		})
	})
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	kind, msg := toMessage(update)
	if msg == nil {
		return
	}

	ctx = ctxzap.ToContext(ctx, b.logger.With(
		zap.Int64("chat_id", msg.ChatID),
		zap.Int64("user_id", msg.UserID),
	))

	if err := dispatch(ctx, b.handler, kind, msg); err != nil {
		ctxzap.Error(ctx, "handler error", zap.Error(err), zap.String("kind", string(kind)))
		b.sender.Send(msg.ChatID, render.ClassifyError(err), nil)
	}
}
