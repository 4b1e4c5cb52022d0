package handlers

import (
	"context"

	"github.com/futig/assistant-backend/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the handlers use
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type QueryUsecase interface {
	Query(ctx context.Context, req *entity.QueryRequest) (*entity.QueryResult, error)
}

type SessionUsecase interface {
	CreateSession(ctx context.Context, title string, metadata map[string]any) (string, error)
	GetHistory(ctx context.Context, sessionID string, limit int) ([]entity.Message, error)
	ExportTranscript(ctx context.Context, sessionID string, format entity.ResultFormat) ([]byte, string, string, error)
}

// ChatSessions remembers which session a chat is writing to
type ChatSessions interface {
	Get(chatID int64) (string, bool)
	Set(chatID int64, sessionID string)
	Delete(chatID int64)
}

type Validator interface {
	ValidateQuery(req *entity.QueryRequest) error
}
