package session

import (
	"context"

	"github.com/futig/assistant-backend/internal/entity"
)

type SessionUsecase interface {
	CreateSession(ctx context.Context, title string, metadata map[string]any) (string, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	GetHistory(ctx context.Context, sessionID string, limit int) ([]entity.Message, error)
	ListSessions(ctx context.Context, limit int) ([]entity.SessionSummary, error)
	UpdateTitle(ctx context.Context, sessionID, title string) (bool, error)
	DeleteSession(ctx context.Context, sessionID string) (bool, error)
	ExportTranscript(ctx context.Context, sessionID string, format entity.ResultFormat) ([]byte, string, string, error)
}
