package repository

import (
	"context"
	"time"

	"github.com/futig/assistant-backend/internal/entity"
)

// SessionRepository defines the interface for session and message persistence
type SessionRepository interface {
	CreateSession(ctx context.Context, session entity.Session) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	SessionExists(ctx context.Context, id string) (bool, error)
	// AddMessage verifies the session, inserts the message and bumps updated_at atomically
	AddMessage(ctx context.Context, msg entity.Message) (*entity.Message, error)
	// GetHistory returns the most recent limit messages, oldest first
	GetHistory(ctx context.Context, sessionID string, limit int) ([]entity.Message, error)
	ListSessions(ctx context.Context, limit int) ([]entity.SessionSummary, error)
	DeleteSession(ctx context.Context, id string) (bool, error)
	UpdateTitle(ctx context.Context, id, title string) (bool, error)
	DeleteSessionsUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Close()
}

type options struct {
	now func() time.Time
}

type Option func(*options)

// WithClock overrides the time source used for created_at, updated_at and message timestamps
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
