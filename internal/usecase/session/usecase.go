package session

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/assistant-backend/internal/entity"
	"github.com/futig/assistant-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	defaultTitleLayout  = "Session 2006-01-02 15:04"
	defaultHistoryLimit = 50
	defaultListLimit    = 20
	exportHistoryLimit  = 10000
)

// SessionUsecase owns conversation threads and their message history
type SessionUsecase struct {
	sessionRepo repository.SessionRepository
	formatters  FormatterFactory
	now         func() time.Time
	logger      *zap.Logger
}

type Option func(*SessionUsecase)

// WithClock overrides the time source used for default titles and cleanup cutoffs
func WithClock(now func() time.Time) Option {
	return func(uc *SessionUsecase) {
		uc.now = now
	}
}

// NewUsecase creates a new session use case
func NewUsecase(
	sessionRepo repository.SessionRepository,
	formatters FormatterFactory,
	logger *zap.Logger,
	opts ...Option,
) *SessionUsecase {
	uc := &SessionUsecase{
		sessionRepo: sessionRepo,
		formatters:  formatters,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// CreateSession stores a new empty session and returns its id
func (uc *SessionUsecase) CreateSession(ctx context.Context, title string, metadata map[string]any) (string, error) {
	if title == "" {
		title = uc.now().Format(defaultTitleLayout)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	created, err := uc.sessionRepo.CreateSession(ctx, entity.Session{
		ID:       uuid.New().String(),
		Title:    title,
		Metadata: metadata,
	})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	ctxzap.Debug(ctx, "session created", zap.String("session_id", created.ID))
	return created.ID, nil
}

func (uc *SessionUsecase) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := uc.sessionRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// SessionExists reports false both for unknown ids and for storage failures
func (uc *SessionUsecase) SessionExists(ctx context.Context, sessionID string) bool {
	exists, err := uc.sessionRepo.SessionExists(ctx, sessionID)
	if err != nil {
		ctxzap.Error(ctx, "failed to check session existence",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return false
	}
	return exists
}

// AddMessage appends a message and bumps the session's updated_at in one unit
func (uc *SessionUsecase) AddMessage(
	ctx context.Context, sessionID string, role entity.Role, content string, metadata map[string]any,
) (int64, error) {
	if err := role.Validate(); err != nil {
		return 0, err
	}

	msg, err := uc.sessionRepo.AddMessage(ctx, entity.Message{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Metadata:  metadata,
	})
	if err != nil {
		return 0, fmt.Errorf("add message: %w", err)
	}

	return msg.ID, nil
}

// GetHistory returns the most recent limit messages, oldest first
func (uc *SessionUsecase) GetHistory(ctx context.Context, sessionID string, limit int) ([]entity.Message, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	messages, err := uc.sessionRepo.GetHistory(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return messages, nil
}

func (uc *SessionUsecase) ListSessions(ctx context.Context, limit int) ([]entity.SessionSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	sessions, err := uc.sessionRepo.ListSessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (uc *SessionUsecase) DeleteSession(ctx context.Context, sessionID string) (bool, error) {
	deleted, err := uc.sessionRepo.DeleteSession(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return deleted, nil
}

func (uc *SessionUsecase) UpdateTitle(ctx context.Context, sessionID, title string) (bool, error) {
	if title == "" {
		return false, fmt.Errorf("%w: title", entity.ErrMissingField)
	}

	updated, err := uc.sessionRepo.UpdateTitle(ctx, sessionID, title)
	if err != nil {
		return false, fmt.Errorf("update title: %w", err)
	}
	return updated, nil
}

// BuildContext renders the last maxMessages messages as a prompt-ready transcript.
// Read failures degrade to an empty context.
func (uc *SessionUsecase) BuildContext(ctx context.Context, sessionID string, maxMessages int) string {
	if maxMessages <= 0 {
		return ""
	}

	messages, err := uc.sessionRepo.GetHistory(ctx, sessionID, maxMessages)
	if err != nil {
		ctxzap.Error(ctx, "failed to read history for context",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return ""
	}

	return renderContext(messages)
}

// CleanupOlderThan deletes sessions whose last activity is older than days
func (uc *SessionUsecase) CleanupOlderThan(ctx context.Context, days int) (int64, error) {
	if days < 0 {
		return 0, fmt.Errorf("%w: days must be non-negative", entity.ErrInvalidParameter)
	}

	cutoff := uc.now().Add(-time.Duration(days) * 24 * time.Hour)
	deleted, err := uc.sessionRepo.DeleteSessionsUpdatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}

	ctxzap.Info(ctx, "old sessions cleaned up",
		zap.Int("days", days),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}

// ExportTranscript renders the whole history of a session in the requested format
func (uc *SessionUsecase) ExportTranscript(
	ctx context.Context, sessionID string, format entity.ResultFormat,
) ([]byte, string, string, error) {
	if !format.IsValid() {
		return nil, "", "", fmt.Errorf("%w: %q", entity.ErrInvalidFormat, format)
	}

	session, err := uc.sessionRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, "", "", fmt.Errorf("get session: %w", err)
	}

	messages, err := uc.sessionRepo.GetHistory(ctx, sessionID, exportHistoryLimit)
	if err != nil {
		return nil, "", "", fmt.Errorf("get history: %w", err)
	}

	f, err := uc.formatters.Create(format)
	if err != nil {
		return nil, "", "", fmt.Errorf("create formatter: %w", err)
	}

	data, err := f.Format(transcriptDocument(session, messages))
	if err != nil {
		return nil, "", "", fmt.Errorf("format transcript as %s: %w", format, err)
	}

	return data, f.ContentType(), f.FileExtension(), nil
}
