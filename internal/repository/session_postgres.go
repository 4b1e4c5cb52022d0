package repository

import (
	"context"
	"errors"
	"time"

	"github.com/futig/assistant-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ SessionRepository = &SessionPostgres{}

// SessionPostgres implements SessionRepository using PostgreSQL
type SessionPostgres struct {
	db   *pgxpool.Pool
	opts options
}

func NewSessionPostgres(db *pgxpool.Pool, opts ...Option) *SessionPostgres {
	return &SessionPostgres{
		db:   db,
		opts: buildOptions(opts),
	}
}

func (r *SessionPostgres) CreateSession(ctx context.Context, session entity.Session) (*entity.Session, error) {
	now := r.opts.now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	if session.Metadata == nil {
		session.Metadata = map[string]any{}
	}

	metadata, err := encodeMetadata(session.Metadata)
	if err != nil {
		return nil, entity.NewStoreError("create session", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO sessions (id, title, created_at, updated_at, metadata) VALUES ($1, $2, $3, $4, $5)`,
		session.ID, session.Title, session.CreatedAt, session.UpdatedAt, metadata,
	)
	if err != nil {
		return nil, entity.NewStoreError("create session", err)
	}

	return &session, nil
}

func (r *SessionPostgres) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	var (
		session  entity.Session
		metadata []byte
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, title, created_at, updated_at, metadata FROM sessions WHERE id = $1`, id,
	).Scan(&session.ID, &session.Title, &session.CreatedAt, &session.UpdatedAt, &metadata)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrSessionNotFound
	}
	if err != nil {
		return nil, entity.NewStoreError("get session", err)
	}

	session.Metadata = decodeMetadata(metadata)
	return &session, nil
}

func (r *SessionPostgres) SessionExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, entity.NewStoreError("session exists", err)
	}
	return exists, nil
}

func (r *SessionPostgres) AddMessage(ctx context.Context, msg entity.Message) (*entity.Message, error) {
	metadata, err := encodeMetadata(msg.Metadata)
	if err != nil {
		return nil, entity.NewStoreError("add message", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, entity.NewStoreError("add message", err)
	}
	defer tx.Rollback(ctx)

	var sessionID string
	err = tx.QueryRow(ctx, `SELECT id FROM sessions WHERE id = $1 FOR UPDATE`, msg.SessionID).Scan(&sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrSessionNotFound
	}
	if err != nil {
		return nil, entity.NewStoreError("add message", err)
	}

	msg.Timestamp = r.opts.now().UTC()
	if msg.Metadata == nil {
		msg.Metadata = map[string]any{}
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO messages (session_id, timestamp, role, content, metadata)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		msg.SessionID, msg.Timestamp, string(msg.Role), msg.Content, metadata,
	).Scan(&msg.ID)
	if err != nil {
		return nil, entity.NewStoreError("add message", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE sessions SET updated_at = $2 WHERE id = $1`, msg.SessionID, msg.Timestamp); err != nil {
		return nil, entity.NewStoreError("add message", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, entity.NewStoreError("add message", err)
	}

	return &msg, nil
}

func (r *SessionPostgres) GetHistory(ctx context.Context, sessionID string, limit int) ([]entity.Message, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, session_id, timestamp, role, content, metadata FROM (
			SELECT id, session_id, timestamp, role, content, metadata
			FROM messages WHERE session_id = $1
			ORDER BY timestamp DESC, id DESC
			LIMIT $2
		) recent ORDER BY timestamp ASC, id ASC`,
		sessionID, limit,
	)
	if err != nil {
		return nil, entity.NewStoreError("get history", err)
	}
	defer rows.Close()

	messages := make([]entity.Message, 0, limit)
	for rows.Next() {
		var (
			msg      entity.Message
			role     string
			metadata []byte
		)
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Timestamp, &role, &msg.Content, &metadata); err != nil {
			return nil, entity.NewStoreError("get history", err)
		}
		msg.Role = entity.Role(role)
		msg.Metadata = decodeMetadata(metadata)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, entity.NewStoreError("get history", err)
	}

	return messages, nil
}

func (r *SessionPostgres) ListSessions(ctx context.Context, limit int) ([]entity.SessionSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.id, s.title, s.created_at, s.updated_at, s.metadata, COUNT(m.id)
		 FROM sessions s LEFT JOIN messages m ON m.session_id = s.id
		 GROUP BY s.id
		 ORDER BY s.updated_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, entity.NewStoreError("list sessions", err)
	}
	defer rows.Close()

	summaries := make([]entity.SessionSummary, 0, limit)
	for rows.Next() {
		var (
			summary  entity.SessionSummary
			metadata []byte
			count    int64
		)
		err := rows.Scan(&summary.ID, &summary.Title, &summary.CreatedAt, &summary.UpdatedAt, &metadata, &count)
		if err != nil {
			return nil, entity.NewStoreError("list sessions", err)
		}
		summary.Metadata = decodeMetadata(metadata)
		summary.MessageCount = int(count)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, entity.NewStoreError("list sessions", err)
	}

	return summaries, nil
}

func (r *SessionPostgres) DeleteSession(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, entity.NewStoreError("delete session", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE session_id = $1`, id); err != nil {
		return false, entity.NewStoreError("delete session", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return false, entity.NewStoreError("delete session", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, entity.NewStoreError("delete session", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *SessionPostgres) UpdateTitle(ctx context.Context, id, title string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE sessions SET title = $2, updated_at = $3 WHERE id = $1`,
		id, title, r.opts.now().UTC(),
	)
	if err != nil {
		return false, entity.NewStoreError("update title", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *SessionPostgres) DeleteSessionsUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, entity.NewStoreError("cleanup sessions", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`DELETE FROM messages WHERE session_id IN (SELECT id FROM sessions WHERE updated_at < $1)`,
		cutoff.UTC(),
	)
	if err != nil {
		return 0, entity.NewStoreError("cleanup sessions", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM sessions WHERE updated_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, entity.NewStoreError("cleanup sessions", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, entity.NewStoreError("cleanup sessions", err)
	}

	return tag.RowsAffected(), nil
}

func (r *SessionPostgres) Close() {
	r.db.Close()
}
