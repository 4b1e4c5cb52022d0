package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/futig/assistant-backend/internal/entity"
	_ "github.com/mattn/go-sqlite3"
)

var _ SessionRepository = &SessionSQLite{}

// SessionSQLite implements SessionRepository on an embedded SQLite file
type SessionSQLite struct {
	db   *sql.DB
	opts options
}

// NewSessionSQLite opens dsn (a file path or ":memory:") and applies the schema
func NewSessionSQLite(dsn string, opts ...Option) (*SessionSQLite, error) {
	inMemory := isMemoryDSN(dsn)

	db, err := sql.Open("sqlite3", sqliteDSN(dsn, inMemory))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Every connection to :memory: is a separate database
	if inMemory {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	r := &SessionSQLite{db: db, opts: buildOptions(opts)}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return r, nil
}

func isMemoryDSN(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// sqliteDSN sets the per-connection options every pooled connection needs.
// Writers take the lock when the transaction begins and wait for it instead of failing.
func sqliteDSN(dsn string, inMemory bool) string {
	params := []string{"_foreign_keys=on", "_busy_timeout=5000", "_txlock=immediate"}
	if !inMemory {
		params = append(params, "_journal_mode=WAL")
	}

	var missing []string
	for _, p := range params {
		key, _, _ := strings.Cut(p, "=")
		if !strings.Contains(dsn, key+"=") {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(missing, "&")
}

func (r *SessionSQLite) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
			content TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session_ts ON messages(session_id, timestamp, id)`,
	}

	for _, m := range migrations {
		if _, err := r.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

func (r *SessionSQLite) CreateSession(ctx context.Context, session entity.Session) (*entity.Session, error) {
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

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, title, created_at, updated_at, metadata) VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.Title, formatSQLiteTime(now), formatSQLiteTime(now), metadata,
	)
	if err != nil {
		return nil, entity.NewStoreError("create session", err)
	}

	return &session, nil
}

func (r *SessionSQLite) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	var (
		session              entity.Session
		createdAt, updatedAt string
		metadata             string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, created_at, updated_at, metadata FROM sessions WHERE id = ?`, id,
	).Scan(&session.ID, &session.Title, &createdAt, &updatedAt, &metadata)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrSessionNotFound
	}
	if err != nil {
		return nil, entity.NewStoreError("get session", err)
	}

	if session.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
		return nil, entity.NewStoreError("get session", err)
	}
	if session.UpdatedAt, err = parseSQLiteTime(updatedAt); err != nil {
		return nil, entity.NewStoreError("get session", err)
	}
	session.Metadata = decodeMetadata([]byte(metadata))

	return &session, nil
}

func (r *SessionSQLite) SessionExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM sessions WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, entity.NewStoreError("session exists", err)
	}
	return exists, nil
}

func (r *SessionSQLite) AddMessage(ctx context.Context, msg entity.Message) (*entity.Message, error) {
	metadata, err := encodeMetadata(msg.Metadata)
	if err != nil {
		return nil, entity.NewStoreError("add message", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, entity.NewStoreError("add message", err)
	}
	defer tx.Rollback()

	var sessionID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM sessions WHERE id = ?`, msg.SessionID).Scan(&sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrSessionNotFound
	}
	if err != nil {
		return nil, entity.NewStoreError("add message", err)
	}

	msg.Timestamp = r.opts.now().UTC()
	if msg.Metadata == nil {
		msg.Metadata = map[string]any{}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO messages (session_id, timestamp, role, content, metadata) VALUES (?, ?, ?, ?, ?)`,
		msg.SessionID, formatSQLiteTime(msg.Timestamp), string(msg.Role), msg.Content, metadata,
	)
	if err != nil {
		return nil, entity.NewStoreError("add message", err)
	}
	if msg.ID, err = res.LastInsertId(); err != nil {
		return nil, entity.NewStoreError("add message", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE sessions SET updated_at = ? WHERE id = ?`, formatSQLiteTime(msg.Timestamp), msg.SessionID,
	)
	if err != nil {
		return nil, entity.NewStoreError("add message", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, entity.NewStoreError("add message", err)
	}

	return &msg, nil
}

func (r *SessionSQLite) GetHistory(ctx context.Context, sessionID string, limit int) ([]entity.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, timestamp, role, content, metadata FROM (
			SELECT id, session_id, timestamp, role, content, metadata
			FROM messages WHERE session_id = ?
			ORDER BY timestamp DESC, id DESC
			LIMIT ?
		) ORDER BY timestamp ASC, id ASC`,
		sessionID, limit,
	)
	if err != nil {
		return nil, entity.NewStoreError("get history", err)
	}
	defer rows.Close()

	messages := make([]entity.Message, 0, limit)
	for rows.Next() {
		var (
			msg                entity.Message
			ts, role, metadata string
		)
		if err := rows.Scan(&msg.ID, &msg.SessionID, &ts, &role, &msg.Content, &metadata); err != nil {
			return nil, entity.NewStoreError("get history", err)
		}
		if msg.Timestamp, err = parseSQLiteTime(ts); err != nil {
			return nil, entity.NewStoreError("get history", err)
		}
		msg.Role = entity.Role(role)
		msg.Metadata = decodeMetadata([]byte(metadata))
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, entity.NewStoreError("get history", err)
	}

	return messages, nil
}

func (r *SessionSQLite) ListSessions(ctx context.Context, limit int) ([]entity.SessionSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.title, s.created_at, s.updated_at, s.metadata, COUNT(m.id)
		 FROM sessions s LEFT JOIN messages m ON m.session_id = s.id
		 GROUP BY s.id
		 ORDER BY s.updated_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, entity.NewStoreError("list sessions", err)
	}
	defer rows.Close()

	summaries := make([]entity.SessionSummary, 0, limit)
	for rows.Next() {
		var (
			summary                        entity.SessionSummary
			createdAt, updatedAt, metadata string
		)
		err := rows.Scan(&summary.ID, &summary.Title, &createdAt, &updatedAt, &metadata, &summary.MessageCount)
		if err != nil {
			return nil, entity.NewStoreError("list sessions", err)
		}
		if summary.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
			return nil, entity.NewStoreError("list sessions", err)
		}
		if summary.UpdatedAt, err = parseSQLiteTime(updatedAt); err != nil {
			return nil, entity.NewStoreError("list sessions", err)
		}
		summary.Metadata = decodeMetadata([]byte(metadata))
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, entity.NewStoreError("list sessions", err)
	}

	return summaries, nil
}

func (r *SessionSQLite) DeleteSession(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, entity.NewStoreError("delete session", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, id); err != nil {
		return false, entity.NewStoreError("delete session", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return false, entity.NewStoreError("delete session", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, entity.NewStoreError("delete session", err)
	}

	if err := tx.Commit(); err != nil {
		return false, entity.NewStoreError("delete session", err)
	}

	return affected > 0, nil
}

func (r *SessionSQLite) UpdateTitle(ctx context.Context, id, title string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET title = ?, updated_at = ? WHERE id = ?`,
		title, formatSQLiteTime(r.opts.now()), id,
	)
	if err != nil {
		return false, entity.NewStoreError("update title", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, entity.NewStoreError("update title", err)
	}
	return affected > 0, nil
}

func (r *SessionSQLite) DeleteSessionsUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, entity.NewStoreError("cleanup sessions", err)
	}
	defer tx.Rollback()

	bound := formatSQLiteTime(cutoff)
	_, err = tx.ExecContext(ctx,
		`DELETE FROM messages WHERE session_id IN (SELECT id FROM sessions WHERE updated_at < ?)`, bound,
	)
	if err != nil {
		return 0, entity.NewStoreError("cleanup sessions", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, bound)
	if err != nil {
		return 0, entity.NewStoreError("cleanup sessions", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, entity.NewStoreError("cleanup sessions", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, entity.NewStoreError("cleanup sessions", err)
	}

	return affected, nil
}

func (r *SessionSQLite) Close() {
	r.db.Close()
}
