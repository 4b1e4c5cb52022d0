package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/futig/assistant-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a disposable database in TEST_DATABASE_URL
func newTestPostgres(t *testing.T) *SessionPostgres {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	require.NoError(t, RunMigrations(url))

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)

	repo := NewSessionPostgres(pool)
	t.Cleanup(repo.Close)
	return repo
}

func TestSessionPostgres_Roundtrip(t *testing.T) {
	repo := newTestPostgres(t)
	ctx := context.Background()
	id := uuid.NewString()

	_, err := repo.CreateSession(ctx, entity.Session{ID: id, Title: "pg"})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = repo.DeleteSession(context.Background(), id) })

	addMessage(t, repo, id, entity.RoleUser, "q1")
	addMessage(t, repo, id, entity.RoleAssistant, "a1")
	addMessage(t, repo, id, entity.RoleUser, "q2")

	history, err := repo.GetHistory(ctx, id, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "a1", history[0].Content)
	assert.Equal(t, "q2", history[1].Content)

	_, err = repo.AddMessage(ctx, entity.Message{SessionID: uuid.NewString(), Role: entity.RoleUser, Content: "x"})
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)

	deleted, err := repo.DeleteSessionsUpdatedBefore(ctx, time.Now().Add(-24*time.Hour*365*50))
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
