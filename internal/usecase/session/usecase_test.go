package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/futig/assistant-backend/internal/entity"
	"github.com/futig/assistant-backend/internal/pkg/formatter"
	"github.com/futig/assistant-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestUsecase(t *testing.T) (*SessionUsecase, *testClock) {
	t.Helper()

	clock := &testClock{now: time.Date(2024, 5, 17, 14, 30, 0, 0, time.UTC)}
	repo, err := repository.NewSessionSQLite(":memory:", repository.WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(repo.Close)

	return NewUsecase(repo, formatter.NewFactory(), zap.NewNop(), WithClock(clock.Now)), clock
}

func TestCreateSession_DefaultTitle(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	id, err := uc.CreateSession(ctx, "", nil)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	session, err := uc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Session 2024-05-17 14:30", session.Title)
	assert.NotNil(t, session.Metadata)
	assert.True(t, uc.SessionExists(ctx, id))
}

func TestCreateSession_UniqueIDs(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	a, err := uc.CreateSession(ctx, "a", nil)
	require.NoError(t, err)
	b, err := uc.CreateSession(ctx, "b", nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSessionExists_Unknown(t *testing.T) {
	uc, _ := newTestUsecase(t)
	assert.False(t, uc.SessionExists(context.Background(), "nope"))
}

type failingExistsRepo struct {
	repository.SessionRepository
}

func (failingExistsRepo) SessionExists(context.Context, string) (bool, error) {
	return false, entity.NewStoreError("session exists", errors.New("disk I/O error"))
}

func TestSessionExists_StorageFailureReportsFalse(t *testing.T) {
	uc := NewUsecase(failingExistsRepo{}, formatter.NewFactory(), zap.NewNop())
	assert.False(t, uc.SessionExists(context.Background(), "any"))
}

func TestAddMessage_UnknownSessionWritesNothing(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	_, err := uc.AddMessage(ctx, "ghost", entity.RoleUser, "hello", nil)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)

	history, err := uc.GetHistory(ctx, "ghost", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAddMessage_InvalidRole(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	id, err := uc.CreateSession(ctx, "t", nil)
	require.NoError(t, err)

	_, err = uc.AddMessage(ctx, id, entity.Role("system"), "x", nil)
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestAddMessage_AppearsLastInHistory(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	id, err := uc.CreateSession(ctx, "t", nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := uc.AddMessage(ctx, id, entity.RoleUser, "old", nil)
		require.NoError(t, err)
	}
	msgID, err := uc.AddMessage(ctx, id, entity.RoleAssistant, "latest", map[string]any{"scenario": "informative"})
	require.NoError(t, err)

	history, err := uc.GetHistory(ctx, id, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	last := history[len(history)-1]
	assert.Equal(t, msgID, last.ID)
	assert.Equal(t, "latest", last.Content)
	assert.Equal(t, "informative", last.Metadata["scenario"])
}

func TestBuildContext(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	id, err := uc.CreateSession(ctx, "t", nil)
	require.NoError(t, err)

	assert.Equal(t, "", uc.BuildContext(ctx, id, 5))

	_, err = uc.AddMessage(ctx, id, entity.RoleUser, "Avez-vous des casques ?", nil)
	require.NoError(t, err)
	_, err = uc.AddMessage(ctx, id, entity.RoleAssistant, strings.Repeat("x", 501), nil)
	require.NoError(t, err)
	_, err = uc.AddMessage(ctx, id, entity.RoleAssistant, strings.Repeat("é", 500), nil)
	require.NoError(t, err)

	got := uc.BuildContext(ctx, id, 5)
	expected := "Utilisateur: Avez-vous des casques ?\n" +
		"Assistant: [Réponse JSON générée]\n" +
		"Assistant: " + strings.Repeat("é", 500)
	assert.Equal(t, expected, got)

	assert.Equal(t, "Assistant: "+strings.Repeat("é", 500), uc.BuildContext(ctx, id, 1))
	assert.Equal(t, "", uc.BuildContext(ctx, "unknown", 5))
}

func TestDeleteSession_RemovesHistory(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	id, err := uc.CreateSession(ctx, "t", nil)
	require.NoError(t, err)
	_, err = uc.AddMessage(ctx, id, entity.RoleUser, "q", nil)
	require.NoError(t, err)

	deleted, err := uc.DeleteSession(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, uc.SessionExists(ctx, id))

	history, err := uc.GetHistory(ctx, id, 10)
	require.NoError(t, err)
	assert.Empty(t, history)

	deleted, err = uc.DeleteSession(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestUpdateTitle(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	id, err := uc.CreateSession(ctx, "t", nil)
	require.NoError(t, err)

	updated, err := uc.UpdateTitle(ctx, id, "Cadeaux de Noël")
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = uc.UpdateTitle(ctx, "unknown", "x")
	require.NoError(t, err)
	assert.False(t, updated)

	_, err = uc.UpdateTitle(ctx, id, "")
	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestListSessions_MostRecentlyUpdatedFirst(t *testing.T) {
	uc, clock := newTestUsecase(t)
	ctx := context.Background()

	first, err := uc.CreateSession(ctx, "first", nil)
	require.NoError(t, err)
	clock.now = clock.now.Add(time.Minute)
	second, err := uc.CreateSession(ctx, "second", nil)
	require.NoError(t, err)
	clock.now = clock.now.Add(time.Minute)
	_, err = uc.AddMessage(ctx, first, entity.RoleUser, "bump", nil)
	require.NoError(t, err)

	sessions, err := uc.ListSessions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first, sessions[0].ID)
	assert.Equal(t, 1, sessions[0].MessageCount)
	assert.Equal(t, second, sessions[1].ID)
}

func TestCleanupOlderThan_UsesLastActivity(t *testing.T) {
	uc, clock := newTestUsecase(t)
	ctx := context.Background()

	stale, err := uc.CreateSession(ctx, "stale", nil)
	require.NoError(t, err)
	busy, err := uc.CreateSession(ctx, "busy", nil)
	require.NoError(t, err)

	clock.now = clock.now.Add(10 * 24 * time.Hour)
	_, err = uc.AddMessage(ctx, busy, entity.RoleUser, "still shopping", nil)
	require.NoError(t, err)

	deleted, err := uc.CleanupOlderThan(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.False(t, uc.SessionExists(ctx, stale))
	assert.True(t, uc.SessionExists(ctx, busy))

	_, err = uc.CleanupOlderThan(ctx, -1)
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestExportTranscript_Markdown(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	id, err := uc.CreateSession(ctx, "Export", nil)
	require.NoError(t, err)
	_, err = uc.AddMessage(ctx, id, entity.RoleUser, "Bonjour", nil)
	require.NoError(t, err)
	_, err = uc.AddMessage(ctx, id, entity.RoleAssistant, "Bienvenue", nil)
	require.NoError(t, err)

	data, contentType, ext, err := uc.ExportTranscript(ctx, id, entity.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "text/markdown; charset=utf-8", contentType)
	assert.Equal(t, ".md", ext)
	assert.Contains(t, string(data), "# Export")
	assert.Contains(t, string(data), "## Utilisateur (2024-05-17 14:30:00)\n\nBonjour")
	assert.Contains(t, string(data), "Bienvenue")

	_, _, _, err = uc.ExportTranscript(ctx, "missing", entity.FormatMarkdown)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)

	_, _, _, err = uc.ExportTranscript(ctx, id, entity.ResultFormat("rtf"))
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}
