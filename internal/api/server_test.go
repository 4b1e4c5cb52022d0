package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	queryapi "github.com/futig/assistant-backend/internal/api/query"
	sessionapi "github.com/futig/assistant-backend/internal/api/session"
	systemapi "github.com/futig/assistant-backend/internal/api/system"
	"github.com/futig/assistant-backend/internal/entity"
	"github.com/futig/assistant-backend/internal/pkg/formatter"
	"github.com/futig/assistant-backend/internal/pkg/validator"
	"github.com/futig/assistant-backend/internal/repository"
	sessionuc "github.com/futig/assistant-backend/internal/usecase/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeQuery struct {
	result *entity.QueryResult
	err    error
	last   *entity.QueryRequest
}

func (f *fakeQuery) Query(_ context.Context, req *entity.QueryRequest) (*entity.QueryResult, error) {
	f.last = req
	return f.result, f.err
}

type fakeIndex struct {
	count int
	err   error
}

func (f *fakeIndex) Count(context.Context) (int, error) { return f.count, f.err }

type fakeReloader struct {
	err error
}

func (f *fakeReloader) Reload(context.Context) (*entity.ReloadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &entity.ReloadResult{Files: 2, Chunks: 7}, nil
}

type fakeModels struct{}

func (fakeModels) ChatModel() string      { return "chat-test" }
func (fakeModels) EmbeddingModel() string { return "embed-test" }

type testServer struct {
	handler  http.Handler
	query    *fakeQuery
	index    *fakeIndex
	reloader *fakeReloader
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repo, err := repository.NewSessionSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(repo.Close)

	v := validator.New()
	sessions := sessionuc.NewUsecase(repo, formatter.NewFactory(), zap.NewNop())

	ts := &testServer{
		query:    &fakeQuery{},
		index:    &fakeIndex{count: 12},
		reloader: &fakeReloader{},
	}
	ts.handler = SetupRouter(Handlers{
		Query:   queryapi.NewHandler(ts.query, v),
		Session: sessionapi.NewHandler(sessions, v),
		System:  systemapi.NewHandler(ts.index, ts.reloader, fakeModels{}, true),
	}, 5*time.Second, zap.NewNop())
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestInfo(t *testing.T) {
	ts := newTestServer(t)

	info := decode[entity.InfoResponse](t, ts.do(t, http.MethodGet, "/info", nil))
	assert.Equal(t, "ready", info.Status)
	assert.Equal(t, 12, info.DocumentsCount)
	assert.Equal(t, "chat-test", info.ChatModel)
	assert.True(t, info.Mocks)

	ts.index.err = errors.New("index down")
	rec := ts.do(t, http.MethodGet, "/info", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "error", decode[entity.InfoResponse](t, rec).Status)
}

func TestReload(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/reload", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"chunks":7`)

	ts.reloader.err = errors.New("disk")
	rec = ts.do(t, http.MethodPost, "/reload", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestQueryEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.query.result = &entity.QueryResult{
		Answer:    `{"template":"centered"}`,
		Sources:   []entity.Source{},
		SessionID: "s1",
		Metadata: entity.QueryMetadata{
			TotalSources: 0,
			Query:        "Bonjour",
			SearchMethod: entity.SearchMethodSimilarity,
			Scenario:     entity.ScenarioLandingPage,
		},
	}

	rec := ts.do(t, http.MethodPost, "/query", map[string]any{"query": "Bonjour", "max_results": 3})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[entity.QueryResult](t, rec)
	assert.Equal(t, "s1", res.SessionID)
	assert.Equal(t, entity.ScenarioLandingPage, res.Metadata.Scenario)
	assert.NotContains(t, rec.Body.String(), "tag_used")
	assert.Equal(t, 3, ts.query.last.MaxResults)
}

func TestQueryEndpointErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		err    error
		status int
	}{
		{name: "empty query", body: map[string]any{"query": ""}, status: http.StatusBadRequest},
		{name: "bad json", body: "not an object", status: http.StatusBadRequest},
		{name: "unknown session", body: map[string]any{"query": "x"}, err: entity.ErrSessionNotFound, status: http.StatusNotFound},
		{
			name:   "generation failure",
			body:   map[string]any{"query": "x"},
			err:    &entity.GenerationError{Err: errors.New("model down")},
			status: http.StatusBadGateway,
		},
		{name: "store failure", body: map[string]any{"query": "x"}, err: entity.NewStoreError("add message", errors.New("disk")), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.query.err = tt.err

			rec := ts.do(t, http.MethodPost, "/query", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decode[entity.ErrorResponse](t, rec).Error)
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/sessions", map[string]any{"title": "Courses"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[entity.Session](t, rec)
	assert.Equal(t, "Courses", created.Title)
	require.NotEmpty(t, created.ID)

	rec = ts.do(t, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, strings.HasPrefix(decode[entity.Session](t, rec).Title, "Session "))

	list := decode[entity.SessionListResponse](t, ts.do(t, http.MethodGet, "/sessions?limit=10", nil))
	assert.Equal(t, 2, list.Total)

	rec = ts.do(t, http.MethodGet, "/sessions/"+created.ID+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"messages":[]`)

	rec = ts.do(t, http.MethodPut, "/sessions/"+created.ID, map[string]any{"title": "Cadeaux"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cadeaux", decode[entity.Session](t, rec).Title)

	rec = ts.do(t, http.MethodPut, "/sessions/"+created.ID, map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/sessions/"+created.ID+"/export?format=markdown", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".md")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "# Cadeaux"))

	rec = ts.do(t, http.MethodGet, "/sessions/"+created.ID+"/export?format=xls", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/sessions/"+created.ID+"/history", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionNotFound(t *testing.T) {
	ts := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/sessions/missing"},
		{http.MethodGet, "/sessions/missing/history"},
		{http.MethodGet, "/sessions/missing/export"},
		{http.MethodDelete, "/sessions/missing"},
	} {
		rec := ts.do(t, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
	}

	rec := ts.do(t, http.MethodPut, "/sessions/missing", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSessionsBadLimit(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/sessions?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodOptions, "/query", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSwaggerSpec(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/docs/swagger.yaml", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")
}
