package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/futig/assistant-backend/internal/entity"
	"github.com/futig/assistant-backend/internal/pkg/logger"
	"github.com/futig/assistant-backend/internal/pkg/response"
	"github.com/futig/assistant-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   SessionUsecase
	validator *validator.Validator
}

func NewHandler(usecase SessionUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// CreateSession handles POST /sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")

	var req entity.CreateSessionRequest
	// Empty body means default title
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateCreateSession(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	sessionID, err := h.usecase.CreateSession(ctx, req.Title, req.Metadata)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	session, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "session created", zap.String("session_id", sessionID))
	response.Created(w, session)
}

// ListSessions handles GET /sessions?limit=
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListSessions")

	limit, err := parseLimit(r)
	if err != nil {
		response.Error(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	sessions, err := h.usecase.ListSessions(ctx, limit)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, toListResponse(sessions))
}

// GetSession handles GET /sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "GetSession"),
	)

	session, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, session)
}

// GetHistory handles GET /sessions/{id}/history?limit=. Unknown sessions are a 404.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "GetHistory"),
	)

	limit, err := parseLimit(r)
	if err != nil {
		response.Error(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	if _, err := h.usecase.GetSession(ctx, sessionID); err != nil {
		response.FromError(ctx, w, err)
		return
	}

	messages, err := h.usecase.GetHistory(ctx, sessionID, limit)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	ctxzap.Debug(ctx, "history fetched", zap.Int("messages", len(messages)))
	response.Success(w, toHistoryResponse(sessionID, messages))
}

// UpdateSession handles PUT /sessions/{id}
func (h *Handler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "UpdateSession"),
	)

	var req entity.UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateUpdateSession(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	updated, err := h.usecase.UpdateTitle(ctx, sessionID, req.Title)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}
	if !updated {
		response.FromError(ctx, w, entity.ErrSessionNotFound)
		return
	}

	session, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "session renamed")
	response.Success(w, session)
}

// DeleteSession handles DELETE /sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "DeleteSession"),
	)

	deleted, err := h.usecase.DeleteSession(ctx, sessionID)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}
	if !deleted {
		response.FromError(ctx, w, entity.ErrSessionNotFound)
		return
	}

	ctxzap.Info(ctx, "session deleted")
	response.NoContent(w)
}

// ExportSession handles GET /sessions/{id}/export?format=markdown|pdf|docx
func (h *Handler) ExportSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "ExportSession"),
	)

	format := entity.ResultFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatMarkdown
	}

	data, contentType, ext, err := h.usecase.ExportTranscript(ctx, sessionID, format)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	filename := validator.SanitizeFilename("session_" + sessionID + ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		ctxzap.Warn(ctx, "failed to write export", zap.Error(err))
	}
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", entity.ErrInvalidParameter)
	}
	return limit, nil
}
