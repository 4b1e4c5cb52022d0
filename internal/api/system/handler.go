package system

import (
	"net/http"

	"github.com/futig/assistant-backend/internal/entity"
	"github.com/futig/assistant-backend/internal/pkg/logger"
	"github.com/futig/assistant-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	statusHealthy = "healthy"
	statusReady   = "ready"
	statusError   = "error"
)

type Handler struct {
	index    Index
	reloader Reloader
	models   ModelInfo
	mocks    bool
}

func NewHandler(index Index, reloader Reloader, models ModelInfo, mocks bool) *Handler {
	return &Handler{
		index:    index,
		reloader: reloader,
		models:   models,
		mocks:    mocks,
	}
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"status": statusHealthy})
}

// Info handles GET /info. Index failures are reported in the body, not as an HTTP error.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Info")

	info := entity.InfoResponse{
		Status:         statusReady,
		ChatModel:      h.models.ChatModel(),
		EmbeddingModel: h.models.EmbeddingModel(),
		Mocks:          h.mocks,
	}

	count, err := h.index.Count(ctx)
	if err != nil {
		ctxzap.Warn(ctx, "failed to count indexed chunks", zap.Error(err))
		info.Status = statusError
	}
	info.DocumentsCount = count

	response.Success(w, info)
}

// Reload handles POST /reload
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Reload")

	result, err := h.reloader.Reload(ctx)
	if err != nil {
		response.Error(ctx, w, http.StatusInternalServerError, "failed to reload knowledge base", err)
		return
	}

	ctxzap.Info(ctx, "knowledge base reloaded via API",
		zap.Int("files", result.Files),
		zap.Int("chunks", result.Chunks),
	)
	response.Success(w, map[string]any{
		"status": "success",
		"result": result,
	})
}
