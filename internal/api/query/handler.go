package query

import (
	"encoding/json"
	"net/http"

	"github.com/futig/assistant-backend/internal/entity"
	"github.com/futig/assistant-backend/internal/pkg/logger"
	"github.com/futig/assistant-backend/internal/pkg/response"
	"github.com/futig/assistant-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   QueryUsecase
	validator *validator.Validator
}

func NewHandler(usecase QueryUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// Query handles POST /query
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Query")

	var req entity.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateQuery(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	ctxzap.Info(ctx, "handling query",
		zap.Int("query_length", len(req.Query)),
		zap.Bool("has_session", req.SessionID != nil),
		zap.Int("max_results", req.MaxResults),
	)

	result, err := h.usecase.Query(ctx, &req)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, result)
}
