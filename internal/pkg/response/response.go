package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/assistant-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		// Status is already sent, an encode failure can only be dropped
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error writes an error response and logs the cause
func Error(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}

	JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// FromError maps a use case error onto an HTTP status
func FromError(ctx context.Context, w http.ResponseWriter, err error) {
	var genErr *entity.GenerationError
	var retrievalErr *entity.RetrievalError

	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		Error(ctx, w, http.StatusNotFound, "session not found", err)
	case errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrMissingField):
		Error(ctx, w, http.StatusBadRequest, err.Error(), err)
	case errors.As(err, &genErr), errors.As(err, &retrievalErr):
		Error(ctx, w, http.StatusBadGateway, "failed to generate answer", err)
	default:
		Error(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}

// Success writes a success response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 Created response
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
