package api

import (
	"net/http"
	"time"

	"github.com/futig/assistant-backend/internal/api/docs"
	"github.com/futig/assistant-backend/internal/api/middleware"
	queryapi "github.com/futig/assistant-backend/internal/api/query"
	sessionapi "github.com/futig/assistant-backend/internal/api/session"
	systemapi "github.com/futig/assistant-backend/internal/api/system"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted on the router
type Handlers struct {
	Query   *queryapi.Handler
	Session *sessionapi.Handler
	System  *systemapi.Handler
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(h Handlers, requestTimeout time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS)
	r.Use(chimiddleware.Timeout(requestTimeout))

	docs.RegisterRoutes(r)

	systemapi.RegisterRoutes(r, h.System)
	queryapi.RegisterRoutes(r, h.Query)
	sessionapi.RegisterRoutes(r, h.Session)

	return r
}
