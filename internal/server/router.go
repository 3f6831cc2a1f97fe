package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pilcrow-ai/pilcrow/internal/api"
	"github.com/pilcrow-ai/pilcrow/internal/api/handlers"
	"github.com/pilcrow-ai/pilcrow/internal/api/middleware"
)

type RouterConfig struct {
	IngestionHandler *handlers.IngestionHandler
	QueryHandler     *handlers.QueryHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Big enough for PDF uploads; query bodies are tiny.
	const maxBodyBytes int64 = 32 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.Sentry)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ingest", cfg.IngestionHandler.Ingest)
		r.Post("/query", cfg.QueryHandler.Query)
	})

	return r
}
