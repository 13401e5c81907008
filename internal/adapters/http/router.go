package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/learnforge/mesh/services/learning-platform/M12-learner-context-service/internal/application"
)

// Pinger is the slice of the cache store the readiness probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	service *application.Service
	store   Pinger
}

func NewHandler(service *application.Service, store Pinger) *Handler {
	return &Handler{service: service, store: store}
}

func NewRouter(handler *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", handler.ready)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/learners/{user_id}", func(r chi.Router) {
			r.Get("/snapshot", handler.getSnapshot)
			r.Get("/summary", handler.getSummary)
			r.Delete("/cache", handler.invalidateSnapshot)
		})
	})
	return r
}
