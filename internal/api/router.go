// Package api exposes the pipeline over HTTP for HTTP-triggered deployments
// and local testing.
package api

import (
	"net/http"

	"github.com/dvloznov/dataflow-etl/internal/api/handlers"
	"github.com/dvloznov/dataflow-etl/internal/api/middleware"
	"github.com/dvloznov/dataflow-etl/internal/trigger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter routes GET /health to the health check and every other path to
// the events handler. The function runtime may mount the handler under the
// function name, so events are not tied to a fixed path.
func NewRouter(p trigger.Processor, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))

	r.Get("/health", handlers.Health)
	r.Handle("/*", handlers.NewEventsHandler(p))

	return r
}
