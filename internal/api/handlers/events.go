package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dvloznov/dataflow-etl/internal/api/middleware"
	"github.com/dvloznov/dataflow-etl/internal/logger"
	"github.com/dvloznov/dataflow-etl/internal/trigger"
)

// maxEventBytes bounds the notification body; events carry metadata only.
const maxEventBytes = 1 << 20

// EventsHandler runs the pipeline for storage notifications delivered over HTTP.
type EventsHandler struct {
	processor trigger.Processor
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(processor trigger.Processor) *EventsHandler {
	return &EventsHandler{processor: processor}
}

// ServeHTTP handles POST of a storage notification and answers with the
// pipeline result, using its status code as the HTTP status.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ctx := r.Context()
	log := logger.FromContext(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Event body too large")
			return
		}
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	event, err := trigger.ParseEvent(body, middleware.GetRequestID(ctx))
	if err != nil {
		log.Warn().Err(err).Msg("Rejecting storage event")
		middleware.WriteError(w, http.StatusBadRequest, "Invalid storage event")
		return
	}

	res, err := h.processor.Process(ctx, event)
	if err != nil {
		log.Error().Err(err).Msg("Processing failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Processing failed")
		return
	}

	middleware.WriteJSON(w, res.StatusCode, res)
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
