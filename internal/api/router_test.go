package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dvloznov/dataflow-etl/internal/logger"
	"github.com/dvloznov/dataflow-etl/internal/pipeline"
	"github.com/stretchr/testify/assert"
)

type recordingProcessor struct {
	events []pipeline.TriggerEvent
}

func (p *recordingProcessor) Process(ctx context.Context, event pipeline.TriggerEvent) (*pipeline.Result, error) {
	p.events = append(p.events, event)
	return &pipeline.Result{StatusCode: pipeline.StatusOK, Body: "0 rows from data.csv cleaned and processed successfully."}, nil
}

func TestRouter(t *testing.T) {
	proc := &recordingProcessor{}
	router := NewRouter(proc, logger.NewWithWriter(&bytes.Buffer{}))

	for _, path := range []string{"/", "/events", "/ProcessCSVHTTP"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"bucket":"uploads","name":"data.csv"}`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), path)
	}
	assert.Len(t, proc.events, 3)
	assert.NotEmpty(t, proc.events[0].InvocationID)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, proc.events, 3)
}
