package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/dataflow-etl/internal/logger"
	"github.com/google/uuid"
)

// Deps are the clients a Driver works with. They are built once per process
// and shared by every invocation.
type Deps struct {
	Storage  StorageService
	Sink     RecordSink
	Notifier Notifier

	// NewID and Now default to uuid.NewString and time.Now.
	NewID IDGenerator
	Now   func() time.Time
}

// Driver runs the CSV ingestion for one trigger event at a time.
type Driver struct {
	deps Deps
}

// NewDriver creates a Driver with the given dependencies.
func NewDriver(deps Deps) *Driver {
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Driver{deps: deps}
}

// Process fetches the object named by the event, writes one record per valid
// row and sends the summary.
//
// A malformed header yields a 400 result with nothing written. Fetch and
// decode failures are returned as errors; per-row problems only show up in
// the counts.
func (d *Driver) Process(ctx context.Context, event TriggerEvent) (*Result, error) {
	if event.Bucket == "" || event.Key == "" {
		return nil, fmt.Errorf("Process: %w", ErrInvalidEvent)
	}

	log := logger.FromContext(ctx).With().
		Str("bucket", event.Bucket).
		Str("key", event.Key).
		Str("invocation_id", event.InvocationID).
		Logger()
	ctx = logger.WithContext(ctx, log)

	state := &PipelineState{
		Event:      event,
		FileName:   event.FileName(),
		UploadTime: d.deps.Now().Unix(),
	}

	log.Info().Str("file_name", state.FileName).Msg("Processing object")

	p := NewPipeline(
		&FetchObjectStep{Storage: d.deps.Storage},
		&CheckHeaderStep{},
		&ProcessRowsStep{Sink: d.deps.Sink, NewID: d.deps.NewID},
		&SummarizeStep{Notifier: d.deps.Notifier, Now: d.deps.Now},
	)

	if err := p.Execute(ctx, state); err != nil {
		if isRejection(err) {
			log.Warn().Err(err).Msg("Rejecting object with invalid headers")
			return &Result{
				StatusCode: StatusBadRequest,
				Body:       InvalidHeaderBody,
			}, nil
		}
		return nil, fmt.Errorf("Process: %w", err)
	}

	log.Info().
		Int("written", state.Batch.Written).
		Int("skipped", state.Batch.Skipped).
		Strs("headers", state.Batch.Headers).
		Msg("Object processed")

	return &Result{
		StatusCode: StatusOK,
		Body:       fmt.Sprintf(successBodyFormat, state.Batch.Written, state.FileName),
		Batch:      state.Batch,
	}, nil
}
