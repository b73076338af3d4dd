package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dvloznov/dataflow-etl/internal/domain"
	"github.com/dvloznov/dataflow-etl/internal/logger"
)

// PipelineStep represents a single step in the ingestion pipeline.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state of one invocation across all steps.
type PipelineState struct {
	Event      TriggerEvent
	FileName   string
	UploadTime int64

	Text   string
	Rows   *RowReader
	Header []string

	Batch BatchResult
}

// Step 1: FetchObjectStep downloads the object and decodes it to text.
type FetchObjectStep struct {
	Storage StorageService
}

func (s *FetchObjectStep) Execute(ctx context.Context, state *PipelineState) error {
	data, err := s.Storage.FetchObject(ctx, state.Event.Bucket, state.Event.Key)
	if err != nil {
		return fmt.Errorf("FetchObjectStep: fetching gs://%s/%s: %w", state.Event.Bucket, state.Event.Key, err)
	}

	text, err := DecodeText(data)
	if err != nil {
		return fmt.Errorf("FetchObjectStep: %w", err)
	}
	state.Text = text
	return nil
}

// Step 2: CheckHeaderStep parses the header line and rejects the file when
// it is malformed.
type CheckHeaderStep struct{}

func (s *CheckHeaderStep) Execute(ctx context.Context, state *PipelineState) error {
	rows := NewRowReader(state.Text)
	header, err := rows.ReadHeader()
	if err != nil {
		return fmt.Errorf("CheckHeaderStep: %w", err)
	}
	state.Rows = rows
	state.Header = header
	state.Batch.Headers = header
	return nil
}

// Step 3: ProcessRowsStep normalizes, enriches and writes every data record
// in file order. Malformed records and failed writes are counted as skipped.
type ProcessRowsStep struct {
	Sink  RecordSink
	NewID IDGenerator
}

func (s *ProcessRowsStep) Execute(ctx context.Context, state *PipelineState) error {
	log := logger.FromContext(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("ProcessRowsStep: stopped after %d records: %w", state.Batch.Written+state.Batch.Skipped, err)
		}

		raw, line, err := state.Rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("Skipping malformed row")
			state.Batch.Skipped++
			continue
		}

		rec := Enrich(Normalize(raw), state.FileName, state.UploadTime, s.NewID)

		if err := s.Sink.UpsertRecord(ctx, rec); err != nil {
			log.Error().Err(err).Int("line", line).Str("record_id", rec.RecordID).Msg("Failed to write record")
			state.Batch.Skipped++
			continue
		}
		state.Batch.Written++
	}

	return nil
}

// Step 4: SummarizeStep sends the batch summary. Delivery is best effort:
// a failure is logged here and never returned.
type SummarizeStep struct {
	Notifier Notifier
	Now      func() time.Time
}

func (s *SummarizeStep) Execute(ctx context.Context, state *PipelineState) error {
	if s.Notifier == nil {
		return nil
	}

	summary := domain.Summary{
		FileName:     state.FileName,
		Bucket:       state.Event.Bucket,
		Key:          state.Event.Key,
		InvocationID: state.Event.InvocationID,
		CompletedAt:  s.Now().UTC(),
		Written:      state.Batch.Written,
		Skipped:      state.Batch.Skipped,
		Headers:      state.Batch.Headers,
	}

	if err := s.Notifier.Notify(ctx, summary); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Msg("Summary notification failed")
	}
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially and stops at the first
// error.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// isRejection reports whether a pipeline error ends the invocation with a
// client-error result instead of a failure.
func isRejection(err error) bool {
	return errors.Is(err, ErrInvalidHeader)
}
