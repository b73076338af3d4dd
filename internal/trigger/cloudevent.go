package trigger

import (
	"context"
	"fmt"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/dvloznov/dataflow-etl/internal/logger"
	"github.com/dvloznov/dataflow-etl/internal/pipeline"
	"github.com/rs/zerolog"
)

// Processor runs the pipeline for one trigger event.
type Processor interface {
	Process(ctx context.Context, event pipeline.TriggerEvent) (*pipeline.Result, error)
}

// FromCloudEvent extracts the trigger event from a CloudEvent. The event id
// becomes the invocation id.
func FromCloudEvent(e event.Event) (pipeline.TriggerEvent, error) {
	return ParseEvent(e.Data(), e.ID())
}

// NewCloudEventHandler returns a CloudEvent function that processes the
// object named by each event.
//
// Both results of the return contract acknowledge the event; only fatal
// failures are returned so the platform records a failed invocation.
func NewCloudEventHandler(p Processor, log zerolog.Logger) func(context.Context, event.Event) error {
	return func(ctx context.Context, e event.Event) error {
		evtLog := log.With().
			Str("event_id", e.ID()).
			Str("event_type", e.Type()).
			Logger()
		ctx = logger.WithContext(ctx, evtLog)

		trig, err := FromCloudEvent(e)
		if err != nil {
			evtLog.Error().Err(err).Msg("Ignoring unreadable storage event")
			return fmt.Errorf("CloudEvent %s: %w", e.ID(), err)
		}

		res, err := p.Process(ctx, trig)
		if err != nil {
			evtLog.Error().Err(err).Msg("Processing failed")
			return fmt.Errorf("CloudEvent %s: %w", e.ID(), err)
		}

		evtLog.Info().
			Int("status_code", res.StatusCode).
			Str("body", res.Body).
			Msg("Invocation finished")
		return nil
	}
}
