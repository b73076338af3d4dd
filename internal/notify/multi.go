package notify

import (
	"context"
	"errors"

	"github.com/dvloznov/dataflow-etl/internal/domain"
	"github.com/dvloznov/dataflow-etl/internal/logger"
)

// Notifier is implemented by every summary channel.
type Notifier interface {
	Notify(ctx context.Context, s domain.Summary) error
}

// MultiNotifier sends each summary to all of its notifiers in order. One
// failing channel does not stop the others; the errors are joined.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, s domain.Summary) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes the summary to the context logger. It is the channel of
// last resort for dry runs and local development.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, s domain.Summary) error {
	subject, body := FormatMessage(s)
	log := logger.FromContext(ctx)
	log.Info().
		Str("subject", subject).
		Int("written", s.Written).
		Int("skipped", s.Skipped).
		Msg(body)
	return nil
}
