package pipeline

import (
	"context"

	"github.com/dvloznov/dataflow-etl/internal/domain"
)

// StorageService is an interface for object storage reads.
type StorageService interface {
	// FetchObject downloads the whole object.
	FetchObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// RecordSink persists enriched records. Writing the same record_id twice
// must leave the destination as if it had been written once.
type RecordSink interface {
	UpsertRecord(ctx context.Context, rec *domain.Record) error
}

// Notifier delivers the batch summary. Errors are reported to the caller,
// which logs and drops them.
type Notifier interface {
	Notify(ctx context.Context, summary domain.Summary) error
}
