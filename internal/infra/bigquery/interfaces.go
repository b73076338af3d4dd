package bigquery

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/dataflow-etl/internal/domain"
)

// RecordRepository provides record persistence and lookup.
type RecordRepository interface {
	// UpsertRecord writes a record, replacing any stored row with the same record_id.
	UpsertRecord(ctx context.Context, rec *domain.Record) error

	// ListRecordsByFile returns the stored records of one source file.
	ListRecordsByFile(ctx context.Context, fileName string) ([]*domain.Record, error)

	// EnsureTable creates the destination table if it does not exist.
	EnsureTable(ctx context.Context) error

	Close() error
}

// WriteMode selects how records reach the table.
type WriteMode string

const (
	// WriteModeMerge runs one MERGE per record. Writes are true upserts on
	// record_id, but each is a DML job that takes seconds and BigQuery
	// queues mutating DML per table.
	WriteModeMerge WriteMode = "merge"

	// WriteModeStream uses the streaming inserter with record_id as insert
	// id. It is fast, but deduplication is best effort.
	WriteModeStream WriteMode = "stream"
)

// ParseWriteMode converts a configured mode name. Empty means merge.
func ParseWriteMode(s string) (WriteMode, error) {
	switch mode := WriteMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return WriteModeMerge, nil
	case WriteModeMerge, WriteModeStream:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown BigQuery write mode %q", s)
	}
}

// BigQueryRecordRepository is the concrete implementation of RecordRepository
// that interacts with BigQuery. It holds a shared BigQuery client to avoid
// creating a new connection for each operation.
type BigQueryRecordRepository struct {
	client *bigquery.Client
	table  TableRef
	mode   WriteMode
}

// NewBigQueryRecordRepository creates a repository for the given table with a
// shared BigQuery client.
func NewBigQueryRecordRepository(ctx context.Context, table TableRef, mode WriteMode) (*BigQueryRecordRepository, error) {
	client, err := bigquery.NewClient(ctx, table.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryRecordRepository: creating client: %w", err)
	}
	return &BigQueryRecordRepository{
		client: client,
		table:  table,
		mode:   mode,
	}, nil
}

// Close closes the BigQuery client connection. This should be called when
// the repository is no longer needed to release resources.
func (r *BigQueryRecordRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// UpsertRecord writes the record with the repository's write mode.
func (r *BigQueryRecordRepository) UpsertRecord(ctx context.Context, rec *domain.Record) error {
	if r.mode == WriteModeStream {
		return InsertRecordWithClient(ctx, r.client, r.table, rec)
	}
	return UpsertRecordWithClient(ctx, r.client, r.table, rec)
}

// ListRecordsByFile delegates to ListRecordsByFileWithClient with the shared client.
func (r *BigQueryRecordRepository) ListRecordsByFile(ctx context.Context, fileName string) ([]*domain.Record, error) {
	return ListRecordsByFileWithClient(ctx, r.client, r.table, fileName)
}

// EnsureTable delegates to EnsureRecordsTableWithClient with the shared client.
func (r *BigQueryRecordRepository) EnsureTable(ctx context.Context) error {
	return EnsureRecordsTableWithClient(ctx, r.client, r.table)
}

var _ RecordRepository = (*BigQueryRecordRepository)(nil)
