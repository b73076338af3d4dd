// Package sink selects the record destination the pipeline writes to.
package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvloznov/dataflow-etl/internal/config"
	"github.com/dvloznov/dataflow-etl/internal/domain"
	infraBQ "github.com/dvloznov/dataflow-etl/internal/infra/bigquery"
	"github.com/dvloznov/dataflow-etl/internal/sink/inmemory"
	"github.com/dvloznov/dataflow-etl/internal/sink/postgres"
	"github.com/dvloznov/dataflow-etl/internal/sink/sqlite"
)

// Backend names accepted by Open.
const (
	BackendBigQuery = "bigquery"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Repository is a record destination. Every backend upserts on record_id.
type Repository interface {
	UpsertRecord(ctx context.Context, rec *domain.Record) error
	ListRecordsByFile(ctx context.Context, fileName string) ([]*domain.Record, error)
	EnsureTable(ctx context.Context) error
	Close() error
}

// Options locate the destination of one backend.
type Options struct {
	Backend string

	// Table is the destination table name for every backend but memory.
	Table string

	// BigQuery
	ProjectID string
	Dataset   string
	WriteMode string

	// Postgres
	DatabaseURL string

	// SQLite
	SQLitePath string
}

// Open connects to the configured backend.
func Open(ctx context.Context, opts Options) (Repository, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendBigQuery:
		mode, err := infraBQ.ParseWriteMode(opts.WriteMode)
		if err != nil {
			return nil, fmt.Errorf("sink open: %w", err)
		}
		repo, err := infraBQ.NewBigQueryRecordRepository(ctx, infraBQ.TableRef{
			ProjectID: opts.ProjectID,
			DatasetID: opts.Dataset,
			TableID:   opts.Table,
		}, mode)
		if err != nil {
			return nil, fmt.Errorf("sink open: %w", err)
		}
		return repo, nil
	case BackendPostgres:
		store, err := postgres.NewStore(ctx, opts.DatabaseURL, opts.Table)
		if err != nil {
			return nil, fmt.Errorf("sink open: %w", err)
		}
		return store, nil
	case BackendSQLite:
		store, err := sqlite.Open(opts.SQLitePath, opts.Table)
		if err != nil {
			return nil, fmt.Errorf("sink open: %w", err)
		}
		return store, nil
	case BackendMemory:
		return inmemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("sink open: unknown backend %q", opts.Backend)
	}
}

var (
	_ Repository = (*infraBQ.BigQueryRecordRepository)(nil)
	_ Repository = (*postgres.Store)(nil)
	_ Repository = (*sqlite.Store)(nil)
	_ Repository = (*inmemory.Store)(nil)
)

// OptionsFromConfig picks the sink settings out of the process configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Backend:     cfg.SinkBackend,
		Table:       cfg.Table,
		ProjectID:   cfg.ProjectID,
		Dataset:     cfg.Dataset,
		WriteMode:   cfg.BQWriteMode,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
	}
}
