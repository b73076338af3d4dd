package sink

import (
	"context"
	"testing"

	"github.com/dvloznov/dataflow-etl/internal/config"
	"github.com/dvloznov/dataflow-etl/internal/sink/inmemory"
	"github.com/dvloznov/dataflow-etl/internal/sink/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	repo, err := Open(context.Background(), Options{Backend: "Memory"})
	require.NoError(t, err)
	assert.IsType(t, &inmemory.Store{}, repo)
}

func TestOpen_SQLite(t *testing.T) {
	repo, err := Open(context.Background(), Options{Backend: BackendSQLite, SQLitePath: ":memory:", Table: "records"})
	require.NoError(t, err)
	defer repo.Close()

	assert.IsType(t, &sqlite.Store{}, repo)
	assert.NoError(t, repo.EnsureTable(context.Background()))
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "dynamo"})
	assert.ErrorContains(t, err, `unknown backend "dynamo"`)
}

func TestOpen_BigQueryUnknownWriteMode(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: BackendBigQuery, Table: "records", WriteMode: "batch"})
	assert.ErrorContains(t, err, `unknown BigQuery write mode "batch"`)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(&config.Config{
		ProjectID:   "demo",
		Dataset:     "dataflow",
		Table:       "records",
		SinkBackend: "bigquery",
		BQWriteMode: "stream",
	})
	assert.Equal(t, "stream", opts.WriteMode)
	assert.Equal(t, "records", opts.Table)
	assert.Equal(t, "dataflow", opts.Dataset)
}
