package postgres

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/dvloznov/dataflow-etl/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteTable(t *testing.T) {
	assert.Equal(t, `"records"`, quoteTable("records"))
	assert.Equal(t, `"odd""name"`, quoteTable(`odd"name`))
}

func TestUpsertSQL_IsKeyedOnRecordID(t *testing.T) {
	sql := strings.Join(strings.Fields(upsertSQL(`"records"`)), " ")
	assert.Contains(t, sql, `INSERT INTO "records"`)
	assert.Contains(t, sql, "ON CONFLICT (record_id) DO UPDATE SET")
}

// TestStore_RoundTrip runs against a real database when TEST_DATABASE_URL is set.
func TestStore_RoundTrip(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	table := "records_test_" + strings.ReplaceAll(uuid.NewString()[:8], "-", "")

	store, err := NewStore(ctx, dbURL, table)
	require.NoError(t, err)
	defer store.Close()
	defer store.pool.Exec(ctx, "DROP TABLE IF EXISTS "+store.table)

	require.NoError(t, store.EnsureTable(ctx))

	rec := &domain.Record{
		RecordID:   "rec-1",
		FileName:   "data.csv",
		UploadTime: 1700000000,
		Notes:      "clean",
		Name:       "Alice Smith",
		Email:      "a@b.com",
		Amount:     decimal.RequireFromString("42.50"),
		Attributes: map[string]string{"city": "Oslo"},
	}
	require.NoError(t, store.UpsertRecord(ctx, rec))
	require.NoError(t, store.UpsertRecord(ctx, rec))

	got, err := store.ListRecordsByFile(ctx, "data.csv")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Equal(rec.Amount))
	assert.Equal(t, rec.Attributes, got[0].Attributes)
}
