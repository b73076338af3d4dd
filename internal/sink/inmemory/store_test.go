package inmemory

import (
	"context"
	"testing"

	"github.com/dvloznov/dataflow-etl/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(id string) *domain.Record {
	return &domain.Record{
		RecordID:   id,
		FileName:   "data.csv",
		UploadTime: 1700000000,
		Notes:      "clean",
		Name:       "Alice Smith",
		Email:      "a@b.com",
		Amount:     decimal.RequireFromString("42.50"),
		Attributes: map[string]string{"city": "Oslo"},
	}
}

func TestStore_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	rec := sampleRecord("rec-1")

	require.NoError(t, store.UpsertRecord(ctx, rec))
	once, err := store.ListRecordsByFile(ctx, "")
	require.NoError(t, err)

	require.NoError(t, store.UpsertRecord(ctx, rec))
	twice, err := store.ListRecordsByFile(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, once, twice)
}

func TestStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.UpsertRecord(ctx, sampleRecord("rec-1")))
	updated := sampleRecord("rec-1")
	updated.Email = "new@b.com"
	require.NoError(t, store.UpsertRecord(ctx, updated))

	got, err := store.GetRecord(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "new@b.com", got.Email)
	assert.Equal(t, 1, store.Len())
}

func TestStore_RequiresRecordID(t *testing.T) {
	store := NewStore()
	assert.Error(t, store.UpsertRecord(context.Background(), sampleRecord("")))
	assert.Error(t, store.UpsertRecord(context.Background(), nil))
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	rec := sampleRecord("rec-1")
	require.NoError(t, store.UpsertRecord(ctx, rec))

	rec.Attributes["city"] = "Bergen"
	got, err := store.GetRecord(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "Oslo", got.Attributes["city"])

	got.Attributes["city"] = "Tromsø"
	again, err := store.GetRecord(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "Oslo", again.Attributes["city"])
}

func TestStore_ListRecordsByFile(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	other := sampleRecord("rec-2")
	other.FileName = "other.csv"
	require.NoError(t, store.UpsertRecord(ctx, sampleRecord("rec-3")))
	require.NoError(t, store.UpsertRecord(ctx, other))
	require.NoError(t, store.UpsertRecord(ctx, sampleRecord("rec-1")))

	recs, err := store.ListRecordsByFile(ctx, "data.csv")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "rec-1", recs[0].RecordID)
	assert.Equal(t, "rec-3", recs[1].RecordID)

	_, err = store.GetRecord(ctx, "missing")
	assert.Error(t, err)
}
