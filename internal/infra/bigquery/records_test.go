package bigquery

import (
	"math/big"
	"strings"
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/dataflow-etl/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRef_String(t *testing.T) {
	ref := TableRef{ProjectID: "demo", DatasetID: "dataflow", TableID: "records"}
	assert.Equal(t, "`demo.dataflow.records`", ref.String())
}

func TestUpsertSQL_IsKeyedOnRecordID(t *testing.T) {
	sql := strings.Join(strings.Fields(upsertRecordSQL), " ")
	assert.Contains(t, sql, "ON T.record_id = S.record_id")
	assert.Contains(t, sql, "WHEN MATCHED THEN UPDATE SET")
	assert.Contains(t, sql, "WHEN NOT MATCHED THEN INSERT")
}

func TestRecordRow_ToDomain(t *testing.T) {
	row := RecordRow{
		RecordID:   "rec-1",
		Name:       bigquery.NullString{StringVal: "Alice Smith", Valid: true},
		Email:      bigquery.NullString{StringVal: "a@b.com", Valid: true},
		Amount:     big.NewRat(85, 2),
		FileName:   bigquery.NullString{StringVal: "data.csv", Valid: true},
		UploadTime: bigquery.NullInt64{Int64: 1700000000, Valid: true},
		ETLNotes:   bigquery.NullString{StringVal: "clean", Valid: true},
		Attributes: bigquery.NullJSON{JSONVal: `{"city":"Oslo"}`, Valid: true},
	}

	rec, err := row.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, "rec-1", rec.RecordID)
	assert.Equal(t, "Alice Smith", rec.Name)
	assert.True(t, rec.Amount.Equal(decimal.RequireFromString("42.5")))
	assert.Equal(t, int64(1700000000), rec.UploadTime)
	assert.Equal(t, map[string]string{"city": "Oslo"}, rec.Attributes)
}

func TestRecordRow_ToDomain_NullAmount(t *testing.T) {
	rec, err := (&RecordRow{RecordID: "rec-2"}).ToDomain()
	require.NoError(t, err)
	assert.True(t, rec.Amount.IsZero())
	assert.Empty(t, rec.Attributes)
}

func TestRecordRow_ToDomain_BadAttributes(t *testing.T) {
	row := RecordRow{RecordID: "rec-3", Attributes: bigquery.NullJSON{JSONVal: "not json", Valid: true}}
	_, err := row.ToDomain()
	assert.Error(t, err)
}

func TestRecordSaver_UsesRecordIDAsInsertID(t *testing.T) {
	rec := &domain.Record{
		RecordID:   "rec-9",
		FileName:   "data.csv",
		UploadTime: 1700000000,
		Notes:      "clean",
		Name:       "Alice Smith",
		Email:      "a@b.com",
		Amount:     decimal.RequireFromString("42.5"),
		Attributes: map[string]string{"city": "Oslo"},
	}

	saver, err := recordSaver(rec)
	require.NoError(t, err)
	assert.Equal(t, "rec-9", saver.InsertID)

	row, ok := saver.Struct.(*RecordRow)
	require.True(t, ok)
	assert.Equal(t, "rec-9", row.RecordID)
	assert.Equal(t, 0, row.Amount.Cmp(big.NewRat(85, 2)))
	assert.JSONEq(t, `{"city":"Oslo"}`, row.Attributes.JSONVal)

	back, err := row.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, rec.Name, back.Name)
	assert.True(t, back.Amount.Equal(rec.Amount))
	assert.Equal(t, rec.Attributes, back.Attributes)
}

func TestParseWriteMode(t *testing.T) {
	tests := []struct {
		in      string
		want    WriteMode
		wantErr bool
	}{
		{"", WriteModeMerge, false},
		{"merge", WriteModeMerge, false},
		{" Stream ", WriteModeStream, false},
		{"batch", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWriteMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
