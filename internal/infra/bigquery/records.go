package bigquery

import (
	"fmt"
	"math/big"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/dataflow-etl/internal/domain"
	"github.com/shopspring/decimal"
)

// RecordRow represents a stored record in BigQuery.
type RecordRow struct {
	RecordID string `bigquery:"record_id"` // REQUIRED

	Name   bigquery.NullString `bigquery:"name"`
	Email  bigquery.NullString `bigquery:"email"`
	Amount *big.Rat            `bigquery:"amount"` // NUMERIC

	FileName   bigquery.NullString `bigquery:"file_name"`
	UploadTime bigquery.NullInt64  `bigquery:"upload_time"` // epoch seconds
	ETLNotes   bigquery.NullString `bigquery:"etl_notes"`

	// Attributes holds the remaining CSV columns as a JSON object.
	Attributes bigquery.NullJSON `bigquery:"attributes"`
}

// NewRecordRow maps a domain record onto the table schema.
func NewRecordRow(rec *domain.Record) (*RecordRow, error) {
	attrs, err := rec.AttributesJSON()
	if err != nil {
		return nil, fmt.Errorf("NewRecordRow: %w", err)
	}

	return &RecordRow{
		RecordID:   rec.RecordID,
		Name:       bigquery.NullString{StringVal: rec.Name, Valid: true},
		Email:      bigquery.NullString{StringVal: rec.Email, Valid: true},
		Amount:     rec.Amount.Rat(),
		FileName:   bigquery.NullString{StringVal: rec.FileName, Valid: true},
		UploadTime: bigquery.NullInt64{Int64: rec.UploadTime, Valid: true},
		ETLNotes:   bigquery.NullString{StringVal: rec.Notes, Valid: true},
		Attributes: bigquery.NullJSON{JSONVal: attrs, Valid: true},
	}, nil
}

// ToDomain converts a stored row back into a domain record.
func (r *RecordRow) ToDomain() (*domain.Record, error) {
	rec := &domain.Record{
		RecordID:   r.RecordID,
		Name:       r.Name.StringVal,
		Email:      r.Email.StringVal,
		FileName:   r.FileName.StringVal,
		UploadTime: r.UploadTime.Int64,
		Notes:      r.ETLNotes.StringVal,
		Amount:     decimal.Zero,
		Attributes: map[string]string{},
	}

	if r.Amount != nil {
		amount, err := decimal.NewFromString(r.Amount.FloatString(9))
		if err != nil {
			return nil, fmt.Errorf("ToDomain: record %s: amount: %w", r.RecordID, err)
		}
		rec.Amount = amount
	}

	if r.Attributes.Valid {
		attrs, err := domain.DecodeAttributes(r.Attributes.JSONVal)
		if err != nil {
			return nil, fmt.Errorf("ToDomain: record %s: %w", r.RecordID, err)
		}
		rec.Attributes = attrs
	}

	return rec, nil
}
