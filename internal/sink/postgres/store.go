// Package postgres stores records in a PostgreSQL table through a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dvloznov/dataflow-etl/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// connectTimeout bounds pool creation and the initial ping.
const connectTimeout = 10 * time.Second

// Store is the PostgreSQL record sink.
type Store struct {
	pool  *pgxpool.Pool
	table string // sanitized identifier
}

// NewStore creates a connection pool and fails fast if the database is
// unreachable.
func NewStore(ctx context.Context, dbURL, table string) (*Store, error) {
	if table == "" {
		return nil, errors.New("NewStore: table name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("NewStore: creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("NewStore: ping: %w", err)
	}

	return &Store{pool: pool, table: quoteTable(table)}, nil
}

func quoteTable(table string) string {
	return pgx.Identifier{table}.Sanitize()
}

func createTableSQL(table string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			record_id   TEXT PRIMARY KEY,
			name        TEXT,
			email       TEXT,
			amount      NUMERIC,
			file_name   TEXT,
			upload_time BIGINT,
			etl_notes   TEXT,
			attributes  JSONB NOT NULL DEFAULT '{}'
		)
	`, table)
}

// upsertSQL replaces the stored row of a record_id instead of adding a
// second one.
func upsertSQL(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (record_id, name, email, amount, file_name, upload_time, etl_notes, attributes)
		VALUES ($1, $2, $3, $4::text::numeric, $5, $6, $7, $8::text::jsonb)
		ON CONFLICT (record_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			amount = EXCLUDED.amount,
			file_name = EXCLUDED.file_name,
			upload_time = EXCLUDED.upload_time,
			etl_notes = EXCLUDED.etl_notes,
			attributes = EXCLUDED.attributes
	`, table)
}

// EnsureTable creates the destination table. Safe to run multiple times.
func (s *Store) EnsureTable(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTableSQL(s.table)); err != nil {
		return fmt.Errorf("EnsureTable: %w", err)
	}
	return nil
}

// Close shuts down the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// UpsertRecord writes one record keyed on record_id.
func (s *Store) UpsertRecord(ctx context.Context, rec *domain.Record) error {
	attrs, err := rec.AttributesJSON()
	if err != nil {
		return fmt.Errorf("UpsertRecord: %w", err)
	}

	_, err = s.pool.Exec(ctx, upsertSQL(s.table),
		rec.RecordID, rec.Name, rec.Email, rec.Amount.String(),
		rec.FileName, rec.UploadTime, rec.Notes, attrs)
	if err != nil {
		return fmt.Errorf("UpsertRecord: record %s: %w", rec.RecordID, err)
	}
	return nil
}

// ListRecordsByFile returns the stored records of one source file.
func (s *Store) ListRecordsByFile(ctx context.Context, fileName string) ([]*domain.Record, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT record_id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(amount, 0)::text,
			COALESCE(file_name, ''), COALESCE(upload_time, 0), COALESCE(etl_notes, ''), attributes::text
		FROM %s
		WHERE file_name = $1
		ORDER BY upload_time, record_id
	`, s.table), fileName)
	if err != nil {
		return nil, fmt.Errorf("ListRecordsByFile: query: %w", err)
	}
	defer rows.Close()

	var records []*domain.Record
	for rows.Next() {
		var (
			rec           domain.Record
			amount, attrs string
		)
		if err := rows.Scan(&rec.RecordID, &rec.Name, &rec.Email, &amount,
			&rec.FileName, &rec.UploadTime, &rec.Notes, &attrs); err != nil {
			return nil, fmt.Errorf("ListRecordsByFile: scan: %w", err)
		}

		if rec.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("ListRecordsByFile: record %s: amount: %w", rec.RecordID, err)
		}
		if rec.Attributes, err = domain.DecodeAttributes(attrs); err != nil {
			return nil, fmt.Errorf("ListRecordsByFile: record %s: %w", rec.RecordID, err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRecordsByFile: rows: %w", err)
	}

	return records, nil
}
