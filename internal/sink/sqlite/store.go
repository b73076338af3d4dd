// Package sqlite stores records in a local SQLite file. It backs CLI runs
// that should persist without cloud credentials.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dvloznov/dataflow-etl/internal/domain"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Store is the SQLite record sink.
type Store struct {
	db    *sql.DB
	table string // quoted identifier
}

// Open opens (creating if needed) the database at path. Use ":memory:" for a
// throwaway database.
func Open(path, table string) (*Store, error) {
	if table == "" {
		return nil, errors.New("Open: table name is required")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}
	// A single connection keeps ":memory:" databases alive between calls.
	db.SetMaxOpenConns(1)

	return &Store{db: db, table: quoteTable(table)}, nil
}

func quoteTable(table string) string {
	return `"` + strings.ReplaceAll(table, `"`, `""`) + `"`
}

// EnsureTable creates the destination table if it does not exist.
func (s *Store) EnsureTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		record_id TEXT PRIMARY KEY,
		name TEXT,
		email TEXT,
		amount TEXT,
		file_name TEXT,
		upload_time INTEGER,
		etl_notes TEXT,
		attributes TEXT NOT NULL DEFAULT '{}'
	);
	CREATE INDEX IF NOT EXISTS %s ON %s (file_name);
	`, s.table, quoteTable(strings.Trim(s.table, `"`)+"_file_name"), s.table))
	if err != nil {
		return fmt.Errorf("EnsureTable: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertRecord writes one record keyed on record_id. Amounts are stored as
// text so no precision is lost.
func (s *Store) UpsertRecord(ctx context.Context, rec *domain.Record) error {
	attrs, err := rec.AttributesJSON()
	if err != nil {
		return fmt.Errorf("UpsertRecord: %w", err)
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`
	INSERT INTO %s (record_id, name, email, amount, file_name, upload_time, etl_notes, attributes)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (record_id) DO UPDATE SET
		name = excluded.name,
		email = excluded.email,
		amount = excluded.amount,
		file_name = excluded.file_name,
		upload_time = excluded.upload_time,
		etl_notes = excluded.etl_notes,
		attributes = excluded.attributes
	`, s.table),
		rec.RecordID, rec.Name, rec.Email, rec.Amount.String(),
		rec.FileName, rec.UploadTime, rec.Notes, attrs)
	if err != nil {
		return fmt.Errorf("UpsertRecord: record %s: %w", rec.RecordID, err)
	}
	return nil
}

// ListRecordsByFile returns the stored records of one source file.
func (s *Store) ListRecordsByFile(ctx context.Context, fileName string) ([]*domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
	SELECT record_id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(amount, '0'),
		COALESCE(file_name, ''), COALESCE(upload_time, 0), COALESCE(etl_notes, ''), attributes
	FROM %s
	WHERE file_name = ?
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
