package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/dataflow-etl/internal/domain"
	"google.golang.org/api/iterator"
)

// TableRef locates the destination table.
type TableRef struct {
	ProjectID string
	DatasetID string
	TableID   string
}

// String returns the backtick-quoted identifier used in SQL.
func (t TableRef) String() string {
	return fmt.Sprintf("`%s.%s.%s`", t.ProjectID, t.DatasetID, t.TableID)
}

// upsertRecordSQL merges one record keyed on record_id, so a redelivered
// record replaces the stored row instead of adding a second one.
const upsertRecordSQL = `
	MERGE %s T
	USING (SELECT @record_id AS record_id) S
	ON T.record_id = S.record_id
	WHEN MATCHED THEN
		UPDATE SET
			name = @name,
			email = @email,
			amount = @amount,
			file_name = @file_name,
			upload_time = @upload_time,
			etl_notes = @etl_notes,
			attributes = PARSE_JSON(@attributes)
	WHEN NOT MATCHED THEN
		INSERT (record_id, name, email, amount, file_name, upload_time, etl_notes, attributes)
		VALUES (@record_id, @name, @email, @amount, @file_name, @upload_time, @etl_notes, PARSE_JSON(@attributes))
`

const createRecordsTableSQL = `
	CREATE TABLE IF NOT EXISTS %s (
		record_id   STRING NOT NULL,
		name        STRING,
		email       STRING,
		amount      NUMERIC,
		file_name   STRING,
		upload_time INT64,
		etl_notes   STRING,
		attributes  JSON
	)
`

// UpsertRecordWithClient writes one record using the provided client.
func UpsertRecordWithClient(ctx context.Context, client *bigquery.Client, table TableRef, rec *domain.Record) error {
	attrs, err := rec.AttributesJSON()
	if err != nil {
		return fmt.Errorf("UpsertRecord: %w", err)
	}

	q := client.Query(fmt.Sprintf(upsertRecordSQL, table))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "record_id", Value: rec.RecordID},
		{Name: "name", Value: rec.Name},
		{Name: "email", Value: rec.Email},
		{Name: "amount", Value: rec.Amount.Rat()},
		{Name: "file_name", Value: rec.FileName},
		{Name: "upload_time", Value: rec.UploadTime},
		{Name: "etl_notes", Value: rec.Notes},
		{Name: "attributes", Value: attrs},
	}

	if err := runAndWait(ctx, q); err != nil {
		return fmt.Errorf("UpsertRecord: record %s: %w", rec.RecordID, err)
	}
	return nil
}

// recordSaver wraps a record for the streaming inserter. The record_id is the
// insert id, so a retried insert of the same record is dropped by BigQuery.
func recordSaver(rec *domain.Record) (*bigquery.StructSaver, error) {
	row, err := NewRecordRow(rec)
	if err != nil {
		return nil, err
	}
	return &bigquery.StructSaver{Struct: row, InsertID: rec.RecordID}, nil
}

// InsertRecordWithClient streams one record into the table using the
// provided client. Deduplication on the insert id is best effort and only
// covers a short window, unlike UpsertRecordWithClient.
func InsertRecordWithClient(ctx context.Context, client *bigquery.Client, table TableRef, rec *domain.Record) error {
	saver, err := recordSaver(rec)
	if err != nil {
		return fmt.Errorf("InsertRecord: %w", err)
	}

	inserter := client.DatasetInProject(table.ProjectID, table.DatasetID).Table(table.TableID).Inserter()
	if err := inserter.Put(ctx, saver); err != nil {
		return fmt.Errorf("InsertRecord: record %s: %w", rec.RecordID, err)
	}
	return nil
}

// ListRecordsByFileWithClient returns the stored records of one source file.
func ListRecordsByFileWithClient(ctx context.Context, client *bigquery.Client, table TableRef, fileName string) ([]*domain.Record, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			record_id,
			name,
			email,
			amount,
			file_name,
			upload_time,
			etl_notes,
			attributes
		FROM %s
		WHERE file_name = @file_name
		ORDER BY upload_time, record_id
	`, table))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "file_name", Value: fileName},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListRecordsByFile: query read: %w", err)
	}

	var records []*domain.Record
	for {
		var r RecordRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListRecordsByFile: iter next: %w", err)
		}

		rec, err := r.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("ListRecordsByFile: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// EnsureRecordsTableWithClient creates the destination table if needed.
func EnsureRecordsTableWithClient(ctx context.Context, client *bigquery.Client, table TableRef) error {
	q := client.Query(fmt.Sprintf(createRecordsTableSQL, table))
	if err := runAndWait(ctx, q); err != nil {
		return fmt.Errorf("EnsureRecordsTable: %w", err)
	}
	return nil
}

func runAndWait(ctx context.Context, q *bigquery.Query) error {
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}
	return nil
}
