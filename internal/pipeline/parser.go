package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// RowReader reads the header and the data records of decoded CSV text. A
// quoted value may span lines, so records are counted, not lines. Empty
// lines between records are skipped.
type RowReader struct {
	r      *csv.Reader
	header []string
}

// NewRowReader creates a reader over text produced by DecodeText.
func NewRowReader(text string) *RowReader {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	return &RowReader{r: r}
}

// ReadHeader reads the first record and validates it with ValidateHeader.
// The header must be on the first line: an empty object or a blank first
// line is ErrInvalidHeader.
func (rr *RowReader) ReadHeader() ([]string, error) {
	fields, err := rr.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("ReadHeader: object is empty: %w", ErrInvalidHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("ReadHeader: %v: %w", err, ErrInvalidHeader)
	}
	if line, _ := rr.r.FieldPos(0); line != 1 {
		return nil, fmt.Errorf("ReadHeader: first line is blank: %w", ErrInvalidHeader)
	}

	header, err := ValidateHeader(fields)
	if err != nil {
		return nil, fmt.Errorf("ReadHeader: %w", err)
	}
	rr.header = header
	return header, nil
}

// Next returns the next data record zipped with the header, and the line the
// record starts on. It returns io.EOF after the last record.
//
// A record with broken quoting or a value count that differs from the header
// is reported as ErrMalformedRow; reading continues with the next record.
func (rr *RowReader) Next() (Row, int, error) {
	fields, err := rr.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, io.EOF
	}
	if err != nil {
		line := 0
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			line = perr.StartLine
		}
		return nil, line, fmt.Errorf("Next: %v: %w", err, ErrMalformedRow)
	}

	line, _ := rr.r.FieldPos(0)
	if len(fields) != len(rr.header) {
		return nil, line, fmt.Errorf("Next: got %d values, header has %d: %w", len(fields), len(rr.header), ErrMalformedRow)
	}

	row := make(Row, len(rr.header))
	for i, name := range rr.header {
		row[name] = fields[i]
	}
	return row, line, nil
}

// ValidateHeader trims the header field names. An empty field name, or a
// field name repeated (ignoring case), is rejected with ErrInvalidHeader.
func ValidateHeader(fields []string) ([]string, error) {
	header := make([]string, len(fields))
	seen := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimSpace(f)
		if name == "" {
			return nil, fmt.Errorf("ValidateHeader: column %d has no name: %w", i+1, ErrInvalidHeader)
		}

		key := strings.ToLower(name)
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("ValidateHeader: column %d repeats %q from column %d: %w", i+1, name, prev, ErrInvalidHeader)
		}
		seen[key] = i + 1
		header[i] = name
	}

	return header, nil
}
