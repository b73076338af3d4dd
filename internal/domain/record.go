package domain

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Record is one cleaned and enriched CSV row, ready to be persisted.
// This is a domain struct, not a BigQuery row; the sink maps it into the
// destination table schema.
type Record struct {
	RecordID   string // fresh per row, upsert key
	FileName   string // trailing segment of the object key
	UploadTime int64  // epoch seconds, shared by the whole batch
	Notes      string // etl_notes: comma-joined corrections or "clean"

	Name   string
	Email  string
	Amount decimal.Decimal

	// Attributes holds every other normalized column of the row.
	Attributes map[string]string
}

// AttributeKeys returns the attribute names in a stable order.
func (r *Record) AttributeKeys() []string {
	keys := make([]string, 0, len(r.Attributes))
	for k := range r.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AttributesJSON encodes the attributes as a JSON object. A nil map encodes
// as "{}".
func (r *Record) AttributesJSON() (string, error) {
	attrs := r.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("encoding attributes: %w", err)
	}
	return string(b), nil
}

// DecodeAttributes parses a JSON object written by AttributesJSON. An empty
// string yields an empty map.
func DecodeAttributes(s string) (map[string]string, error) {
	attrs := map[string]string{}
	if s == "" {
		return attrs, nil
	}
	if err := json.Unmarshal([]byte(s), &attrs); err != nil {
		return nil, fmt.Errorf("decoding attributes: %w", err)
	}
	return attrs, nil
}
