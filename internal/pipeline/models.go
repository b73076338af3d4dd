package pipeline

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TriggerEvent identifies the object that started one invocation.
type TriggerEvent struct {
	Bucket string
	Key    string

	// InvocationID is reported in the summary; the CloudEvent id or the
	// HTTP request id.
	InvocationID string
}

// FileName returns the trailing path segment of the object key.
func (e TriggerEvent) FileName() string {
	return FileNameFromKey(e.Key)
}

// FileNameFromKey returns everything after the last "/" of an object key.
// e.g., "incoming/2024/data.csv" → "data.csv"
func FileNameFromKey(key string) string {
	if idx := strings.LastIndex(key, "/"); idx != -1 {
		return key[idx+1:]
	}
	return key
}

// Row maps header names to the raw text values of one data line.
type Row map[string]string

// NormalizedRow is a Row after cleaning, with the parsed amount and the
// corrections that were applied.
type NormalizedRow struct {
	Fields Row
	Amount decimal.Decimal
	Notes  []string
}

// BatchResult counts the outcome of one invocation.
type BatchResult struct {
	Written int
	Skipped int
	Headers []string
}

// Result is returned to the trigger source.
type Result struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`

	Batch BatchResult `json:"-"`
}
