package pipeline

import (
	"strings"

	"github.com/dvloznov/dataflow-etl/internal/domain"
)

// IDGenerator returns a fresh record identifier on every call.
type IDGenerator func() string

var reservedFields = map[string]bool{
	FieldName:       true,
	FieldEmail:      true,
	FieldAmount:     true,
	FieldRecordID:   true,
	FieldFileName:   true,
	FieldUploadTime: true,
	FieldETLNotes:   true,
}

// Enrich attaches the system metadata to a normalized row.
func Enrich(row NormalizedRow, fileName string, uploadTime int64, newID IDGenerator) *domain.Record {
	attrs := make(map[string]string, len(row.Fields))
	for k, v := range row.Fields {
		if reservedFields[k] {
			continue
		}
		attrs[k] = v
	}

	return &domain.Record{
		RecordID:   newID(),
		FileName:   fileName,
		UploadTime: uploadTime,
		Notes:      JoinNotes(row.Notes),
		Name:       row.Fields[FieldName],
		Email:      row.Fields[FieldEmail],
		Amount:     row.Amount,
		Attributes: attrs,
	}
}

// JoinNotes renders the etl_notes value.
func JoinNotes(notes []string) string {
	if len(notes) == 0 {
		return NotesClean
	}
	return strings.Join(notes, ", ")
}
