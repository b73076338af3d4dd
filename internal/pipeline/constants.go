package pipeline

// Field names the normalizer knows about. Every other column is carried
// through unchanged apart from key lower-casing and value trimming.
const (
	FieldName   = "name"
	FieldEmail  = "email"
	FieldAmount = "amount"
)

// Columns added by the enricher. Source columns with these names are
// overwritten by the system values.
const (
	FieldRecordID   = "record_id"
	FieldFileName   = "file_name"
	FieldUploadTime = "upload_time"
	FieldETLNotes   = "etl_notes"
)

// Defaults and notes applied during normalization.
const (
	// DefaultName replaces a missing or blank name.
	DefaultName = "Unknown"

	// DefaultEmail replaces a missing or blank email.
	DefaultEmail = "noemail@example.com"

	NoteMissingName  = "missing name"
	NoteMissingEmail = "missing email"

	// NoteAmountDefaulted is appended for every row, including rows whose
	// amount parsed fine. Downstream reports rely on the literal text.
	NoteAmountDefaulted = "invalid or missing amount, set to 0.0"

	// NotesClean is stored in etl_notes when no correction was applied.
	NotesClean = "clean"
)

// Result status codes and bodies returned to the trigger source.
const (
	StatusOK         = 200
	StatusBadRequest = 400

	InvalidHeaderBody = "CSV file missing valid headers."
	successBodyFormat = "%d rows from %s cleaned and processed successfully."
)
