package pipeline

import "errors"

var (
	// ErrInvalidHeader means the header row is missing, has an empty field
	// name, or repeats a field name. It rejects the whole file.
	ErrInvalidHeader = errors.New("invalid csv header")

	// ErrMalformedRow means a data line could not be aligned with the header.
	// The row is skipped and counted.
	ErrMalformedRow = errors.New("malformed csv row")

	// ErrDecode means the object is not valid UTF-8 text.
	ErrDecode = errors.New("object is not valid utf-8")

	// ErrInvalidEvent means the trigger did not name a bucket and an object key.
	ErrInvalidEvent = errors.New("trigger event missing bucket or object key")
)
