// Package trigger turns storage notifications into pipeline trigger events
// and adapts the pipeline driver to the CloudEvent runtime.
package trigger

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/dvloznov/dataflow-etl/internal/pipeline"
)

// StorageObjectData is the payload of a Cloud Storage object notification.
// Only the fields the pipeline reads are decoded.
type StorageObjectData struct {
	Bucket      string `json:"bucket"`
	Name        string `json:"name"`
	ContentType string `json:"contentType,omitempty"`
	Size        string `json:"size,omitempty"`
}

// S3Event is the S3-style notification body, one record per object.
type S3Event struct {
	Records []S3EventRecord `json:"Records"`
}

// S3EventRecord describes one object in an S3Event.
type S3EventRecord struct {
	S3 struct {
		Bucket struct {
			Name string `json:"name"`
		} `json:"bucket"`
		Object struct {
			Key string `json:"key"`
		} `json:"object"`
	} `json:"s3"`
}

// notification accepts either shape in a single decode.
type notification struct {
	StorageObjectData
	S3Event
}

// ParseEvent decodes a storage notification into a TriggerEvent. Both the
// Cloud Storage object shape and the S3-style Records shape are accepted;
// for the latter only the first record is used and its key is URL-decoded.
func ParseEvent(data []byte, invocationID string) (pipeline.TriggerEvent, error) {
	var n notification
	if err := json.Unmarshal(data, &n); err != nil {
		return pipeline.TriggerEvent{}, fmt.Errorf("ParseEvent: decoding payload: %w: %v", pipeline.ErrInvalidEvent, err)
	}

	event := pipeline.TriggerEvent{InvocationID: invocationID}

	if len(n.Records) > 0 {
		rec := n.Records[0]
		event.Bucket = rec.S3.Bucket.Name
		event.Key = decodeKey(rec.S3.Object.Key)
	} else {
		event.Bucket = n.Bucket
		event.Key = n.Name
	}

	if event.Bucket == "" || event.Key == "" {
		return pipeline.TriggerEvent{}, fmt.Errorf("ParseEvent: %w", pipeline.ErrInvalidEvent)
	}

	return event, nil
}

// decodeKey undoes the form encoding of S3 object keys ("+" is a space).
// Keys that fail to decode are used as they are.
func decodeKey(key string) string {
	decoded, err := url.QueryUnescape(key)
	if err != nil {
		return key
	}
	return decoded
}
