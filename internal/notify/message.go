// Package notify delivers batch summaries to people watching the pipeline.
//
// Every notifier renders the same subject and body with FormatMessage. The
// pipeline treats delivery as best effort, so implementations just return
// their errors and never retry.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/dataflow-etl/internal/domain"
)

const (
	// SummaryTopicID is the channel every summary is published to.
	SummaryTopicID = "dataflow-etl-summary"

	// Subject is the subject line of every summary.
	Subject = "ETL Process Completed with Technical Cleanup"
)

// FormatMessage renders the subject and body of a summary.
func FormatMessage(s domain.Summary) (string, string) {
	var b strings.Builder

	b.WriteString("ETL Summary - Technical Cleanup Report\n")
	fmt.Fprintf(&b, "File: %s\n", s.FileName)
	fmt.Fprintf(&b, "Bucket: %s\n", s.Bucket)
	fmt.Fprintf(&b, "Key: %s\n", s.Key)
	fmt.Fprintf(&b, "Invocation ID: %s\n", s.InvocationID)
	fmt.Fprintf(&b, "Upload Time: %s UTC\n\n", s.CompletedAt.UTC().Format(time.RFC3339))

	b.WriteString("--- ETL Transformations ---\n")
	fmt.Fprintf(&b, "• Total rows inserted: %d\n", s.Written)
	fmt.Fprintf(&b, "• Rows skipped (malformed rows and write failures): %d\n", s.Skipped)
	b.WriteString("• Fields cleaned: name → title case, email → lowercase\n")
	b.WriteString("• amount: converted to decimal, defaulted to 0.0 if invalid\n")
	b.WriteString("• Field 'etl_notes' tracks cleaning actions per row\n")
	b.WriteString("• Metadata added: record_id, file_name, upload_time\n")
	b.WriteString("• Timestamp format: UNIX epoch\n")
	fmt.Fprintf(&b, "• Original headers: %s", strings.Join(s.Headers, ", "))

	return Subject, b.String()
}
