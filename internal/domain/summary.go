package domain

import "time"

// Summary describes the outcome of one batch for the notification channel.
type Summary struct {
	FileName     string
	Bucket       string
	Key          string
	InvocationID string
	CompletedAt  time.Time

	Written int
	Skipped int
	Headers []string
}
