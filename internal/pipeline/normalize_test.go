package pipeline

import (
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		raw       Row
		wantName  string
		wantEmail string
		wantAmt   string
		wantNotes []string
	}{
		{
			name:      "valid row",
			raw:       Row{"name": "alice smith", "email": "a@b.com", "amount": "42.50"},
			wantName:  "Alice Smith",
			wantEmail: "a@b.com",
			wantAmt:   "42.50",
			wantNotes: []string{NoteAmountDefaulted},
		},
		{
			name:      "blank name and bad amount",
			raw:       Row{"name": "  ", "email": "bad@EMAIL.com", "amount": "notanumber"},
			wantName:  "Unknown",
			wantEmail: "bad@email.com",
			wantAmt:   "0",
			wantNotes: []string{NoteMissingName, NoteAmountDefaulted},
		},
		{
			name:      "missing fields",
			raw:       Row{"city": "Oslo"},
			wantName:  "Unknown",
			wantEmail: DefaultEmail,
			wantAmt:   "0",
			wantNotes: []string{NoteMissingName, NoteMissingEmail, NoteAmountDefaulted},
		},
		{
			name:      "apostrophe in name",
			raw:       Row{"name": "seamus o'brien", "email": "s@b.com", "amount": "1"},
			wantName:  "Seamus O'Brien",
			wantEmail: "s@b.com",
			wantAmt:   "1",
			wantNotes: []string{NoteAmountDefaulted},
		},
		{
			name:      "upper-case keys and padded values",
			raw:       Row{"NAME": " bOB jones ", "Email": " Bob@Example.COM ", "AMOUNT": " -3.25 "},
			wantName:  "Bob Jones",
			wantEmail: "bob@example.com",
			wantAmt:   "-3.25",
			wantNotes: []string{NoteAmountDefaulted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)

			assert.Equal(t, tt.wantName, got.Fields[FieldName])
			assert.Equal(t, tt.wantEmail, got.Fields[FieldEmail])
			assert.True(t, got.Amount.Equal(decimal.RequireFromString(tt.wantAmt)),
				"amount = %s, want %s", got.Amount, tt.wantAmt)
			assert.Equal(t, tt.wantNotes, got.Notes)
		})
	}
}

func TestTitleName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice smith", "Alice Smith"},
		{"o'brien", "O'Brien"},
		{"d\u2019angelo", "D\u2019Angelo"},
		{"mary-jane WATSON", "Mary-Jane Watson"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, titleName(tt.in))
		})
	}
}

func TestNormalize_KeepsOtherColumns(t *testing.T) {
	got := Normalize(Row{"name": "a", "email": "b", "amount": "1", "City": "  Oslo "})
	assert.Equal(t, "Oslo", got.Fields["city"])
}

func TestNormalize_AmountNoteAlwaysPresent(t *testing.T) {
	for _, amount := range []string{"0", "1", "99.99", "", "abc"} {
		got := Normalize(Row{"name": "a", "email": "b", "amount": amount})
		assert.Contains(t, got.Notes, NoteAmountDefaulted, "amount %q", amount)
	}
}

func TestEnrich(t *testing.T) {
	counter := 0
	newID := func() string {
		counter++
		return "id-" + strconv.Itoa(counter)
	}

	norm := Normalize(Row{"name": "alice", "email": "A@B.COM", "amount": "5", "city": "Oslo", "record_id": "spoofed"})
	rec := Enrich(norm, "data.csv", 1700000000, newID)

	assert.Equal(t, "id-1", rec.RecordID)
	assert.Equal(t, "data.csv", rec.FileName)
	assert.Equal(t, int64(1700000000), rec.UploadTime)
	assert.Equal(t, "Alice", rec.Name)
	assert.Equal(t, "a@b.com", rec.Email)
	assert.Equal(t, NoteAmountDefaulted, rec.Notes)
	assert.Equal(t, map[string]string{"city": "Oslo"}, rec.Attributes)
}

func TestJoinNotes(t *testing.T) {
	assert.Equal(t, NotesClean, JoinNotes(nil))
	assert.Equal(t, "missing name, missing email", JoinNotes([]string{NoteMissingName, NoteMissingEmail}))
}
