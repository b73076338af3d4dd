package pipeline

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize cleans one parsed row. It never fails: every missing or invalid
// value resolves to a default and a note.
//
// Steps, in order:
//  1. lower-case keys, trim values
//  2. default a blank name
//  3. default a blank email
//  4. parse amount as a fixed-point decimal, zero when absent or invalid
//  5. title-case name, lower-case email
func Normalize(raw Row) NormalizedRow {
	fields := make(Row, len(raw))
	for k, v := range raw {
		fields[strings.ToLower(k)] = strings.TrimSpace(v)
	}

	var notes []string

	if fields[FieldName] == "" {
		fields[FieldName] = DefaultName
		notes = append(notes, NoteMissingName)
	}
	if fields[FieldEmail] == "" {
		fields[FieldEmail] = DefaultEmail
		notes = append(notes, NoteMissingEmail)
	}

	amount, err := decimal.NewFromString(fields[FieldAmount])
	if err != nil {
		amount = decimal.Zero
	}
	notes = append(notes, NoteAmountDefaulted)
	fields[FieldAmount] = amount.String()

	fields[FieldName] = titleName(fields[FieldName])
	fields[FieldEmail] = strings.ToLower(fields[FieldEmail])

	return NormalizedRow{
		Fields: fields,
		Amount: amount,
		Notes:  notes,
	}
}

// titleName title-cases a name. A letter after an apostrophe also starts a
// word, so "o'brien" becomes "O'Brien".
func titleName(s string) string {
	// A Caser keeps state between calls, so each call gets its own.
	runes := []rune(cases.Title(language.Und).String(s))
	for i := 1; i < len(runes); i++ {
		if (runes[i-1] == '\'' || runes[i-1] == '\u2019') && unicode.IsLower(runes[i]) {
			runes[i] = unicode.ToUpper(runes[i])
		}
	}
	return string(runes)
}
