package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const byteOrderMark = "\ufeff"

// DecodeText turns object bytes into text. A leading byte-order mark is
// dropped and every line terminator ("\r\n" or a lone "\r") becomes "\n".
func DecodeText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("DecodeText: %w", ErrDecode)
	}

	text := strings.TrimPrefix(string(data), byteOrderMark)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text, nil
}
