package finder

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TrimAddress strips surrounding whitespace. The result is exactly what is
// posted to the backend unless composition is enabled.
func TrimAddress(address string) string {
	return strings.TrimSpace(address)
}

// ComposeHangul trims address and composes it to NFC, turning the
// decomposed jamo some terminals emit into precomposed syllables.
func ComposeHangul(address string) string {
	return norm.NFC.String(TrimAddress(address))
}
