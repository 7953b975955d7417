package scheduler

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// shiftNamePrefix is the fixed prefix of generated shift display
// names.
const shiftNamePrefix = "PLANTAO"

// SanitizeToken normalizes a vehicle display token for use inside a
// shift name: accents are stripped (NFD decomposition with combining
// marks removed), letters are upper-cased, and every run of
// characters outside A-Z0-9 collapses to a single hyphen.  Leading
// and trailing hyphens are trimmed, so an all-symbol input yields "".
func SanitizeToken(raw string) string {
	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), raw)
	if err != nil {
		stripped = raw
	}
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToUpper(stripped) {
		switch {
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// ShiftName derives the generated display name of a shift from the
// vehicle token and the shift date.  When sanitization empties the
// token, a synthetic "VTR-{id}" token is used instead; should even
// that come out empty, the name degrades to "PLANTAO-{id}".
func ShiftName(token string, vehicleID uint64, date string) string {
	tok := SanitizeToken(token)
	if tok == "" {
		tok = SanitizeToken(fmt.Sprintf("VTR-%d", vehicleID))
	}
	if tok == "" {
		return fmt.Sprintf("%s-%d", shiftNamePrefix, vehicleID)
	}
	return fmt.Sprintf("%s-%s-%s", shiftNamePrefix, tok, date)
}
