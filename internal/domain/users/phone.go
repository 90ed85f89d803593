package users

import "strings"

// NormalizeTelefone canonicalizes a Brazilian phone number into E.164-ish
// form: digits only, prefixed with +55. A number that already carries the
// country code (12 or 13 digits starting with 55) is kept as-is, so the
// function is idempotent — normalizing an already-normalized number returns
// the same string.
func NormalizeTelefone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}

	if (len(digits) == 12 || len(digits) == 13) && strings.HasPrefix(digits, "55") {
		return "+" + digits
	}
	return "+55" + digits
}
