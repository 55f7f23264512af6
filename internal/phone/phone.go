// Package phone normalizes candidate Indian mobile numbers from chat input.
package phone

import "strings"

// Normalize strips every non-digit byte from s and reports whether the
// remainder is a plausible Indian mobile number: exactly 10 digits, first
// digit 6-9. It never fails; bad input simply comes back with ok=false.
func Normalize(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	clean := b.String()
	if len(clean) != 10 {
		return "", false
	}
	if clean[0] < '6' || clean[0] > '9' {
		return "", false
	}
	return clean, true
}
