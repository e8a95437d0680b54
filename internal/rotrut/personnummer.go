package rotrut

import (
	"fmt"
	"strings"
)

// CleanPersonalNumber strips every non-digit from a Swedish personal identity number,
// so "19800101-1234" and "198001011234" group together. It does not expand 10-digit
// numbers to 12 digits.
func CleanPersonalNumber(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePersonalNumber checks that a cleaned number has a plausible length (10 or 12
// digits). No checksum is verified.
func ValidatePersonalNumber(cleaned string) error {
	switch len(cleaned) {
	case 10, 12:
		return nil
	case 0:
		return fmt.Errorf("personal number contains no digits")
	default:
		return fmt.Errorf("personal number has %d digits, expected 10 or 12", len(cleaned))
	}
}
