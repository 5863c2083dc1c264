package pipeline

import "strings"

const emptyPostalCode = "00000"

// NormalizePostalCode forces arbitrary postal code input into a 5-digit code.
// Spreadsheet numeric coercion leaves artifacts like "12345.0"; the decimal
// tail is discarded before digit extraction. Input that yields no digits maps
// to "00000". This never fails; a bad postal code must not sink the batch.
func NormalizePostalCode(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return emptyPostalCode
	}

	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}

	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	out := digits.String()
	switch {
	case out == "":
		return emptyPostalCode
	case len(out) >= 5:
		return out[:5]
	default:
		return strings.Repeat("0", 5-len(out)) + out
	}
}
