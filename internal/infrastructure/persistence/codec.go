package persistence

import "strings"

// The serialized identifier columns store one delimited string per product.
// Encoding and decoding happen only here; the domain always works with
// slices. Backslash escapes both itself and the delimiter so identifiers
// containing either survive a round trip.

func encodeDelimited(values []string, delimiter byte) string {
	if len(values) == 0 {
		return ""
	}
	var b strings.Builder
	for i, value := range values {
		if i > 0 {
			b.WriteByte(delimiter)
		}
		for j := 0; j < len(value); j++ {
			c := value[j]
			if c == '\\' || c == delimiter {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

func decodeDelimited(encoded string, delimiter byte) []string {
	if encoded == "" {
		return nil
	}
	var values []string
	var b strings.Builder
	escaped := false
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		switch {
		case escaped:
			b.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == delimiter:
			values = append(values, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	// A trailing lone backslash is kept literally.
	if escaped {
		b.WriteByte('\\')
	}
	values = append(values, b.String())
	return values
}
