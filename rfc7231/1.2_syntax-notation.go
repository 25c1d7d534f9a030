package rfc7231

import "strings"

// §  1.2.  Syntax Notation
// §
// §     This specification uses the Augmented Backus-Naur Form (ABNF)
// §     notation of [RFC5234] with a list extension, defined in Section 7
// §     of [RFC7230], that allows for compact definition of comma-separated
// §     lists using a "#" operator (similar to how the "*" operator
// §     indicates repetition).
// §
// §     The following core rules are included by reference, as defined in
// §     [RFC5234], Appendix B.1: ALPHA (letters), CR (carriage return),
// §     CRLF (CR LF), CTL (controls), DIGIT (decimal 0-9), DQUOTE (double
// §     quote), HEXDIG (hexadecimal 0-9/A-F/a-f), LF (line feed), OCTET
// §     (any 8-bit sequence of data), SP (space), and VCHAR (any visible
// §     US-ASCII character).

// splitListElems splits a #-list header value on commas, honoring
// quoted-string elements so that a comma inside a quoted parameter value
// does not split the element. Empty elements are dropped as RFC 7230
// section 7 requires of recipients.
func splitListElems(header string) []string {
	var elems []string
	var b strings.Builder
	inQuotes := false
	for i := 0; i < len(header); i++ {
		c := header[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			b.WriteByte(c)
		case c == '\\' && inQuotes && i+1 < len(header):
			b.WriteByte(c)
			i++
			b.WriteByte(header[i])
		case c == ',' && !inQuotes:
			if elem := strings.TrimSpace(b.String()); elem != "" {
				elems = append(elems, elem)
			}
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	if elem := strings.TrimSpace(b.String()); elem != "" {
		elems = append(elems, elem)
	}
	return elems
}
