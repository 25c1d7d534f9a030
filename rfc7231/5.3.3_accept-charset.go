package rfc7231

import "strings"

// §  5.3.3.  Accept-Charset
// §
// §     The "Accept-Charset" header field can be sent by a user agent to
// §     indicate what charsets are acceptable in textual response content.
// §     This field allows user agents capable of understanding more
// §     comprehensive or special-purpose charsets to signal that capability
// §     to an origin server that is capable of representing information in
// §     those charsets.
// §
// §       Accept-Charset = 1#( ( charset / "*" ) [ weight ] )
// §
// §     Charset names are defined in Section 3.1.1.2.  A user agent MAY
// §     associate a quality value with each charset to indicate the user's
// §     relative preference for that charset, as defined in Section 5.3.1.
// §
// §     The special value "*", if present in the Accept-Charset field,
// §     matches every charset that is not mentioned elsewhere in the
// §     Accept-Charset field.  If no "*" is present in an Accept-Charset
// §     field, then any charsets not explicitly mentioned in the field are
// §     considered "not acceptable" to the client.

// DefaultCharset is implicitly acceptable at low priority unless a client
// excludes it, either by listing it with q=0 or through "*;q=0".
const DefaultCharset = "utf-8"

// ChooseCharset selects a charset from the ones a resource offers given
// the request's Accept-Charset header. Returns false if no offered
// charset is acceptable, which signals 406 Not Acceptable upstream.
func ChooseCharset(offered []string, acceptCharsetHeader string) (string, bool) {
	return chooseToken(offered, acceptCharsetHeader, DefaultCharset)
}

// chooseToken is the negotiation algorithm shared by the charset and
// content-coding axes.
//
// An explicitly listed token with q=0 is excluded; "*" with q=0 excludes
// every token not listed separately. An explicit entry always overrides
// "*", regardless of their relative order in the header. The default
// token is implicitly acceptable at lowest priority unless excluded, and
// is used as a fallback when no explicit entry selects an offered token.
func chooseToken(offered []string, header, defaultToken string) (string, bool) {
	choices := parseChoices(header)

	defaultOkay := true
	anyOkay := false
	sawDefault := false
	sawStar := false
	for _, c := range choices {
		switch {
		case strings.EqualFold(c.token, defaultToken):
			sawDefault = true
			defaultOkay = c.q > 0
		case c.token == "*":
			sawStar = true
			anyOkay = c.q > 0
		}
	}
	if !sawDefault && sawStar && !anyOkay {
		defaultOkay = false
	}

	remaining := make([]string, len(offered))
	copy(remaining, offered)
	for _, c := range choices {
		if c.q == 0 {
			remaining = deleteToken(remaining, c.token)
			continue
		}
		if c.token == "*" {
			continue
		}
		for _, o := range remaining {
			if strings.EqualFold(o, c.token) {
				return o, true
			}
		}
	}
	if anyOkay && len(remaining) > 0 {
		return remaining[0], true
	}
	if defaultOkay {
		for _, o := range remaining {
			if strings.EqualFold(o, defaultToken) {
				return o, true
			}
		}
	}
	return "", false
}

func deleteToken(tokens []string, token string) []string {
	kept := tokens[:0]
	for _, t := range tokens {
		if !strings.EqualFold(t, token) {
			kept = append(kept, t)
		}
	}
	return kept
}
