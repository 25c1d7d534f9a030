package rfc7231

// §  5.3.4.  Accept-Encoding
// §
// §     The "Accept-Encoding" header field can be used by user agents to
// §     indicate what response content-codings (Section 3.1.2.1) are
// §     acceptable in the response.  An "identity" token is used as a
// §     synonym for "no encoding" in order to communicate when no encoding
// §     is preferred.
// §
// §       Accept-Encoding  = #( codings [ weight ] )
// §       codings          = content-coding / "identity" / "*"
// §
// §     Each codings value MAY be given an associated quality value
// §     representing the preference for that encoding, as defined in
// §     Section 5.3.1.  The asterisk "*" symbol in an Accept-Encoding field
// §     matches any available content-coding not explicitly listed in the
// §     header field.
// §
// §     A request without an Accept-Encoding header field implies that the
// §     user agent has no preferences regarding content-codings.  Although
// §     this allows the server to use any content-coding in a response, it
// §     does not imply that the user agent will be able to correctly
// §     process all encodings.
// §
// §     A server tests whether a content-coding for a given representation
// §     is acceptable using these rules:
// §
// §     1.  If no Accept-Encoding field is in the request, any content-
// §         coding is considered acceptable by the user agent.
// §
// §     2.  If the representation has no content-coding, then it is
// §         acceptable by default unless specifically excluded by the
// §         Accept-Encoding field stating either "identity;q=0" or "*;q=0"
// §         without a more specific entry for "identity".
// §
// §     3.  If the representation's content-coding is one of the content-
// §         codings listed in the Accept-Encoding field, then it is
// §         acceptable unless it is accompanied by a qvalue of 0.
// §
// §     4.  If multiple content-codings are acceptable, then the acceptable
// §         content-coding with the highest non-zero qvalue is preferred.

// DefaultEncoding is the "no encoding" coding, implicitly acceptable at
// low priority unless specifically excluded.
const DefaultEncoding = "identity"

// ChooseEncoding selects a content coding from the ones a resource offers
// given the request's Accept-Encoding header. Returns false if no offered
// coding is acceptable, which signals 406 Not Acceptable upstream.
func ChooseEncoding(offered []string, acceptEncodingHeader string) (string, bool) {
	return chooseToken(offered, acceptEncodingHeader, DefaultEncoding)
}
