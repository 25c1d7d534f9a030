package rfc7231

import (
	"strings"

	"golang.org/x/text/language"
)

// §  5.3.5.  Accept-Language
// §
// §     The "Accept-Language" header field can be used by user agents to
// §     indicate the set of natural languages that are preferred in the
// §     response.  Language tags are defined in Section 3.1.3.1.
// §
// §       Accept-Language = 1#( language-range [ weight ] )
// §       language-range  =
// §                 <language-range, see [RFC4647], Section 2.1>
// §
// §     Each language-range can be given an associated quality value
// §     representing an estimate of the user's preference for the languages
// §     specified by that range, as defined in Section 5.3.1.
// §
// §     For matching, Section 3 of [RFC4647] defines several matching
// §     schemes.  Implementations can offer the most appropriate matching
// §     scheme for their requirements.

// ChooseLanguage selects a language tag from the ones a resource offers
// given the request's Accept-Language header. Matching is delegated to
// golang.org/x/text/language, which implements RFC 4647 lookup with
// sensible fallbacks (a request for "en" finds an offered "en-US").
//
// An empty offered list means the resource does not discriminate on
// language; callers skip the axis entirely in that case, but for
// completeness this returns false. A malformed header degrades to "no
// preference" and yields the first offered tag. Returns false when the
// header expresses preferences and none of them can be satisfied.
func ChooseLanguage(offered []string, acceptLanguageHeader string) (string, bool) {
	if len(offered) == 0 {
		return "", false
	}
	tags := make([]language.Tag, 0, len(offered))
	tagOffered := make([]string, 0, len(offered))
	for _, o := range offered {
		if tag, err := language.Parse(o); err == nil {
			tags = append(tags, tag)
			tagOffered = append(tagOffered, o)
		}
	}
	if len(tags) == 0 {
		return "", false
	}

	// "*" is handled here rather than by the matcher: it accepts whatever
	// is on offer, unless given q=0.
	anyOkay := false
	for _, c := range parseChoices(acceptLanguageHeader) {
		if c.token == "*" {
			anyOkay = c.q > 0
		}
	}

	stripped := stripStarRanges(acceptLanguageHeader)
	if stripped == "" {
		if anyOkay {
			return tagOffered[0], true
		}
		return "", false
	}
	want, weights, err := language.ParseAcceptLanguage(stripped)
	if err != nil {
		return tagOffered[0], true
	}
	preferred := want[:0]
	for i, w := range want {
		if weights[i] > 0 {
			preferred = append(preferred, w)
		}
	}
	if len(preferred) == 0 {
		if anyOkay {
			return tagOffered[0], true
		}
		return "", false
	}

	matcher := language.NewMatcher(tags)
	if _, index, conf := matcher.Match(preferred...); conf > language.No {
		return tagOffered[index], true
	}
	if anyOkay {
		return tagOffered[0], true
	}
	return "", false
}

// stripStarRanges removes "*" elements, which language.ParseAcceptLanguage
// does not model usefully for our selection.
func stripStarRanges(header string) string {
	var kept []string
	for _, elem := range strings.Split(header, ",") {
		token, _, _ := strings.Cut(strings.TrimSpace(elem), ";")
		if strings.TrimSpace(token) == "*" {
			continue
		}
		if e := strings.TrimSpace(elem); e != "" {
			kept = append(kept, e)
		}
	}
	return strings.Join(kept, ", ")
}
