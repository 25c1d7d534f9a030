package rfc7232

import "strings"

// §  2.3.  ETag
// §
// §     The "ETag" header field in a response provides the current entity-
// §     tag for the selected representation, as determined at the conclusion
// §     of handling the request.  An entity-tag is an opaque validator for
// §     differentiating between multiple representations of the same
// §     resource, regardless of whether those multiple representations are
// §     due to resource state changes over time, content negotiation
// §     resulting in multiple representations being valid at the same time,
// §     or both.
// §
// §       ETag       = entity-tag
// §
// §       entity-tag = [ weak ] opaque-tag
// §       weak       = %x57.2F ; "W/", case-sensitive
// §       opaque-tag = DQUOTE *etagc DQUOTE
// §       etagc      = %x21 / %x23-7E / obs-text
// §                  ; VCHAR except double quotes, plus obs-text

// ETag is a parsed entity-tag. Tag holds the opaque value without quotes.
type ETag struct {
	Tag  string
	Weak bool
}

// ParseETag parses a single entity-tag. Returns false for input that is
// not a (possibly weak) quoted opaque tag.
func ParseETag(s string) (ETag, bool) {
	var tag ETag
	s = strings.TrimSpace(s)
	if rest, found := strings.CutPrefix(s, "W/"); found {
		tag.Weak = true
		s = rest
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return ETag{}, false
	}
	opaque := s[1 : len(s)-1]
	if strings.Contains(opaque, `"`) {
		return ETag{}, false
	}
	tag.Tag = opaque
	return tag, true
}

func (t ETag) String() string {
	if t.Weak {
		return `W/"` + t.Tag + `"`
	}
	return `"` + t.Tag + `"`
}

// §  2.3.2.  Comparison
// §
// §     There are two entity-tag comparison functions, depending on whether
// §     or not the comparison context allows the use of weak validators:
// §
// §     o  Strong comparison: two entity-tags are equivalent if both are not
// §        weak and their opaque-tags match character-by-character.
// §
// §     o  Weak comparison: two entity-tags are equivalent if their opaque-
// §        tags match character-by-character, regardless of either or both
// §        being tagged as "weak".

// Match compares two entity-tags. With strong set, a weak tag on either
// side never matches.
func Match(a, b ETag, strong bool) bool {
	if strong && (a.Weak || b.Weak) {
		return false
	}
	return a.Tag == b.Tag
}

// ScanETagList parses a comma-separated list of entity-tags, as carried
// by If-Match and If-None-Match. Unparsable elements are dropped. The
// bare "*" is not an entity-tag and must be detected by the caller before
// scanning.
func ScanETagList(header string) []ETag {
	var tags []ETag
	rest := header
	for rest != "" {
		rest = strings.TrimLeft(rest, " \t,")
		if rest == "" {
			break
		}
		end := etagEnd(rest)
		if end < 0 {
			break
		}
		if tag, ok := ParseETag(rest[:end]); ok {
			tags = append(tags, tag)
		}
		rest = rest[end:]
	}
	return tags
}

// etagEnd returns the index just past the first entity-tag in s, or -1 if
// s does not start with one.
func etagEnd(s string) int {
	start := 0
	if strings.HasPrefix(s, "W/") {
		start = 2
	}
	if start >= len(s) || s[start] != '"' {
		return -1
	}
	closing := strings.IndexByte(s[start+1:], '"')
	if closing < 0 {
		return -1
	}
	return start + 1 + closing + 1
}
