package rfc7232

import "strings"

// §  3.2.  If-None-Match
// §
// §     The "If-None-Match" header field makes the request method
// §     conditional on a recipient cache or origin server either not having
// §     any current representation of the target resource, when the field-
// §     value is "*", or having a selected representation with an entity-
// §     tag that does not match any of those listed in the field-value.
// §
// §       If-None-Match = "*" / 1#entity-tag
// §
// §     A recipient MUST use the weak comparison function when comparing
// §     entity-tags for If-None-Match (Section 2.3.2), since weak entity-
// §     tags can be used for cache validation even if there have been
// §     changes to the representation data.

// CheckIfNoneMatch evaluates an If-None-Match header value against the
// resource's current entity-tag. The precondition fails when a listed tag
// matches (weak comparison), or when the field is "*" and the resource
// exists.
func CheckIfNoneMatch(header string, current ETag, exists bool) Cond {
	header = strings.TrimSpace(header)
	if header == "" {
		return CondNone
	}
	if header == "*" {
		if exists {
			return CondFalse
		}
		return CondTrue
	}
	if !exists || current.Tag == "" {
		return CondTrue
	}
	for _, tag := range ScanETagList(header) {
		if Match(tag, current, false) {
			return CondFalse
		}
	}
	return CondTrue
}
