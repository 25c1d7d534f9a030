package rfc7232

import "strings"

// §  3.1.  If-Match
// §
// §     The "If-Match" header field makes the request method conditional on
// §     the recipient origin server either having at least one current
// §     representation of the target resource, when the field-value is "*",
// §     or having a current representation of the target resource that has
// §     an entity-tag matching a member of the list of entity-tags provided
// §     in the field-value.
// §
// §       If-Match = "*" / 1#entity-tag
// §
// §     An origin server MUST use the strong comparison function when
// §     comparing entity-tags for If-Match (Section 2.3.2), since the
// §     client intends this precondition to prevent the method from being
// §     applied if there have been any changes to the representation data.

// CheckIfMatch evaluates an If-Match header value against the resource's
// current entity-tag. The exists argument states whether the resource has
// a current representation at all: "*" passes only if it does.
func CheckIfMatch(header string, current ETag, exists bool) Cond {
	header = strings.TrimSpace(header)
	if header == "" {
		return CondNone
	}
	if header == "*" {
		if exists {
			return CondTrue
		}
		return CondFalse
	}
	if !exists || current.Tag == "" {
		return CondFalse
	}
	for _, tag := range ScanETagList(header) {
		if Match(tag, current, true) {
			return CondTrue
		}
	}
	return CondFalse
}
