package rfc7232

import (
	"time"

	"github.com/rustkas/cowmachine/rfc7231"
)

// §  3.4.  If-Unmodified-Since
// §
// §     The "If-Unmodified-Since" header field makes the request method
// §     conditional on the selected representation's last modification date
// §     being earlier than or equal to the date provided in the field-value.
// §     This field accomplishes the same purpose as If-Match for cases
// §     where the user agent does not have an entity-tag for the
// §     representation.
// §
// §       If-Unmodified-Since = HTTP-date
// §
// §     A recipient MUST ignore If-Unmodified-Since if the request contains
// §     an If-Match header field; the condition in If-Match is considered a
// §     more accurate replacement for the condition in If-Unmodified-Since,
// §     and the two are only combined for the sake of interoperating with
// §     older intermediaries that might not implement If-Match.

// CheckIfUnmodifiedSince evaluates an If-Unmodified-Since header value
// against the representation's modification date. CondFalse signals 412.
func CheckIfUnmodifiedSince(header string, lastModified time.Time) Cond {
	if header == "" || lastModified.IsZero() {
		return CondNone
	}
	since, err := rfc7231.ParseHTTPDate(header)
	if err != nil {
		return CondNone
	}
	if lastModified.Truncate(time.Second).After(since.Truncate(time.Second)) {
		return CondFalse
	}
	return CondTrue
}
