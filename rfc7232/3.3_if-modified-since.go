package rfc7232

import (
	"time"

	"github.com/rustkas/cowmachine/rfc7231"
)

// §  3.3.  If-Modified-Since
// §
// §     The "If-Modified-Since" header field makes a GET or HEAD request
// §     method conditional on the selected representation's modification
// §     date being more recent than the date provided in the field-value.
// §     Transfer of the selected representation's data is avoided if that
// §     data has not changed.
// §
// §       If-Modified-Since = HTTP-date
// §
// §     A recipient MUST ignore the If-Modified-Since header field if the
// §     received field-value is not a valid HTTP-date, or if the request
// §     method is neither GET nor HEAD.
// §
// §     A recipient MUST ignore the If-Modified-Since header field if the
// §     resource does not have a modification date available.
// §
// §     A recipient MUST interpret an If-Modified-Since field-value's
// §     timestamp in terms of the origin server's clock.

// CheckIfModifiedSince evaluates an If-Modified-Since header value
// against the representation's modification date. A field date later than
// now is ignored as clock skew. Comparison is at second granularity,
// since HTTP-dates carry no sub-second precision. CondFalse means the
// representation has not been modified, i.e. 304 territory.
func CheckIfModifiedSince(header string, lastModified, now time.Time) Cond {
	if header == "" || lastModified.IsZero() {
		return CondNone
	}
	since, err := rfc7231.ParseHTTPDate(header)
	if err != nil || since.After(now) {
		return CondNone
	}
	// sub-second truncation keeps a stored timestamp of 12:00:00.5 from
	// looking newer than the emitted Last-Modified of 12:00:00
	if lastModified.Truncate(time.Second).After(since.Truncate(time.Second)) {
		return CondTrue
	}
	return CondFalse
}
