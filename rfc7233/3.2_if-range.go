package rfc7233

import (
	"strings"
	"time"

	"github.com/rustkas/cowmachine/rfc7231"
	"github.com/rustkas/cowmachine/rfc7232"
)

// §  3.2.  If-Range
// §
// §     If a client has a partial copy of a representation and wishes to
// §     have an up-to-date copy of the entire representation, it could use
// §     the Range header field with a conditional GET (using either or both
// §     of If-Unmodified-Since and If-Match.)  However, if the precondition
// §     fails because the representation has been modified, the client
// §     would then have to make a second request to obtain the entire
// §     current representation.
// §
// §     The "If-Range" header field allows a client to "short-circuit" the
// §     second request.  Informally, its meaning is as follows: if the
// §     representation is unchanged, send me the part(s) that I am
// §     requesting in Range; otherwise, send me the entire representation.
// §
// §       If-Range = entity-tag / HTTP-date
// §
// §     A valid entity-tag can be distinguished from a valid HTTP-date by
// §     examining the first two characters for a DQUOTE.
// §
// §     If the validator given in the If-Range header field matches the
// §     current validator for the selected representation of the target
// §     resource, then the server SHOULD process the Range header field as
// §     requested.  If the validator does not match, the server MUST ignore
// §     the Range header field.  Note that this comparison by exact match,
// §     including when the validator is an HTTP-date, differs from the
// §     "earlier than or equal to" comparison used when evaluating an
// §     If-Unmodified-Since conditional.

// CheckIfRange reports whether the Range header should be honored. An
// absent If-Range always honors the range. A weak entity-tag never
// matches.
func CheckIfRange(header string, current rfc7232.ETag, lastModified time.Time) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return true
	}
	if strings.HasPrefix(header, `"`) || strings.HasPrefix(header, "W/") {
		tag, ok := rfc7232.ParseETag(header)
		return ok && rfc7232.Match(tag, current, true)
	}
	date, err := rfc7231.ParseHTTPDate(header)
	if err != nil || lastModified.IsZero() {
		return false
	}
	return lastModified.Truncate(time.Second).Equal(date.Truncate(time.Second))
}
