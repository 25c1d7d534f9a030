package rfc7231

import (
	"fmt"
	"strings"
	"time"
)

// §  7.1.1.1.  Date/Time Formats
// §
// §     Prior to 1995, there were three different formats commonly used by
// §     servers to communicate timestamps.  For compatibility with old
// §     implementations, all three are defined here.  The preferred format
// §     is a fixed-length and single-zone subset of the date and time
// §     specification used by the Internet Message Format [RFC5322].
// §
// §       HTTP-date    = IMF-fixdate / obs-date
// §
// §     An example of the preferred format is
// §
// §       Sun, 06 Nov 1994 08:49:37 GMT    ; IMF-fixdate
// §
// §     Examples of the two obsolete formats are
// §
// §       Sunday, 06-Nov-94 08:49:37 GMT   ; obsolete RFC 850 format
// §       Sun Nov  6 08:49:37 1994         ; ANSI C's asctime() format
// §
// §     A recipient that parses a timestamp value in an HTTP header field
// §     MUST accept all three HTTP-date formats.  When a sender generates a
// §     header field that contains one or more timestamps defined as
// §     HTTP-date, the sender MUST generate those timestamps in the
// §     IMF-fixdate format.

const (
	imfDateLayout = "Mon, 02 Jan 2006 15:04:05 MST"
	// The output layout spells GMT literally: formatting a UTC timestamp
	// through the MST reference would emit a "UTC" zone, which IMF-fixdate
	// does not allow.
	imfDateOutputLayout = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// ParseHTTPDate parses an HTTP-date in any of the three allowed formats.
func ParseHTTPDate(dateStr string) (time.Time, error) {
	if date, err := imfDate(dateStr); err == nil {
		return date, err
	}
	// try to parse as obsolete date
	return obsDate(dateStr)
}

// FormatHTTPDate formats a timestamp as an IMF-fixdate.
func FormatHTTPDate(date time.Time) string {
	return date.UTC().Format(imfDateOutputLayout)
}

func imfDate(dateStr string) (time.Time, error) {
	date, err := time.Parse(imfDateLayout, normalizeDateStr(dateStr))
	if err != nil {
		return date, err
	}
	if date.Location().String() != "GMT" {
		return date, fmt.Errorf("date %s is not in GMT time, but %s", date, date.Location())
	}
	return date, err
}

// §     Obsolete formats:
// §
// §       obs-date     = rfc850-date / asctime-date
// §
// §       rfc850-date  = day-name-l "," SP date2 SP time-of-day SP GMT
// §       asctime-date = day-name SP date3 SP time-of-day SP year
func obsDate(dateStr string) (time.Time, error) {
	str := normalizeDateStr(dateStr)
	if date, err := time.Parse(time.RFC850, str); err == nil {
		return date, err
	}
	return time.Parse(time.ANSIC, str)
}

// §     HTTP-date is case sensitive.  Note that Section 4.2 of [CACHING]
// §     relaxes this for cache recipients.
func normalizeDateStr(dateStr string) string {
	return strings.ToUpper(dateStr)
}
