package rfc7231

import (
	"strings"
	"testing"
	"time"
)

func TestFormatHTTPDate(t *testing.T) {
	date := time.Date(1994, 11, 6, 8, 49, 37, 0, time.UTC)
	if got := FormatHTTPDate(date); got != "Sun, 06 Nov 1994 08:49:37 GMT" {
		t.Fatalf("Formatted date is %s", got)
	}
}

func TestFormatHTTPDateConvertsZone(t *testing.T) {
	zone := time.FixedZone("EET", 2*60*60)
	date := time.Date(2022, 10, 1, 14, 0, 0, 0, zone)
	if got := FormatHTTPDate(date); !strings.HasSuffix(got, "12:00:00 GMT") {
		t.Fatalf("Formatted date is %s", got)
	}
}

// An emitted Last-Modified echoed back in a conditional header must
// parse to the same instant, or the precondition silently drops.
func TestFormatParseRoundTrip(t *testing.T) {
	date := time.Date(2022, 10, 1, 12, 0, 0, 0, time.UTC)
	parsed, err := ParseHTTPDate(FormatHTTPDate(date))
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Equal(date) {
		t.Fatalf("Round-tripped date is %s", parsed)
	}
}

func TestParseHTTPDateFormats(t *testing.T) {
	want := time.Date(1994, 11, 6, 8, 49, 37, 0, time.UTC)
	for _, dateStr := range []string{
		"Sun, 06 Nov 1994 08:49:37 GMT",
		"Sunday, 06-Nov-94 08:49:37 GMT",
		"Sun Nov  6 08:49:37 1994",
	} {
		parsed, err := ParseHTTPDate(dateStr)
		if err != nil {
			t.Fatalf("%s: %v", dateStr, err)
		}
		if !parsed.Equal(want) {
			t.Fatalf("%s parsed as %s", dateStr, parsed)
		}
	}
}

func TestParseHTTPDateRejectsOtherZones(t *testing.T) {
	if _, err := ParseHTTPDate("Sun, 06 Nov 1994 08:49:37 UTC"); err == nil {
		t.Fatal("Expected an error for a non-GMT zone")
	}
}
