package rfc7232

import (
	"testing"
	"time"

	"github.com/rustkas/cowmachine/rfc7231"
)

var lastMod = time.Date(2022, time.August, 18, 2, 1, 18, 0, time.UTC)

func TestCheckIfMatch(t *testing.T) {
	current := ETag{Tag: "abc"}
	if c := CheckIfMatch("", current, true); c != CondNone {
		t.Fatalf("Absent header is %v", c)
	}
	if c := CheckIfMatch("*", current, true); c != CondTrue {
		t.Fatalf("* on existing resource is %v", c)
	}
	if c := CheckIfMatch("*", current, false); c != CondFalse {
		t.Fatalf("* on missing resource is %v", c)
	}
	if c := CheckIfMatch(`"abc"`, current, true); c != CondTrue {
		t.Fatalf("Matching tag is %v", c)
	}
	if c := CheckIfMatch(`"def", "abc"`, current, true); c != CondTrue {
		t.Fatalf("Matching tag in list is %v", c)
	}
	if c := CheckIfMatch(`"def"`, current, true); c != CondFalse {
		t.Fatalf("Non-matching tag is %v", c)
	}
}

// weak tags never match for If-Match
func TestCheckIfMatchWeak(t *testing.T) {
	if c := CheckIfMatch(`W/"abc"`, ETag{Tag: "abc"}, true); c != CondFalse {
		t.Fatalf("Weak request tag is %v", c)
	}
	if c := CheckIfMatch(`"abc"`, ETag{Tag: "abc", Weak: true}, true); c != CondFalse {
		t.Fatalf("Weak current tag is %v", c)
	}
}

func TestCheckIfNoneMatch(t *testing.T) {
	current := ETag{Tag: "abc"}
	if c := CheckIfNoneMatch("", current, true); c != CondNone {
		t.Fatalf("Absent header is %v", c)
	}
	if c := CheckIfNoneMatch("*", current, true); c != CondFalse {
		t.Fatalf("* on existing resource is %v", c)
	}
	if c := CheckIfNoneMatch("*", current, false); c != CondTrue {
		t.Fatalf("* on missing resource is %v", c)
	}
	if c := CheckIfNoneMatch(`"abc"`, current, true); c != CondFalse {
		t.Fatalf("Matching tag is %v", c)
	}
	if c := CheckIfNoneMatch(`W/"abc"`, current, true); c != CondFalse {
		t.Fatalf("Weak comparison should match: %v", c)
	}
	if c := CheckIfNoneMatch(`"def"`, current, true); c != CondTrue {
		t.Fatalf("Non-matching tag is %v", c)
	}
}

func TestCheckIfModifiedSince(t *testing.T) {
	now := lastMod.Add(time.Hour)
	header := rfc7231.FormatHTTPDate(lastMod)
	if c := CheckIfModifiedSince(header, lastMod, now); c != CondFalse {
		t.Fatalf("Unchanged representation is %v", c)
	}
	if c := CheckIfModifiedSince(header, lastMod.Add(time.Minute), now); c != CondTrue {
		t.Fatalf("Changed representation is %v", c)
	}
	if c := CheckIfModifiedSince("not a date", lastMod, now); c != CondNone {
		t.Fatalf("Unparsable date is %v", c)
	}
}

// a field date later than the current time is ignored as clock skew
func TestCheckIfModifiedSinceFutureDate(t *testing.T) {
	now := lastMod.Add(time.Hour)
	header := rfc7231.FormatHTTPDate(now.Add(time.Hour))
	if c := CheckIfModifiedSince(header, lastMod, now); c != CondNone {
		t.Fatalf("Future date is %v", c)
	}
}

func TestCheckIfModifiedSinceSubSecond(t *testing.T) {
	now := lastMod.Add(time.Hour)
	header := rfc7231.FormatHTTPDate(lastMod)
	if c := CheckIfModifiedSince(header, lastMod.Add(500*time.Millisecond), now); c != CondFalse {
		t.Fatalf("Sub-second difference is %v", c)
	}
}

func TestCheckIfUnmodifiedSince(t *testing.T) {
	header := rfc7231.FormatHTTPDate(lastMod)
	if c := CheckIfUnmodifiedSince(header, lastMod); c != CondTrue {
		t.Fatalf("Unchanged representation is %v", c)
	}
	if c := CheckIfUnmodifiedSince(header, lastMod.Add(time.Minute)); c != CondFalse {
		t.Fatalf("Changed representation is %v", c)
	}
	if c := CheckIfUnmodifiedSince("not a date", lastMod); c != CondNone {
		t.Fatalf("Unparsable date is %v", c)
	}
}
