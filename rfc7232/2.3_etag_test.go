package rfc7232

import "testing"

func TestParseETag(t *testing.T) {
	tag, ok := ParseETag(`"xyzzy"`)
	if !ok || tag.Tag != "xyzzy" || tag.Weak {
		t.Fatalf("Parsed to %+v (ok=%v)", tag, ok)
	}
}

func TestParseETagWeak(t *testing.T) {
	tag, ok := ParseETag(`W/"xyzzy"`)
	if !ok || tag.Tag != "xyzzy" || !tag.Weak {
		t.Fatalf("Parsed to %+v (ok=%v)", tag, ok)
	}
}

func TestParseETagInvalid(t *testing.T) {
	for _, s := range []string{"", "xyzzy", `"xy"zzy"`, "W/xyzzy", `w/"xyzzy"`} {
		if tag, ok := ParseETag(s); ok {
			t.Fatalf("Parsed %q to %+v", s, tag)
		}
	}
}

func TestETagString(t *testing.T) {
	if s := (ETag{Tag: "abc"}).String(); s != `"abc"` {
		t.Fatalf("String is %s", s)
	}
	if s := (ETag{Tag: "abc", Weak: true}).String(); s != `W/"abc"` {
		t.Fatalf("String is %s", s)
	}
}

func TestMatchStrong(t *testing.T) {
	strong := ETag{Tag: "abc"}
	weak := ETag{Tag: "abc", Weak: true}
	if !Match(strong, strong, true) {
		t.Fatal("Strong tags should match strongly")
	}
	if Match(weak, strong, true) || Match(strong, weak, true) {
		t.Fatal("Weak tag matched strongly")
	}
	if !Match(weak, strong, false) || !Match(weak, weak, false) {
		t.Fatal("Weak comparison should match by opaque value")
	}
}

func TestScanETagList(t *testing.T) {
	tags := ScanETagList(`"xyzzy", W/"r2d2xxxx", "c3piozzzz"`)
	if len(tags) != 3 {
		t.Fatalf("Scanned %d tags: %v", len(tags), tags)
	}
	if tags[1].Tag != "r2d2xxxx" || !tags[1].Weak {
		t.Fatalf("Second tag is %+v", tags[1])
	}
}

func TestScanETagListCommaInTag(t *testing.T) {
	tags := ScanETagList(`"a,b", "c"`)
	if len(tags) != 2 || tags[0].Tag != "a,b" || tags[1].Tag != "c" {
		t.Fatalf("Scanned %v", tags)
	}
}
