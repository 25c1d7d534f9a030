package rfc7231

import "testing"

func TestChooseCharsetExplicitExclusion(t *testing.T) {
	chosen, ok := ChooseCharset([]string{"utf-8", "iso-8859-1"}, "iso-8859-1, utf-8;q=0")
	if !ok || chosen != "iso-8859-1" {
		t.Fatalf("Chose %q (ok=%v)", chosen, ok)
	}
}

func TestChooseCharsetPreference(t *testing.T) {
	chosen, ok := ChooseCharset([]string{"utf-8", "iso-8859-1"}, "iso-8859-1;q=0.8, utf-8;q=0.5")
	if !ok || chosen != "iso-8859-1" {
		t.Fatalf("Chose %q (ok=%v)", chosen, ok)
	}
}

func TestChooseCharsetDefaultImplicit(t *testing.T) {
	// utf-8 is not mentioned, but is implicitly acceptable
	chosen, ok := ChooseCharset([]string{"utf-8"}, "iso-8859-5")
	if !ok || chosen != "utf-8" {
		t.Fatalf("Chose %q (ok=%v)", chosen, ok)
	}
}

func TestChooseCharsetStarExcludesDefault(t *testing.T) {
	if chosen, ok := ChooseCharset([]string{"utf-8"}, "iso-8859-5, *;q=0"); ok {
		t.Fatalf("Chose %q although *;q=0 excludes unlisted charsets", chosen)
	}
}

func TestChooseCharsetStar(t *testing.T) {
	chosen, ok := ChooseCharset([]string{"iso-8859-5", "utf-8"}, "unicode-1-1, *")
	if !ok || chosen != "iso-8859-5" {
		t.Fatalf("Chose %q (ok=%v)", chosen, ok)
	}
}

func TestChooseCharsetNoneAcceptable(t *testing.T) {
	if chosen, ok := ChooseCharset([]string{"iso-8859-1"}, "unicode-1-1"); ok {
		t.Fatalf("Chose %q with nothing acceptable offered", chosen)
	}
}

func TestChooseCharsetCaseInsensitive(t *testing.T) {
	chosen, ok := ChooseCharset([]string{"UTF-8"}, "utf-8")
	if !ok || chosen != "UTF-8" {
		t.Fatalf("Chose %q (ok=%v)", chosen, ok)
	}
}
