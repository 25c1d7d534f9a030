package rfc7231

import "testing"

func TestChooseEncodingIdentityDefault(t *testing.T) {
	chosen, ok := ChooseEncoding([]string{"identity"}, "gzip, br")
	if !ok || chosen != "identity" {
		t.Fatalf("Chose %q (ok=%v)", chosen, ok)
	}
}

func TestChooseEncodingPreferred(t *testing.T) {
	chosen, ok := ChooseEncoding([]string{"gzip", "identity"}, "br;q=0.9, gzip;q=0.8")
	if !ok || chosen != "gzip" {
		t.Fatalf("Chose %q (ok=%v)", chosen, ok)
	}
}

func TestChooseEncodingIdentityExcluded(t *testing.T) {
	if chosen, ok := ChooseEncoding([]string{"identity"}, "gzip, identity;q=0"); ok {
		t.Fatalf("Chose %q although identity is excluded", chosen)
	}
}

// An explicit entry overrides "*" no matter which comes first in the header.
func TestChooseEncodingExplicitOverridesStar(t *testing.T) {
	if chosen, ok := ChooseEncoding([]string{"gzip"}, "*;q=0, gzip"); !ok || chosen != "gzip" {
		t.Fatalf("Chose %q (ok=%v) with explicit entry after *;q=0", chosen, ok)
	}
	if chosen, ok := ChooseEncoding([]string{"gzip"}, "gzip, *;q=0"); !ok || chosen != "gzip" {
		t.Fatalf("Chose %q (ok=%v) with explicit entry before *;q=0", chosen, ok)
	}
	if chosen, ok := ChooseEncoding([]string{"identity"}, "*, identity;q=0"); ok {
		t.Fatalf("Chose %q although identity;q=0 overrides *", chosen)
	}
}

func TestChooseEncodingMalformedHeader(t *testing.T) {
	// unparsable elements degrade to "nothing requested", leaving identity
	chosen, ok := ChooseEncoding([]string{"gzip", "identity"}, ";;q=;")
	if !ok || chosen != "identity" {
		t.Fatalf("Chose %q (ok=%v)", chosen, ok)
	}
}
