package rfc7231

import "testing"

func TestChooseLanguageExact(t *testing.T) {
	chosen, ok := ChooseLanguage([]string{"en", "fi"}, "fi, en;q=0.5")
	if !ok || chosen != "fi" {
		t.Fatalf("Chose %q (ok=%v)", chosen, ok)
	}
}

func TestChooseLanguageRegionFallback(t *testing.T) {
	chosen, ok := ChooseLanguage([]string{"en-US"}, "en")
	if !ok || chosen != "en-US" {
		t.Fatalf("Chose %q (ok=%v)", chosen, ok)
	}
}

func TestChooseLanguageNoMatch(t *testing.T) {
	if chosen, ok := ChooseLanguage([]string{"fi"}, "sw"); ok {
		t.Fatalf("Chose %q with no acceptable language", chosen)
	}
}

func TestChooseLanguageStar(t *testing.T) {
	chosen, ok := ChooseLanguage([]string{"fi"}, "*")
	if !ok || chosen != "fi" {
		t.Fatalf("Chose %q (ok=%v)", chosen, ok)
	}
}

func TestChooseLanguageEmptyOffered(t *testing.T) {
	if chosen, ok := ChooseLanguage(nil, "en"); ok {
		t.Fatalf("Chose %q from an empty offered list", chosen)
	}
}
