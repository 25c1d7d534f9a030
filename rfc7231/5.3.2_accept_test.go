package rfc7231

import "testing"

func mt(t *testing.T, s string) MediaType {
	t.Helper()
	parsed, ok := ParseMediaType(s)
	if !ok {
		t.Fatalf("Could not parse media type %q", s)
	}
	return parsed
}

func TestParseAcceptOrder(t *testing.T) {
	accepted := ParseAccept("text/*;q=0.5, application/json;q=0.9, text/html")
	if len(accepted) != 3 {
		t.Fatalf("Parsed %d ranges", len(accepted))
	}
	if accepted[0].MimeType() != "text/html" || accepted[0].Q != 1.0 {
		t.Fatalf("First range is %s;q=%v", accepted[0].MimeType(), accepted[0].Q)
	}
	if accepted[1].MimeType() != "application/json" {
		t.Fatalf("Second range is %s", accepted[1].MimeType())
	}
}

func TestParseAcceptStableOnTies(t *testing.T) {
	accepted := ParseAccept("text/html, application/xml, text/plain")
	if accepted[0].MimeType() != "text/html" ||
		accepted[1].MimeType() != "application/xml" ||
		accepted[2].MimeType() != "text/plain" {
		t.Fatalf("Equal-quality ranges reordered: %v", accepted)
	}
}

func TestParseAcceptMalformed(t *testing.T) {
	if accepted := ParseAccept("this is not; a valid, set=of/ranges;;;"); len(accepted) != 0 {
		t.Fatalf("Malformed header parsed to %v", accepted)
	}
}

func TestChooseProvidedDeterministic(t *testing.T) {
	provided := []MediaType{mt(t, "text/html"), mt(t, "application/json")}
	first, ok1 := ChooseProvided(provided, "application/*;q=0.8, text/html;q=0.7")
	second, ok2 := ChooseProvided(provided, "application/*;q=0.8, text/html;q=0.7")
	if !ok1 || !ok2 || first.MimeType() != second.MimeType() {
		t.Fatalf("Same input chose %v and %v", first, second)
	}
}

func TestChooseProvidedEmpty(t *testing.T) {
	if _, ok := ChooseProvided(nil, "*/*"); ok {
		t.Fatal("Chose a type from an empty provided list")
	}
}

func TestChooseProvidedNotProvided(t *testing.T) {
	provided := []MediaType{mt(t, "text/html")}
	if chosen, ok := ChooseProvided(provided, "text/*;q=0.5, application/json;q=0.9"); ok {
		// json is preferred but not provided; text/* still matches html
		if chosen.MimeType() != "text/html" {
			t.Fatalf("Chose %s", chosen.MimeType())
		}
	} else {
		t.Fatal("text/* should match text/html")
	}
}

func TestChooseProvidedPreferred(t *testing.T) {
	provided := []MediaType{mt(t, "text/html"), mt(t, "application/json")}
	chosen, ok := ChooseProvided(provided, "text/*;q=0.5, application/json;q=0.9")
	if !ok || chosen.MimeType() != "application/json" {
		t.Fatalf("Chose %v (ok=%v)", chosen, ok)
	}
}

func TestChooseProvidedFullWildcard(t *testing.T) {
	provided := []MediaType{mt(t, "application/json"), mt(t, "text/html")}
	chosen, ok := ChooseProvided(provided, "*/*")
	if !ok || chosen.MimeType() != "application/json" {
		t.Fatalf("*/* chose %v (ok=%v)", chosen, ok)
	}
}

func TestChooseProvidedExcluded(t *testing.T) {
	provided := []MediaType{mt(t, "text/html")}
	if chosen, ok := ChooseProvided(provided, "text/html;q=0, */*"); ok {
		t.Fatalf("Excluded type chosen via wildcard: %v", chosen)
	}
}

func TestChooseProvidedParams(t *testing.T) {
	provided := []MediaType{mt(t, "text/html;level=1")}
	if _, ok := ChooseProvided(provided, "text/html;level=2"); ok {
		t.Fatal("Parameter mismatch should not match")
	}
	if chosen, ok := ChooseProvided(provided, "text/html;level=1;foo=bar"); !ok {
		t.Fatal("Provided params are a subset of requested params")
	} else if chosen.Params["level"] != "1" {
		t.Fatalf("Chose %v", chosen)
	}
}

func TestChooseProvidedNoMatch(t *testing.T) {
	provided := []MediaType{mt(t, "text/html")}
	if _, ok := ChooseProvided(provided, "application/json"); ok {
		t.Fatal("Should not match")
	}
}

func TestChooseAcceptedEmptyAcceptsAnything(t *testing.T) {
	ct := mt(t, "application/octet-stream")
	chosen, ok := ChooseAccepted(nil, ct)
	if !ok || chosen.MimeType() != "application/octet-stream" {
		t.Fatalf("Chose %v (ok=%v)", chosen, ok)
	}
}

func TestChooseAccepted(t *testing.T) {
	accepted := []MediaType{mt(t, "application/json"), mt(t, "text/plain")}
	chosen, ok := ChooseAccepted(accepted, mt(t, "text/plain;charset=utf-8"))
	if !ok || chosen.MimeType() != "text/plain" {
		t.Fatalf("Chose %v (ok=%v)", chosen, ok)
	}
	if _, ok := ChooseAccepted(accepted, mt(t, "image/png")); ok {
		t.Fatal("image/png should not be accepted")
	}
}

func TestMediaTypeBareStar(t *testing.T) {
	parsed := mt(t, "*")
	if parsed.Type != "*" || parsed.Subtype != "*" {
		t.Fatalf("Bare star parsed to %v", parsed)
	}
}
