package rfc7231

import "sort"

// §  5.3.2.  Accept
// §
// §     The "Accept" header field can be used by user agents to specify
// §     response media types that are acceptable.  Accept header fields can
// §     be used to indicate that the request is specifically limited to a
// §     small set of desired types, as in the case of a request for an
// §     in-line image.
// §
// §       Accept = #( media-range [ accept-params ] )
// §
// §       media-range    = ( "*/*"
// §                        / ( type "/" "*" )
// §                        / ( type "/" subtype )
// §                        ) *( OWS ";" OWS parameter )
// §       accept-params  = weight *( accept-ext )
// §       accept-ext     = OWS ";" OWS token [ "=" ( token / quoted-string ) ]

// AcceptedType is one media range from an Accept header together with its
// quality value. A quality of 0 means the range is explicitly excluded.
type AcceptedType struct {
	MediaType
	Q float64
}

// ParseAccept parses an Accept header into a sequence of media ranges
// sorted by descending quality. The sort is stable: ranges with equal
// quality keep their original header order. Unparsable elements are
// dropped, so a fully malformed header yields an empty sequence.
func ParseAccept(header string) []AcceptedType {
	var accepted []AcceptedType
	for _, elem := range splitListElems(header) {
		mt, ok := ParseMediaType(elem)
		if !ok {
			continue
		}
		q := 1.0
		if qstr, found := mt.Params["q"]; found {
			delete(mt.Params, "q")
			parsed, ok := parseQValue(qstr)
			if !ok {
				continue
			}
			q = parsed
		}
		accepted = append(accepted, AcceptedType{MediaType: mt, Q: q})
	}
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Q > accepted[j].Q
	})
	return accepted
}

// ChooseProvided selects the representation to send for the given Accept
// header from the media types a resource provides, in the resource's
// preference order.
//
// §     A request without any Accept header field implies that the user
// §     agent will accept any media type in response.  If the header field
// §     is present in a request and none of the available representations
// §     for the response have a media type that is listed as acceptable,
// §     the origin server can either honor the header field by sending a
// §     406 (Not Acceptable) response or disregard the header field by
// §     treating the response as if it is not subject to content
// §     negotiation.
//
// For each acceptable range in quality order, the provided list is scanned
// in its given order and the first provided type matching the range wins.
// A provided type matching any explicitly excluded (q=0) range is never
// selected, not even through a wildcard. Returns false if nothing matches,
// including when provided is empty.
func ChooseProvided(provided []MediaType, acceptHeader string) (MediaType, bool) {
	if len(provided) == 0 {
		return MediaType{}, false
	}
	var ranges, excluded []AcceptedType
	for _, a := range ParseAccept(acceptHeader) {
		if a.Q == 0 {
			excluded = append(excluded, a)
		} else {
			ranges = append(ranges, a)
		}
	}
	for _, want := range ranges {
		for _, p := range provided {
			if !p.Matches(want.MediaType) {
				continue
			}
			if matchesAny(p, excluded) {
				continue
			}
			return p, true
		}
	}
	return MediaType{}, false
}

// ChooseAccepted selects the entry from a resource's accepted content
// types that matches the content type of an incoming request body. An
// empty accepted list accepts any content type, so the request's own type
// is returned unchanged. Returns false when the list is non-empty and
// nothing matches, which signals 415 Unsupported Media Type upstream.
//
// The request side, not the accepted side, may carry wildcards.
func ChooseAccepted(accepted []MediaType, contentType MediaType) (MediaType, bool) {
	if len(accepted) == 0 {
		return contentType, true
	}
	for _, a := range accepted {
		if a.Matches(contentType) {
			return a, true
		}
	}
	return MediaType{}, false
}

func matchesAny(t MediaType, ranges []AcceptedType) bool {
	for _, r := range ranges {
		if t.Matches(r.MediaType) {
			return true
		}
	}
	return false
}
