package rfc7231

import (
	"sort"
	"strconv"
	"strings"
)

// §  5.3.1.  Quality Values
// §
// §     Many of the request header fields for proactive negotiation use a
// §     common parameter, named "q" (case-insensitive), to assign a relative
// §     "weight" to the preference for that associated kind of content.  This
// §     weight is referred to as a "quality value" (or "qvalue") because the
// §     same parameter name is often used within server configurations to
// §     assign a weight to the relative quality of the various
// §     representations that can be selected for a resource.
// §
// §     The weight is normalized to a real number in the range 0 through 1,
// §     where 0.001 is the least preferred and 1 is the most preferred; a
// §     value of 0 means "not acceptable".  If no "q" parameter is present,
// §     the default weight is 1.
// §
// §       weight = OWS ";" OWS "q=" qvalue
// §       qvalue = ( "0" [ "." 0*3DIGIT ] )
// §              / ( "1" [ "." 0*3("0") ] )
func parseQValue(s string) (float64, bool) {
	if s == "" || len(s) > 5 {
		return 0, false
	}
	q, err := strconv.ParseFloat(s, 64)
	if err != nil || q < 0 || q > 1 {
		return 0, false
	}
	return q, true
}

// choice is one element of a negotiation header: a token (charset or
// content coding) together with its quality value.
type choice struct {
	token string
	q     float64
}

// parseChoices parses a comma-separated negotiation header into choices
// sorted by descending quality. The sort is stable, so choices with equal
// quality keep their original header order. Unparsable elements are
// dropped rather than reported.
func parseChoices(header string) []choice {
	var choices []choice
	for _, elem := range strings.Split(header, ",") {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			continue
		}
		token, params, _ := strings.Cut(elem, ";")
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		q := 1.0
		if params != "" {
			name, value, _ := strings.Cut(params, "=")
			if strings.EqualFold(strings.TrimSpace(name), "q") {
				parsed, ok := parseQValue(strings.TrimSpace(value))
				if !ok {
					continue
				}
				q = parsed
			}
		}
		choices = append(choices, choice{token: token, q: q})
	}
	sort.SliceStable(choices, func(i, j int) bool {
		return choices[i].q > choices[j].q
	})
	return choices
}
