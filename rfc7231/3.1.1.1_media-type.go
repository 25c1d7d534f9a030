package rfc7231

import "strings"

// §  3.1.1.1.  Media Type
// §
// §     HTTP uses media types [RFC2046] in the Content-Type and Accept
// §     header fields in order to provide open and extensible data typing
// §     and type negotiation.  Media types define both a data format and
// §     various processing models: how to process that data in accordance
// §     with each message context.
// §
// §       media-type = type "/" subtype *( OWS ";" OWS parameter )
// §       type       = token
// §       subtype    = token
// §
// §     The type/subtype MAY be followed by parameters in the form of
// §     name=value pairs.
// §
// §       parameter      = token "=" ( token / quoted-string )
// §
// §     The type, subtype, and parameter name tokens are case-insensitive.

// MediaType is a parsed media type or media range.
// Type and Subtype are lowercase; either may be "*" in a range.
// Params holds lowercase parameter names; a nil map means no parameters.
type MediaType struct {
	Type    string
	Subtype string
	Params  map[string]string
}

// ParseMediaType parses a single media type or media range.
// A bare "*" is accepted as a synonym for "*/*" for compatibility with
// historic user agents. Returns false for structurally invalid input.
func ParseMediaType(s string) (MediaType, bool) {
	var mt MediaType
	parts := strings.Split(s, ";")
	mime := strings.TrimSpace(parts[0])
	if mime == "*" {
		mime = "*/*"
	}
	typ, subtyp, found := strings.Cut(mime, "/")
	if !found || !isToken(typ) || !isToken(subtyp) {
		return mt, false
	}
	mt.Type = strings.ToLower(typ)
	mt.Subtype = strings.ToLower(subtyp)
	for _, param := range parts[1:] {
		name, value, _ := strings.Cut(param, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if mt.Params == nil {
			mt.Params = map[string]string{}
		}
		// §  parameter ... ( token / quoted-string )
		mt.Params[name] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return mt, true
}

// §  token ABNF per [RFC7230], Section 3.2.6:
// §
// §    token  = 1*tchar
// §    tchar  = "!" / "#" / "$" / "%" / "&" / "'" / "*"
// §           / "+" / "-" / "." / "^" / "_" / "`" / "|" / "~"
// §           / DIGIT / ALPHA
func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9':
		case c == '*': // media ranges allow the wildcard where a token is expected
		case strings.ContainsRune("!#$%&'+-.^_`|~", rune(c)):
		default:
			return false
		}
	}
	return true
}

// Equal reports whether two media types have the same type, subtype and
// parameter set. Unlike Matches, wildcards are not special and the
// parameters must match exactly in both directions.
func (t MediaType) Equal(o MediaType) bool {
	if t.Type != o.Type || t.Subtype != o.Subtype || len(t.Params) != len(o.Params) {
		return false
	}
	for name, value := range t.Params {
		if other, ok := o.Params[name]; !ok || other != value {
			return false
		}
	}
	return true
}

// MimeType returns the type/subtype pair without parameters.
func (t MediaType) MimeType() string {
	return t.Type + "/" + t.Subtype
}

func (t MediaType) String() string {
	str := t.MimeType()
	for name, value := range t.Params {
		str += "; " + name + "=" + value
	}
	return str
}

// Matches reports whether the provided type t is acceptable for the
// requested range r.
//
// Type matching, most to least specific: exact type/subtype, subtype
// wildcard (type/*), full wildcard (*/* matches anything on offer).
// Parameter matching: every parameter declared by the provided type must
// appear identically in the requested range; extra parameters on the
// request side are ignored.
func (t MediaType) Matches(r MediaType) bool {
	if r.Type == "*" {
		return true
	}
	if r.Type != t.Type {
		return false
	}
	if r.Subtype != "*" && r.Subtype != t.Subtype {
		return false
	}
	for name, value := range t.Params {
		if r.Params[name] != value {
			return false
		}
	}
	return true
}
