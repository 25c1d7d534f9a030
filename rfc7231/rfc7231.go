// Package rfc7231 implements proactive content negotiation as defined in
// RFC 7231 (HTTP/1.1 Semantics and Content), section 5.3.
//
// It selects the best representation attributes (media type, charset,
// encoding, language) between what a resource offers and what a client
// requests. All functions are pure: malformed header input degrades to
// "nothing requested" semantics and never produces an error.
package rfc7231
