// Package rfc7233 implements byte-range request parsing and the
// Content-Range response field as defined in RFC 7233 (HTTP/1.1 Range
// Requests).
package rfc7233
