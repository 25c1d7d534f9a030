// Package rfc7232 implements validators and conditional request
// evaluation as defined in RFC 7232 (HTTP/1.1 Conditional Requests).
//
// Given a resource's current validators (entity-tag and last modified
// date) and the precondition header fields of a request, it decides
// whether each precondition passes. Combining the individual checks in
// the order RFC 7232 section 6 requires, and mapping failures to status
// codes, is the caller's job.
package rfc7232

// Cond is the outcome of evaluating one precondition header field.
type Cond int

const (
	// CondNone means the header field is absent or unusable, and the
	// precondition does not apply.
	CondNone Cond = iota
	// CondTrue means the precondition holds.
	CondTrue
	// CondFalse means the precondition failed.
	CondFalse
)

func (c Cond) String() string {
	switch c {
	case CondTrue:
		return "true"
	case CondFalse:
		return "false"
	}
	return "none"
}
