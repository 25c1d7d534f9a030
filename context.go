package cowmachine

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustkas/cowmachine/rfc7231"
	"github.com/rustkas/cowmachine/rfc7232"
)

// ReqData is the state threaded through one request's decision walk. It
// is exclusively owned by that walk: never shared between requests and
// never locked.
//
// The negotiated representation attributes are set once by the
// negotiation steps of the walk and are never overwritten afterwards.
// Resource callbacks receive the ReqData for read access to these fields
// and for setting response headers and the response body.
type ReqData struct {
	// Request is the incoming request. Callbacks may read the method,
	// URL, headers and body from it.
	Request *http.Request

	// Negotiated representation attributes. MediaType is always set by
	// the time a render callback runs; Charset and Language are empty
	// when the resource does not declare the axis.
	MediaType rfc7231.MediaType
	Charset   string
	Encoding  string
	Language  string

	log zerolog.Logger

	// resolved validators for the selected representation
	etag         rfc7232.ETag
	lastModified time.Time

	respStatus  int
	respHeaders http.Header
	respBody    Body

	// createdPath is set when a POST creates a new resource
	createdPath string

	// memoized callback results, at most one entry per callback
	memo map[string]any
}

func newReqData(r *http.Request, log zerolog.Logger) *ReqData {
	return &ReqData{
		Request:     r,
		log:         log,
		respHeaders: http.Header{},
		memo:        map[string]any{},
	}
}

// RespHeaders returns the accumulated response headers. Callbacks may add
// to them; headers set by a terminal decision (Location, Allow,
// WWW-Authenticate) are added by the walk itself.
func (rd *ReqData) RespHeaders() http.Header {
	return rd.respHeaders
}

// SetRespHeader sets a response header.
func (rd *ReqData) SetRespHeader(name, value string) {
	rd.respHeaders.Set(name, value)
}

// SetRespBody sets the response body descriptor. Mutation callbacks
// (ProcessPost, an Acceptor) use it to attach a body to 200 responses;
// render callbacks return the body instead.
func (rd *ReqData) SetRespBody(body Body) {
	rd.respBody = body
}

// Status returns the response status code, or 0 while the walk has not
// reached a terminal yet.
func (rd *ReqData) Status() int {
	return rd.respStatus
}

// setStatus fixes the final status code. It is called exactly once, by
// the terminal node of the walk.
func (rd *ReqData) setStatus(code int) {
	if rd.respStatus == 0 {
		rd.respStatus = code
	}
}

// memoize caches the first result of f under key for the lifetime of the
// request, so that a callback consulted at several decision points runs
// at most once. Errors are not cached: they abort the walk anyway.
func memoize[T any](rd *ReqData, key string, f func() (T, error)) (T, error) {
	if v, ok := rd.memo[key]; ok {
		return v.(T), nil
	}
	v, err := f()
	if err != nil {
		return v, err
	}
	rd.memo[key] = v
	return v, nil
}
