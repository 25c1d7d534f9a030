// Package cowmachine is a REST decision engine. Given a set of optional
// callbacks describing a resource, it walks a fixed decision graph to
// produce a correct HTTP response: status codes, conditional request
// handling, content negotiation, and body streaming, per RFC 7231, 7232
// and 7233.
//
// The engine sits between net/http and the resource's business logic; it
// is not a router. Mount a Machine per resource on the router of your
// choice.
package cowmachine

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rustkas/cowmachine/rfc7231"
)

// Config configures a Machine.
type Config struct {
	// Resource holds the callbacks describing the resource.
	Resource *Resource
	// Logger to use. The global zerolog logger is used if nil.
	Logger *zerolog.Logger
}

// Machine drives the decision walk for one resource. Safe for concurrent
// use: each request walks with its own exclusively-owned state.
type Machine struct {
	res *Resource
	log zerolog.Logger
}

// New creates a Machine for the given configuration. A nil Resource is
// treated as a resource with all defaults (a static GET/HEAD text/html
// resource with an empty body).
func New(config Config) *Machine {
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}
	res := config.Resource
	if res == nil {
		res = &Resource{}
	}
	return &Machine{res: res, log: logger}
}

// Run walks the decision graph for a single request against the given
// resource and writes the response. It is the plain-function form of
// Machine.ServeHTTP for callers without a long-lived Machine.
func Run(res *Resource, w http.ResponseWriter, r *http.Request) {
	New(Config{Resource: res}).ServeHTTP(w, r)
}

// ServeHTTP implements the http.Handler interface.
func (m *Machine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := m.log.With().
		Str("method", r.Method).
		Str("url", r.URL.String()).
		Logger()

	rd := newReqData(r, log)
	a := &adapter{res: m.res, rd: rd}
	f := &flow{rd: rd, res: a, log: log}

	status, err := f.run()
	if err != nil {
		var halt *Halt
		if errors.As(err, &halt) {
			status = halt.Code
		} else {
			// callback fault: abort the walk, never retry
			log.Error().Err(err).Msg("Resource callback failed")
			status = http.StatusInternalServerError
			rd.respBody = nil
		}
	}
	rd.setStatus(status)
	f.finalizeHeaders()

	if err := a.finishRequest(); err != nil {
		log.Error().Err(err).Msg("FinishRequest failed")
	}

	send(w, rd, log)
	log.Debug().Int("status", rd.respStatus).Msg("Sent response")
}

// Halt is a sentinel error that stops the decision walk with the given
// status code. It lets a callback produce statuses the graph has no
// dedicated node for, such as 302 or 303.
type Halt struct {
	Code int
}

func (h *Halt) Error() string {
	return "halt with status " + strconv.Itoa(h.Code)
}

// Stop returns a *Halt for the given status code.
func Stop(code int) error {
	return &Halt{Code: code}
}

// now is replaced in tests that exercise clock-dependent conditionals.
var now = time.Now

// finalizeHeaders emits the negotiated and validator headers appropriate
// for the terminal the walk reached.
func (f *flow) finalizeHeaders() {
	headers := f.rd.respHeaders
	if len(f.vary) > 0 {
		headers.Set("Vary", strings.Join(f.vary, ", "))
	}
	switch f.rd.respStatus {
	case http.StatusNotModified:
		// §  RFC 7232, 4.1: a sender SHOULD NOT generate representation
		// §  metadata other than validators and caching headers
		if f.rd.etag.Tag != "" {
			headers.Set("ETag", f.rd.etag.String())
		}
	case http.StatusOK, http.StatusMultipleChoices:
		f.entityHeaders()
	default:
		if f.rd.respBody != nil && f.rd.respStatus < 300 {
			f.entityHeaders()
		}
	}
}

func (f *flow) entityHeaders() {
	headers := f.rd.respHeaders
	if f.rd.MediaType.Type != "" {
		contentType := f.rd.MediaType.String()
		if f.rd.Charset != "" {
			contentType += "; charset=" + f.rd.Charset
		}
		headers.Set("Content-Type", contentType)
	}
	if f.rd.Language != "" {
		headers.Set("Content-Language", f.rd.Language)
	}
	if f.rd.Encoding != "" && f.rd.Encoding != rfc7231.DefaultEncoding {
		headers.Set("Content-Encoding", f.rd.Encoding)
	}
	if f.rd.etag.Tag != "" {
		headers.Set("ETag", f.rd.etag.String())
	}
	if !f.rd.lastModified.IsZero() {
		headers.Set("Last-Modified", rfc7231.FormatHTTPDate(f.rd.lastModified))
	}
	if expires, err := f.res.expires(); err != nil {
		f.log.Error().Err(err).Msg("Expires failed")
	} else if !expires.IsZero() {
		headers.Set("Expires", rfc7231.FormatHTTPDate(expires))
	}
}

func copyHeader(dst, src http.Header) {
	for name, values := range src {
		for _, value := range values {
			dst.Add(name, value)
		}
	}
}
