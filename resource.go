package cowmachine

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"

	"github.com/rustkas/cowmachine/rfc7231"
	"github.com/rustkas/cowmachine/rfc7232"
)

// Representation pairs a media type a resource can produce with the
// callback that renders it. A nil Render produces an empty body.
type Representation struct {
	MediaType rfc7231.MediaType
	Render    func(*ReqData) (Body, error)
}

// Acceptor pairs a media type a resource accepts in request bodies with
// the callback that processes such a body. The callback reports whether
// the content was accepted; returning false yields 422 Unprocessable
// Entity.
type Acceptor struct {
	MediaType rfc7231.MediaType
	Accept    func(*ReqData) (bool, error)
}

// Resource describes a resource to the decision engine as a set of
// optional callbacks. Every field may be nil, in which case the
// documented default applies. A callback that fails with a *Halt stops
// the walk with the halt's status code; any other error stops the walk
// with 500 Internal Server Error.
type Resource struct {
	// ServiceAvailable reports whether the service is up. Default true;
	// false yields 503.
	ServiceAvailable func(*ReqData) (bool, error)
	// KnownMethods lists the methods the server recognizes at all.
	// Default: GET, HEAD, POST, PUT, DELETE, PATCH, OPTIONS, TRACE,
	// CONNECT. An unknown method yields 501.
	KnownMethods func(*ReqData) ([]string, error)
	// URITooLong reports whether the request URI is too long. Default
	// false; true yields 414.
	URITooLong func(*ReqData) (bool, error)
	// AllowedMethods lists the methods this resource supports. Default:
	// GET, HEAD. Others yield 405 with an Allow header.
	AllowedMethods func(*ReqData) ([]string, error)
	// MalformedRequest reports whether the request is structurally
	// invalid. The default validates header field syntax. True yields 400.
	MalformedRequest func(*ReqData) (bool, error)
	// IsAuthorized reports whether the request is authorized. A non-empty
	// challenge is sent as WWW-Authenticate with the 401 that results
	// from not being authorized. Default: authorized.
	IsAuthorized func(*ReqData) (authorized bool, challenge string, err error)
	// Forbidden reports whether the request is forbidden (403).
	// Default false.
	Forbidden func(*ReqData) (bool, error)
	// ValidContentHeaders reports whether the Content-* headers are
	// valid. The default validates their field values. False yields 501.
	ValidContentHeaders func(*ReqData) (bool, error)
	// KnownContentType reports whether the request body's content type is
	// known. Default true; false yields 415.
	KnownContentType func(*ReqData) (bool, error)
	// ValidEntityLength reports whether the request body size is
	// acceptable. Default true; false yields 413.
	ValidEntityLength func(*ReqData) (bool, error)
	// Options returns extra headers for the response to an OPTIONS
	// request. Default none.
	Options func(*ReqData) (http.Header, error)

	// ContentTypesProvided lists the representations this resource can
	// produce, in preference order. Memoized per request. Default: a
	// single text/html representation with an empty body.
	ContentTypesProvided func(*ReqData) ([]Representation, error)
	// ContentTypesAccepted lists the request body types this resource
	// accepts for PUT and POST. An empty list accepts any type.
	ContentTypesAccepted func(*ReqData) ([]Acceptor, error)
	// CharsetsProvided lists the charsets this resource can produce.
	// Memoized per request. An empty list skips charset negotiation.
	CharsetsProvided func(*ReqData) ([]string, error)
	// EncodingsProvided lists the content codings this resource can
	// produce. Memoized per request. Default: identity only.
	EncodingsProvided func(*ReqData) ([]string, error)
	// LanguagesProvided lists the languages this resource can produce.
	// Memoized per request. An empty list skips language negotiation.
	LanguagesProvided func(*ReqData) ([]string, error)

	// ResourceExists reports whether the resource has a current
	// representation. Default true.
	ResourceExists func(*ReqData) (bool, error)
	// GenerateETag returns the entity-tag for the selected
	// representation. Memoized per request, so the conditional checks and
	// the emitted ETag header always see the same value. Default: none.
	GenerateETag func(*ReqData) (rfc7232.ETag, error)
	// LastModified returns the modification date of the selected
	// representation. Memoized per request. Default: none (zero time).
	LastModified func(*ReqData) (time.Time, error)
	// Expires returns the expiry date for the response, emitted as an
	// Expires header. Default: none.
	Expires func(*ReqData) (time.Time, error)

	// MovedPermanently returns the permanent location of a resource that
	// no longer exists here (301), or "" if not moved.
	MovedPermanently func(*ReqData) (string, error)
	// MovedTemporarily returns the temporary location of a resource that
	// no longer exists here (307), or "" if not moved.
	MovedTemporarily func(*ReqData) (string, error)
	// PreviouslyExisted reports whether a missing resource existed
	// before, turning 404 into 410. Default false.
	PreviouslyExisted func(*ReqData) (bool, error)
	// AllowMissingPost allows POST to a missing resource. Default false.
	AllowMissingPost func(*ReqData) (bool, error)

	// DeleteResource enacts deletion. Returning false means the delete
	// was not enacted and yields 500. Required for DELETE support.
	DeleteResource func(*ReqData) (bool, error)
	// DeleteCompleted reports whether an enacted delete has finished;
	// false yields 202 Accepted. Default true.
	DeleteCompleted func(*ReqData) (bool, error)

	// PostIsCreate makes POST create a new resource at the path returned
	// by CreatePath, processing the body through ContentTypesAccepted.
	// Default false, in which case ProcessPost handles the POST.
	PostIsCreate func(*ReqData) (bool, error)
	// CreatePath returns the path of the resource a POST will create.
	// Required when PostIsCreate returns true.
	CreatePath func(*ReqData) (string, error)
	// ProcessPost processes a POST that is not a create. Returning false
	// yields 500. Required for POST support when PostIsCreate is false.
	ProcessPost func(*ReqData) (bool, error)
	// IsConflict reports whether a PUT conflicts with the current state
	// of the resource (409). Default false.
	IsConflict func(*ReqData) (bool, error)

	// MultipleChoices turns an otherwise successful entity response into
	// 300 Multiple Choices. Default false.
	MultipleChoices func(*ReqData) (bool, error)
	// FinishRequest runs after the walk has fixed the status code and
	// before the response body is streamed.
	FinishRequest func(*ReqData) error
}

var defaultKnownMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodDelete, http.MethodPatch, http.MethodOptions,
	http.MethodTrace, http.MethodConnect,
}

// adapter wraps a Resource for one request, applying defaults for unset
// callbacks and memoizing the expensive ones.
type adapter struct {
	res *Resource
	rd  *ReqData
}

func (a *adapter) serviceAvailable() (bool, error) {
	if a.res.ServiceAvailable == nil {
		return true, nil
	}
	return a.res.ServiceAvailable(a.rd)
}

func (a *adapter) knownMethods() ([]string, error) {
	if a.res.KnownMethods == nil {
		return defaultKnownMethods, nil
	}
	return a.res.KnownMethods(a.rd)
}

func (a *adapter) uriTooLong() (bool, error) {
	if a.res.URITooLong == nil {
		return false, nil
	}
	return a.res.URITooLong(a.rd)
}

func (a *adapter) allowedMethods() ([]string, error) {
	if a.res.AllowedMethods == nil {
		return []string{http.MethodGet, http.MethodHead}, nil
	}
	return a.res.AllowedMethods(a.rd)
}

func (a *adapter) malformedRequest() (bool, error) {
	if a.res.MalformedRequest == nil {
		return !validHeaderSyntax(a.rd.Request.Header), nil
	}
	return a.res.MalformedRequest(a.rd)
}

func (a *adapter) isAuthorized() (bool, string, error) {
	if a.res.IsAuthorized == nil {
		return true, "", nil
	}
	return a.res.IsAuthorized(a.rd)
}

func (a *adapter) forbidden() (bool, error) {
	if a.res.Forbidden == nil {
		return false, nil
	}
	return a.res.Forbidden(a.rd)
}

func (a *adapter) validContentHeaders() (bool, error) {
	if a.res.ValidContentHeaders == nil {
		return validContentHeaderSyntax(a.rd.Request.Header), nil
	}
	return a.res.ValidContentHeaders(a.rd)
}

func (a *adapter) knownContentType() (bool, error) {
	if a.res.KnownContentType == nil {
		return true, nil
	}
	return a.res.KnownContentType(a.rd)
}

func (a *adapter) validEntityLength() (bool, error) {
	if a.res.ValidEntityLength == nil {
		return true, nil
	}
	return a.res.ValidEntityLength(a.rd)
}

func (a *adapter) options() (http.Header, error) {
	if a.res.Options == nil {
		return nil, nil
	}
	return a.res.Options(a.rd)
}

func (a *adapter) contentTypesProvided() ([]Representation, error) {
	return memoize(a.rd, "contentTypesProvided", func() ([]Representation, error) {
		if a.res.ContentTypesProvided == nil {
			return []Representation{{
				MediaType: rfc7231.MediaType{Type: "text", Subtype: "html"},
			}}, nil
		}
		return a.res.ContentTypesProvided(a.rd)
	})
}

func (a *adapter) contentTypesAccepted() ([]Acceptor, error) {
	if a.res.ContentTypesAccepted == nil {
		return nil, nil
	}
	return a.res.ContentTypesAccepted(a.rd)
}

func (a *adapter) charsetsProvided() ([]string, error) {
	return memoize(a.rd, "charsetsProvided", func() ([]string, error) {
		if a.res.CharsetsProvided == nil {
			return nil, nil
		}
		return a.res.CharsetsProvided(a.rd)
	})
}

func (a *adapter) encodingsProvided() ([]string, error) {
	return memoize(a.rd, "encodingsProvided", func() ([]string, error) {
		if a.res.EncodingsProvided == nil {
			return []string{rfc7231.DefaultEncoding}, nil
		}
		return a.res.EncodingsProvided(a.rd)
	})
}

func (a *adapter) languagesProvided() ([]string, error) {
	return memoize(a.rd, "languagesProvided", func() ([]string, error) {
		if a.res.LanguagesProvided == nil {
			return nil, nil
		}
		return a.res.LanguagesProvided(a.rd)
	})
}

func (a *adapter) resourceExists() (bool, error) {
	if a.res.ResourceExists == nil {
		return true, nil
	}
	return a.res.ResourceExists(a.rd)
}

func (a *adapter) generateETag() (rfc7232.ETag, error) {
	return memoize(a.rd, "generateETag", func() (rfc7232.ETag, error) {
		if a.res.GenerateETag == nil {
			return rfc7232.ETag{}, nil
		}
		return a.res.GenerateETag(a.rd)
	})
}

func (a *adapter) lastModified() (time.Time, error) {
	return memoize(a.rd, "lastModified", func() (time.Time, error) {
		if a.res.LastModified == nil {
			return time.Time{}, nil
		}
		return a.res.LastModified(a.rd)
	})
}

func (a *adapter) expires() (time.Time, error) {
	if a.res.Expires == nil {
		return time.Time{}, nil
	}
	return a.res.Expires(a.rd)
}

func (a *adapter) movedPermanently() (string, error) {
	if a.res.MovedPermanently == nil {
		return "", nil
	}
	return a.res.MovedPermanently(a.rd)
}

func (a *adapter) movedTemporarily() (string, error) {
	if a.res.MovedTemporarily == nil {
		return "", nil
	}
	return a.res.MovedTemporarily(a.rd)
}

func (a *adapter) previouslyExisted() (bool, error) {
	if a.res.PreviouslyExisted == nil {
		return false, nil
	}
	return a.res.PreviouslyExisted(a.rd)
}

func (a *adapter) allowMissingPost() (bool, error) {
	if a.res.AllowMissingPost == nil {
		return false, nil
	}
	return a.res.AllowMissingPost(a.rd)
}

func (a *adapter) deleteResource() (bool, error) {
	if a.res.DeleteResource == nil {
		return false, nil
	}
	return a.res.DeleteResource(a.rd)
}

func (a *adapter) deleteCompleted() (bool, error) {
	if a.res.DeleteCompleted == nil {
		return true, nil
	}
	return a.res.DeleteCompleted(a.rd)
}

func (a *adapter) postIsCreate() (bool, error) {
	if a.res.PostIsCreate == nil {
		return false, nil
	}
	return a.res.PostIsCreate(a.rd)
}

func (a *adapter) createPath() (string, error) {
	if a.res.CreatePath == nil {
		return "", nil
	}
	return a.res.CreatePath(a.rd)
}

func (a *adapter) processPost() (bool, error) {
	if a.res.ProcessPost == nil {
		return false, nil
	}
	return a.res.ProcessPost(a.rd)
}

func (a *adapter) isConflict() (bool, error) {
	if a.res.IsConflict == nil {
		return false, nil
	}
	return a.res.IsConflict(a.rd)
}

func (a *adapter) multipleChoices() (bool, error) {
	if a.res.MultipleChoices == nil {
		return false, nil
	}
	return a.res.MultipleChoices(a.rd)
}

func (a *adapter) finishRequest() error {
	if a.res.FinishRequest == nil {
		return nil
	}
	return a.res.FinishRequest(a.rd)
}

// validHeaderSyntax checks every header field of the request for valid
// RFC 7230 syntax. net/http rejects most invalid fields on its own; this
// guards engine users on other transports.
func validHeaderSyntax(header http.Header) bool {
	for name, values := range header {
		if !httpguts.ValidHeaderFieldName(name) {
			return false
		}
		for _, value := range values {
			if !httpguts.ValidHeaderFieldValue(value) {
				return false
			}
		}
	}
	return true
}

// validContentHeaderSyntax checks the Content-* header fields only.
func validContentHeaderSyntax(header http.Header) bool {
	for name, values := range header {
		if !strings.HasPrefix(name, "Content-") {
			continue
		}
		for _, value := range values {
			if !httpguts.ValidHeaderFieldValue(value) {
				return false
			}
		}
	}
	return true
}
