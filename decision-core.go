package cowmachine

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rustkas/cowmachine/rfc7231"
	"github.com/rustkas/cowmachine/rfc7232"
)

// flow executes the decision graph for one request. Each node method
// performs one check and either returns a terminal status code or calls
// the next node; the graph is a DAG, so no node runs twice and the walk
// is bounded by the longest path.
type flow struct {
	rd  *ReqData
	res *adapter
	log zerolog.Logger

	// negotiation results needed by later nodes
	render func(*ReqData) (Body, error)
	vary   []string

	// whether the resource had a current representation at the
	// resource-exists branch (a PUT or POST create flips the response
	// towards 201 when it did not)
	exists bool
}

func (f *flow) node(name string) {
	f.log.Trace().Str("node", name).Msg("Deciding")
}

// run walks the graph from the entry node. It returns the terminal
// status code, or an error when a resource callback failed.
func (f *flow) run() (int, error) {
	return f.checkServiceAvailable()
}

func (f *flow) checkServiceAvailable() (int, error) {
	f.node("service available")
	available, err := f.res.serviceAvailable()
	if err != nil {
		return 0, err
	}
	if !available {
		return http.StatusServiceUnavailable, nil
	}
	return f.checkKnownMethod()
}

func (f *flow) checkKnownMethod() (int, error) {
	f.node("known method")
	known, err := f.res.knownMethods()
	if err != nil {
		return 0, err
	}
	if !containsFold(known, f.rd.Request.Method) {
		return http.StatusNotImplemented, nil
	}
	return f.checkURITooLong()
}

func (f *flow) checkURITooLong() (int, error) {
	f.node("uri too long")
	tooLong, err := f.res.uriTooLong()
	if err != nil {
		return 0, err
	}
	if tooLong {
		return http.StatusRequestURITooLong, nil
	}
	return f.checkMethodAllowed()
}

func (f *flow) checkMethodAllowed() (int, error) {
	f.node("method allowed")
	allowed, err := f.res.allowedMethods()
	if err != nil {
		return 0, err
	}
	if !containsFold(allowed, f.rd.Request.Method) {
		f.rd.respHeaders.Set("Allow", strings.Join(allowed, ", "))
		return http.StatusMethodNotAllowed, nil
	}
	return f.checkMalformed()
}

func (f *flow) checkMalformed() (int, error) {
	f.node("malformed request")
	malformed, err := f.res.malformedRequest()
	if err != nil {
		return 0, err
	}
	if malformed {
		return http.StatusBadRequest, nil
	}
	return f.checkAuthorized()
}

func (f *flow) checkAuthorized() (int, error) {
	f.node("authorized")
	authorized, challenge, err := f.res.isAuthorized()
	if err != nil {
		return 0, err
	}
	if !authorized {
		if challenge != "" {
			f.rd.respHeaders.Set("WWW-Authenticate", challenge)
		}
		return http.StatusUnauthorized, nil
	}
	return f.checkForbidden()
}

func (f *flow) checkForbidden() (int, error) {
	f.node("forbidden")
	forbidden, err := f.res.forbidden()
	if err != nil {
		return 0, err
	}
	if forbidden {
		return http.StatusForbidden, nil
	}
	return f.checkContentHeaders()
}

func (f *flow) checkContentHeaders() (int, error) {
	f.node("valid content headers")
	valid, err := f.res.validContentHeaders()
	if err != nil {
		return 0, err
	}
	if !valid {
		return http.StatusNotImplemented, nil
	}
	return f.checkKnownContentType()
}

func (f *flow) checkKnownContentType() (int, error) {
	f.node("known content type")
	known, err := f.res.knownContentType()
	if err != nil {
		return 0, err
	}
	if !known {
		return http.StatusUnsupportedMediaType, nil
	}
	return f.checkEntityLength()
}

func (f *flow) checkEntityLength() (int, error) {
	f.node("valid entity length")
	r := f.rd.Request
	if methodHasBody(r.Method) && r.ContentLength < 0 && !isChunked(r) {
		return http.StatusLengthRequired, nil
	}
	valid, err := f.res.validEntityLength()
	if err != nil {
		return 0, err
	}
	if !valid {
		return http.StatusRequestEntityTooLarge, nil
	}
	return f.checkOptions()
}

func (f *flow) checkOptions() (int, error) {
	f.node("options")
	if f.rd.Request.Method != http.MethodOptions {
		return f.negotiateMediaType()
	}
	allowed, err := f.res.allowedMethods()
	if err != nil {
		return 0, err
	}
	f.rd.respHeaders.Set("Allow", strings.Join(allowed, ", "))
	extra, err := f.res.options()
	if err != nil {
		return 0, err
	}
	for name, values := range extra {
		for _, value := range values {
			f.rd.respHeaders.Add(name, value)
		}
	}
	return http.StatusOK, nil
}

func (f *flow) negotiateMediaType() (int, error) {
	f.node("accept")
	provided, err := f.res.contentTypesProvided()
	if err != nil {
		return 0, err
	}
	if len(provided) == 0 {
		return http.StatusNotAcceptable, nil
	}
	if len(provided) > 1 {
		f.vary = append(f.vary, "Accept")
	}
	chosen := provided[0]
	if accept := f.rd.Request.Header.Get("Accept"); accept != "" {
		types := make([]rfc7231.MediaType, len(provided))
		for i, p := range provided {
			types[i] = p.MediaType
		}
		mt, ok := rfc7231.ChooseProvided(types, accept)
		if !ok {
			return http.StatusNotAcceptable, nil
		}
		for _, p := range provided {
			if p.MediaType.Equal(mt) {
				chosen = p
				break
			}
		}
	}
	f.rd.MediaType = chosen.MediaType
	f.render = chosen.Render
	return f.negotiateLanguage()
}

func (f *flow) negotiateLanguage() (int, error) {
	f.node("accept language")
	offered, err := f.res.languagesProvided()
	if err != nil {
		return 0, err
	}
	if len(offered) == 0 {
		return f.negotiateCharset()
	}
	if len(offered) > 1 {
		f.vary = append(f.vary, "Accept-Language")
	}
	f.rd.Language = offered[0]
	if header := f.rd.Request.Header.Get("Accept-Language"); header != "" {
		language, ok := rfc7231.ChooseLanguage(offered, header)
		if !ok {
			return http.StatusNotAcceptable, nil
		}
		f.rd.Language = language
	}
	return f.negotiateCharset()
}

func (f *flow) negotiateCharset() (int, error) {
	f.node("accept charset")
	offered, err := f.res.charsetsProvided()
	if err != nil {
		return 0, err
	}
	if len(offered) == 0 {
		return f.negotiateEncoding()
	}
	if len(offered) > 1 {
		f.vary = append(f.vary, "Accept-Charset")
	}
	f.rd.Charset = offered[0]
	if header := f.rd.Request.Header.Get("Accept-Charset"); header != "" {
		charset, ok := rfc7231.ChooseCharset(offered, header)
		if !ok {
			return http.StatusNotAcceptable, nil
		}
		f.rd.Charset = charset
	}
	return f.negotiateEncoding()
}

func (f *flow) negotiateEncoding() (int, error) {
	f.node("accept encoding")
	offered, err := f.res.encodingsProvided()
	if err != nil {
		return 0, err
	}
	if len(offered) == 0 {
		offered = []string{rfc7231.DefaultEncoding}
	}
	if len(offered) > 1 {
		f.vary = append(f.vary, "Accept-Encoding")
	}
	f.rd.Encoding = offered[0]
	if header := f.rd.Request.Header.Get("Accept-Encoding"); header != "" {
		encoding, ok := rfc7231.ChooseEncoding(offered, header)
		if !ok {
			return http.StatusNotAcceptable, nil
		}
		f.rd.Encoding = encoding
	}
	return f.checkResourceExists()
}

func (f *flow) checkResourceExists() (int, error) {
	f.node("resource exists")
	exists, err := f.res.resourceExists()
	if err != nil {
		return 0, err
	}
	f.exists = exists
	if exists {
		return f.checkIfMatch()
	}
	return f.checkIfMatchMissing()
}

// conditional checks, existing resource

func (f *flow) checkIfMatch() (int, error) {
	f.node("if-match")
	if err := f.resolveValidators(); err != nil {
		return 0, err
	}
	header := f.rd.Request.Header.Get("If-Match")
	if rfc7232.CheckIfMatch(header, f.rd.etag, true) == rfc7232.CondFalse {
		return http.StatusPreconditionFailed, nil
	}
	return f.checkIfUnmodifiedSince()
}

func (f *flow) checkIfUnmodifiedSince() (int, error) {
	f.node("if-unmodified-since")
	header := f.rd.Request.Header.Get("If-Unmodified-Since")
	if rfc7232.CheckIfUnmodifiedSince(header, f.rd.lastModified) == rfc7232.CondFalse {
		return http.StatusPreconditionFailed, nil
	}
	return f.checkIfNoneMatch()
}

func (f *flow) checkIfNoneMatch() (int, error) {
	f.node("if-none-match")
	header := f.rd.Request.Header.Get("If-None-Match")
	switch rfc7232.CheckIfNoneMatch(header, f.rd.etag, true) {
	case rfc7232.CondFalse:
		if isReadMethod(f.rd.Request.Method) {
			return http.StatusNotModified, nil
		}
		return http.StatusPreconditionFailed, nil
	case rfc7232.CondNone:
		return f.checkIfModifiedSince()
	}
	// a passing If-None-Match takes precedence over If-Modified-Since
	return f.dispatchMethod()
}

func (f *flow) checkIfModifiedSince() (int, error) {
	f.node("if-modified-since")
	if isReadMethod(f.rd.Request.Method) {
		header := f.rd.Request.Header.Get("If-Modified-Since")
		if rfc7232.CheckIfModifiedSince(header, f.rd.lastModified, now()) == rfc7232.CondFalse {
			return http.StatusNotModified, nil
		}
	}
	return f.dispatchMethod()
}

// method dispatch, existing resource

func (f *flow) dispatchMethod() (int, error) {
	f.node("method dispatch")
	switch f.rd.Request.Method {
	case http.MethodDelete:
		return f.doDelete()
	case http.MethodPost:
		return f.doPost()
	case http.MethodPut, http.MethodPatch:
		return f.acceptContent()
	default:
		return f.renderEntity()
	}
}

func (f *flow) doDelete() (int, error) {
	f.node("delete resource")
	enacted, err := f.res.deleteResource()
	if err != nil {
		return 0, err
	}
	if !enacted {
		return http.StatusInternalServerError, nil
	}
	completed, err := f.res.deleteCompleted()
	if err != nil {
		return 0, err
	}
	if !completed {
		return http.StatusAccepted, nil
	}
	if f.rd.respBody != nil {
		return http.StatusOK, nil
	}
	return http.StatusNoContent, nil
}

func (f *flow) doPost() (int, error) {
	f.node("post is create")
	create, err := f.res.postIsCreate()
	if err != nil {
		return 0, err
	}
	if create {
		path, err := f.res.createPath()
		if err != nil {
			return 0, err
		}
		if path == "" {
			f.log.Error().Msg("PostIsCreate without a CreatePath")
			return http.StatusInternalServerError, nil
		}
		f.rd.createdPath = path
		f.rd.respHeaders.Set("Location", path)
		return f.acceptContent()
	}
	f.node("process post")
	processed, err := f.res.processPost()
	if err != nil {
		return 0, err
	}
	if !processed {
		return http.StatusInternalServerError, nil
	}
	if f.rd.respBody != nil {
		return f.renderDone(http.StatusOK)
	}
	return http.StatusNoContent, nil
}

// acceptContent runs the request body through the resource's accepted
// content types. Reached by PUT and PATCH, and by POST when the post
// creates a resource.
func (f *flow) acceptContent() (int, error) {
	f.node("is conflict")
	if f.rd.Request.Method != http.MethodPost {
		conflict, err := f.res.isConflict()
		if err != nil {
			return 0, err
		}
		if conflict {
			return http.StatusConflict, nil
		}
	}
	f.node("accept content")
	accepted, err := f.res.contentTypesAccepted()
	if err != nil {
		return 0, err
	}
	contentType, ok := rfc7231.ParseMediaType(f.rd.Request.Header.Get("Content-Type"))
	if !ok {
		// §  a request without a Content-Type is handled as octet-stream
		contentType = rfc7231.MediaType{Type: "application", Subtype: "octet-stream"}
	}
	chosen := Acceptor{}
	if len(accepted) > 0 {
		types := make([]rfc7231.MediaType, len(accepted))
		for i, a := range accepted {
			types[i] = a.MediaType
		}
		mt, ok := rfc7231.ChooseAccepted(types, contentType)
		if !ok {
			return http.StatusUnsupportedMediaType, nil
		}
		for _, a := range accepted {
			if a.MediaType.Equal(mt) {
				chosen = a
				break
			}
		}
	}
	if chosen.Accept != nil {
		ok, err := chosen.Accept(f.rd)
		if err != nil {
			return 0, err
		}
		if !ok {
			return http.StatusUnprocessableEntity, nil
		}
	}
	if !f.exists || f.rd.createdPath != "" {
		return http.StatusCreated, nil
	}
	if f.rd.respBody != nil {
		return f.renderDone(http.StatusOK)
	}
	return http.StatusNoContent, nil
}

func (f *flow) renderEntity() (int, error) {
	f.node("render entity")
	if f.render != nil {
		body, err := f.render(f.rd)
		if err != nil {
			return 0, err
		}
		f.rd.respBody = body
	}
	return f.renderDone(http.StatusOK)
}

// renderDone decides between the given success status and 300 Multiple
// Choices for a response carrying an entity.
func (f *flow) renderDone(status int) (int, error) {
	f.node("multiple choices")
	multiple, err := f.res.multipleChoices()
	if err != nil {
		return 0, err
	}
	if multiple {
		return http.StatusMultipleChoices, nil
	}
	return status, nil
}

// the missing-resource branch

func (f *flow) checkIfMatchMissing() (int, error) {
	f.node("if-match (missing)")
	header := f.rd.Request.Header.Get("If-Match")
	if rfc7232.CheckIfMatch(header, rfc7232.ETag{}, false) == rfc7232.CondFalse {
		return http.StatusPreconditionFailed, nil
	}
	if f.rd.Request.Method == http.MethodPut {
		return f.putToMissing()
	}
	return f.checkPreviouslyExisted()
}

func (f *flow) putToMissing() (int, error) {
	f.node("moved permanently (put)")
	location, err := f.res.movedPermanently()
	if err != nil {
		return 0, err
	}
	if location != "" {
		f.rd.respHeaders.Set("Location", location)
		return http.StatusMovedPermanently, nil
	}
	return f.acceptContent()
}

func (f *flow) checkPreviouslyExisted() (int, error) {
	f.node("previously existed")
	existed, err := f.res.previouslyExisted()
	if err != nil {
		return 0, err
	}
	if !existed {
		return f.postToMissing(http.StatusNotFound)
	}
	location, err := f.res.movedPermanently()
	if err != nil {
		return 0, err
	}
	if location != "" {
		f.rd.respHeaders.Set("Location", location)
		return http.StatusMovedPermanently, nil
	}
	location, err = f.res.movedTemporarily()
	if err != nil {
		return 0, err
	}
	if location != "" {
		f.rd.respHeaders.Set("Location", location)
		return http.StatusTemporaryRedirect, nil
	}
	return f.postToMissing(http.StatusGone)
}

// postToMissing allows a POST to a resource that does not exist when the
// resource permits it; any other method terminates with notExists
// (404 for a resource that never existed, 410 for one that did).
func (f *flow) postToMissing(notExists int) (int, error) {
	f.node("allow missing post")
	if f.rd.Request.Method != http.MethodPost {
		return notExists, nil
	}
	allowed, err := f.res.allowMissingPost()
	if err != nil {
		return 0, err
	}
	if !allowed {
		return notExists, nil
	}
	return f.doPost()
}

// resolveValidators resolves the resource's current entity-tag and
// modification date into the request context. The underlying callbacks
// are memoized, so the values seen here are the ones emitted later.
func (f *flow) resolveValidators() error {
	etag, err := f.res.generateETag()
	if err != nil {
		return err
	}
	f.rd.etag = etag
	lastModified, err := f.res.lastModified()
	if err != nil {
		return err
	}
	f.rd.lastModified = lastModified
	return nil
}

func containsFold(list []string, s string) bool {
	for _, elem := range list {
		if strings.EqualFold(elem, s) {
			return true
		}
	}
	return false
}

func isReadMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func methodHasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

func isChunked(r *http.Request) bool {
	for _, te := range r.TransferEncoding {
		if strings.EqualFold(te, "chunked") {
			return true
		}
	}
	return false
}
