package cowmachine

import (
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/rustkas/cowmachine/rfc7233"
)

// Body describes the representation a handler chose to send: a fixed
// byte sequence, a finite non-restartable stream, or a writer function
// producing chunks. Streams and writer bodies are emitted without
// re-buffering, preserving chunk boundaries for large resources.
type Body interface {
	isBody()
}

type bytesBody []byte

func (bytesBody) isBody() {}

type readerBody struct {
	r io.Reader
}

func (readerBody) isBody() {}

type writerBody func(io.Writer) error

func (writerBody) isBody() {}

// BytesBody returns a fixed body. Byte-range requests are fully
// supported for fixed bodies.
func BytesBody(b []byte) Body {
	return bytesBody(b)
}

// StringBody returns a fixed body from a string.
func StringBody(s string) Body {
	return bytesBody(s)
}

// ReaderBody returns a streaming body. The reader must produce a finite
// sequence and is read exactly once. Byte-range requests are honored
// when the reader also seeks; otherwise the full representation is sent.
func ReaderBody(r io.Reader) Body {
	return readerBody{r: r}
}

// WriterBody returns a body produced by writing to the response stream.
// Every write is flushed through to the client, so chunk boundaries are
// preserved as produced.
func WriterBody(f func(io.Writer) error) Body {
	return writerBody(f)
}

// send streams the decided response to the client. Byte ranges are
// resolved here: a single satisfiable range produces 206 with a
// Content-Range header, several produce a multipart/byteranges body, and
// an unsatisfiable set produces 416.
func send(w http.ResponseWriter, rd *ReqData, log zerolog.Logger) {
	copyHeader(w.Header(), rd.respHeaders)
	status := rd.respStatus
	body := rd.respBody
	if !statusAllowsBody(status) {
		body = nil
	}
	size, sized := bodySize(body)

	var ranges []rfc7233.ByteRange
	if status == http.StatusOK && isReadMethod(rd.Request.Method) && sized {
		header := rd.Request.Header.Get("Range")
		if header != "" && rfc7233.CheckIfRange(rd.Request.Header.Get("If-Range"), rd.etag, rd.lastModified) {
			parsed, ok := rfc7233.ParseRange(header, size)
			if !ok {
				w.Header().Del("Content-Type")
				w.Header().Set("Content-Range", rfc7233.ContentRangeUnsatisfied(size))
				rd.respStatus = http.StatusRequestedRangeNotSatisfiable
				w.WriteHeader(rd.respStatus)
				return
			}
			ranges = parsed
		}
	}

	head := rd.Request.Method == http.MethodHead

	switch {
	case len(ranges) == 1:
		w.Header().Set("Content-Range", ranges[0].ContentRange(size))
		w.Header().Set("Content-Length", strconv.FormatInt(ranges[0].Length, 10))
		rd.respStatus = http.StatusPartialContent
		w.WriteHeader(rd.respStatus)
		if !head {
			if err := writeRange(w, body, ranges[0]); err != nil {
				log.Error().Err(err).Msg("Could not write range to client")
			}
		}
	case len(ranges) > 1:
		mw := multipart.NewWriter(w)
		partType := w.Header().Get("Content-Type")
		w.Header().Set("Content-Type", "multipart/byteranges; boundary="+mw.Boundary())
		rd.respStatus = http.StatusPartialContent
		w.WriteHeader(rd.respStatus)
		if head {
			return
		}
		for _, r := range ranges {
			partHeader := textproto.MIMEHeader{}
			if partType != "" {
				partHeader.Set("Content-Type", partType)
			}
			partHeader.Set("Content-Range", r.ContentRange(size))
			part, err := mw.CreatePart(partHeader)
			if err != nil {
				log.Error().Err(err).Msg("Could not create byterange part")
				return
			}
			if err := writeRange(part, body, r); err != nil {
				log.Error().Err(err).Msg("Could not write range to client")
				return
			}
		}
		if err := mw.Close(); err != nil {
			log.Error().Err(err).Msg("Could not finish byteranges body")
		}
	default:
		if sized {
			w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		}
		w.WriteHeader(status)
		if head || body == nil {
			return
		}
		if err := writeBody(w, body); err != nil {
			log.Error().Err(err).Msg("Could not write response body to client")
		}
	}
}

// bodySize returns the total size of a body when it is knowable without
// consuming the body.
func bodySize(body Body) (int64, bool) {
	switch b := body.(type) {
	case bytesBody:
		return int64(len(b)), true
	case readerBody:
		if s, ok := b.r.(io.Seeker); ok {
			size, err := s.Seek(0, io.SeekEnd)
			if err != nil {
				return 0, false
			}
			if _, err := s.Seek(0, io.SeekStart); err != nil {
				return 0, false
			}
			return size, true
		}
	}
	return 0, false
}

func writeBody(w http.ResponseWriter, body Body) error {
	switch b := body.(type) {
	case bytesBody:
		_, err := w.Write(b)
		return err
	case readerBody:
		// io.Copy issues one Write per Read, so chunk boundaries from
		// the handler survive up to the copy buffer size
		_, err := io.Copy(flushWriter{w}, b.r)
		return err
	case writerBody:
		return b(flushWriter{w})
	}
	return nil
}

func writeRange(dst io.Writer, body Body, r rfc7233.ByteRange) error {
	switch b := body.(type) {
	case bytesBody:
		_, err := dst.Write(b[r.Start : r.Start+r.Length])
		return err
	case readerBody:
		s, ok := b.r.(io.Seeker)
		if !ok {
			return nil
		}
		if _, err := s.Seek(r.Start, io.SeekStart); err != nil {
			return err
		}
		_, err := io.CopyN(dst, b.r, r.Length)
		return err
	}
	return nil
}

// flushWriter flushes after every write so that streamed chunks reach
// the client as they are produced.
type flushWriter struct {
	w io.Writer
}

func (fw flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	if f, ok := fw.w.(http.Flusher); ok {
		f.Flush()
	}
	return n, err
}

func statusAllowsBody(status int) bool {
	switch {
	case status < 200:
		return false
	case status == http.StatusNoContent || status == http.StatusNotModified:
		return false
	}
	return true
}
