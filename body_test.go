package cowmachine

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

func TestRangeSingle(t *testing.T) {
	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("Range", "bytes=0-4")

	res := serve(textResource(alphabet), req)

	if res.StatusCode != 206 {
		t.Fatalf("Status is %d", res.StatusCode)
	}
	if cr := res.Header.Get("Content-Range"); cr != "bytes 0-4/26" {
		t.Fatalf("Content-Range is %s", cr)
	}
	if cl := res.Header.Get("Content-Length"); cl != "5" {
		t.Fatalf("Content-Length is %s", cl)
	}
	if body := readBody(t, res); body != "abcde" {
		t.Fatalf("Body is %s", body)
	}
}

func TestRangeSuffix(t *testing.T) {
	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("Range", "bytes=-5")

	res := serve(textResource(alphabet), req)

	if res.StatusCode != 206 {
		t.Fatalf("Status is %d", res.StatusCode)
	}
	if cr := res.Header.Get("Content-Range"); cr != "bytes 21-25/26" {
		t.Fatalf("Content-Range is %s", cr)
	}
	if body := readBody(t, res); body != "vwxyz" {
		t.Fatalf("Body is %s", body)
	}
}

func TestRangeOpenEnded(t *testing.T) {
	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("Range", "bytes=20-")

	res := serve(textResource(alphabet), req)

	if res.StatusCode != 206 {
		t.Fatalf("Status is %d", res.StatusCode)
	}
	if body := readBody(t, res); body != "uvwxyz" {
		t.Fatalf("Body is %s", body)
	}
}

func TestRangeMultipart(t *testing.T) {
	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("Range", "bytes=0-4,10-14")

	res := serve(textResource(alphabet), req)

	if res.StatusCode != 206 {
		t.Fatalf("Status is %d", res.StatusCode)
	}
	mediaType, params, err := mime.ParseMediaType(res.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/byteranges" {
		t.Fatalf("Content-Type is %s", res.Header.Get("Content-Type"))
	}
	mr := multipart.NewReader(res.Body, params["boundary"])

	wantParts := []struct {
		contentRange string
		body         string
	}{
		{"bytes 0-4/26", "abcde"},
		{"bytes 10-14/26", "klmno"},
	}
	for _, want := range wantParts {
		part, err := mr.NextPart()
		if err != nil {
			t.Fatal(err)
		}
		if cr := part.Header.Get("Content-Range"); cr != want.contentRange {
			t.Fatalf("Part Content-Range is %s", cr)
		}
		if ct := part.Header.Get("Content-Type"); ct != "text/plain" {
			t.Fatalf("Part Content-Type is %s", ct)
		}
		body, err := io.ReadAll(part)
		if err != nil {
			t.Fatal(err)
		}
		if string(body) != want.body {
			t.Fatalf("Part body is %s", body)
		}
	}
	if _, err := mr.NextPart(); err != io.EOF {
		t.Fatalf("Expected two parts, got more (err %v)", err)
	}
}

func TestRangeUnsatisfiable(t *testing.T) {
	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("Range", "bytes=30-40")

	res := serve(textResource(alphabet), req)

	if res.StatusCode != 416 {
		t.Fatalf("Status is %d", res.StatusCode)
	}
	if cr := res.Header.Get("Content-Range"); cr != "bytes */26" {
		t.Fatalf("Content-Range is %s", cr)
	}
	if body := readBody(t, res); body != "" {
		t.Fatalf("Body is %s", body)
	}
}

func TestRangeMalformedIgnored(t *testing.T) {
	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("Range", "bytes=abc")

	res := serve(textResource(alphabet), req)

	if res.StatusCode != 200 {
		t.Fatalf("Status is %d", res.StatusCode)
	}
	if body := readBody(t, res); body != alphabet {
		t.Fatalf("Body is %s", body)
	}
}

func TestRangeIfRangeMismatchSendsFull(t *testing.T) {
	res := etagResource("v2")
	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("Range", "bytes=0-4")
	req.Header.Set("If-Range", `"v1"`)

	response := serve(res, req)

	if response.StatusCode != 200 {
		t.Fatalf("Status is %d", response.StatusCode)
	}
	if body := readBody(t, response); body != "Hello world" {
		t.Fatalf("Body is %s", body)
	}
}

func TestRangeIfRangeMatch(t *testing.T) {
	res := etagResource("v1")
	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("Range", "bytes=0-4")
	req.Header.Set("If-Range", `"v1"`)

	response := serve(res, req)

	if response.StatusCode != 206 {
		t.Fatalf("Status is %d", response.StatusCode)
	}
	if body := readBody(t, response); body != "Hello" {
		t.Fatalf("Body is %s", body)
	}
}

func seekerResource(content string) *Resource {
	res := textResource("")
	res.ContentTypesProvided = func(rd *ReqData) ([]Representation, error) {
		return []Representation{{
			MediaType: testTextPlain,
			Render: func(rd *ReqData) (Body, error) {
				return ReaderBody(bytes.NewReader([]byte(content))), nil
			},
		}}, nil
	}
	return res
}

func TestRangeSeekableReader(t *testing.T) {
	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("Range", "bytes=10-14")

	res := serve(seekerResource(alphabet), req)

	if res.StatusCode != 206 {
		t.Fatalf("Status is %d", res.StatusCode)
	}
	if body := readBody(t, res); body != "klmno" {
		t.Fatalf("Body is %s", body)
	}
}

func TestRangeIgnoredForStream(t *testing.T) {
	res := textResource("")
	res.ContentTypesProvided = func(rd *ReqData) ([]Representation, error) {
		return []Representation{{
			MediaType: testTextPlain,
			Render: func(rd *ReqData) (Body, error) {
				// MultiReader hides the Seeker, making the body unsized
				return ReaderBody(io.MultiReader(strings.NewReader(alphabet))), nil
			},
		}}, nil
	}
	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("Range", "bytes=0-4")

	response := serve(res, req)

	if response.StatusCode != 200 {
		t.Fatalf("Status is %d", response.StatusCode)
	}
	if cl := response.Header.Get("Content-Length"); cl != "" {
		t.Fatalf("Content-Length is %s", cl)
	}
	if body := readBody(t, response); body != alphabet {
		t.Fatalf("Body is %s", body)
	}
}

func TestWriterBodyStreams(t *testing.T) {
	res := textResource("")
	res.ContentTypesProvided = func(rd *ReqData) ([]Representation, error) {
		return []Representation{{
			MediaType: testTextPlain,
			Render: func(rd *ReqData) (Body, error) {
				return WriterBody(func(w io.Writer) error {
					if _, err := w.Write([]byte("chunk one\n")); err != nil {
						return err
					}
					_, err := w.Write([]byte("chunk two\n"))
					return err
				}), nil
			},
		}}, nil
	}
	req, _ := http.NewRequest("GET", "/", nil)

	response := serve(res, req)

	if response.StatusCode != 200 {
		t.Fatalf("Status is %d", response.StatusCode)
	}
	if body := readBody(t, response); body != "chunk one\nchunk two\n" {
		t.Fatalf("Body is %s", body)
	}
}

func TestHeadRangeSuppressesBody(t *testing.T) {
	req, _ := http.NewRequest("HEAD", "/", nil)
	req.Header.Set("Range", "bytes=0-4")

	res := serve(textResource(alphabet), req)

	if res.StatusCode != 206 {
		t.Fatalf("Status is %d", res.StatusCode)
	}
	if cr := res.Header.Get("Content-Range"); cr != "bytes 0-4/26" {
		t.Fatalf("Content-Range is %s", cr)
	}
	if body := readBody(t, res); body != "" {
		t.Fatalf("Body is %s", body)
	}
}
