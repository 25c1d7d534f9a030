package main

import (
	"errors"
	"io"
	"time"

	"github.com/go-chi/chi/v5"

	cowmachine "github.com/rustkas/cowmachine"
	"github.com/rustkas/cowmachine/rfc7231"
	"github.com/rustkas/cowmachine/rfc7232"
	"github.com/rustkas/cowmachine/store"
)

var textPlain = rfc7231.MediaType{Type: "text", Subtype: "plain"}

func noteID(rd *cowmachine.ReqData) string {
	return chi.URLParam(rd.Request, "id")
}

// notesResource serves one note per URL, keyed by the chi route
// parameter. GET and HEAD render the stored body, PUT stores a new
// revision, DELETE removes the note. Validators come straight from the
// store, so conditional requests work against the stored revision.
func notesResource(notes store.NoteStore) *cowmachine.Resource {
	return &cowmachine.Resource{
		AllowedMethods: func(rd *cowmachine.ReqData) ([]string, error) {
			return []string{"GET", "HEAD", "PUT", "DELETE"}, nil
		},
		ResourceExists: func(rd *cowmachine.ReqData) (bool, error) {
			return notes.Has(noteID(rd))
		},
		ContentTypesProvided: func(rd *cowmachine.ReqData) ([]cowmachine.Representation, error) {
			return []cowmachine.Representation{{
				MediaType: textPlain,
				Render: func(rd *cowmachine.ReqData) (cowmachine.Body, error) {
					note, err := notes.Get(noteID(rd))
					if err != nil {
						return nil, err
					}
					return cowmachine.BytesBody(note.Body), nil
				},
			}}, nil
		},
		ContentTypesAccepted: func(rd *cowmachine.ReqData) ([]cowmachine.Acceptor, error) {
			return []cowmachine.Acceptor{{
				MediaType: textPlain,
				Accept: func(rd *cowmachine.ReqData) (bool, error) {
					body, err := io.ReadAll(rd.Request.Body)
					if err != nil {
						return false, err
					}
					_, err = notes.Put(noteID(rd), body)
					return err == nil, err
				},
			}}, nil
		},
		GenerateETag: func(rd *cowmachine.ReqData) (rfc7232.ETag, error) {
			note, err := notes.Get(noteID(rd))
			if errors.Is(err, store.ErrNotFound) {
				return rfc7232.ETag{}, nil
			} else if err != nil {
				return rfc7232.ETag{}, err
			}
			return rfc7232.ETag{Tag: note.ETag()}, nil
		},
		LastModified: func(rd *cowmachine.ReqData) (time.Time, error) {
			note, err := notes.Get(noteID(rd))
			if errors.Is(err, store.ErrNotFound) {
				return time.Time{}, nil
			} else if err != nil {
				return time.Time{}, err
			}
			return note.Modified, nil
		},
		DeleteResource: func(rd *cowmachine.ReqData) (bool, error) {
			if err := notes.Delete(noteID(rd)); err != nil {
				return false, err
			}
			return true, nil
		},
	}
}

// helloResource is the smallest useful resource: GET and HEAD only,
// one representation.
func helloResource() *cowmachine.Resource {
	return &cowmachine.Resource{
		ContentTypesProvided: func(rd *cowmachine.ReqData) ([]cowmachine.Representation, error) {
			return []cowmachine.Representation{{
				MediaType: textPlain,
				Render: func(rd *cowmachine.ReqData) (cowmachine.Body, error) {
					return cowmachine.StringBody("hello from cowmachine\n"), nil
				},
			}}, nil
		},
	}
}
