// Package store persists the demo server's notes. A note's revision
// counter and modification time are the raw material for the validators
// (ETag, Last-Modified) exposed over HTTP.
package store

import (
	"database/sql"
	"errors"
	"strconv"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// ErrNotFound is returned when no note exists under the requested id.
var ErrNotFound = errors.New("note not found")

// Note is one stored note.
type Note struct {
	ID       string
	Body     []byte
	Revision int64
	Modified time.Time
}

// ETag derives a strong validator from the note's revision counter. The
// value is stable for a given revision, so conditional checks and header
// emission always agree.
func (n Note) ETag() string {
	return n.ID + "-r" + strconv.FormatInt(n.Revision, 10)
}

// NoteStore stores and retrieves notes.
//
// Implementations must be thread-safe.
type NoteStore interface {
	// Get returns the note with the given id, or ErrNotFound.
	Get(id string) (Note, error)
	// Put stores the note body under the given id, creating the note if
	// needed, and returns the stored note with its new revision.
	Put(id string, body []byte) (Note, error)
	// Delete removes the note with the given id. Deleting a missing note
	// is not an error.
	Delete(id string) error
	// Has reports whether a note exists under the given id.
	Has(id string) (bool, error)
}

// SQLiteStore is a NoteStore backed by an sqlite database file.
type SQLiteStore struct {
	db         *sql.DB
	writeMutex *sync.Mutex
}

// NewSQLiteStore creates a store with the given filename as the db.
// If the file name is empty, a new in-memory db is opened.
func NewSQLiteStore(filename string) (*SQLiteStore, error) {
	if filename == "" {
		filename = "file::memory:?cache=shared"
	}
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		revision INTEGER NOT NULL,
		modified INTEGER NOT NULL,
		body BLOB
	)`)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, err
	}
	return &SQLiteStore{
		db:         db,
		writeMutex: &sync.Mutex{},
	}, nil
}

func (s *SQLiteStore) Get(id string) (Note, error) {
	note := Note{ID: id}
	var modified int64
	err := s.db.QueryRow(
		"SELECT revision, modified, body FROM notes WHERE id = ?", id,
	).Scan(&note.Revision, &modified, &note.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return note, ErrNotFound
	}
	if err != nil {
		return note, err
	}
	note.Modified = time.Unix(modified, 0)
	return note, nil
}

func (s *SQLiteStore) Put(id string, body []byte) (Note, error) {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	now := time.Now()
	_, err := s.db.Exec(`INSERT INTO notes (id, revision, modified, body)
		VALUES (?, 1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
		revision = revision + 1, modified = excluded.modified, body = excluded.body`,
		id, now.Unix(), body)
	if err != nil {
		return Note{}, err
	}
	return s.Get(id)
}

func (s *SQLiteStore) Delete(id string) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	_, err := s.db.Exec("DELETE FROM notes WHERE id = ?", id)
	return err
}

func (s *SQLiteStore) Has(id string) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM notes WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemStore is an in-process NoteStore for tests and small setups.
type MemStore struct {
	mutex sync.RWMutex
	notes map[string]Note
}

func NewMemStore() *MemStore {
	return &MemStore{notes: map[string]Note{}}
}

func (s *MemStore) Get(id string) (Note, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	note, ok := s.notes[id]
	if !ok {
		return Note{ID: id}, ErrNotFound
	}
	return note, nil
}

func (s *MemStore) Put(id string, body []byte) (Note, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	note := s.notes[id]
	note.ID = id
	note.Revision++
	note.Modified = time.Now()
	note.Body = body
	s.notes[id] = note
	return note, nil
}

func (s *MemStore) Delete(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.notes, id)
	return nil
}

func (s *MemStore) Has(id string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, ok := s.notes[id]
	return ok, nil
}
