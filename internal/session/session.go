// Package session holds the tool-level state machine around one extracted
// document. Each session owns its model; there is no cross-session sharing
// and no persistence. The only state transition on the model itself is
// wholesale replacement.
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/docpane/docsift/internal/model"
)

// State enumerates the tool lifecycle. Export is only reachable from
// StateSucceeded.
type State string

const (
	StateIdle         State = "idle"
	StateFileSelected State = "file_selected"
	StateExtracting   State = "extracting"
	StateSucceeded    State = "extraction_succeeded"
	StateFailed       State = "extraction_failed"
)

var (
	// ErrExtractionInFlight rejects re-triggering extraction while one is
	// running; in-flight work is never cancelled.
	ErrExtractionInFlight = errors.New("extraction already in flight")
	// ErrNoFileSelected rejects extraction before a source file exists.
	ErrNoFileSelected = errors.New("no source file selected")
	// ErrNotFound reports an unknown session ID.
	ErrNotFound = errors.New("session not found")
)

// Session tracks one source file and at most one extracted document.
type Session struct {
	ID string

	mu         sync.Mutex
	state      State
	sourceName string
	doc        model.Document
	lastErr    string
}

// New returns an idle session with a fresh ID.
func New() *Session {
	return &Session{ID: uuid.NewString(), state: StateIdle}
}

// SelectFile records a new source file. Selecting from any state resets the
// session: the previous model and failure are discarded atomically.
func (s *Session) SelectFile(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateFileSelected
	s.sourceName = name
	s.doc = nil
	s.lastErr = ""
}

// StartExtraction transitions to StateExtracting. It fails while an
// extraction is already running and before any file was selected.
func (s *Session) StartExtraction() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateExtracting:
		return ErrExtractionInFlight
	case StateIdle:
		return ErrNoFileSelected
	}
	s.state = StateExtracting
	return nil
}

// CompleteExtraction replaces the model wholesale and moves to
// StateSucceeded.
func (s *Session) CompleteExtraction(doc model.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateSucceeded
	s.doc = doc
	s.lastErr = ""
}

// FailExtraction records the failure and moves to StateFailed; any previous
// model stays discarded.
func (s *Session) FailExtraction(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateFailed
	s.doc = nil
	if err != nil {
		s.lastErr = err.Error()
	}
}

// Document returns the extracted model. ok is false unless the session is in
// StateSucceeded.
func (s *Session) Document() (model.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSucceeded {
		return nil, false
	}
	return s.doc, true
}

// CanExport reports whether export actions should be enabled: a successful
// extraction with at least one element.
func (s *Session) CanExport() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateSucceeded && len(s.doc) > 0
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SourceName returns the selected source file name, or "".
func (s *Session) SourceName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sourceName
}

// LastError returns the recorded extraction failure, or "".
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Store is an in-memory session registry keyed by session ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new session for a selected source file.
func (st *Store) Create(sourceName string) *Session {
	s := New()
	s.SelectFile(sourceName)
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get looks a session up by ID.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete discards a session and its model.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}
