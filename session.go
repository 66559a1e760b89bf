package designstudio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/alnah/go-designstudio/internal/catalog"
)

// Session is the state of one design being edited: the selected format,
// the current document and the assets it can reference. The document is
// replaced atomically, so readers never see markup from one version with
// the stylesheet of another.
type Session struct {
	catalog     *catalog.Catalog
	placeholder Document

	doc      atomic.Pointer[Document]
	pristine atomic.Bool

	mu        sync.RWMutex
	format    Format
	hasFormat bool
	inflight  uint64 // token of the running generation, 0 when idle
	tokens    uint64
	observers map[uint64]func(Document)
	nextObs   uint64
}

// NewSession creates a session with no format selected. placeholder is
// the document shown right after a format is chosen.
func NewSession(cat *catalog.Catalog, placeholder Document) *Session {
	s := &Session{
		catalog:     cat,
		placeholder: placeholder,
		observers:   make(map[uint64]func(Document)),
	}
	s.doc.Store(&Document{})
	s.pristine.Store(true)
	return s
}

// SelectFormat sets the output format and resets the document to the
// placeholder design. Selecting again starts over.
func (s *Session) SelectFormat(f Format) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.format = f
	s.hasFormat = true
	s.inflight = 0
	s.storeLocked(s.placeholder, true)
	return nil
}

// Format returns the selected format.
func (s *Session) Format() (Format, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.format, s.hasFormat
}

// Document returns a snapshot of the current design.
func (s *Session) Document() Document {
	return *s.doc.Load()
}

// Apply replaces the document wholesale and notifies observers.
func (s *Session) Apply(markup, stylesheet string) {
	s.store(Document{Markup: markup, Stylesheet: stylesheet}, false)
}

// Pristine reports whether the document is still the placeholder.
func (s *Session) Pristine() bool {
	return s.pristine.Load()
}

// Catalog returns the session's asset catalog, which may be nil.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// BeginGeneration marks a generation as in flight. The returned func ends
// it and is safe to call more than once.
func (s *Session) BeginGeneration() (done func(), err error) {
	_, done, err = s.beginGeneration()
	return done, err
}

func (s *Session) beginGeneration() (token uint64, done func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasFormat {
		return 0, nil, fmt.Errorf("%w: choose a format first", ErrNoFormat)
	}
	if s.inflight != 0 {
		return 0, nil, ErrGenerationInProgress
	}
	s.tokens++
	token = s.tokens
	s.inflight = token
	return token, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.inflight == token {
			s.inflight = 0
		}
	}, nil
}

// Generating reports whether a generation is in flight.
func (s *Session) Generating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight != 0
}

// applyGenerated applies doc only if generation token is still the one in
// flight. Selecting a format in the meantime discards the result.
func (s *Session) applyGenerated(token uint64, doc Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight != token {
		return false
	}
	s.storeLocked(doc, false)
	return true
}

// OnApply registers fn to run after every document change, in the order
// changes happen. fn runs with the session locked and must not call back
// into it. The returned func unregisters it.
func (s *Session) OnApply(fn func(Document)) (cancel func()) {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Session) store(doc Document, pristine bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeLocked(doc, pristine)
}

// storeLocked notifies under the write lock so observers see changes in order.
func (s *Session) storeLocked(doc Document, pristine bool) {
	s.doc.Store(&doc)
	s.pristine.Store(pristine)
	for _, fn := range s.observers {
		fn(doc)
	}
}

func (s *Session) requireFormat() (Format, error) {
	f, ok := s.Format()
	if !ok {
		return Format{}, fmt.Errorf("%w: choose a format first", ErrNoFormat)
	}
	return f, nil
}
