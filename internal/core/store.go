package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Credential is the bearer credential under which the document store is accessed.
type Credential struct {
	Token   string
	Subject string
	Expiry  time.Time
}

// Valid reports whether the credential carries a token that has not expired at now.
// A zero expiry never expires.
func (c Credential) Valid(now time.Time) bool {
	if c.Token == "" {
		return false
	}
	return c.Expiry.IsZero() || now.Before(c.Expiry)
}

// Handle identifies one remote document.
type Handle struct {
	ID string
}

// DocumentStore is the external key-value document store. Implementations only
// return documents created under the same credential subject.
type DocumentStore interface {
	Find(ctx context.Context, cred Credential, name string) (Handle, bool, error)
	Create(ctx context.Context, cred Credential, name string, doc Document) (Handle, error)
	Read(ctx context.Context, cred Credential, h Handle) (Document, error)
	Write(ctx context.Context, cred Credential, h Handle, doc Document) error
}

// Observer receives store events, e.g. for metrics.
type Observer interface {
	ObserveMutation(op string, err error)
	ObserveSave(err error, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveMutation(string, error)      {}
func (nopObserver) ObserveSave(error, time.Duration) {}

type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateErrored
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateErrored:
		return "errored"
	case StateDisposed:
		return "disposed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// live reports whether the store holds a loaded document.
func (s State) live() bool {
	return s == StateReady || s == StateErrored
}

// Store holds the shop's in-memory collections and writes the full document
// back to the DocumentStore after every mutation.
//
// Lifecycle: Uninitialized → Loading → Ready. A failed write moves the store to
// Errored; memory is kept and the next successful write (or Save) returns it to Ready.
// Dispose ends the session; Initialize may be called again afterwards.
type Store struct {
	mu       sync.Mutex
	docs     DocumentStore
	name     string
	log      *zap.Logger
	observer Observer
	now      func() time.Time
	newID    func() string

	state   State
	cred    Credential
	handle  Handle
	doc     Document
	lastErr error
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.log = l } }

func WithObserver(o Observer) Option { return func(s *Store) { s.observer = o } }

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func WithIDGenerator(gen func() string) Option { return func(s *Store) { s.newID = gen } }

func NewStore(docs DocumentStore, documentName string, opts ...Option) *Store {
	s := &Store{
		docs:     docs,
		name:     documentName,
		log:      zap.NewNop(),
		observer: nopObserver{},
		now:      time.Now,
		newID:    uuid.NewString,
		doc:      NewDocument(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize finds or creates the named document under cred and loads it into memory.
// Loading never writes back. Calling Initialize on a live store only refreshes the credential.
func (s *Store) Initialize(ctx context.Context, cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !cred.Valid(s.now()) {
		return ErrUnauthenticated
	}
	if s.state.live() {
		s.cred = cred
		return nil
	}
	if s.state == StateLoading {
		return fmt.Errorf("store is already loading: %w", ErrNotReady)
	}

	s.setState(StateLoading)

	h, found, err := s.docs.Find(ctx, cred, s.name)
	if err != nil {
		s.setState(StateUninitialized)
		return &PersistenceError{Op: "find", Err: err}
	}
	if !found {
		h, err = s.docs.Create(ctx, cred, s.name, NewDocument())
		if err != nil {
			s.setState(StateUninitialized)
			return &PersistenceError{Op: "create", Err: err}
		}
		s.log.Info("created document", zap.String("name", s.name), zap.String("handle", h.ID))
	}

	doc, err := s.docs.Read(ctx, cred, h)
	if err != nil {
		s.setState(StateUninitialized)
		return &PersistenceError{Op: "read", Err: err}
	}

	s.doc = upgradeDocument(doc)
	s.handle = h
	s.cred = cred
	s.lastErr = nil
	s.setState(StateReady)
	s.log.Info("document loaded",
		zap.String("handle", h.ID),
		zap.Int("inventory", len(s.doc.Inventory)),
		zap.Int("customers", len(s.doc.Customers)),
		zap.Int("bills", len(s.doc.Bills)),
	)
	return nil
}

// Dispose ends the session and drops the in-memory document.
func (s *Store) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = Credential{}
	s.handle = Handle{}
	s.doc = NewDocument()
	s.lastErr = nil
	s.setState(StateDisposed)
}

// UpdateCredential replaces the credential used for subsequent writes.
func (s *Store) UpdateCredential(cred Credential) error {
	if !cred.Valid(s.now()) {
		return ErrUnauthenticated
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = cred
	return nil
}

// Save writes the current in-memory document. It is the retry path after a PersistenceError.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.live() {
		return ErrNotReady
	}
	return s.persistLocked(ctx)
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the error of the most recent failed write, or nil once a write succeeds.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Snapshot returns a deep copy of the loaded document.
func (s *Store) Snapshot() (Document, error) {
	var out Document
	err := s.view(func(doc *Document) error {
		out = doc.Clone()
		return nil
	})
	return out, err
}

func (s *Store) setState(next State) {
	if s.state != next {
		s.log.Debug("store state", zap.Stringer("from", s.state), zap.Stringer("to", next))
	}
	s.state = next
}

// view runs fn against the live document under the lock. fn must not retain doc.
func (s *Store) view(fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.live() {
		return ErrNotReady
	}
	return fn(&s.doc)
}

// mutate applies fn to a copy of the document and swaps it in only when fn succeeds,
// so a rejected operation leaves no partial change. The new document is then written.
func (s *Store) mutate(ctx context.Context, op string, fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.live() {
		return ErrNotReady
	}

	work := s.doc.Clone()
	if err := fn(&work); err != nil {
		if !errors.Is(err, errNoChange) {
			s.observer.ObserveMutation(op, err)
		}
		return err
	}
	s.doc = work
	s.observer.ObserveMutation(op, nil)
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	var err error
	if !s.cred.Valid(s.now()) {
		err = ErrUnauthenticated
	} else {
		start := time.Now()
		err = s.docs.Write(ctx, s.cred, s.handle, s.doc)
		s.observer.ObserveSave(err, time.Since(start))
	}

	if err != nil {
		s.lastErr = err
		s.setState(StateErrored)
		s.log.Error("document write failed", zap.String("handle", s.handle.ID), zap.Error(err))
		return &PersistenceError{Op: "write", Err: err}
	}
	if s.state == StateErrored {
		s.log.Info("document write recovered", zap.String("handle", s.handle.ID))
	}
	s.lastErr = nil
	s.setState(StateReady)
	return nil
}

// upgradeDocument brings a loaded document to the current schema version.
func upgradeDocument(doc Document) Document {
	if doc.SchemaVersion == 0 {
		doc.SchemaVersion = DocumentSchemaVersion
	}
	if doc.Inventory == nil {
		doc.Inventory = []JewelryItem{}
	}
	if doc.Customers == nil {
		doc.Customers = []Customer{}
	}
	if doc.Bills == nil {
		doc.Bills = []Bill{}
	}
	return doc
}
