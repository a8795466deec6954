package docstore

import (
	"context"
	"sync"
	"time"

	"jewelry-ledger/internal/core"

	"github.com/google/uuid"
)

type memoryEntry struct {
	owner string
	data  []byte
}

// Memory keeps documents in process memory. It serialises on every write so
// callers never share state with the stored copy.
type Memory struct {
	mu     sync.Mutex
	docs   map[string]memoryEntry
	index  map[string]string
	writes int
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		docs:  make(map[string]memoryEntry),
		index: make(map[string]string),
		now:   time.Now,
	}
}

func indexKey(owner, name string) string { return owner + "\x00" + name }

func (m *Memory) Find(_ context.Context, cred core.Credential, name string) (core.Handle, bool, error) {
	if err := authorize(cred, m.now()); err != nil {
		return core.Handle{}, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.index[indexKey(cred.Subject, name)]
	if !ok {
		return core.Handle{}, false, nil
	}
	return core.Handle{ID: id}, true, nil
}

func (m *Memory) Create(_ context.Context, cred core.Credential, name string, doc core.Document) (core.Handle, error) {
	if err := authorize(cred, m.now()); err != nil {
		return core.Handle{}, err
	}
	data, err := core.EncodeDocument(doc)
	if err != nil {
		return core.Handle{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := indexKey(cred.Subject, name)
	if id, ok := m.index[key]; ok {
		return core.Handle{ID: id}, nil
	}
	id := uuid.NewString()
	m.index[key] = id
	m.docs[id] = memoryEntry{owner: cred.Subject, data: data}
	return core.Handle{ID: id}, nil
}

func (m *Memory) Read(_ context.Context, cred core.Credential, h core.Handle) (core.Document, error) {
	if err := authorize(cred, m.now()); err != nil {
		return core.Document{}, err
	}
	m.mu.Lock()
	entry, ok := m.docs[h.ID]
	m.mu.Unlock()
	if !ok || entry.owner != cred.Subject {
		return core.Document{}, handleNotFound(h)
	}
	return core.DecodeDocument(entry.data)
}

func (m *Memory) Write(_ context.Context, cred core.Credential, h core.Handle, doc core.Document) error {
	if err := authorize(cred, m.now()); err != nil {
		return err
	}
	data, err := core.EncodeDocument(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.docs[h.ID]
	if !ok || entry.owner != cred.Subject {
		return handleNotFound(h)
	}
	entry.data = data
	m.docs[h.ID] = entry
	m.writes++
	return nil
}

// Writes returns how many successful writes the store has accepted.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
