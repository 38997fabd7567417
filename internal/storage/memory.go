package storage

import (
	"slices"
	"sync"

	"github.com/user/memory-beacon/internal/interfaces"
)

// MemoryStore keeps blobs in process memory. Used by tests and by the
// "memory" storage driver.
type MemoryStore struct {
	mu      sync.RWMutex
	blobs   map[string][]byte
	failure error
}

var _ interfaces.BlobStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// FailWrites makes every following Write return err. A nil err clears it.
func (m *MemoryStore) FailWrites(err error) {
	m.mu.Lock()
	m.failure = err
	m.mu.Unlock()
}

func (m *MemoryStore) Write(key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failure != nil {
		return m.failure
	}
	m.blobs[key] = slices.Clone(blob)
	return nil
}

func (m *MemoryStore) Read(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(blob), true, nil
}
