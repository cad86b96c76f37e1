package onboarding

import (
	"path"
	"sync"
)

// Storage is the durable key-value surface the progress store persists into.
// Read reports ok=false for a missing key.
type Storage interface {
	Read(key string) (value string, ok bool, err error)
	Write(key, value string) error
	Remove(key string) error
}

// MemoryStorage keeps values in process memory. It is safe for concurrent use.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

func (m *MemoryStorage) Read(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Write(key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// CountMatching counts keys matching a glob pattern.
func (m *MemoryStorage) CountMatching(pattern string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for k := range m.values {
		if ok, _ := path.Match(pattern, k); ok {
			n++
		}
	}
	return n
}
