package fetchcache

import (
	"context"
	"sync"
)

// MockStore implements Store in memory for testing.
type MockStore struct {
	mu      sync.Mutex
	entries map[string][]string

	// Hooks for testing error scenarios
	RestoreError error
	SaveError    error

	Restores int
	Saves    int
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{entries: make(map[string][]string)}
}

// Put records a snapshot under key.
func (m *MockStore) Put(key string, paths ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = paths
}

// Has reports whether a snapshot exists under key.
func (m *MockStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.entries[key]
	return ok
}

func (m *MockStore) Restore(ctx context.Context, paths []string, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Restores++
	if m.RestoreError != nil {
		return false, m.RestoreError
	}
	_, ok := m.entries[key]
	return ok, nil
}

func (m *MockStore) Save(ctx context.Context, paths []string, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Saves++
	if m.SaveError != nil {
		return m.SaveError
	}
	m.entries[key] = append([]string(nil), paths...)
	return nil
}
