package localstore

import (
	"context"
	"sync"
)

// Map is a mutex-guarded in-process key-value store.
type Map struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMap creates an empty map store.
func NewMap() *Map {
	return &Map{data: make(map[string]string)}
}

func (m *Map) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Map) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Map) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// NewMemory returns a watchable in-process storage. Use Sibling to open more
// handles over the same data.
func NewMemory() *Notifying {
	return WithNotifier(NewMap(), NewInMemoryNotifier())
}
