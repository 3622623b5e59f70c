package storage

import (
	"context"
	"sync"
)

type MemoryAdapter struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{items: make(map[string]string)}
}

func (m *MemoryAdapter) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.items[key]
	return value, ok, nil
}

func (m *MemoryAdapter) SetItem(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryAdapter) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Keys returns a snapshot of the stored keys.
func (m *MemoryAdapter) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	return keys
}
