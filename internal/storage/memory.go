package storage

import (
	"bytes"
	"context"
	"sync"
)

// MemoryMedium keeps records in process memory. It is used by tests and by
// the "memory" store driver.
type MemoryMedium struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{records: map[string][]byte{}}
}

func (m *MemoryMedium) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(value), nil
}

func (m *MemoryMedium) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = bytes.Clone(value)
	return nil
}

func (m *MemoryMedium) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

var _ Medium = (*MemoryMedium)(nil)
