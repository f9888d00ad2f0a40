package testutil

import (
	"context"
	"sync"
)

// MemorySlot is an in-memory kv.Slot for tests.
type MemorySlot struct {
	mu     sync.Mutex
	values map[string][]byte
	puts   int

	// Error injection for testing
	GetErr error
	PutErr error
}

// NewMemorySlot creates an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

// Set stores a raw value, bypassing PutErr.
func (m *MemorySlot) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = []byte(value)
}

// Value returns the raw value stored under key.
func (m *MemorySlot) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return string(v), ok
}

// Puts returns the number of successful Put calls.
func (m *MemorySlot) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// Get implements kv.Slot.
func (m *MemorySlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Put implements kv.Slot.
func (m *MemorySlot) Put(ctx context.Context, key string, value []byte) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	m.puts++
	return nil
}

// Close implements kv.Slot.
func (m *MemorySlot) Close() error { return nil }
