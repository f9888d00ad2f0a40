// Package kv provides the named key-value slots the task list is persisted in.
// A slot holds whole values only: every Put replaces the previous value.
package kv

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Slot is a durable key-value store addressed by fixed string keys.
type Slot interface {
	// Get returns the value stored under key.
	// ok is false when nothing has been stored yet.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases any underlying resources.
	Close() error
}

// Open opens the slot for the named backend at path.
// For the file backend path is a directory; for sqlite it is the database file.
func Open(backend, path string) (Slot, error) {
	switch backend {
	case BackendFile, "":
		return NewFileSlot(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}
