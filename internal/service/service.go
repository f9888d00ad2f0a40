// Package service defines the backend-agnostic interface for importing
// tasks from a remote task service.
package service

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a list does not exist.
var ErrNotFound = errors.New("not found")

// ErrAmbiguous is returned when a list name matches more than one list.
var ErrAmbiguous = errors.New("ambiguous")

// ErrAuth is returned when credentials are missing, expired or revoked.
var ErrAuth = errors.New("auth error")

// Source is a read-only remote task backend.
// Imports go through this interface; commands never import a backend SDK directly.
type Source interface {
	// DefaultList returns the user's default task list.
	DefaultList(ctx context.Context) (TaskList, error)

	// ListLists returns all task lists in API order.
	ListLists(ctx context.Context) ([]TaskList, error)

	// ResolveList finds a list by name (case-insensitive, trimmed).
	// Returns ErrNotFound or ErrAmbiguous.
	ResolveList(ctx context.Context, name string) (TaskList, error)

	// ListTasks returns every non-deleted task in a list, open and completed,
	// in API order.
	ListTasks(ctx context.Context, listID string) ([]RemoteTask, error)
}
