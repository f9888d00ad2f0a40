// Package store owns the authoritative task list.
//
// The list changes only through commands passed to Dispatch. Each command
// produces a complete new list under the store's lock, and the whole list is
// then written to the key-value slot it was loaded from. Readers always see
// the snapshot left by the most recently completed command.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/kv"
	"taskflow/internal/task"
)

// DefaultKey is the slot key the task list is stored under.
const DefaultKey = "taskflow-tasks"

// Options configures a Store. Zero values select the defaults.
type Options struct {
	// Key is the slot key. Defaults to DefaultKey.
	Key string

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time

	// NewID generates task ids. Defaults to random UUIDs.
	NewID func() string

	// Logger receives load and persistence diagnostics.
	Logger *slog.Logger
}

// Store holds the task list and applies commands to it.
type Store struct {
	mu     sync.RWMutex
	tasks  []task.Task
	slot   kv.Slot
	key    string
	clock  func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Open creates a Store backed by slot and loads any previously persisted
// list. A missing or malformed value yields an empty store; load problems
// are logged, never returned.
func Open(ctx context.Context, slot kv.Slot, opts Options) *Store {
	s := &Store{
		slot:   slot,
		key:    opts.Key,
		clock:  opts.Clock,
		newID:  opts.NewID,
		logger: opts.Logger,
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	s.tasks = s.load(ctx)
	return s
}

// load reads and normalizes the persisted list.
func (s *Store) load(ctx context.Context) []task.Task {
	data, ok, err := s.slot.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("failed to read task list, starting empty", "key", s.key, "error", err)
		return nil
	}
	if !ok {
		s.logger.Debug("no persisted task list", "key", s.key)
		return nil
	}

	tasks, err := decodeList(data)
	if err != nil {
		s.logger.Warn("discarding malformed task list", "key", s.key, "error", err)
		return nil
	}

	s.logger.Debug("loaded task list", "key", s.key, "count", len(tasks))
	return tasks
}

// Tasks returns a copy of the current list, most recently added first.
func (s *Store) Tasks() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneList(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return cloneTask(t), true
		}
	}
	return task.Task{}, false
}

// Dispatch applies cmd, swaps in the resulting list and persists it.
// Commands targeting an id that does not exist leave the list unchanged
// and report Applied == false.
func (s *Store) Dispatch(ctx context.Context, cmd Command) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	env := applyEnv{now: s.clock().UTC(), newID: s.newID}
	next, res := cmd.apply(s.tasks, env)
	s.tasks = next

	s.logger.Debug("dispatched command",
		"type", cmd.Type(),
		"applied", res.Applied,
		"count", len(next),
	)

	s.persist(ctx, next)
	return res
}

// persist writes the whole list to the slot. Failures are logged only.
func (s *Store) persist(ctx context.Context, tasks []task.Task) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		s.logger.Warn("failed to encode task list", "error", err)
		return
	}
	if err := s.slot.Put(ctx, s.key, data); err != nil {
		s.logger.Warn("failed to persist task list", "key", s.key, "error", err)
	}
}

func cloneTask(t task.Task) task.Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

func cloneList(tasks []task.Task) []task.Task {
	out := make([]task.Task, len(tasks))
	for i, t := range tasks {
		out[i] = cloneTask(t)
	}
	return out
}
