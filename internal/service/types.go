package service

import (
	"strings"
	"time"

	"taskflow/internal/task"
)

// Remote task statuses.
const (
	StatusNeedsAction = "needsAction"
	StatusCompleted   = "completed"
)

// RemoteTask represents a task as the remote backend reports it.
type RemoteTask struct {
	ID      string
	Title   string
	Notes   string
	Status  string // "needsAction" or "completed"
	Due     *time.Time
	Updated time.Time
}

// TaskList represents a remote task list.
type TaskList struct {
	ID        string
	Title     string
	IsDefault bool
}

// Task converts r into a local task: notes become the description,
// completed maps to done and everything else to todo. Priority is left
// for the store to default. The id is left empty so the store assigns one.
func (r RemoteTask) Task(now time.Time) task.Task {
	t := task.Task{
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Notes),
		Status:      task.StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if r.Status == StatusCompleted {
		t.Status = task.StatusDone
	}
	if r.Due != nil {
		t.DueDate = task.NewDate(r.Due.UTC())
	}
	if !r.Updated.IsZero() && r.Updated.Before(now) {
		t.CreatedAt = r.Updated.UTC()
		t.UpdatedAt = r.Updated.UTC()
	}
	return t
}
