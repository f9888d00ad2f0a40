package store

import (
	"time"

	"taskflow/internal/task"
)

// Command type names, shared with the JSON action envelope.
const (
	TypeAddTask      = "ADD_TASK"
	TypeUpdateTask   = "UPDATE_TASK"
	TypeChangeStatus = "CHANGE_STATUS"
	TypeDeleteTask   = "DELETE_TASK"
	TypeImportTasks  = "IMPORT_TASKS"
)

// Command is a request to change the task list.
type Command interface {
	// Type returns the command type name.
	Type() string

	// apply returns the list that results from the command.
	// It must not modify tasks in place.
	apply(tasks []task.Task, env applyEnv) ([]task.Task, Result)
}

// Result describes the effect of a dispatched command.
type Result struct {
	// Applied is false when the command matched no task.
	Applied bool

	// Task is the created, updated or deleted task.
	Task task.Task

	// Count is the number of tasks the command affected.
	Count int
}

type applyEnv struct {
	now   time.Time
	newID func() string
}

// touch refreshes UpdatedAt without letting it move backwards.
func touch(t *task.Task, now time.Time) {
	if now.Before(t.UpdatedAt) {
		return
	}
	t.UpdatedAt = now
}

// AddTask creates a todo task and prepends it. The title is stored as given;
// callers reject blank titles before dispatch.
type AddTask struct {
	Title       string
	Description string
	DueDate     *task.Date
	Priority    task.Priority
}

func (c AddTask) Type() string { return TypeAddTask }

func (c AddTask) apply(tasks []task.Task, env applyEnv) ([]task.Task, Result) {
	t := task.Task{
		ID:          env.newID(),
		Title:       c.Title,
		Description: c.Description,
		Status:      task.StatusTodo,
		Priority:    c.Priority,
		CreatedAt:   env.now,
		UpdatedAt:   env.now,
	}
	if c.DueDate != nil {
		d := *c.DueDate
		t.DueDate = &d
	}
	t.Normalize()

	next := make([]task.Task, 0, len(tasks)+1)
	next = append(next, t)
	next = append(next, tasks...)
	return next, Result{Applied: true, Task: t, Count: 1}
}

// UpdateTask replaces the title and description of a task.
type UpdateTask struct {
	ID          string
	Title       string
	Description string
}

func (c UpdateTask) Type() string { return TypeUpdateTask }

func (c UpdateTask) apply(tasks []task.Task, env applyEnv) ([]task.Task, Result) {
	return mapTask(tasks, c.ID, func(t *task.Task) {
		t.Title = c.Title
		t.Description = c.Description
		touch(t, env.now)
	})
}

// ChangeStatus sets the status of a task. Unknown statuses are ignored.
type ChangeStatus struct {
	ID     string
	Status task.Status
}

func (c ChangeStatus) Type() string { return TypeChangeStatus }

func (c ChangeStatus) apply(tasks []task.Task, env applyEnv) ([]task.Task, Result) {
	if !c.Status.Valid() {
		return tasks, Result{}
	}
	return mapTask(tasks, c.ID, func(t *task.Task) {
		t.Status = c.Status
		touch(t, env.now)
	})
}

// DeleteTask removes a task.
type DeleteTask struct {
	ID string
}

func (c DeleteTask) Type() string { return TypeDeleteTask }

func (c DeleteTask) apply(tasks []task.Task, env applyEnv) ([]task.Task, Result) {
	idx := indexOf(tasks, c.ID)
	if idx < 0 {
		return tasks, Result{}
	}
	removed := tasks[idx]
	next := make([]task.Task, 0, len(tasks)-1)
	next = append(next, tasks[:idx]...)
	next = append(next, tasks[idx+1:]...)
	return next, Result{Applied: true, Task: removed, Count: 1}
}

// ImportTasks prepends already-formed tasks in their given order.
// Tasks without an id get a new one; ids already present are skipped.
type ImportTasks struct {
	Tasks []task.Task
}

func (c ImportTasks) Type() string { return TypeImportTasks }

func (c ImportTasks) apply(tasks []task.Task, env applyEnv) ([]task.Task, Result) {
	seen := make(map[string]bool, len(tasks)+len(c.Tasks))
	for _, t := range tasks {
		seen[t.ID] = true
	}

	var added []task.Task
	for _, t := range c.Tasks {
		t = cloneTask(t)
		if t.ID == "" {
			t.ID = env.newID()
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		if t.CreatedAt.IsZero() {
			t.CreatedAt = env.now
		}
		if t.UpdatedAt.Before(t.CreatedAt) {
			t.UpdatedAt = t.CreatedAt
		}
		if !t.Status.Valid() {
			t.Status = task.StatusTodo
		}
		t.Normalize()
		added = append(added, t)
	}
	if len(added) == 0 {
		return tasks, Result{}
	}

	next := make([]task.Task, 0, len(tasks)+len(added))
	next = append(next, added...)
	next = append(next, tasks...)
	return next, Result{Applied: true, Count: len(added)}
}

// mapTask copies tasks, applying fn to the task with the given id.
func mapTask(tasks []task.Task, id string, fn func(*task.Task)) ([]task.Task, Result) {
	idx := indexOf(tasks, id)
	if idx < 0 {
		return tasks, Result{}
	}
	next := make([]task.Task, len(tasks))
	copy(next, tasks)
	updated := cloneTask(next[idx])
	fn(&updated)
	next[idx] = updated
	return next, Result{Applied: true, Task: updated, Count: 1}
}

func indexOf(tasks []task.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
