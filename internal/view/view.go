// Package view builds display projections of the task list: filtered,
// sorted, grouped by status. Projections never modify the list they read.
package view

import (
	"fmt"
	"sort"
	"strings"

	"taskflow/internal/task"
)

// All is the filter value meaning "no constraint".
const All = "all"

// Filter selects tasks. Zero values mean the filter is not applied.
type Filter struct {
	Search   string
	Priority task.Priority
	Status   task.Status
}

// Match reports whether t passes every filter.
func (f Filter) Match(t task.Task) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(t.Title), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			return false
		}
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return true
}

// Apply returns the tasks that pass f, in their original order.
func (f Filter) Apply(tasks []task.Task) []task.Task {
	var out []task.Task
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Active reports whether any filter is set.
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Search) != "" || f.Priority != "" || f.Status != ""
}

// ParsePriorityFilter parses a priority or "all". Empty means all.
func ParsePriorityFilter(s string) (task.Priority, error) {
	if s = strings.TrimSpace(s); s == "" || strings.EqualFold(s, All) {
		return "", nil
	}
	return task.ParsePriority(s)
}

// ParseStatusFilter parses a status or "all". Empty means all.
func ParseStatusFilter(s string) (task.Status, error) {
	if s = strings.TrimSpace(s); s == "" || strings.EqualFold(s, All) {
		return "", nil
	}
	return task.ParseStatus(s)
}

// SortKey names a sort order.
type SortKey string

const (
	// SortCreated keeps store order: most recently added first.
	SortCreated SortKey = "created"

	// SortDue puts the soonest due date first and undated tasks last.
	SortDue SortKey = "due"

	// SortPriority puts high before medium before low.
	SortPriority SortKey = "priority"
)

// ParseSortKey parses a sort key. Empty means SortCreated.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortCreated, nil
	case SortCreated, SortDue, SortPriority:
		return k, nil
	}
	return "", fmt.Errorf("invalid sort key: %s", s)
}

// Sort returns a sorted copy of tasks. Ties keep their original order.
func Sort(tasks []task.Task, key SortKey) []task.Task {
	out := make([]task.Task, len(tasks))
	copy(out, tasks)

	switch key {
	case SortDue:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if a.HasDue() != b.HasDue() {
				return a.HasDue()
			}
			return a.HasDue() && a.Due().Before(b.Due())
		})
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	}
	return out
}

// Column is one status lane of the board view.
type Column struct {
	Status task.Status
	Tasks  []task.Task
}

// Board groups tasks into todo, in-progress and done columns.
func Board(tasks []task.Task) []Column {
	cols := make([]Column, len(task.Statuses))
	for i, s := range task.Statuses {
		cols[i] = Column{Status: s, Tasks: Filter{Status: s}.Apply(tasks)}
	}
	return cols
}

// Completed returns the done tasks.
func Completed(tasks []task.Task) []task.Task {
	return Filter{Status: task.StatusDone}.Apply(tasks)
}
