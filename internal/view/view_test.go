package view

import (
	"testing"

	"taskflow/internal/task"
)

func sample() []task.Task {
	return []task.Task{
		{ID: "1", Title: "Fix the leaking faucet", Priority: task.PriorityMedium, Status: task.StatusTodo},
		{ID: "2", Title: "Buy groceries", Description: "milk, eggs, FIXATIVE", Priority: task.PriorityHigh, Status: task.StatusInProgress},
		{ID: "3", Title: "Write report", Priority: task.PriorityHigh, Status: task.StatusDone},
		{ID: "4", Title: "Call plumber", Priority: task.PriorityLow, Status: task.StatusTodo},
	}
}

func ids(tasks []task.Task) string {
	s := ""
	for _, t := range tasks {
		s += t.ID
	}
	return s
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"no filter", Filter{}, "1234"},
		{"search title case-insensitive", Filter{Search: "fix"}, "12"},
		{"search trims", Filter{Search: "  PLUMBER "}, "4"},
		{"search and priority", Filter{Search: "fix", Priority: task.PriorityHigh}, "2"},
		{"priority only", Filter{Priority: task.PriorityHigh}, "23"},
		{"status only", Filter{Status: task.StatusTodo}, "14"},
		{"all three", Filter{Search: "r", Priority: task.PriorityHigh, Status: task.StatusDone}, "3"},
		{"nothing matches", Filter{Search: "zebra"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(tt.filter.Apply(sample())); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilter_FixExcludedByPriority(t *testing.T) {
	faucet := task.Task{Title: "Fix the leaking faucet", Priority: task.PriorityMedium, Status: task.StatusTodo}
	if !(Filter{Search: "fix"}).Match(faucet) {
		t.Error("expected search to match")
	}
	if (Filter{Search: "fix", Priority: task.PriorityHigh}).Match(faucet) {
		t.Error("expected priority filter to exclude medium task")
	}
}

func TestFilter_DoesNotMutate(t *testing.T) {
	tasks := sample()
	Filter{Status: task.StatusDone}.Apply(tasks)
	Sort(tasks, SortPriority)
	if ids(tasks) != "1234" {
		t.Errorf("input reordered: %s", ids(tasks))
	}
}

func TestParseFilters(t *testing.T) {
	if p, err := ParsePriorityFilter("all"); err != nil || p != "" {
		t.Errorf("expected all → empty, got %q (%v)", p, err)
	}
	if p, err := ParsePriorityFilter("LOW"); err != nil || p != task.PriorityLow {
		t.Errorf("expected low, got %q (%v)", p, err)
	}
	if _, err := ParsePriorityFilter("urgent"); err == nil {
		t.Error("expected error for unknown priority")
	}
	if s, err := ParseStatusFilter("All"); err != nil || s != "" {
		t.Errorf("expected all → empty, got %q (%v)", s, err)
	}
	if s, err := ParseStatusFilter("in-progress"); err != nil || s != task.StatusInProgress {
		t.Errorf("expected in-progress, got %q (%v)", s, err)
	}
}

func TestSort(t *testing.T) {
	d := func(s string) *task.Date {
		v, _ := task.ParseDate(s)
		return v
	}
	tasks := []task.Task{
		{ID: "a", Priority: task.PriorityLow},
		{ID: "b", Priority: task.PriorityHigh, DueDate: d("2024-06-20")},
		{ID: "c", Priority: task.PriorityMedium, DueDate: d("2024-06-12")},
		{ID: "d", Priority: task.PriorityHigh},
	}

	if got := ids(Sort(tasks, SortCreated)); got != "abcd" {
		t.Errorf("created: got %q", got)
	}
	if got := ids(Sort(tasks, SortDue)); got != "cbad" {
		t.Errorf("due: got %q", got)
	}
	if got := ids(Sort(tasks, SortPriority)); got != "bdca" {
		t.Errorf("priority: got %q", got)
	}
}

func TestParseSortKey(t *testing.T) {
	if k, err := ParseSortKey(""); err != nil || k != SortCreated {
		t.Errorf("expected default created, got %q (%v)", k, err)
	}
	if _, err := ParseSortKey("alphabetical"); err == nil {
		t.Error("expected error")
	}
}

func TestBoard(t *testing.T) {
	cols := Board(sample())
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(cols))
	}
	want := map[task.Status]string{
		task.StatusTodo:       "14",
		task.StatusInProgress: "2",
		task.StatusDone:       "3",
	}
	for i, s := range []task.Status{task.StatusTodo, task.StatusInProgress, task.StatusDone} {
		if cols[i].Status != s {
			t.Errorf("column %d: expected %s, got %s", i, s, cols[i].Status)
		}
		if got := ids(cols[i].Tasks); got != want[s] {
			t.Errorf("column %s: got %q, want %q", s, got, want[s])
		}
	}
}

func TestCompleted(t *testing.T) {
	if got := ids(Completed(sample())); got != "3" {
		t.Errorf("got %q", got)
	}
}
