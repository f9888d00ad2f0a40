// Package analytics derives summary statistics from a task list.
// Nothing here holds state; every value is recomputed from the list given.
package analytics

import (
	"math"
	"time"

	"taskflow/internal/task"
)

// UpcomingWindow is how far ahead a due date counts as upcoming.
const UpcomingWindow = 7 * 24 * time.Hour

// Summary holds the derived values for one task list at one instant.
type Summary struct {
	Total          int `json:"total"`
	Todo           int `json:"todo"`
	InProgress     int `json:"inProgress"`
	Done           int `json:"done"`
	CompletionRate int `json:"completionRate"` // percent, 0-100
	HighPriority   int `json:"highPriority"`
	Overdue        int `json:"overdue"`
	Upcoming       int `json:"upcoming"`
}

// Compute derives a Summary from tasks as of now.
func Compute(tasks []task.Task, now time.Time) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case task.StatusTodo:
			s.Todo++
		case task.StatusInProgress:
			s.InProgress++
		case task.StatusDone:
			s.Done++
		}
		if t.Priority == task.PriorityHigh {
			s.HighPriority++
		}
		if IsOverdue(t, now) {
			s.Overdue++
		}
		if IsUpcoming(t, now) {
			s.Upcoming++
		}
	}
	s.CompletionRate = CompletionRate(s.Done, s.Total)
	return s
}

// CompletionRate returns round(100*done/total), or 0 when total is 0.
func CompletionRate(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// PastDue reports whether t has a due date before now, whatever its status.
// List and detail views mark such tasks.
func PastDue(t task.Task, now time.Time) bool {
	return t.HasDue() && t.Due().Before(now)
}

// IsOverdue reports whether t is past due and not done.
func IsOverdue(t task.Task, now time.Time) bool {
	return PastDue(t, now) && t.Status != task.StatusDone
}

// IsUpcoming reports whether t is due between now and now+7 days inclusive.
func IsUpcoming(t task.Task, now time.Time) bool {
	if !t.HasDue() {
		return false
	}
	until := t.Due().Sub(now)
	return until >= 0 && until <= UpcomingWindow
}

// DaysUntil returns the fractional number of days from now to t's due date.
// ok is false for undated tasks.
func DaysUntil(t task.Task, now time.Time) (days float64, ok bool) {
	if !t.HasDue() {
		return 0, false
	}
	return t.Due().Sub(now).Hours() / 24, true
}
