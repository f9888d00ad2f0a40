// Package output provides formatters for CLI output.
//
// Styles are bound to the destination writer, so piped or captured output
// carries no escape sequences.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"taskflow/internal/analytics"
	"taskflow/internal/task"
	"taskflow/internal/view"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"

	// OverdueMarker follows the due date of a task whose date has passed.
	OverdueMarker = "(Overdue)"
)

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	Header   lipgloss.Style
	Muted    lipgloss.Style
	Overdue  lipgloss.Style
	Done     lipgloss.Style
	High     lipgloss.Style
	Medium   lipgloss.Style
	Low      lipgloss.Style
	Progress lipgloss.Style
}

// NewStyles creates styles rendered for w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Header:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#C678DD")),
		Muted:    r.NewStyle().Foreground(lipgloss.Color("#5C6370")),
		Overdue:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#E06C75")),
		Done:     r.NewStyle().Foreground(lipgloss.Color("#98C379")),
		High:     r.NewStyle().Foreground(lipgloss.Color("#E06C75")),
		Medium:   r.NewStyle().Foreground(lipgloss.Color("#E5C07B")),
		Low:      r.NewStyle().Foreground(lipgloss.Color("#61AFEF")),
		Progress: r.NewStyle().Foreground(lipgloss.Color("#56B6C2")),
	}
}

// Priority renders a priority label in its color.
func (s Styles) Priority(p task.Priority) string {
	label := fmt.Sprintf("%-6s", p.Label())
	switch p {
	case task.PriorityHigh:
		return s.High.Render(label)
	case task.PriorityLow:
		return s.Low.Render(label)
	default:
		return s.Medium.Render(label)
	}
}

// Status renders a status label in its color.
func (s Styles) Status(st task.Status) string {
	label := fmt.Sprintf("%-11s", st.Label())
	switch st {
	case task.StatusDone:
		return s.Done.Render(label)
	case task.StatusInProgress:
		return s.Progress.Render(label)
	default:
		return label
	}
}

// FormatTask formats a task line.
// Format: "{N:>4}  {PRIORITY:<6} {STATUS:<11} {TITLE}[  due {DATE} ({REL})[ (Overdue)]]\n"
func FormatTask(w io.Writer, num int, t task.Task, now time.Time) {
	formatTask(w, NewStyles(w), num, t, now)
}

func formatTask(w io.Writer, s Styles, num int, t task.Task, now time.Time) {
	fmt.Fprintf(w, "%4d  %s %s %s%s\n",
		num, s.Priority(t.Priority), s.Status(t.Status), normalizeTitle(t.Title), dueSuffix(s, t, now))
}

// FormatTasks formats a numbered task list, or "no tasks found".
// positions maps task ids to their displayed numbers; nil numbers from 1.
func FormatTasks(w io.Writer, tasks []task.Task, positions map[string]int, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "no tasks found")
		return
	}
	s := NewStyles(w)
	for i, t := range tasks {
		num := i + 1
		if positions != nil {
			num = positions[t.ID]
		}
		formatTask(w, s, num, t, now)
	}
}

// Positions numbers tasks by their 1-based place in the list.
func Positions(tasks []task.Task) map[string]int {
	m := make(map[string]int, len(tasks))
	for i, t := range tasks {
		m[t.ID] = i + 1
	}
	return m
}

// FormatBoard formats tasks as one section per status column.
// Numbers continue across columns and match positions in the flat list.
func FormatBoard(w io.Writer, cols []view.Column, positions map[string]int, now time.Time) {
	s := NewStyles(w)
	for _, col := range cols {
		fmt.Fprintln(w, ListSeparator)
		fmt.Fprintln(w, s.Header.Render(fmt.Sprintf("%s (%d)", col.Status.Label(), len(col.Tasks))))
		fmt.Fprintln(w, ListSeparator)
		for _, t := range col.Tasks {
			fmt.Fprintf(w, "    %4d  %s %s%s\n",
				positions[t.ID], s.Priority(t.Priority), normalizeTitle(t.Title), dueSuffix(s, t, now))
		}
	}
}

// FormatDetail formats every field of one task.
func FormatDetail(w io.Writer, t task.Task, now time.Time) {
	s := NewStyles(w)
	fmt.Fprintln(w, s.Header.Render(normalizeTitle(t.Title)))
	fmt.Fprintf(w, "id:          %s\n", t.ID)
	fmt.Fprintf(w, "status:      %s\n", t.Status.Label())
	fmt.Fprintf(w, "priority:    %s\n", t.Priority.Label())
	if t.HasDue() {
		fmt.Fprintf(w, "due:         %s (%s)", t.DueDate.String(), relativeDay(t.Due(), now))
		if analytics.PastDue(t, now) {
			fmt.Fprintf(w, " %s", s.Overdue.Render(OverdueMarker))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "created:     %s\n", t.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "updated:     %s\n", t.UpdatedAt.UTC().Format(time.RFC3339))
	if t.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, t.Description)
	}
}

// FormatStats formats an analytics summary.
func FormatStats(w io.Writer, sum analytics.Summary) {
	s := NewStyles(w)
	fmt.Fprintln(w, s.Header.Render("Overview"))
	fmt.Fprintf(w, "  total:        %s\n", humanize.Comma(int64(sum.Total)))
	fmt.Fprintf(w, "  todo:         %s\n", humanize.Comma(int64(sum.Todo)))
	fmt.Fprintf(w, "  in progress:  %s\n", humanize.Comma(int64(sum.InProgress)))
	fmt.Fprintf(w, "  done:         %s\n", humanize.Comma(int64(sum.Done)))
	fmt.Fprintln(w, s.Header.Render("Analytics"))
	fmt.Fprintf(w, "  completion:   %d%%\n", sum.CompletionRate)
	fmt.Fprintf(w, "  high:         %s\n", humanize.Comma(int64(sum.HighPriority)))
	fmt.Fprintf(w, "  overdue:      %s\n", humanize.Comma(int64(sum.Overdue)))
	fmt.Fprintf(w, "  upcoming:     %s\n", humanize.Comma(int64(sum.Upcoming)))
}

// dueSuffix renders the due date, its relative distance and the overdue marker.
func dueSuffix(s Styles, t task.Task, now time.Time) string {
	if !t.HasDue() {
		return ""
	}
	suffix := fmt.Sprintf("  %s", s.Muted.Render(fmt.Sprintf("due %s (%s)", t.DueDate.String(), relativeDay(t.Due(), now))))
	if analytics.PastDue(t, now) {
		suffix += " " + s.Overdue.Render(OverdueMarker)
	}
	return suffix
}

// relativeDay describes due relative to the calendar day of now (UTC).
func relativeDay(due, now time.Time) string {
	day, today := startOfDay(due), startOfDay(now)
	if day.Equal(today) {
		return "today"
	}
	return humanize.RelTime(day, today, "ago", "from now")
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
