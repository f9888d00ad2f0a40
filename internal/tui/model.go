// Package tui implements the interactive task board.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/analytics"
	"taskflow/internal/notify"
	"taskflow/internal/store"
	"taskflow/internal/task"
	"taskflow/internal/view"
)

// dismissMsg reports that a notification's timer fired.
type dismissMsg struct {
	ID int64
}

// Model is the bubbletea model for the board.
type Model struct {
	ctx   context.Context
	store *store.Store
	notes *notify.Center
	now   func() time.Time
	keys  KeyMap

	search    textinput.Model
	searching bool
	priority  task.Priority
	status    task.Status
	board     bool

	cursor        int
	pendingDelete string
	toasts        []notify.Notification
}

// New creates a Model over st. Notifications are shown through notes;
// their dismissal arrives as messages from Run.
func New(ctx context.Context, st *store.Store, notes *notify.Center, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	ti := textinput.New()
	ti.Placeholder = "Search title or description"
	ti.Prompt = "/ "
	ti.CharLimit = 200

	return Model{
		ctx:    ctx,
		store:  st,
		notes:  notes,
		now:    now,
		keys:   DefaultKeyMap(),
		search: ti,
	}
}

// Options configures Run.
type Options struct {
	DismissAfter time.Duration
	Now          func() time.Time
}

// Run starts the board and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, st *store.Store, opts Options) error {
	notes := notify.NewCenter(opts.DismissAfter, nil)
	defer notes.Close()

	p := tea.NewProgram(New(ctx, st, notes, opts.Now), tea.WithContext(ctx), tea.WithAltScreen())
	notes.OnDismiss = func(n notify.Notification) { p.Send(dismissMsg{ID: n.ID}) }

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

// filter returns the active filter.
func (m Model) filter() view.Filter {
	return view.Filter{Search: m.search.Value(), Priority: m.priority, Status: m.status}
}

// visible returns the tasks shown in list order.
func (m Model) visible() []task.Task {
	return m.filter().Apply(m.store.Tasks())
}

func (m Model) selected() (task.Task, bool) {
	tasks := m.visible()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return task.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) toast(n notify.Notification) {
	m.toasts = append(m.toasts, n)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dismissMsg:
		for i, n := range m.toasts {
			if n.ID == msg.ID {
				m.toasts = append(m.toasts[:i:i], m.toasts[i+1:]...)
				break
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.pendingDelete != "" {
			return m.updateConfirm(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.search.SetValue("")
		m.search.Blur()
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		m.searching = false
		m.search.Blur()
		m.clampCursor()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.clampCursor()
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pendingDelete
	m.pendingDelete = ""
	if !key.Matches(msg, m.keys.Confirm) {
		return m, nil
	}
	if res := m.store.Dispatch(m.ctx, store.DeleteTask{ID: id}); res.Applied {
		m.toast(m.notes.Info("Task deleted."))
	}
	m.clampCursor()
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Escape):
		m.search.SetValue("")
		m.priority = ""
		m.status = ""
		m.clampCursor()

	case key.Matches(msg, m.keys.Priority):
		m.priority = cyclePriority(m.priority)
		m.clampCursor()

	case key.Matches(msg, m.keys.Status):
		m.status = cycleStatus(m.status)
		m.clampCursor()

	case key.Matches(msg, m.keys.Board):
		m.board = !m.board

	case key.Matches(msg, m.keys.Advance):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		next := t.Status.Next()
		if res := m.store.Dispatch(m.ctx, store.ChangeStatus{ID: t.ID, Status: next}); res.Applied {
			m.toast(m.notes.Success("Status changed to %s", next.Label()))
		}
		m.clampCursor()

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			m.pendingDelete = t.ID
		}
	}
	return m, nil
}

// cyclePriority steps all → high → medium → low → all.
func cyclePriority(p task.Priority) task.Priority {
	switch p {
	case "":
		return task.PriorityHigh
	case task.PriorityHigh:
		return task.PriorityMedium
	case task.PriorityMedium:
		return task.PriorityLow
	default:
		return ""
	}
}

// cycleStatus steps all → todo → in-progress → done → all.
func cycleStatus(s task.Status) task.Status {
	switch s {
	case "":
		return task.StatusTodo
	case task.StatusTodo:
		return task.StatusInProgress
	case task.StatusInProgress:
		return task.StatusDone
	default:
		return ""
	}
}

func (m Model) View() string {
	var b strings.Builder
	now := m.now()
	all := m.store.Tasks()
	sum := analytics.Compute(all, now)

	b.WriteString(HeaderStyle.Render("TaskFlow"))
	b.WriteString("\n")
	b.WriteString(StatsStyle.Render(fmt.Sprintf("%d tasks · %d todo · %d in progress · %d done · %d%% complete · %d high · %d overdue · %d upcoming",
		sum.Total, sum.Todo, sum.InProgress, sum.Done, sum.CompletionRate, sum.HighPriority, sum.Overdue, sum.Upcoming)))
	b.WriteString("\n")
	b.WriteString(StatsStyle.Render(fmt.Sprintf("priority: %s  status: %s", filterLabel(string(m.priority)), filterLabel(string(m.status)))))
	b.WriteString("\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString(" " + m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	tasks := m.filter().Apply(all)
	if m.board {
		b.WriteString(m.viewBoard(tasks, now))
	} else {
		b.WriteString(m.viewList(tasks, now))
	}
	b.WriteString("\n")

	if m.pendingDelete != "" {
		if t, ok := m.store.Get(m.pendingDelete); ok {
			b.WriteString(ToastErrorStyle.Render(fmt.Sprintf("Delete %q? This cannot be undone. (y/n)", t.Title)))
			b.WriteString("\n")
		}
	}
	for _, n := range m.toasts {
		b.WriteString(toastStyle(n.Kind).Render(n.Message))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(helpLine(m.keys)))
	return b.String()
}

func (m Model) viewList(tasks []task.Task, now time.Time) string {
	if len(tasks) == 0 {
		return StatsStyle.Render("No tasks match.") + "\n"
	}
	var b strings.Builder
	for i, t := range tasks {
		cursor := "  "
		line := taskLine(t, now)
		if i == m.cursor {
			cursor = "> "
			line = SelectedStyle.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}
	return b.String()
}

func (m Model) viewBoard(tasks []task.Task, now time.Time) string {
	sel, _ := m.selected()
	cols := view.Board(tasks)
	rendered := make([]string, 0, len(cols))
	for _, col := range cols {
		var b strings.Builder
		b.WriteString(ColumnTitleStyle.Render(fmt.Sprintf("%s (%d)", col.Status.Label(), len(col.Tasks))))
		for _, t := range col.Tasks {
			line := priorityStyle(t.Priority).Render("●") + " " + t.Title
			if analytics.PastDue(t, now) {
				line += " " + OverdueStyle.Render("!")
			}
			if t.ID == sel.ID {
				line = SelectedStyle.Render("> ") + line
			}
			b.WriteString("\n" + line)
		}
		rendered = append(rendered, ColumnStyle.Render(b.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...) + "\n"
}

func taskLine(t task.Task, now time.Time) string {
	line := fmt.Sprintf("%s %-11s %s", priorityStyle(t.Priority).Render(fmt.Sprintf("%-6s", t.Priority.Label())), t.Status.Label(), t.Title)
	if t.HasDue() {
		line += "  due " + t.DueDate.String()
		if analytics.PastDue(t, now) {
			line += " " + OverdueStyle.Render("(Overdue)")
		}
	}
	return line
}

func filterLabel(s string) string {
	if s == "" {
		return view.All
	}
	return s
}

func priorityStyle(p task.Priority) lipgloss.Style {
	switch p {
	case task.PriorityHigh:
		return PriorityHighStyle
	case task.PriorityLow:
		return PriorityLowStyle
	default:
		return PriorityMediumStyle
	}
}

func toastStyle(k notify.Kind) lipgloss.Style {
	switch k {
	case notify.Success:
		return ToastSuccessStyle
	case notify.Error:
		return ToastErrorStyle
	default:
		return ToastInfoStyle
	}
}

func helpLine(k KeyMap) string {
	parts := make([]string, 0, len(k.ShortHelp()))
	for _, b := range k.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
