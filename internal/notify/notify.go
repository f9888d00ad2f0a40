// Package notify delivers transient success, info and error messages.
//
// Every notification is dismissed automatically after a fixed delay. An
// early Dismiss stops the pending timer, and Close stops all of them.
package notify

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// DefaultDismissAfter is how long a notification stays active.
const DefaultDismissAfter = 3 * time.Second

// Kind classifies a notification.
type Kind int

const (
	Info Kind = iota
	Success
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notification is one message.
type Notification struct {
	ID      int64
	Kind    Kind
	Message string
	At      time.Time
}

// Sink receives every notification as it is shown.
type Sink interface {
	Notify(n Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notification)

// Notify implements Sink.
func (f SinkFunc) Notify(n Notification) { f(n) }

type entry struct {
	n     Notification
	timer *time.Timer
}

// Center tracks active notifications and their dismissal timers.
type Center struct {
	mu     sync.Mutex
	delay  time.Duration
	sink   Sink
	nextID int64
	active map[int64]*entry
	closed bool

	// OnDismiss, if set, is called after a notification is removed,
	// either by its timer or by Dismiss.
	OnDismiss func(Notification)
}

// NewCenter creates a Center. A non-positive delay selects DefaultDismissAfter;
// sink may be nil.
func NewCenter(delay time.Duration, sink Sink) *Center {
	if delay <= 0 {
		delay = DefaultDismissAfter
	}
	return &Center{
		delay:  delay,
		sink:   sink,
		active: make(map[int64]*entry),
	}
}

// Show records a notification, passes it to the sink and schedules its dismissal.
func (c *Center) Show(kind Kind, message string) Notification {
	c.mu.Lock()
	c.nextID++
	n := Notification{ID: c.nextID, Kind: kind, Message: message, At: time.Now()}
	if !c.closed {
		id := n.ID
		e := &entry{n: n}
		e.timer = time.AfterFunc(c.delay, func() { c.Dismiss(id) })
		c.active[id] = e
	}
	sink := c.sink
	c.mu.Unlock()

	if sink != nil {
		sink.Notify(n)
	}
	return n
}

// Success shows a success notification.
func (c *Center) Success(format string, args ...any) Notification {
	return c.Show(Success, fmt.Sprintf(format, args...))
}

// Info shows an info notification.
func (c *Center) Info(format string, args ...any) Notification {
	return c.Show(Info, fmt.Sprintf(format, args...))
}

// Error shows an error notification.
func (c *Center) Error(format string, args ...any) Notification {
	return c.Show(Error, fmt.Sprintf(format, args...))
}

// Dismiss removes a notification and cancels its timer.
// It reports whether the notification was still active.
func (c *Center) Dismiss(id int64) bool {
	c.mu.Lock()
	e, ok := c.active[id]
	if ok {
		e.timer.Stop()
		delete(c.active, id)
	}
	hook := c.OnDismiss
	c.mu.Unlock()

	if ok && hook != nil {
		hook(e.n)
	}
	return ok
}

// Active returns the active notifications, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, 0, len(c.active))
	for _, e := range c.active {
		out = append(out, e.n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Close cancels every pending timer. Later notifications still reach the
// sink but are not tracked.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, e := range c.active {
		e.timer.Stop()
		delete(c.active, id)
	}
	c.closed = true
}

// WriterSink prints notifications for a terminal session. Success and info
// messages go to Out unless Quiet is set; errors go to Err as "error: ...".
type WriterSink struct {
	Out   io.Writer
	Err   io.Writer
	Quiet bool
}

// Notify implements Sink.
func (w WriterSink) Notify(n Notification) {
	switch n.Kind {
	case Error:
		if w.Err != nil {
			fmt.Fprintf(w.Err, "error: %s\n", n.Message)
		}
	default:
		if !w.Quiet && w.Out != nil {
			fmt.Fprintln(w.Out, n.Message)
		}
	}
}
