package store_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"taskflow/internal/store"
	"taskflow/internal/task"
	"taskflow/internal/testutil"
)

var t0 = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func newStore(t *testing.T, slot *testutil.MemorySlot) (*store.Store, *testutil.Clock) {
	t.Helper()
	clock := testutil.NewClock(t0)
	s := store.Open(context.Background(), slot, store.Options{
		Clock: clock.Now,
		NewID: testutil.SeqIDs("task"),
	})
	return s, clock
}

func TestOpen_EmptySlot(t *testing.T) {
	s, _ := newStore(t, testutil.NewMemorySlot())
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d tasks", s.Len())
	}
}

func TestOpen_MalformedValueFallsBackToEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not json", "{{{"},
		{"object instead of list", `{"id":"a"}`},
		{"wrong field types", `[{"id":"a","title":42}]`},
		{"missing id", `[{"title":"x","status":"todo"}]`},
		{"unknown status", `[{"id":"a","title":"x","status":"archived"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := testutil.NewMemorySlot()
			slot.Set(store.DefaultKey, tt.value)
			s, _ := newStore(t, slot)
			if s.Len() != 0 {
				t.Errorf("expected empty store, got %d tasks", s.Len())
			}
		})
	}
}

func TestOpen_ReadErrorFallsBackToEmpty(t *testing.T) {
	slot := testutil.NewMemorySlot()
	slot.GetErr = errors.New("disk on fire")
	s, _ := newStore(t, slot)
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d tasks", s.Len())
	}
}

func TestOpen_NormalizesPriorityAndDuplicates(t *testing.T) {
	slot := testutil.NewMemorySlot()
	slot.Set(store.DefaultKey, `[
		{"id":"a","title":"first","status":"todo","createdAt":"2024-06-01T00:00:00Z","updatedAt":"2024-06-01T00:00:00Z"},
		{"id":"b","title":"second","status":"done","priority":"high","createdAt":"2024-06-01T00:00:00Z","updatedAt":"2024-06-02T00:00:00Z"},
		{"id":"a","title":"dup","status":"todo","priority":"low"}
	]`)

	s, _ := newStore(t, slot)
	tasks := s.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Priority != task.PriorityMedium {
		t.Errorf("expected missing priority to default to medium, got %q", tasks[0].Priority)
	}
	if tasks[0].Title != "first" {
		t.Errorf("expected first occurrence of duplicate id kept, got %q", tasks[0].Title)
	}
	if tasks[1].Priority != task.PriorityHigh {
		t.Errorf("expected high priority preserved, got %q", tasks[1].Priority)
	}
}

func TestAdd_PrependsTodoWithDefaults(t *testing.T) {
	slot := testutil.NewMemorySlot()
	s, clock := newStore(t, slot)
	ctx := context.Background()

	s.Dispatch(ctx, store.AddTask{Title: "first"})
	clock.Advance(time.Minute)
	res := s.Dispatch(ctx, store.AddTask{Title: "second", Priority: task.PriorityHigh})

	if !res.Applied {
		t.Fatal("expected add to apply")
	}
	tasks := s.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != res.Task.ID || tasks[0].Title != "second" {
		t.Errorf("expected new task first, got %+v", tasks[0])
	}
	if tasks[0].Status != task.StatusTodo {
		t.Errorf("expected status todo, got %q", tasks[0].Status)
	}
	if tasks[0].Priority != task.PriorityHigh {
		t.Errorf("expected priority high, got %q", tasks[0].Priority)
	}
	if tasks[1].Priority != task.PriorityMedium {
		t.Errorf("expected default priority medium, got %q", tasks[1].Priority)
	}
	if !tasks[0].CreatedAt.Equal(tasks[0].UpdatedAt) {
		t.Error("expected createdAt == updatedAt on a new task")
	}
	if !tasks[0].CreatedAt.Equal(t0.Add(time.Minute)) {
		t.Errorf("expected createdAt from clock, got %v", tasks[0].CreatedAt)
	}
}

func TestAdd_LengthGrowsByOneAndIDsStayUnique(t *testing.T) {
	s, _ := newStore(t, testutil.NewMemorySlot())
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		before := s.Len()
		s.Dispatch(ctx, store.AddTask{Title: "t"})
		if s.Len() != before+1 {
			t.Fatalf("expected length %d, got %d", before+1, s.Len())
		}
	}

	seen := make(map[string]bool)
	for _, tk := range s.Tasks() {
		if seen[tk.ID] {
			t.Fatalf("duplicate id %s", tk.ID)
		}
		seen[tk.ID] = true
	}
}

func TestAdd_StoreDoesNotValidateTitle(t *testing.T) {
	s, _ := newStore(t, testutil.NewMemorySlot())
	res := s.Dispatch(context.Background(), store.AddTask{Title: "   "})
	if !res.Applied || s.Len() != 1 {
		t.Error("store should accept whatever title the caller supplies")
	}
}

func TestUpdate_ReplacesTitleAndDescription(t *testing.T) {
	s, clock := newStore(t, testutil.NewMemorySlot())
	ctx := context.Background()

	added := s.Dispatch(ctx, store.AddTask{Title: "old", Description: "old desc"}).Task
	clock.Advance(time.Hour)
	res := s.Dispatch(ctx, store.UpdateTask{ID: added.ID, Title: "new"})

	if !res.Applied {
		t.Fatal("expected update to apply")
	}
	got, _ := s.Get(added.ID)
	if got.Title != "new" || got.Description != "" {
		t.Errorf("expected title and description replaced, got %q / %q", got.Title, got.Description)
	}
	if !got.UpdatedAt.Equal(t0.Add(time.Hour)) {
		t.Errorf("expected updatedAt refreshed, got %v", got.UpdatedAt)
	}
	if !got.CreatedAt.Equal(added.CreatedAt) {
		t.Error("createdAt must not change")
	}
}

func TestChangeStatus(t *testing.T) {
	s, clock := newStore(t, testutil.NewMemorySlot())
	ctx := context.Background()

	added := s.Dispatch(ctx, store.AddTask{Title: "x"}).Task
	clock.Advance(time.Second)
	s.Dispatch(ctx, store.ChangeStatus{ID: added.ID, Status: task.StatusInProgress})

	got, _ := s.Get(added.ID)
	if got.Status != task.StatusInProgress {
		t.Errorf("expected in-progress, got %q", got.Status)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Error("expected updatedAt to advance")
	}

	res := s.Dispatch(ctx, store.ChangeStatus{ID: added.ID, Status: "archived"})
	if res.Applied {
		t.Error("unknown status must not apply")
	}
}

func TestUpdatedAt_NeverMovesBackwards(t *testing.T) {
	s, clock := newStore(t, testutil.NewMemorySlot())
	ctx := context.Background()

	added := s.Dispatch(ctx, store.AddTask{Title: "x"}).Task
	clock.Set(t0.Add(-24 * time.Hour))
	s.Dispatch(ctx, store.ChangeStatus{ID: added.ID, Status: task.StatusDone})

	got, _ := s.Get(added.ID)
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Errorf("updatedAt %v before createdAt %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestMissingID_IsNoOp(t *testing.T) {
	s, _ := newStore(t, testutil.NewMemorySlot())
	ctx := context.Background()
	s.Dispatch(ctx, store.AddTask{Title: "a"})
	s.Dispatch(ctx, store.AddTask{Title: "b"})
	before := s.Tasks()

	cmds := []store.Command{
		store.UpdateTask{ID: "nope", Title: "z"},
		store.ChangeStatus{ID: "nope", Status: task.StatusDone},
		store.DeleteTask{ID: "nope"},
	}
	for _, cmd := range cmds {
		t.Run(cmd.Type(), func(t *testing.T) {
			res := s.Dispatch(ctx, cmd)
			if res.Applied {
				t.Error("expected no-op")
			}
			if !reflect.DeepEqual(before, s.Tasks()) {
				t.Error("list changed on missing id")
			}
		})
	}
}

func TestDelete(t *testing.T) {
	s, _ := newStore(t, testutil.NewMemorySlot())
	ctx := context.Background()
	a := s.Dispatch(ctx, store.AddTask{Title: "a"}).Task
	b := s.Dispatch(ctx, store.AddTask{Title: "b"}).Task

	res := s.Dispatch(ctx, store.DeleteTask{ID: a.ID})
	if !res.Applied || res.Task.ID != a.ID {
		t.Fatalf("expected delete of %s, got %+v", a.ID, res)
	}
	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].ID != b.ID {
		t.Errorf("expected only %s left, got %+v", b.ID, tasks)
	}

	// deleting again is a silent no-op
	if s.Dispatch(ctx, store.DeleteTask{ID: a.ID}).Applied {
		t.Error("second delete should not apply")
	}
}

func TestPersistsAfterEveryCommand(t *testing.T) {
	slot := testutil.NewMemorySlot()
	s, _ := newStore(t, slot)
	ctx := context.Background()

	a := s.Dispatch(ctx, store.AddTask{Title: "a"}).Task
	s.Dispatch(ctx, store.ChangeStatus{ID: a.ID, Status: task.StatusDone})
	s.Dispatch(ctx, store.DeleteTask{ID: "missing"})

	if slot.Puts() != 3 {
		t.Errorf("expected 3 writes, got %d", slot.Puts())
	}
	value, _ := slot.Value(store.DefaultKey)
	if !strings.Contains(value, `"status":"done"`) {
		t.Errorf("expected persisted list to carry latest status, got %s", value)
	}

	s.Dispatch(ctx, store.DeleteTask{ID: a.ID})
	value, _ = slot.Value(store.DefaultKey)
	if value != "[]" {
		t.Errorf("expected empty list persisted as [], got %s", value)
	}
}

func TestPersistFailureIsNotSurfaced(t *testing.T) {
	slot := testutil.NewMemorySlot()
	slot.PutErr = errors.New("read-only filesystem")
	s, _ := newStore(t, slot)

	res := s.Dispatch(context.Background(), store.AddTask{Title: "a"})
	if !res.Applied || s.Len() != 1 {
		t.Error("command should still apply in memory when the write fails")
	}
}

func TestRoundTrip(t *testing.T) {
	slot := testutil.NewMemorySlot()
	s, clock := newStore(t, slot)
	ctx := context.Background()

	due, _ := task.ParseDate("2024-06-15")
	s.Dispatch(ctx, store.AddTask{Title: "a", Description: "with desc", DueDate: due, Priority: task.PriorityLow})
	clock.Advance(time.Minute)
	b := s.Dispatch(ctx, store.AddTask{Title: "b"}).Task
	clock.Advance(time.Minute)
	s.Dispatch(ctx, store.ChangeStatus{ID: b.ID, Status: task.StatusInProgress})

	reloaded := store.Open(ctx, slot, store.Options{})
	want, got := s.Tasks(), reloaded.Tasks()
	if len(want) != len(got) {
		t.Fatalf("expected %d tasks after reload, got %d", len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.ID != g.ID || w.Title != g.Title || w.Description != g.Description ||
			w.Status != g.Status || w.Priority != g.Priority ||
			!w.CreatedAt.Equal(g.CreatedAt) || !w.UpdatedAt.Equal(g.UpdatedAt) {
			t.Errorf("task %d differs after reload:\nwant %+v\ngot  %+v", i, w, g)
		}
		if w.HasDue() != g.HasDue() || (w.HasDue() && !w.Due().Equal(g.Due())) {
			t.Errorf("task %d due date differs after reload", i)
		}
	}
}

func TestTasks_ReturnsCopy(t *testing.T) {
	s, _ := newStore(t, testutil.NewMemorySlot())
	due, _ := task.ParseDate("2024-06-15")
	s.Dispatch(context.Background(), store.AddTask{Title: "a", DueDate: due})

	tasks := s.Tasks()
	tasks[0].Title = "mutated"
	tasks[0].DueDate.Time = time.Time{}

	got := s.Tasks()[0]
	if got.Title != "a" || got.Due().IsZero() {
		t.Error("callers must not be able to mutate store state")
	}
}

func TestImportTasks(t *testing.T) {
	s, _ := newStore(t, testutil.NewMemorySlot())
	ctx := context.Background()
	existing := s.Dispatch(ctx, store.AddTask{Title: "local"}).Task

	res := s.Dispatch(ctx, store.ImportTasks{Tasks: []task.Task{
		{Title: "remote one", Status: task.StatusDone},
		{ID: existing.ID, Title: "collides"},
		{Title: "remote two"},
	}})

	if res.Count != 2 {
		t.Fatalf("expected 2 imported, got %d", res.Count)
	}
	tasks := s.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "remote one" || tasks[1].Title != "remote two" || tasks[2].ID != existing.ID {
		t.Errorf("unexpected order: %q, %q, %q", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}
	if tasks[1].Status != task.StatusTodo || tasks[1].Priority != task.PriorityMedium {
		t.Errorf("expected defaults on imported task, got %q/%q", tasks[1].Status, tasks[1].Priority)
	}
}

func TestCustomKey(t *testing.T) {
	slot := testutil.NewMemorySlot()
	s := store.Open(context.Background(), slot, store.Options{Key: "work"})
	s.Dispatch(context.Background(), store.AddTask{Title: "a"})

	if _, ok := slot.Value("work"); !ok {
		t.Error("expected list written under custom key")
	}
	if _, ok := slot.Value(store.DefaultKey); ok {
		t.Error("default key should be untouched")
	}
}
