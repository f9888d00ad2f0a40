package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func slots(t *testing.T) map[string]Slot {
	t.Helper()

	file, err := Open(BackendFile, filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("open file slot: %v", err)
	}
	sqlite, err := Open(BackendSQLite, filepath.Join(t.TempDir(), "taskflow.db"))
	if err != nil {
		t.Fatalf("open sqlite slot: %v", err)
	}
	t.Cleanup(func() {
		file.Close()
		sqlite.Close()
	})
	return map[string]Slot{"file": file, "sqlite": sqlite}
}

func TestSlot_GetMissing(t *testing.T) {
	for name, slot := range slots(t) {
		t.Run(name, func(t *testing.T) {
			value, ok, err := slot.Get(context.Background(), "taskflow-tasks")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok || value != nil {
				t.Errorf("expected no value, got %q", value)
			}
		})
	}
}

func TestSlot_PutReplaces(t *testing.T) {
	ctx := context.Background()
	for name, slot := range slots(t) {
		t.Run(name, func(t *testing.T) {
			if err := slot.Put(ctx, "taskflow-tasks", []byte(`[{"id":"1"}]`)); err != nil {
				t.Fatalf("first put: %v", err)
			}
			if err := slot.Put(ctx, "taskflow-tasks", []byte(`[]`)); err != nil {
				t.Fatalf("second put: %v", err)
			}

			value, ok, err := slot.Get(ctx, "taskflow-tasks")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !ok {
				t.Fatal("expected value to exist")
			}
			if string(value) != "[]" {
				t.Errorf("expected whole-value replace, got %q", value)
			}
		})
	}
}

func TestSlot_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	for name, slot := range slots(t) {
		t.Run(name, func(t *testing.T) {
			if err := slot.Put(ctx, "a", []byte("1")); err != nil {
				t.Fatal(err)
			}
			if err := slot.Put(ctx, "b", []byte("2")); err != nil {
				t.Fatal(err)
			}
			value, _, _ := slot.Get(ctx, "a")
			if string(value) != "1" {
				t.Errorf("expected key a to keep its value, got %q", value)
			}
		})
	}
}

func TestFileSlot_SanitizesKey(t *testing.T) {
	dir := t.TempDir()
	slot, err := NewFileSlot(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := slot.Put(context.Background(), "../escape/key", []byte("x")); err != nil {
		t.Fatalf("put: %v", err)
	}

	path := slot.Path("../escape/key")
	if filepath.Dir(path) != dir {
		t.Errorf("expected file inside %s, got %s", dir, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
