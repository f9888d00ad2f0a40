package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskflow/internal/cli"
	"taskflow/internal/commands"
	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/kv"
	"taskflow/internal/service"
	"taskflow/internal/testutil"
)

var testNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

// memorySlots returns a slot factory that always hands out the same slot.
func memorySlots(slot *testutil.MemorySlot) cli.SlotFactory {
	return func(cfg *config.Config) (kv.Slot, error) {
		return slot, nil
	}
}

// fakeSources returns a source factory for the given FakeSource.
func fakeSources(src *testutil.FakeSource) cli.SourceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Source, error) {
		return src, nil
	}
}

func newDispatcher(slot *testutil.MemorySlot, src *testutil.FakeSource) *cli.Dispatcher {
	d := cli.NewDispatcher(commands.DefaultRegistry, memorySlots(slot), fakeSources(src))
	d.Now = testutil.NewClock(testNow).Now
	d.NewID = testutil.SeqIDs("task")
	return d
}

// run dispatches args with --config pointing at dir.
func run(t *testing.T, d *cli.Dispatcher, dir string, args ...string) (int, string, string) {
	t.Helper()
	if len(args) > 0 {
		args = append([]string{args[0], "--config", dir}, args[1:]...)
	}
	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := newDispatcher(testutil.NewMemorySlot(), testutil.NewFakeSource())

	code, _, stderr := run(t, d, t.TempDir(), "unknowncmd")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	d := newDispatcher(testutil.NewMemorySlot(), testutil.NewFakeSource())

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	d := newDispatcher(testutil.NewMemorySlot(), testutil.NewFakeSource())

	code, stdout, stderr := run(t, d, t.TempDir(), "help")
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	d := newDispatcher(testutil.NewMemorySlot(), testutil.NewFakeSource())

	code, stdout, _ := run(t, d, t.TempDir(), "version")
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "taskflow 0.1.0\n" {
		t.Errorf("expected 'taskflow 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	d := newDispatcher(testutil.NewMemorySlot(), testutil.NewFakeSource())

	code, _, stderr := run(t, d, t.TempDir(), "help", "--unknown")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	d := newDispatcher(testutil.NewMemorySlot(), testutil.NewFakeSource())

	code, _, stderr := run(t, d, t.TempDir(), "add", "--priority")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -priority\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	slot := testutil.NewMemorySlot()
	d := newDispatcher(slot, testutil.NewFakeSource())
	dir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", dir)

	run(t, d, dir, "add", "Buy", "milk")

	// Bare invocation uses the default config dir; the slot is injected.
	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), nil, &stdout, &stderr)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d: %s", code, stderr.String())
	}
	if stdout.String() != "   1  Medium Todo        Buy milk\n" {
		t.Errorf("unexpected output %q", stdout.String())
	}
}

func TestDispatcher_StatePersistsAcrossRuns(t *testing.T) {
	slot := testutil.NewMemorySlot()
	dir := t.TempDir()

	d := newDispatcher(slot, testutil.NewFakeSource())
	if code, _, stderr := run(t, d, dir, "add", "--priority", "high", "Write report"); code != exitcode.Success {
		t.Fatalf("add failed: %s", stderr)
	}
	if code, _, stderr := run(t, d, dir, "done", "1"); code != exitcode.Success {
		t.Fatalf("done failed: %s", stderr)
	}

	// A fresh dispatcher reloads from the slot.
	d = newDispatcher(slot, testutil.NewFakeSource())
	_, stdout, _ := run(t, d, dir, "list")
	if stdout != "   1  High   Done        Write report\n" {
		t.Errorf("unexpected output %q", stdout)
	}
	if _, ok := slot.Value("taskflow-tasks"); !ok {
		t.Error("expected the list under the default key")
	}
}

func TestDispatcher_FileBackend(t *testing.T) {
	dir := t.TempDir()
	d := cli.NewDispatcher(commands.DefaultRegistry, nil, nil)

	if code, _, stderr := run(t, d, dir, "add", "--quiet", "Buy milk"); code != exitcode.Success {
		t.Fatalf("add failed: %s", stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "taskflow-tasks.json")); err != nil {
		t.Fatalf("expected task file: %v", err)
	}

	code, stdout, _ := run(t, d, dir, "list")
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stdout, "Buy milk") {
		t.Errorf("task not listed: %q", stdout)
	}
}

func TestDispatcher_StorageError(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, func(cfg *config.Config) (kv.Slot, error) {
		return nil, errors.New("disk full")
	}, nil)

	code, _, stderr := run(t, d, t.TempDir(), "list")
	if code != exitcode.StorageError {
		t.Errorf("expected exit code %d, got %d", exitcode.StorageError, code)
	}
	if stderr != "error: storage: disk full\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("storage:\n  backend: redis\n"), 0600); err != nil {
		t.Fatal(err)
	}
	d := newDispatcher(testutil.NewMemorySlot(), testutil.NewFakeSource())

	code, _, stderr := run(t, d, dir, "list")
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr, "error: config validation:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_ImportWithoutCredentials(t *testing.T) {
	dir := t.TempDir()
	d := cli.NewDispatcher(commands.DefaultRegistry, memorySlots(testutil.NewMemorySlot()), nil)

	code, _, stderr := run(t, d, dir, "import")
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	expected := fmt.Sprintf("error: oauth_client.json not found in %s\n", dir)
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}

	if err := os.WriteFile(filepath.Join(dir, config.OAuthClientFile), []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	code, _, stderr = run(t, d, dir, "import")
	if code != exitcode.AuthError || stderr != "error: not logged in (run: taskflow login)\n" {
		t.Errorf("expected not logged in, got %d %q", code, stderr)
	}
}

func TestDispatcher_SourceFactoryErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		want string
	}{
		{"auth", fmt.Errorf("%w: token expired", service.ErrAuth), exitcode.AuthError, "error: auth error: token expired\n"},
		{"backend", errors.New("dns failure"), exitcode.BackendError, "error: backend error: dns failure\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := cli.NewDispatcher(commands.DefaultRegistry, memorySlots(testutil.NewMemorySlot()),
				func(ctx context.Context, cfg *config.Config) (service.Source, error) {
					return nil, tt.err
				})
			code, _, stderr := run(t, d, t.TempDir(), "import")
			if code != tt.code {
				t.Errorf("expected exit code %d, got %d", tt.code, code)
			}
			if stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr)
			}
		})
	}
}

func TestDispatcher_Import(t *testing.T) {
	slot := testutil.NewMemorySlot()
	src := testutil.NewFakeSource()
	src.AddTask(testutil.DefaultListID, service.RemoteTask{ID: "r1", Title: "Call plumber", Updated: testNow})
	d := newDispatcher(slot, src)
	dir := t.TempDir()

	code, stdout, stderr := run(t, d, dir, "import")
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d: %s", code, stderr)
	}
	if stdout != "Imported 1 task from \"My Tasks\".\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	_, stdout, _ = run(t, d, dir, "list")
	if stdout != "   1  Medium Todo        Call plumber\n" {
		t.Errorf("unexpected list %q", stdout)
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	d := newDispatcher(testutil.NewMemorySlot(), testutil.NewFakeSource())

	code, _, stderr := run(t, d, t.TempDir(), "list", "--debug")
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stderr, "store opened") {
		t.Errorf("expected debug log, got %q", stderr)
	}
}
