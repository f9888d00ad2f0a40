package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskflow/internal/exitcode"
	"taskflow/internal/store"
	"taskflow/internal/task"
)

func init() {
	Register(&StatusCmd{})
	Register(&statusShortcut{name: "start", synopsis: "Mark a task in progress", target: task.StatusInProgress})
	Register(&statusShortcut{name: "done", synopsis: "Mark a task done", target: task.StatusDone})
	Register(&statusShortcut{name: "reopen", synopsis: "Move a task back to todo", target: task.StatusTodo})
}

// StatusCmd implements the status command.
type StatusCmd struct{}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return nil }
func (c *StatusCmd) Synopsis() string  { return "Change a task's status" }
func (c *StatusCmd) Usage() string     { return "taskflow status <ref> <todo|in-progress|done>" }
func (c *StatusCmd) NeedsStore() bool  { return true }
func (c *StatusCmd) NeedsAuth() bool   { return false }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	t, code := resolveRef(env, args, errOut)
	if code != exitcode.Success {
		return code
	}
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: status required")
		return exitcode.UserError
	}
	status, err := task.ParseStatus(args[1])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return changeStatus(ctx, env, t, status, errOut)
}

// statusShortcut moves a task straight to one status.
type statusShortcut struct {
	name     string
	synopsis string
	target   task.Status
}

func (c *statusShortcut) Name() string      { return c.name }
func (c *statusShortcut) Aliases() []string { return nil }
func (c *statusShortcut) Synopsis() string  { return c.synopsis }
func (c *statusShortcut) Usage() string     { return "taskflow " + c.name + " <ref>" }
func (c *statusShortcut) NeedsStore() bool  { return true }
func (c *statusShortcut) NeedsAuth() bool   { return false }

func (c *statusShortcut) RegisterFlags(fs *flag.FlagSet) {}

func (c *statusShortcut) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	t, code := resolveRef(env, args, errOut)
	if code != exitcode.Success {
		return code
	}
	return changeStatus(ctx, env, t, c.target, errOut)
}

// changeStatus dispatches a status change. Setting the current status
// again is reported and skipped.
func changeStatus(ctx context.Context, env *Env, t task.Task, status task.Status, errOut io.Writer) int {
	if t.Status == status {
		env.Notes.Info("Task is already %s.", status.Label())
		return exitcode.Success
	}
	if res := env.Store.Dispatch(ctx, store.ChangeStatus{ID: t.ID, Status: status}); !res.Applied {
		fmt.Fprintf(errOut, "error: %v: %s\n", ErrTaskNotFound, t.ID)
		return exitcode.UserError
	}
	env.Notes.Success("Status changed to %s.", status.Label())
	return exitcode.Success
}
