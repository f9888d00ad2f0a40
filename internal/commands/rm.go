package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskflow/internal/exitcode"
	"taskflow/internal/store"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskflow rm <ref>" }
func (c *RmCmd) NeedsStore() bool  { return true }
func (c *RmCmd) NeedsAuth() bool   { return false }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	t, code := resolveRef(env, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if res := env.Store.Dispatch(ctx, store.DeleteTask{ID: t.ID}); !res.Applied {
		fmt.Fprintf(errOut, "error: %v: %s\n", ErrTaskNotFound, t.ID)
		return exitcode.UserError
	}
	env.Notes.Info("Task deleted.")
	return exitcode.Success
}
