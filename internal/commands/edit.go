package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskflow/internal/exitcode"
	"taskflow/internal/store"
	"taskflow/internal/task"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. It replaces the title and
// description; options left out keep their current values.
type EditCmd struct {
	title     optionalString
	desc      optionalString
	clearDesc bool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's title or description" }
func (c *EditCmd) Usage() string {
	return "taskflow edit [--title <text>] [--desc <text> | --clear-desc] <ref>"
}
func (c *EditCmd) NeedsStore() bool { return true }
func (c *EditCmd) NeedsAuth() bool  { return false }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title = optionalString{}
	c.desc = optionalString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.desc, "desc", "")
	fs.Var(&c.desc, "d", "")
	fs.BoolVar(&c.clearDesc, "clear-desc", false, "")
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if !c.title.set && !c.desc.set && !c.clearDesc {
		fmt.Fprintln(errOut, "error: nothing to change (use --title, --desc or --clear-desc)")
		return exitcode.UserError
	}
	if c.desc.set && c.clearDesc {
		fmt.Fprintln(errOut, "error: cannot use both --desc and --clear-desc")
		return exitcode.UserError
	}

	t, code := resolveRef(env, args, errOut)
	if code != exitcode.Success {
		return code
	}

	cmd := store.UpdateTask{ID: t.ID, Title: t.Title, Description: t.Description}
	if c.title.set {
		title, err := task.ValidateTitle(c.title.value)
		if err != nil {
			env.Notes.Error(msgTitleRequired)
			return exitcode.UserError
		}
		cmd.Title = title
	}
	switch {
	case c.clearDesc:
		cmd.Description = ""
	case c.desc.set:
		cmd.Description = strings.TrimSpace(c.desc.value)
	}

	if res := env.Store.Dispatch(ctx, cmd); !res.Applied {
		fmt.Fprintf(errOut, "error: %v: %s\n", ErrTaskNotFound, t.ID)
		return exitcode.UserError
	}
	env.Notes.Success("Task updated.")
	return exitcode.Success
}
