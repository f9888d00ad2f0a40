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
	Register(&AddCmd{})
}

// Messages shown by the add command.
const (
	msgTitleRequired = "Please fill in the title field."
	msgTaskCreated   = "Task created successfully!"
)

// AddCmd implements the add command.
type AddCmd struct {
	desc     string
	due      string
	priority string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskflow add [--desc <text>] [--due <YYYY-MM-DD>] [--priority <low|medium|high>] <title...>"
}
func (c *AddCmd) NeedsStore() bool { return true }
func (c *AddCmd) NeedsAuth() bool  { return false }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.desc, "d", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title, err := task.ValidateTitle(strings.Join(args, " "))
	if err != nil {
		env.Notes.Error(msgTitleRequired)
		return exitcode.UserError
	}

	cmd := store.AddTask{
		Title:       title,
		Description: strings.TrimSpace(c.desc),
	}
	if c.priority != "" {
		if cmd.Priority, err = task.ParsePriority(c.priority); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if c.due != "" {
		if cmd.DueDate, err = task.ParseDate(c.due); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	res := env.Store.Dispatch(ctx, cmd)
	env.Logger.Debug("task created", "id", res.Task.ID)
	env.Notes.Success(msgTaskCreated)
	return exitcode.Success
}
