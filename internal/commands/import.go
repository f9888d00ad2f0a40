package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/google/uuid"

	"taskflow/internal/exitcode"
	"taskflow/internal/service"
	"taskflow/internal/store"
	"taskflow/internal/task"
)

func init() {
	Register(&ImportCmd{})
}

// ImportCmd copies the tasks of a Google Tasks list into the local list.
// Imported ids are derived from the remote ids, so running it twice adds nothing new.
type ImportCmd struct {
	list string
}

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return nil }
func (c *ImportCmd) Synopsis() string  { return "Import tasks from Google Tasks" }
func (c *ImportCmd) Usage() string     { return "taskflow import [--list <list-name>]" }
func (c *ImportCmd) NeedsStore() bool  { return true }
func (c *ImportCmd) NeedsAuth() bool   { return true }

func (c *ImportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.list, "list", "", "")
}

func (c *ImportCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	var (
		list service.TaskList
		err  error
	)
	if c.list != "" {
		list, err = env.Source.ResolveList(ctx, c.list)
	} else {
		list, err = env.Source.DefaultList(ctx)
	}
	if err != nil {
		return sourceError(err, c.list, errOut)
	}

	remote, err := env.Source.ListTasks(ctx, list.ID)
	if err != nil {
		return sourceError(err, list.Title, errOut)
	}

	now := env.now()
	imported := make([]task.Task, 0, len(remote))
	for _, r := range remote {
		t := r.Task(now)
		if t.Title == "" {
			continue
		}
		t.ID = importID(list.ID, r.ID)
		imported = append(imported, t)
	}

	res := env.Store.Dispatch(ctx, store.ImportTasks{Tasks: imported})
	env.Logger.Debug("import finished", "list", list.Title, "remote", len(remote), "added", res.Count)

	switch res.Count {
	case 0:
		env.Notes.Info("No new tasks in %q.", list.Title)
	case 1:
		env.Notes.Success("Imported 1 task from %q.", list.Title)
	default:
		env.Notes.Success("Imported %d tasks from %q.", res.Count, list.Title)
	}
	return exitcode.Success
}

// importID derives a stable local id from a remote list and task id.
func importID(listID, remoteID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("gtasks:"+listID+"/"+remoteID)).String()
}

// sourceError reports a Source failure and returns the matching exit code.
func sourceError(err error, list string, errOut io.Writer) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: list not found: %s\n", list)
		return exitcode.UserError
	case errors.Is(err, service.ErrAmbiguous):
		fmt.Fprintf(errOut, "error: multiple lists named: %s\n", list)
		return exitcode.UserError
	case errors.Is(err, service.ErrAuth):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}
