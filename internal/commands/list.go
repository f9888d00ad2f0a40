package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskflow/internal/exitcode"
	"taskflow/internal/output"
	"taskflow/internal/view"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command, also run for bare `taskflow`.
// Task numbers are positions in the unfiltered list so they stay valid refs.
type ListCmd struct {
	search   string
	priority string
	status   string
	sort     string
	board    bool
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskflow list [--search <text>] [--priority <p|all>] [--status <s|all>] [--sort <created|due|priority>] [--board]"
}
func (c *ListCmd) NeedsStore() bool { return true }
func (c *ListCmd) NeedsAuth() bool  { return false }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.sort, "sort", "", "")
	fs.BoolVar(&c.board, "board", false, "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	priority, err := view.ParsePriorityFilter(c.priority)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	status, err := view.ParseStatusFilter(c.status)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	sortKey, err := view.ParseSortKey(c.sort)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	all := env.Store.Tasks()
	positions := output.Positions(all)
	filter := view.Filter{Search: c.search, Priority: priority, Status: status}
	tasks := view.Sort(filter.Apply(all), sortKey)
	now := env.now()

	if c.board {
		output.FormatBoard(out, view.Board(tasks), positions, now)
		return exitcode.Success
	}
	if len(tasks) == 0 && env.Config.Quiet {
		return exitcode.Success
	}
	output.FormatTasks(out, tasks, positions, now)
	return exitcode.Success
}
