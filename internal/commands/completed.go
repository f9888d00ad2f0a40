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
	Register(&CompletedCmd{})
}

// CompletedCmd lists done tasks.
type CompletedCmd struct{}

func (c *CompletedCmd) Name() string      { return "completed" }
func (c *CompletedCmd) Aliases() []string { return nil }
func (c *CompletedCmd) Synopsis() string  { return "List completed tasks" }
func (c *CompletedCmd) Usage() string     { return "taskflow completed" }
func (c *CompletedCmd) NeedsStore() bool  { return true }
func (c *CompletedCmd) NeedsAuth() bool   { return false }

func (c *CompletedCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CompletedCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	all := env.Store.Tasks()
	done := view.Completed(all)
	if len(done) == 0 {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "no completed tasks")
		}
		return exitcode.Success
	}
	output.FormatTasks(out, done, output.Positions(all), env.now())
	return exitcode.Success
}
