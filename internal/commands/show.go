package commands

import (
	"context"
	"flag"
	"io"

	"taskflow/internal/exitcode"
	"taskflow/internal/output"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd prints every field of one task.
type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return nil }
func (c *ShowCmd) Synopsis() string  { return "Show task details" }
func (c *ShowCmd) Usage() string     { return "taskflow show <ref>" }
func (c *ShowCmd) NeedsStore() bool  { return true }
func (c *ShowCmd) NeedsAuth() bool   { return false }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	t, code := resolveRef(env, args, errOut)
	if code != exitcode.Success {
		return code
	}
	output.FormatDetail(out, t, env.now())
	return exitcode.Success
}
