package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"taskflow/internal/analytics"
	"taskflow/internal/exitcode"
	"taskflow/internal/output"
)

func init() {
	Register(&StatsCmd{})
}

// StatsCmd prints the analytics summary.
type StatsCmd struct {
	json bool
}

func (c *StatsCmd) Name() string      { return "stats" }
func (c *StatsCmd) Aliases() []string { return nil }
func (c *StatsCmd) Synopsis() string  { return "Show task analytics" }
func (c *StatsCmd) Usage() string     { return "taskflow stats [--json]" }
func (c *StatsCmd) NeedsStore() bool  { return true }
func (c *StatsCmd) NeedsAuth() bool   { return false }

func (c *StatsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.json, "json", false, "")
}

func (c *StatsCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	sum := analytics.Compute(env.Store.Tasks(), env.now())
	if c.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sum); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}
	output.FormatStats(out, sum)
	return exitcode.Success
}
