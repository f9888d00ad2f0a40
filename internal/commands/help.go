package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskflow/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskflow help" }
func (c *HelpCmd) NeedsStore() bool  { return false }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	fmt.Fprintln(out, "\nCommands:")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %-10s %s\n", cmd.Name(), cmd.Synopsis())
	}
	return exitcode.Success
}

const helpText = `Usage:
  taskflow                                           List all tasks
  taskflow list [common flags] [--search <text>] [--priority <p|all>]
                [--status <s|all>] [--sort <created|due|priority>] [--board]
  taskflow add [common flags] [--desc <text>] [--due <YYYY-MM-DD>]
               [--priority <low|medium|high>] <title...>
  taskflow create ...                                Alias for add
  taskflow edit [common flags] [--title <text>] [--desc <text>] [--clear-desc] <ref>
  taskflow status [common flags] <ref> <todo|in-progress|done>
  taskflow start|done|reopen [common flags] <ref>
  taskflow rm [common flags] <ref>
  taskflow show [common flags] <ref>
  taskflow completed [common flags]
  taskflow stats [common flags] [--json]
  taskflow import [common flags] [--list <list-name>]
  taskflow serve [common flags] [--addr <host:port>]
  taskflow ui [common flags]
  taskflow login [common flags]
  taskflow logout [common flags]
  taskflow help
  taskflow version

A <ref> is a task number from 'taskflow list' or a task id prefix
of at least 4 characters.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
