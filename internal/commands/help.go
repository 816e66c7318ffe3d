package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/store"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, st store.TaskStore, args []string, out, errOut io.Writer) int {
	writeHelp(out, DefaultRegistry)
	return exitcode.Success
}

const usageHeader = `Usage:
  tasklist [common flags]                 Start an interactive session
  tasklist [common flags] <command> ...   Load the initial tasks, run one command, exit

Commands:
`

const usageFooter = `
A <ref> is a task number as shown by list, or #<id>.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress busy indicator and re-rendering
  --debug          Print debug logs to stderr
`

func writeHelp(out io.Writer, reg *Registry) {
	fmt.Fprint(out, usageHeader)

	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	for _, cmd := range reg.All() {
		synopsis := cmd.Synopsis()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			synopsis += " (alias: " + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(tw, "  %s\t%s\n", cmd.Usage(), synopsis)
	}
	fmt.Fprintf(tw, "  %s\t%s\n", "quit", "End the interactive session (alias: exit)")
	tw.Flush()

	fmt.Fprint(out, usageFooter)
}
