package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/output"
	"tasklist/internal/store"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd replaces the title of a task.
type EditCmd struct{}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"rename"} }
func (c *EditCmd) Synopsis() string  { return "Change a task's title" }
func (c *EditCmd) Usage() string     { return "edit <ref> <title...>" }
func (c *EditCmd) NeedsStore() bool  { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, st store.TaskStore, args []string, out, errOut io.Writer) int {
	task, ok := resolveRef(st, args, errOut)
	if !ok {
		return exitcode.UserError
	}

	title, err := store.NormalizeTitle(strings.Join(args[1:], " "))
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	// Same title: nothing to send.
	if title == task.Title {
		if !cfg.Quiet {
			fmt.Fprintln(out, "unchanged")
		}
		return exitcode.Success
	}

	return awaitAndRender(ctx, cfg, st.Update(task.ID, store.SetTitle(title)), output.Render, out, errOut)
}
