package commands

import (
	"context"
	"flag"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/output"
	"tasklist/internal/store"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd flips the completed flag of a task.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Mark a task completed, or open again" }
func (c *ToggleCmd) Usage() string     { return "toggle <ref>" }
func (c *ToggleCmd) NeedsStore() bool  { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, st store.TaskStore, args []string, out, errOut io.Writer) int {
	task, ok := resolveRef(st, args, errOut)
	if !ok {
		return exitcode.UserError
	}

	return awaitAndRender(ctx, cfg, st.Update(task.ID, store.SetCompleted(!task.Completed)), output.Render, out, errOut)
}
