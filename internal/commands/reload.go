package commands

import (
	"context"
	"flag"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/output"
	"tasklist/internal/store"
)

func init() {
	Register(&ReloadCmd{})
}

// ReloadCmd re-fetches the seed tasks, discarding local changes.
type ReloadCmd struct{}

func (c *ReloadCmd) Name() string      { return "reload" }
func (c *ReloadCmd) Aliases() []string { return nil }
func (c *ReloadCmd) Synopsis() string  { return "Reset to the initial tasks" }
func (c *ReloadCmd) Usage() string     { return "reload" }
func (c *ReloadCmd) NeedsStore() bool  { return true }

func (c *ReloadCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ReloadCmd) Run(ctx context.Context, cfg *config.Config, st store.TaskStore, args []string, out, errOut io.Writer) int {
	return awaitAndRender(ctx, cfg, st.Load(), output.Render, out, errOut)
}
