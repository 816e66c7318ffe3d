package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/httpapi"
	"tasklist/internal/store"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd exposes the store over HTTP until interrupted.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Serve the task list over HTTP" }
func (c *ServeCmd) Usage() string     { return "serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsStore() bool  { return true }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, st store.TaskStore, args []string, out, errOut io.Writer) int {
	addr := c.addr
	if addr == "" {
		addr = cfg.HTTP.Addr
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "http").Logger()
	if err := httpapi.Serve(ctx, addr, st, logger); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
