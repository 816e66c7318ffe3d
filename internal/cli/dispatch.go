// Package cli parses the command line, builds the store and runs one command or an interactive session.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"tasklist/internal/commands"
	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/logging"
	"tasklist/internal/output"
	"tasklist/internal/store"
)

// StoreFactory creates the TaskStore used for one process run.
// Used to inject a deterministic store in tests.
type StoreFactory func(cfg *config.Config, logger zerolog.Logger) store.TaskStore

// DefaultStoreFactory builds a store with the configured latencies.
func DefaultStoreFactory(cfg *config.Config, logger zerolog.Logger) store.TaskStore {
	storeLogger := logger.With().Str("component", "store").Logger()
	return store.New(
		store.WithLatency(store.Latency{
			Load:   cfg.Latency.Load,
			Mutate: cfg.Latency.Mutate,
		}),
		store.WithLogger(storeLogger),
		store.WithStateHook(func(st store.State) {
			storeLogger.Debug().Stringer("state", st).Msg("state changed")
		}),
	)
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  StoreFactory
}

// NewDispatcher creates a new dispatcher with the given registry and store factory.
func NewDispatcher(registry *commands.Registry, factory StoreFactory) *Dispatcher {
	if factory == nil {
		factory = DefaultStoreFactory
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// commonFlags are accepted before the command name and after it.
type commonFlags struct {
	configDir string
	quiet     bool
	debug     bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configDir, "config", c.configDir, "")
	fs.BoolVar(&c.quiet, "quiet", c.quiet, "")
	fs.BoolVar(&c.debug, "debug", c.debug, "")
}

// Run parses arguments and dispatches to the appropriate command.
// With no command, or "shell", it starts an interactive session reading from in.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	var common commonFlags

	top := newFlagSet("tasklist")
	common.register(top)
	rest, ok := parseFlags(top, args, errOut)
	if !ok {
		return exitcode.UserError
	}

	var cmd commands.Command
	if len(rest) > 0 && rest[0] == "shell" {
		fs := newFlagSet("shell")
		common.register(fs)
		if rest, ok = parseFlags(fs, rest[1:], errOut); !ok {
			return exitcode.UserError
		}
		if len(rest) > 0 {
			fmt.Fprintf(errOut, "error: unexpected argument: %s\n", rest[0])
			return exitcode.UserError
		}
	} else if len(rest) > 0 {
		found, exists := d.registry.Find(rest[0])
		if !exists {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", rest[0])
			return exitcode.UserError
		}
		cmd = found

		fs := newFlagSet(cmd.Name())
		common.register(fs)
		cmd.RegisterFlags(fs)
		if rest, ok = parseFlags(fs, rest[1:], errOut); !ok {
			return exitcode.UserError
		}
	}

	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug

	logger, closer, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Debug:   cfg.Debug,
		File:    cfg.Log.File,
		Console: errOut,
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}
	defer closer.Close()
	ctx = logger.WithContext(ctx)

	if cmd != nil && !cmd.NeedsStore() {
		return cmd.Run(ctx, cfg, nil, rest, out, errOut)
	}

	st := d.factory(cfg, logger)
	if code := initialLoad(ctx, cfg, st, errOut); code != exitcode.Success {
		return code
	}

	if cmd == nil {
		if !cfg.Quiet {
			output.Render(out, st.Snapshot())
		}
		session := NewSession(d.registry, cfg, st)
		return session.Run(ctx, in, out, errOut)
	}
	return cmd.Run(ctx, cfg, st, rest, out, errOut)
}

// initialLoad fetches the seed tasks before anything is rendered.
func initialLoad(ctx context.Context, cfg *config.Config, st store.TaskStore, errOut io.Writer) int {
	if !cfg.Quiet {
		output.Busy(errOut)
	}
	if _, err := st.Load().Wait(ctx); err != nil {
		fmt.Fprintln(errOut, "error: interrupted while loading tasks")
		return exitcode.Interrupted
	}
	zerolog.Ctx(ctx).Debug().Msg("initial tasks loaded")
	return exitcode.Success
}

// dispatchCommand parses command flags and runs cmd against an already-built store.
func dispatchCommand(ctx context.Context, cfg *config.Config, st store.TaskStore, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := newFlagSet(cmd.Name())
	cmd.RegisterFlags(fs)
	positional, ok := parseFlags(fs, args, errOut)
	if !ok {
		return exitcode.UserError
	}
	if !cmd.NeedsStore() {
		st = nil
	}
	return cmd.Run(ctx, cfg, st, positional, out, errOut)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves
	return fs
}

// parseFlags parses args into fs and reports failures in the CLI's error format.
// Returns the positional arguments.
func parseFlags(fs *flag.FlagSet, args []string, errOut io.Writer) ([]string, bool) {
	if err := fs.Parse(args); err != nil {
		errStr := err.Error()

		// Check for missing flag value
		if strings.HasPrefix(errStr, "flag needs an argument:") {
			flagPart := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
			return nil, false
		}

		// Check for unknown flag
		if strings.HasPrefix(errStr, "flag provided but not defined:") {
			flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag provided but not defined:"))
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return nil, false
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return nil, false
	}
	return fs.Args(), true
}
