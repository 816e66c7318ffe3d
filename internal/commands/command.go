// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/store"
)

// Command defines the interface for CLI and shell commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command operates on the task store.
	// Commands like help and version return false.
	NeedsStore() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided.
	// st is nil if NeedsStore() returns false.
	// args contains positional arguments after flag parsing.
	// The logger is carried by ctx (zerolog.Ctx).
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, st store.TaskStore, args []string, out, errOut io.Writer) int
}
