// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task number, empty title).
	UserError = 1

	// ConfigError indicates an unreadable config file, env override or log destination.
	ConfigError = 2

	// Interrupted indicates the command stopped waiting because its context ended.
	// The pending store operation still completes.
	Interrupted = 3
)
