package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/mattn/go-shellwords"
	"github.com/rs/zerolog"

	"tasklist/internal/commands"
	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/store"
)

// Prompt is printed before each line is read, unless quiet.
const Prompt = "> "

// MaxLineLength is the longest input line a session accepts.
const MaxLineLength = 1 << 20

// Session is an interactive loop over one store.
// A line is only dispatched once the previous command, including its
// operation's latency, has finished.
type Session struct {
	registry *commands.Registry
	cfg      *config.Config
	st       store.TaskStore
}

// NewSession creates a session over st.
func NewSession(registry *commands.Registry, cfg *config.Config, st store.TaskStore) *Session {
	return &Session{registry: registry, cfg: cfg, st: st}
}

// Run reads commands from in until quit, EOF, or ctx ends.
// Command failures are reported and the session continues.
func (s *Session) Run(ctx context.Context, in io.Reader, out, errOut io.Writer) int {
	logger := zerolog.Ctx(ctx)
	stop := make(chan struct{})
	defer close(stop)
	lines := readLines(in, stop)

	for {
		if !s.cfg.Quiet {
			fmt.Fprint(out, Prompt)
		}

		var (
			line inputLine
			ok   bool
		)
		select {
		case <-ctx.Done():
			return exitcode.Interrupted
		case line, ok = <-lines:
		}
		if !ok {
			return exitcode.Success
		}
		if line.err != nil {
			logger.Debug().Err(line.err).Msg("reading input failed")
			fmt.Fprintf(errOut, "error: reading input: %v\n", line.err)
			return exitcode.UserError
		}

		args, err := shellwords.Parse(line.text)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		name := args[0]
		switch name {
		case "quit", "exit":
			return exitcode.Success
		case "shell", "serve":
			fmt.Fprintf(errOut, "error: not available in a session: %s\n", name)
			continue
		}

		cmd, found := s.registry.Find(name)
		if !found {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
			continue
		}

		code := dispatchCommand(ctx, s.cfg, s.st, cmd, args[1:], out, errOut)
		logger.Debug().Str("command", cmd.Name()).Int("code", code).Msg("command finished")
		if code == exitcode.Interrupted {
			return code
		}
	}
}

// inputLine is one line of input, or the error that ended reading.
type inputLine struct {
	text string
	err  error
}

// readLines feeds lines from in to the returned channel, closing it at EOF.
// A read failure, including a line over MaxLineLength, is sent as a final
// inputLine carrying the error.
// The reader goroutine blocks on send, so at most one line is read ahead.
// It exits once stop is closed.
func readLines(in io.Reader, stop <-chan struct{}) <-chan inputLine {
	lines := make(chan inputLine)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MaxLineLength)
		for scanner.Scan() {
			select {
			case lines <- inputLine{text: scanner.Text()}:
			case <-stop:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case lines <- inputLine{err: err}:
			case <-stop:
			}
		}
	}()
	return lines
}
