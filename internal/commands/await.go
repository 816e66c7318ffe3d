package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/output"
	"tasklist/internal/store"
)

// renderer picks the list layout.
func renderer(showIDs bool) output.Renderer {
	if showIDs {
		return output.RenderWithIDs
	}
	return output.Render
}

// awaitAndRender shows the busy indicator while f is pending, then renders the
// resulting collection with render. Input is not read again until this returns.
func awaitAndRender(ctx context.Context, cfg *config.Config, f *store.Future, render output.Renderer, out, errOut io.Writer) int {
	if !cfg.Quiet {
		output.Busy(errOut)
	}

	tasks, err := f.Wait(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("stopped waiting for pending operation")
		fmt.Fprintln(errOut, "error: interrupted (the pending operation will still complete)")
		return exitcode.Interrupted
	}

	if !cfg.Quiet {
		render(out, tasks)
	}
	return exitcode.Success
}

// resolveRef parses args[0] and looks the task up, printing any error.
func resolveRef(st store.TaskStore, args []string, errOut io.Writer) (store.Task, bool) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return store.Task{}, false
	}
	task, err := ResolveTask(st, ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return store.Task{}, false
	}
	return task, true
}
