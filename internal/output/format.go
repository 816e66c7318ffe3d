// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tasklist/internal/store"
)

const (
	// ListSeparator is the separator line around the list header.
	ListSeparator = "------------"

	// ListTitle is the header printed above the tasks.
	ListTitle = "To-Do List"

	// BusyIndicator is printed while an operation's latency elapses.
	BusyIndicator = "loading..."
)

// Renderer draws a collection after every completed operation.
type Renderer func(w io.Writer, tasks store.Collection)

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {TITLE}\n" (4-wide right-aligned number, two spaces, checkbox, title)
func FormatTask(w io.Writer, num int, task store.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, checkbox(task.Completed), normalizeTitle(task.Title))
}

// FormatTaskWithID is FormatTask followed by the task id, for --ids output.
func FormatTaskWithID(w io.Writer, num int, task store.Task) {
	fmt.Fprintf(w, "%4d  %s %s  (#%d)\n", num, checkbox(task.Completed), normalizeTitle(task.Title), task.ID)
}

// FormatListHeader formats the list header with the open/total counts.
func FormatListHeader(w io.Writer, tasks store.Collection) {
	open := 0
	for _, t := range tasks {
		if !t.Completed {
			open++
		}
	}
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "%s (%d open, %d total)\n", ListTitle, open, len(tasks))
	fmt.Fprintln(w, ListSeparator)
}

// Render is the default Renderer: header, then one numbered line per task.
func Render(w io.Writer, tasks store.Collection) {
	FormatListHeader(w, tasks)
	if len(tasks) == 0 {
		fmt.Fprintln(w, "no tasks found")
		return
	}
	for i, t := range tasks {
		FormatTask(w, i+1, t)
	}
}

// RenderWithIDs is Render with task ids appended to each line.
func RenderWithIDs(w io.Writer, tasks store.Collection) {
	FormatListHeader(w, tasks)
	if len(tasks) == 0 {
		fmt.Fprintln(w, "no tasks found")
		return
	}
	for i, t := range tasks {
		FormatTaskWithID(w, i+1, t)
	}
}

// Busy prints the busy indicator.
func Busy(w io.Writer) {
	fmt.Fprintln(w, BusyIndicator)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
