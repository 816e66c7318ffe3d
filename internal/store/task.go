// Package store holds the in-memory task list and its latency-simulating operations.
package store

import (
	"errors"
	"strings"
)

// Task represents a single task item.
type Task struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Collection is an ordered list of tasks. Insertion order is display order.
type Collection []Task

// Patch holds the fields to merge into an existing task.
// Nil fields are left untouched.
type Patch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// ErrEmptyTitle is returned by NormalizeTitle for empty or whitespace-only titles.
var ErrEmptyTitle = errors.New("title required")

// NormalizeTitle trims surrounding whitespace from a title.
// Callers run it before Create or a title Update; the store itself accepts any title.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	return title, nil
}

// SetTitle returns a patch that only changes the title.
func SetTitle(title string) Patch {
	return Patch{Title: &title}
}

// SetCompleted returns a patch that only changes the completed flag.
func SetCompleted(completed bool) Patch {
	return Patch{Completed: &completed}
}

// Empty reports whether the patch carries no fields.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Completed == nil
}

func (p Patch) apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// Index returns the position of the task with the given id, or -1.
func (c Collection) Index(id int64) int {
	for i, t := range c {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no backing array with c.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// seedTasks is the fixed set installed by Load.
func seedTasks() Collection {
	return Collection{
		{ID: 1, Title: "Learn Fetch API", Completed: false},
		{ID: 2, Title: "Build a To-Do List", Completed: false},
	}
}
