package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tasklist/internal/store"
)

// TaskRef is a parsed reference to a task: either its 1-based display number
// in the current list or, with a leading '#', its id.
type TaskRef struct {
	Num  int   // 1-based display number; 0 when ByID
	ID   int64 // task id; 0 unless ByID
	ByID bool
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the first argument as a task reference.
//
//	3      third task in display order
//	#17    task with id 17
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return TaskRef{}, ErrTaskRefRequired
	}
	raw := strings.TrimSpace(args[0])

	if rest, ok := strings.CutPrefix(raw, "#"); ok {
		if !isAllDigits(rest) {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", raw)
		}
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", raw)
		}
		return TaskRef{ID: id, ByID: true}, nil
	}

	if !isAllDigits(raw) {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", raw)
	}
	num, err := strconv.Atoi(raw)
	if err != nil {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", raw)
	}
	return TaskRef{Num: num}, nil
}

// String renders the reference the way it was typed.
func (r TaskRef) String() string {
	if r.ByID {
		return "#" + strconv.FormatInt(r.ID, 10)
	}
	return strconv.Itoa(r.Num)
}

// ResolveTask finds the referenced task in the store's current collection.
func ResolveTask(st store.TaskStore, ref TaskRef) (store.Task, error) {
	if ref.ByID {
		task, ok := st.Find(ref.ID)
		if !ok {
			return store.Task{}, fmt.Errorf("task not found: %s", ref)
		}
		return task, nil
	}

	tasks := st.Snapshot()
	if ref.Num < 1 || ref.Num > len(tasks) {
		return store.Task{}, fmt.Errorf("task number out of range: %d", ref.Num)
	}
	return tasks[ref.Num-1], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
