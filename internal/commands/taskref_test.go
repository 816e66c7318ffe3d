package commands

import (
	"testing"

	"tasklist/internal/store"
	"tasklist/internal/testutil"
)

func TestParseTaskRef_Number(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ByID {
		t.Error("expected ByID to be false")
	}
	if ref.Num != 5 {
		t.Errorf("expected Num 5, got %d", ref.Num)
	}
}

func TestParseTaskRef_ID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"#1700000000123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.ByID {
		t.Error("expected ByID to be true")
	}
	if ref.ID != 1700000000123 {
		t.Errorf("expected ID 1700000000123, got %d", ref.ID)
	}
	if ref.String() != "#1700000000123" {
		t.Errorf("unexpected String() %q", ref.String())
	}
}

func TestParseTaskRef_IgnoresTrailingArgs(t *testing.T) {
	ref, err := ParseTaskRef([]string{"2", "new", "title"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 2 {
		t.Errorf("expected Num 2, got %d", ref.Num)
	}
}

func TestParseTaskRef_Required(t *testing.T) {
	for _, args := range [][]string{nil, {}, {"  "}} {
		if _, err := ParseTaskRef(args); err != ErrTaskRefRequired {
			t.Errorf("args %q: expected ErrTaskRefRequired, got %v", args, err)
		}
	}
}

func TestParseTaskRef_Invalid(t *testing.T) {
	for _, raw := range []string{"abc", "-1", "#", "#x1", "1.5", "a1", "99999999999999999999"} {
		_, err := ParseTaskRef([]string{raw})
		if err == nil {
			t.Errorf("expected error for %q", raw)
			continue
		}
		want := "invalid task reference: " + raw
		if err.Error() != want {
			t.Errorf("expected %q, got %q", want, err.Error())
		}
	}
}

func TestResolveTask(t *testing.T) {
	st := testutil.NewLoadedStore()

	task, err := ResolveTask(st, TaskRef{Num: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != 2 {
		t.Errorf("expected id 2, got %d", task.ID)
	}

	task, err = ResolveTask(st, TaskRef{ID: 1, ByID: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Title != "Learn Fetch API" {
		t.Errorf("unexpected task %+v", task)
	}
}

func TestResolveTask_FollowsDisplayOrder(t *testing.T) {
	st := testutil.NewLoadedStore()
	st.Remove(1).Await()
	st.Create("third").Await()

	task, err := ResolveTask(st, TaskRef{Num: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Title != "third" {
		t.Errorf("expected the created task at position 2, got %+v", task)
	}
}

func TestResolveTask_Missing(t *testing.T) {
	var st store.TaskStore = testutil.NewLoadedStore()

	if _, err := ResolveTask(st, TaskRef{Num: 3}); err == nil || err.Error() != "task number out of range: 3" {
		t.Errorf("unexpected error %v", err)
	}
	if _, err := ResolveTask(st, TaskRef{ID: 3, ByID: true}); err == nil || err.Error() != "task not found: #3" {
		t.Errorf("unexpected error %v", err)
	}
}
