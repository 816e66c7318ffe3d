package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/store"
	"tasklist/internal/testutil"
)

func ids(c store.Collection) []int64 {
	out := make([]int64, 0, len(c))
	for _, t := range c {
		out = append(out, t.ID)
	}
	return out
}

func TestLoad_SeedsTwoTasks(t *testing.T) {
	s := testutil.NewStore()

	got := s.Load().Await()

	require.Len(t, got, 2)
	assert.Equal(t, store.Task{ID: 1, Title: "Learn Fetch API"}, got[0])
	assert.Equal(t, store.Task{ID: 2, Title: "Build a To-Do List"}, got[1])
}

func TestLoad_OverwritesExistingState(t *testing.T) {
	s := testutil.NewLoadedStore()
	s.Create("Buy milk").Await()
	s.Remove(1).Await()

	got := s.Load().Await()

	assert.Equal(t, []int64{1, 2}, ids(got))
}

func TestCreate_AppendsIncompleteTask(t *testing.T) {
	s := testutil.NewLoadedStore()

	got := s.Create("Buy milk").Await()

	require.Len(t, got, 3)
	last := got[2]
	assert.Equal(t, "Buy milk", last.Title)
	assert.False(t, last.Completed)
	assert.Equal(t, int64(3), last.ID)
}

func TestCreate_IDsAreTimeDerived(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	s := testutil.NewLoadedStore(store.WithClock(testutil.FixedClock(now)))

	first := s.Create("a").Await()
	second := s.Create("b").Await()

	assert.Equal(t, now.UnixMilli(), first[2].ID)
	// Same millisecond: bumped past the last id.
	assert.Equal(t, now.UnixMilli()+1, second[3].ID)
}

func TestCreate_IDsNeverReusedAcrossLoad(t *testing.T) {
	s := testutil.NewLoadedStore()
	created := s.Create("temp").Await()
	tempID := created[2].ID

	s.Load().Await()
	got := s.Create("again").Await()

	assert.Greater(t, got[2].ID, tempID)
}

func TestUpdate_CompletedOnly(t *testing.T) {
	s := testutil.NewLoadedStore()

	got := s.Update(1, store.SetCompleted(true)).Await()

	assert.Equal(t, store.Task{ID: 1, Title: "Learn Fetch API", Completed: true}, got[0])
	assert.Equal(t, store.Task{ID: 2, Title: "Build a To-Do List"}, got[1])
}

func TestUpdate_TitleOnly(t *testing.T) {
	s := testutil.NewLoadedStore()
	s.Update(2, store.SetCompleted(true)).Await()

	got := s.Update(2, store.SetTitle("Ship it")).Await()

	assert.Equal(t, store.Task{ID: 2, Title: "Ship it", Completed: true}, got[1])
}

func TestUpdate_BothFields(t *testing.T) {
	s := testutil.NewLoadedStore()
	title, done := "Both", true

	got := s.Update(1, store.Patch{Title: &title, Completed: &done}).Await()

	assert.Equal(t, store.Task{ID: 1, Title: "Both", Completed: true}, got[0])
}

func TestUpdate_UnknownIDIsNoop(t *testing.T) {
	s := testutil.NewLoadedStore()
	before := s.Snapshot()

	got := s.Update(999, store.SetCompleted(true)).Await()

	assert.Equal(t, before, got)
}

func TestUpdate_EmptyPatchIsNoop(t *testing.T) {
	s := testutil.NewLoadedStore()
	before := s.Snapshot()

	got := s.Update(1, store.Patch{}).Await()

	assert.Equal(t, before, got)
}

func TestRemove_ExistingID(t *testing.T) {
	s := testutil.NewLoadedStore()

	got := s.Remove(1).Await()

	assert.Equal(t, []int64{2}, ids(got))
}

func TestRemove_UnknownIDIsNoop(t *testing.T) {
	s := testutil.NewLoadedStore()
	before := s.Snapshot()

	got := s.Remove(42).Await()

	assert.Equal(t, before, got)
}

func TestRemove_Idempotent(t *testing.T) {
	once := testutil.NewLoadedStore()
	once.Remove(2).Await()

	twice := testutil.NewLoadedStore()
	twice.Remove(2).Await()
	twice.Remove(2).Await()

	assert.Equal(t, once.Snapshot(), twice.Snapshot())
}

func TestIDsStayUnique(t *testing.T) {
	s := testutil.NewLoadedStore()
	for i := 0; i < 20; i++ {
		s.Create("task").Await()
		if i%3 == 0 {
			snap := s.Snapshot()
			s.Remove(snap[0].ID).Await()
		}
		if i%4 == 0 {
			snap := s.Snapshot()
			s.Update(snap[len(snap)-1].ID, store.SetCompleted(true)).Await()
		}
	}

	seen := make(map[int64]bool)
	for _, id := range ids(s.Snapshot()) {
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := testutil.NewLoadedStore()

	snap := s.Snapshot()
	snap[0].Title = "mutated"

	task, ok := s.Find(1)
	require.True(t, ok)
	assert.Equal(t, "Learn Fetch API", task.Title)
}

func TestFind_Missing(t *testing.T) {
	s := testutil.NewLoadedStore()

	_, ok := s.Find(7)

	assert.False(t, ok)
}

func TestLatency_AppliedAfterDelay(t *testing.T) {
	sched := testutil.NewManualScheduler()
	s := store.New(store.WithScheduler(sched))

	f := s.Load()
	assert.Equal(t, store.Pending, s.State())

	sched.Advance(499 * time.Millisecond)
	select {
	case <-f.Done():
		t.Fatal("load resolved before its latency elapsed")
	default:
	}
	assert.Empty(t, s.Snapshot())

	sched.Advance(time.Millisecond)
	<-f.Done()
	assert.Len(t, f.Await(), 2)
	assert.Equal(t, store.Idle, s.State())
}

func TestQueue_RunsInSubmissionOrder(t *testing.T) {
	sched := testutil.NewManualScheduler()
	s := store.New(
		store.WithScheduler(sched),
		store.WithClock(testutil.FixedClock(time.UnixMilli(0))),
	)

	load := s.Load()
	create := s.Create("Buy milk")
	toggle := s.Update(3, store.SetCompleted(true))

	// Only the head of the queue has a running timer.
	assert.Equal(t, 1, sched.Pending())

	sched.Advance(500 * time.Millisecond)
	assert.Len(t, load.Await(), 2)
	assert.Equal(t, store.Pending, s.State())

	sched.Advance(1000 * time.Millisecond)
	created := create.Await()
	require.Len(t, created, 3)
	assert.False(t, created[2].Completed)

	sched.Advance(1000 * time.Millisecond)
	toggled := toggle.Await()
	assert.True(t, toggled[2].Completed)
	assert.Equal(t, store.Idle, s.State())
	assert.Equal(t, 2500*time.Millisecond, sched.Now())
}

func TestStateHook_ReportsTransitions(t *testing.T) {
	sched := testutil.NewManualScheduler()
	var seen []store.State
	s := store.New(
		store.WithScheduler(sched),
		store.WithStateHook(func(st store.State) { seen = append(seen, st) }),
	)

	s.Load()
	s.Create("x")
	sched.Flush()

	assert.Equal(t, []store.State{store.Pending, store.Idle}, seen)
}

func TestFuture_WaitHonoursContext(t *testing.T) {
	sched := testutil.NewManualScheduler()
	s := store.New(store.WithScheduler(sched))
	f := s.Load()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	// The operation still completes.
	sched.Flush()
	got, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFuture_WaitPrefersResolvedOverCancelled(t *testing.T) {
	s := testutil.NewStore()
	f := s.Load()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 200; i++ {
		got, err := f.Wait(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
	}
}

func TestTimerScheduler_Resolves(t *testing.T) {
	s := store.New(store.WithLatency(store.Latency{Load: time.Millisecond, Mutate: time.Millisecond}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := s.Load().Wait(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.Create("real timer").Wait(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
