// Package testutil provides testing utilities.
package testutil

import (
	"sort"
	"sync"
	"time"

	"tasklist/internal/store"
)

// ManualScheduler is a store.Scheduler driven by virtual time.
// Callbacks fire only when the test calls Advance or Flush.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []timer
}

type timer struct {
	at  time.Duration
	seq int
	fn  func()
}

// NewManualScheduler creates a scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule implements store.Scheduler.
func (m *ManualScheduler) Schedule(delay time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.pending = append(m.pending, timer{at: m.now + delay, seq: m.seq, fn: fn})
}

// Pending returns the number of callbacks not yet fired.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Now returns the current virtual time.
func (m *ManualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves virtual time forward by d, firing due callbacks in order.
// Callbacks scheduled while advancing fire too if they fall due within d.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		fn, ok := m.popDue(target)
		if !ok {
			break
		}
		fn()
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
}

// Flush fires every pending callback, including ones scheduled by callbacks.
func (m *ManualScheduler) Flush() {
	for {
		m.mu.Lock()
		if len(m.pending) == 0 {
			m.mu.Unlock()
			return
		}
		m.sortLocked()
		target := m.pending[0].at
		m.mu.Unlock()
		m.Advance(target - m.Now())
	}
}

func (m *ManualScheduler) popDue(target time.Duration) (func(), bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return nil, false
	}
	m.sortLocked()
	next := m.pending[0]
	if next.at > target {
		return nil, false
	}
	m.pending = m.pending[1:]
	m.now = next.at
	return next.fn, true
}

func (m *ManualScheduler) sortLocked() {
	sort.Slice(m.pending, func(i, j int) bool {
		if m.pending[i].at != m.pending[j].at {
			return m.pending[i].at < m.pending[j].at
		}
		return m.pending[i].seq < m.pending[j].seq
	})
}

// ImmediateScheduler runs callbacks synchronously, ignoring the delay.
type ImmediateScheduler struct{}

// Schedule implements store.Scheduler.
func (ImmediateScheduler) Schedule(_ time.Duration, fn func()) {
	fn()
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// NewStore returns a store with zero latency that runs operations synchronously.
// The clock is pinned so generated ids are predictable: 3, 4, 5... after Load.
func NewStore(opts ...store.Option) *store.Store {
	base := []store.Option{
		store.WithScheduler(ImmediateScheduler{}),
		store.WithClock(FixedClock(time.UnixMilli(0))),
	}
	return store.New(append(base, opts...)...)
}

// NewLoadedStore is NewStore followed by Load.
func NewLoadedStore(opts ...store.Option) *store.Store {
	s := NewStore(opts...)
	s.Load().Await()
	return s
}
