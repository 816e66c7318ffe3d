package store

import "time"

// Scheduler runs fn once delay has elapsed.
type Scheduler interface {
	Schedule(delay time.Duration, fn func())
}

// TimerScheduler schedules callbacks on the runtime timer.
type TimerScheduler struct{}

// Schedule implements Scheduler.
func (TimerScheduler) Schedule(delay time.Duration, fn func()) {
	time.AfterFunc(delay, fn)
}

// Latency holds the simulated round-trip time of each operation kind.
type Latency struct {
	Load   time.Duration
	Mutate time.Duration
}

// DefaultLatency is 500ms to fetch and 1s to write.
var DefaultLatency = Latency{
	Load:   500 * time.Millisecond,
	Mutate: 1000 * time.Millisecond,
}
