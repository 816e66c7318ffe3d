package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TaskStore defines the operations presentation layers use.
// Mutating operations return immediately with a Future that resolves once the
// simulated latency has elapsed and the change has been applied.
type TaskStore interface {
	// Load replaces the collection with the seed tasks.
	Load() *Future

	// Create appends a new incomplete task with a fresh id.
	// The title is stored as given; callers validate it with NormalizeTitle.
	Create(title string) *Future

	// Update merges patch into the task with the given id.
	// An unknown id leaves the collection unchanged.
	Update(id int64, patch Patch) *Future

	// Remove deletes the task with the given id, if present.
	Remove(id int64) *Future

	// Snapshot returns a copy of the current collection.
	Snapshot() Collection

	// Find looks up a task by id in the current collection.
	Find(id int64) (Task, bool)

	// State reports whether any operation is in flight or queued.
	State() State
}

// State is the lifecycle state of the store's operation pipeline.
type State int

const (
	// Idle means no operation is pending.
	Idle State = iota
	// Pending means at least one operation is waiting for its latency to elapse.
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// op is a submitted operation waiting in the queue or in flight.
type op struct {
	id     string
	kind   string
	delay  time.Duration
	apply  func()
	future *Future
}

// Store is the in-memory TaskStore.
//
// Operations are serialized: one submitted while another is pending is queued
// and starts its latency only after the previous one completes. Each mutation
// is applied when its latency elapses, in submission order.
type Store struct {
	mu     sync.Mutex
	tasks  Collection
	lastID int64
	busy   bool
	queue  []*op

	hookMu       sync.Mutex
	lastNotified State
	onState      func(State)

	sched   Scheduler
	latency Latency
	clock   func() time.Time
	logger  zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithScheduler sets the scheduler used to simulate latency.
func WithScheduler(s Scheduler) Option {
	return func(st *Store) { st.sched = s }
}

// WithLatency overrides the simulated latencies.
func WithLatency(l Latency) Option {
	return func(st *Store) { st.latency = l }
}

// WithClock sets the time source used to derive task ids.
func WithClock(clock func() time.Time) Option {
	return func(st *Store) { st.clock = clock }
}

// WithLogger sets the logger for operation events.
func WithLogger(l zerolog.Logger) Option {
	return func(st *Store) { st.logger = l }
}

// WithStateHook registers fn to be called on every Idle/Pending transition.
// fn may read from the store but must not submit operations.
func WithStateHook(fn func(State)) Option {
	return func(st *Store) { st.onState = fn }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		sched:   TimerScheduler{},
		latency: DefaultLatency,
		clock:   time.Now,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load implements TaskStore.
func (s *Store) Load() *Future {
	return s.submit("load", s.latency.Load, func() {
		s.tasks = seedTasks()
		for _, t := range s.tasks {
			if t.ID > s.lastID {
				s.lastID = t.ID
			}
		}
	})
}

// Create implements TaskStore.
func (s *Store) Create(title string) *Future {
	return s.submit("create", s.latency.Mutate, func() {
		s.tasks = append(s.tasks, Task{
			ID:        s.nextID(),
			Title:     title,
			Completed: false,
		})
	})
}

// Update implements TaskStore.
func (s *Store) Update(id int64, patch Patch) *Future {
	return s.submit("update", s.latency.Mutate, func() {
		if i := s.tasks.Index(id); i >= 0 {
			s.tasks[i] = patch.apply(s.tasks[i])
		}
	})
}

// Remove implements TaskStore.
func (s *Store) Remove(id int64) *Future {
	return s.submit("remove", s.latency.Mutate, func() {
		kept := s.tasks[:0:0]
		for _, t := range s.tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		s.tasks = kept
	})
}

// Snapshot implements TaskStore.
func (s *Store) Snapshot() Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Clone()
}

// Find implements TaskStore.
func (s *Store) Find(id int64) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.tasks.Index(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// State implements TaskStore.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return Pending
	}
	return Idle
}

// nextID derives an id from the clock, bumped past the last one issued.
// Must be called with s.mu held.
func (s *Store) nextID() int64 {
	id := s.clock().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) submit(kind string, delay time.Duration, apply func()) *Future {
	o := &op{
		id:     uuid.NewString(),
		kind:   kind,
		delay:  delay,
		apply:  apply,
		future: newFuture(),
	}

	s.mu.Lock()
	var next *op
	if s.busy {
		s.queue = append(s.queue, o)
	} else {
		s.busy = true
		next = o
	}
	queued := len(s.queue)
	s.mu.Unlock()

	s.logger.Debug().
		Str("op", o.id).
		Str("kind", kind).
		Dur("latency", delay).
		Int("queued", queued).
		Msg("operation submitted")

	s.notify()
	if next != nil {
		s.start(next)
	}
	return o.future
}

func (s *Store) start(o *op) {
	s.sched.Schedule(o.delay, func() { s.complete(o) })
}

func (s *Store) complete(o *op) {
	s.mu.Lock()
	o.apply()
	snap := s.tasks.Clone()
	var next *op
	if len(s.queue) > 0 {
		next = s.queue[0]
		s.queue = s.queue[1:]
	} else {
		s.busy = false
	}
	s.mu.Unlock()

	s.logger.Debug().
		Str("op", o.id).
		Str("kind", o.kind).
		Int("tasks", len(snap)).
		Msg("operation completed")

	o.future.resolve(snap)
	if next != nil {
		s.start(next)
		return
	}
	s.notify()
}

// notify reports the current state to the hook if it changed since the last call.
func (s *Store) notify() {
	if s.onState == nil {
		return
	}
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	st := s.State()
	if st == s.lastNotified {
		return
	}
	s.lastNotified = st
	s.onState(st)
}
