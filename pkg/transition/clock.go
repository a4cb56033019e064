package transition

import (
	"sync"
	"time"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Scheduler runs a callback on the next animation frame. Callbacks must run
// on the same goroutine that drives the controller.
type Scheduler interface {
	RequestTick(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

// RequestTick implements Scheduler.
func (f SchedulerFunc) RequestTick(fn func()) { f(fn) }

// SystemClock reads the real monotonic clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManualClock creates a clock reading start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now implements Clock.
func (m *ManualClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set moves the clock to t.
func (m *ManualClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d.
func (m *ManualClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// ManualScheduler queues tick requests until the caller runs them.
type ManualScheduler struct {
	queue []func()
}

// NewManualScheduler creates an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// RequestTick implements Scheduler.
func (s *ManualScheduler) RequestTick(fn func()) {
	s.queue = append(s.queue, fn)
}

// Pending returns the number of queued ticks.
func (s *ManualScheduler) Pending() int { return len(s.queue) }

// Flush runs the ticks queued so far. Ticks requested while flushing are
// kept for the next call. It returns the number of ticks run.
func (s *ManualScheduler) Flush() int {
	batch := s.queue
	s.queue = nil
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Advance moves clock forward by d and then flushes one frame.
func (s *ManualScheduler) Advance(clock *ManualClock, d time.Duration) int {
	clock.Advance(d)
	return s.Flush()
}

// RunUntilIdle advances clock by step and flushes until no ticks remain or
// maxFrames frames have run. It returns the number of frames run.
func (s *ManualScheduler) RunUntilIdle(clock *ManualClock, step time.Duration, maxFrames int) int {
	frames := 0
	for s.Pending() > 0 && frames < maxFrames {
		frames += s.Advance(clock, step)
	}
	return frames
}
