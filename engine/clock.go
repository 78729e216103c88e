package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// TimeProvider supplies wall time, swapped for a manual clock in tests
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads the system clock with its monotonic component
type MonotonicTimeProvider struct{}

func (MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// ManualTimeProvider only advances when told to
type ManualTimeProvider struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManualTimeProvider creates a manual clock at start
func NewManualTimeProvider(start time.Time) *ManualTimeProvider {
	return &ManualTimeProvider{now: start}
}

func (m *ManualTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance moves the clock forward by d
func (m *ManualTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// PausableClock is simulation time: wall time minus every paused interval
type PausableClock struct {
	mu     sync.RWMutex
	source TimeProvider

	start       time.Time
	pauseStart  time.Time
	totalPaused time.Duration
	isPaused    atomic.Bool
}

// NewPausableClock creates a running clock over source, nil means the system clock
func NewPausableClock(source TimeProvider) *PausableClock {
	if source == nil {
		source = MonotonicTimeProvider{}
	}
	return &PausableClock{
		source: source,
		start:  source.Now(),
	}
}

// Now returns simulation time, frozen while paused
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.isPaused.Load() {
		return pc.pauseStart.Add(-pc.totalPaused)
	}
	return pc.source.Now().Add(-pc.totalPaused)
}

// Elapsed returns simulation time since creation
func (pc *PausableClock) Elapsed() time.Duration {
	return pc.Now().Sub(pc.start)
}

// Pause freezes simulation time, no-op if already paused
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.isPaused.CompareAndSwap(false, true) {
		pc.pauseStart = pc.source.Now()
	}
}

// Resume continues simulation time, no-op if running
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.isPaused.CompareAndSwap(true, false) {
		pc.totalPaused += pc.source.Now().Sub(pc.pauseStart)
		pc.pauseStart = time.Time{}
	}
}

// IsPaused returns current pause state
func (pc *PausableClock) IsPaused() bool {
	return pc.isPaused.Load()
}

// TotalPaused returns cumulative pause time including a pause in progress
func (pc *PausableClock) TotalPaused() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.totalPaused
	if pc.isPaused.Load() {
		total += pc.source.Now().Sub(pc.pauseStart)
	}
	return total
}
