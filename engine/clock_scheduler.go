package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vi-cloth/core"
)

// TickFunc advances the simulation by one fixed tick
// It runs on the scheduler goroutine; the callee serializes against other mutators
type TickFunc func()

// ClockScheduler drives a TickFunc on a fixed interval of simulation time
// Pause-aware without busy-wait, with drift correction and optional frame synchronization
type ClockScheduler struct {
	tick  TickFunc
	reset func()
	clock *PausableClock

	tickInterval     time.Duration
	nextTickDeadline time.Time
	mu               sync.RWMutex

	tickCount atomic.Uint64

	// Control channels
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	running   atomic.Bool
	resetChan chan struct{}
	stepChan  chan struct{}

	// Frame synchronization channels
	frameReady <-chan struct{} // Receive signal that frame is ready, nil skips the wait
	updateDone chan struct{}   // Send signal that update is complete
}

// NewClockScheduler creates a scheduler calling tick every tickInterval of clock time
// reset, if set, runs on the scheduler goroutine when RequestReset is called
func NewClockScheduler(
	clock *PausableClock,
	tickInterval time.Duration,
	tick TickFunc,
	reset func(),
	frameReady <-chan struct{},
) *ClockScheduler {
	return &ClockScheduler{
		tick:         tick,
		reset:        reset,
		clock:        clock,
		tickInterval: tickInterval,
		frameReady:   frameReady,
		updateDone:   make(chan struct{}, 1),
		resetChan:    make(chan struct{}, 1),
		stepChan:     make(chan struct{}, 1),
		stopChan:     make(chan struct{}),
	}
}

// UpdateDone signals after every tick, buffered to one, signals coalesce
func (cs *ClockScheduler) UpdateDone() <-chan struct{} {
	return cs.updateDone
}

// TickCount returns the number of ticks run
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

// Clock returns the scheduler's simulation clock
func (cs *ClockScheduler) Clock() *PausableClock {
	return cs.clock
}

// RequestReset queues a reset, coalescing with one already pending
func (cs *ClockScheduler) RequestReset() {
	select {
	case cs.resetChan <- struct{}{}:
	default:
	}
}

// RequestStep queues a single tick while paused, ignored while running
func (cs *ClockScheduler) RequestStep() {
	select {
	case cs.stepChan <- struct{}{}:
	default:
	}
}

// Start begins the scheduler loop
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		// Use core.Go for safe execution with centralized crash handling
		core.Go(cs.schedulerLoop)
	}
}

// Stop halts the scheduler loop and waits for the in-flight tick
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			close(cs.stopChan)
			cs.wg.Wait()
		}
	})
}

// schedulerLoop runs the main scheduling loop with pause awareness
func (cs *ClockScheduler) schedulerLoop() {
	defer cs.wg.Done()

	cs.mu.Lock()
	cs.nextTickDeadline = cs.clock.Now().Add(cs.tickInterval)
	cs.mu.Unlock()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		case <-cs.resetChan:
			cs.executeReset()
			continue
		default:
		}

		var sleepDuration time.Duration

		if cs.clock.IsPaused() {
			// Increase sleep interval while paused to save CPU
			sleepDuration = cs.tickInterval * 2
		} else {
			now := cs.clock.Now()

			cs.mu.RLock()
			deadline := cs.nextTickDeadline
			cs.mu.RUnlock()

			if !now.Before(deadline) {
				if cs.frameReady != nil {
					select {
					case <-cs.frameReady:
					case <-time.After(cs.tickInterval * 2):
					case <-cs.stopChan:
						return
					}
				}

				cs.processTick()

				cs.mu.Lock()
				cs.nextTickDeadline = cs.nextTickDeadline.Add(cs.tickInterval)
				// Drop backlog instead of bursting after a stall
				if now.Sub(cs.nextTickDeadline) > cs.tickInterval*2 {
					cs.nextTickDeadline = now.Add(cs.tickInterval)
				}
				deadline = cs.nextTickDeadline
				cs.mu.Unlock()

				sleepDuration = max(deadline.Sub(cs.clock.Now()), 0)
			} else {
				sleepDuration = deadline.Sub(now)
			}
		}

		if sleepDuration > 0 {
			timer.Reset(sleepDuration)
			select {
			case <-timer.C:
			case <-cs.resetChan:
				stopTimer(timer)
				cs.executeReset()
			case <-cs.stepChan:
				stopTimer(timer)
				if cs.clock.IsPaused() {
					cs.processTick()
				}
			case <-cs.stopChan:
				return
			}
		}
	}
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

func (cs *ClockScheduler) processTick() {
	cs.tick()
	cs.tickCount.Add(1)

	select {
	case cs.updateDone <- struct{}{}:
	default:
	}
}

// executeReset runs the reset hook and restarts deadline tracking
func (cs *ClockScheduler) executeReset() {
	if cs.reset != nil {
		cs.reset()
	}
	cs.mu.Lock()
	cs.nextTickDeadline = cs.clock.Now().Add(cs.tickInterval)
	cs.mu.Unlock()
}
