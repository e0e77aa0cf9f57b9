package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/maze-bounce/core"
)

// Stepper advances simulation state by one fixed tick
type Stepper interface {
	Step()
}

// ClockScheduler drives a Stepper on a fixed tick from its own goroutine.
// Pause-aware scheduling without busy-wait; deadlines are corrected for drift
type ClockScheduler struct {
	stepper Stepper
	clock   *PausableClock

	tickInterval     time.Duration
	nextTickDeadline time.Time

	tickCount atomic.Uint64
	mu        sync.Mutex

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// Signalled after every tick, dropped when the consumer lags
	updateDone chan struct{}
}

// NewClockScheduler creates a scheduler for the given tick interval and
// returns the channel signalled after each tick
func NewClockScheduler(stepper Stepper, clock *PausableClock, tickInterval time.Duration) (*ClockScheduler, <-chan struct{}) {
	if clock == nil {
		clock = NewPausableClock(nil)
	}
	updateDone := make(chan struct{}, 1)

	cs := &ClockScheduler{
		stepper:      stepper,
		clock:        clock,
		tickInterval: tickInterval,
		stopChan:     make(chan struct{}),
		updateDone:   updateDone,
	}
	return cs, updateDone
}

// TickInterval derives the scheduler interval from a tick rate in Hz
func TickInterval(rate float64) time.Duration {
	return time.Duration(float64(time.Second) / rate)
}

// Start begins the scheduler loop
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		core.Go(cs.schedulerLoop)
	}
}

// Stop halts the scheduler loop and waits for an in-flight tick to finish
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		close(cs.stopChan)
		if cs.running.Load() {
			cs.wg.Wait()
		}
	})
}

// Clock returns the clock used for deadlines
func (cs *ClockScheduler) Clock() *PausableClock { return cs.clock }

// TickCount returns the number of ticks executed
func (cs *ClockScheduler) TickCount() uint64 { return cs.tickCount.Load() }

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
		default:
		}

		var sleepDuration time.Duration

		if cs.clock.IsPaused() {
			// Longer sleep while paused to save CPU
			sleepDuration = cs.tickInterval * 2
		} else {
			now := cs.clock.Now()

			cs.mu.Lock()
			deadline := cs.nextTickDeadline
			cs.mu.Unlock()

			if !now.Before(deadline) {
				cs.stepper.Step()
				cs.tickCount.Add(1)

				cs.mu.Lock()
				cs.nextTickDeadline = cs.nextTickDeadline.Add(cs.tickInterval)
				maxBehind := cs.tickInterval * 2
				if now.Sub(cs.nextTickDeadline) > maxBehind {
					cs.nextTickDeadline = now.Add(cs.tickInterval)
				}
				deadline = cs.nextTickDeadline
				cs.mu.Unlock()

				select {
				case cs.updateDone <- struct{}{}:
				default:
				}

				sleepDuration = deadline.Sub(cs.clock.Now())
			} else {
				sleepDuration = deadline.Sub(now)
			}
		}

		if sleepDuration > 0 {
			timer.Reset(sleepDuration)
			select {
			case <-timer.C:
			case <-cs.stopChan:
				return
			}
		}
	}
}
