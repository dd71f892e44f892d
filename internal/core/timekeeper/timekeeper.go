package timekeeper

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// Timer is a countdown state machine for one phase. It is not safe for
// concurrent use; the owner drives it from a single goroutine by selecting
// on C and calling Tick.
type Timer struct {
	phase     Phase
	clock     clockwork.Clock
	total     int
	remaining int
	ticker    clockwork.Ticker
}

// New creates a stopped timer. Durations below one second are clamped.
func New(phase Phase, seconds int, clock clockwork.Clock) *Timer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	seconds = max(1, seconds)
	return &Timer{
		phase:     phase,
		clock:     clock,
		total:     seconds,
		remaining: seconds,
	}
}

// Phase returns the phase this timer counts down.
func (timer *Timer) Phase() Phase {
	return timer.phase
}

// Running reports whether the tick schedule is active.
func (timer *Timer) Running() bool {
	return timer.ticker != nil
}

// Remaining returns the seconds left in the current countdown.
func (timer *Timer) Remaining() int {
	return timer.remaining
}

// Total returns the configured countdown length in seconds.
func (timer *Timer) Total() int {
	return timer.total
}

// State returns a snapshot of the timer.
func (timer *Timer) State() State {
	return State{
		TotalSeconds:     timer.total,
		RemainingSeconds: timer.remaining,
		Running:          timer.Running(),
	}
}

// C delivers tick times while running. It returns nil when stopped so a
// select on it blocks.
func (timer *Timer) C() <-chan time.Time {
	if timer.ticker == nil {
		return nil
	}
	return timer.ticker.Chan()
}

// Start begins the one-second tick schedule. It is a no-op when running.
func (timer *Timer) Start() {
	if timer.ticker != nil {
		return
	}
	timer.ticker = timer.clock.NewTicker(TickInterval)
}

// Pause cancels the tick schedule and keeps the remaining time.
func (timer *Timer) Pause() {
	if timer.ticker == nil {
		return
	}
	timer.ticker.Stop()
	timer.ticker = nil
}

// Reset pauses and rewinds to the full duration.
func (timer *Timer) Reset() {
	timer.Pause()
	timer.remaining = timer.total
}

// SetDuration changes the countdown length. A running timer keeps its
// progress unless the new length is shorter than what remains. It reports
// whether the change completed the countdown.
func (timer *Timer) SetDuration(seconds int) bool {
	timer.total = max(1, seconds)
	if !timer.Running() {
		timer.remaining = timer.total
		return false
	}
	timer.remaining = min(timer.remaining, timer.total)
	if timer.remaining == 0 {
		timer.complete()
		return true
	}
	return false
}

// Tick advances the countdown by one second. The second result is false
// when the timer was stopped before the tick was handled.
func (timer *Timer) Tick() (Step, bool) {
	if !timer.Running() {
		return Step{}, false
	}
	timer.remaining = max(0, timer.remaining-1)
	step := Step{Phase: timer.phase, Remaining: timer.remaining}
	if timer.remaining == 0 {
		timer.complete()
		step.Completed = true
	}
	return step, true
}

func (timer *Timer) complete() {
	timer.Pause()
	timer.remaining = timer.total
}
