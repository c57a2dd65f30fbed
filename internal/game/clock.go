package game

import "time"

// Clock is the session time source for cooldowns, war timers and event durations.
type Clock interface {
	Now() time.Time
}

// StepClock advances a fixed step per frame so that simulated time only moves
// while the simulation runs. Pausing the frame loop pauses the clock.
type StepClock struct {
	now  time.Time
	step time.Duration
}

// NewStepClock creates a clock starting at start that advances step per Step call.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{now: start, step: step}
}

// Now returns the current simulated time.
func (c *StepClock) Now() time.Time { return c.now }

// Step advances one frame.
func (c *StepClock) Step() { c.now = c.now.Add(c.step) }

// Advance moves the clock forward by d.
func (c *StepClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// FrameStep is the simulated duration of one update at 60 TPS.
const FrameStep = time.Second / 60
