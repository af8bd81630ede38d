package core

import "time"

// SimRate is the number of simulation steps per second every run uses.
// Replays only verify when re-simulated at the step they were recorded with.
const (
	SimRate = 60
	FixedDT = 1.0 / SimRate
)

// Accumulator converts variable frame durations into a whole number of fixed
// simulation steps.
type Accumulator struct {
	step     time.Duration
	maxSteps int
	pending  time.Duration
}

// NewAccumulator creates an accumulator for the given fixed step.
// maxSteps bounds the steps returned per frame; time beyond it is discarded so
// a stalled host never triggers a catch-up spiral.
func NewAccumulator(step time.Duration, maxSteps int) *Accumulator {
	if step <= 0 {
		step = time.Second / 60
	}
	if maxSteps <= 0 {
		maxSteps = 1
	}
	return &Accumulator{step: step, maxSteps: maxSteps}
}

// AccumulatorForFPS returns an accumulator stepping fps times per second.
func AccumulatorForFPS(fps, maxSteps int) *Accumulator {
	if fps <= 0 {
		fps = 60
	}
	return NewAccumulator(time.Second/time.Duration(fps), maxSteps)
}

// Advance adds frame time and returns how many fixed steps to run now.
// The fractional remainder is carried into the next call.
func (a *Accumulator) Advance(frame time.Duration) int {
	if frame > 0 {
		a.pending += frame
	}
	n := int(a.pending / a.step)
	if n > a.maxSteps {
		n = a.maxSteps
		a.pending = a.pending % a.step
		return n
	}
	a.pending -= time.Duration(n) * a.step
	return n
}

// Step returns the fixed step duration.
func (a *Accumulator) Step() time.Duration {
	return a.step
}

// DT returns the fixed step in seconds, the value passed to World.Step.
func (a *Accumulator) DT() float64 {
	return a.step.Seconds()
}

// Pending returns the carried remainder.
func (a *Accumulator) Pending() time.Duration {
	return a.pending
}

// Reset drops any carried time.
func (a *Accumulator) Reset() {
	a.pending = 0
}
