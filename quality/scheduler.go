// Package quality chooses the iteration budget of each frame. While the user
// is moving the view the budget is lowered to keep frames coming; once the
// view has been still for Window the full depth is rendered again.
package quality

import (
	"math"
	"time"
)

const (
	// Window is how long after the last gesture the view counts as moving.
	Window = 200 * time.Millisecond
	// Factor scales the iteration limit while interacting.
	Factor = 0.4
	// Floor is the smallest reduced budget.
	Floor = 100
)

// State of the scheduler.
type State int

const (
	Settled State = iota
	Interacting
)

func (s State) String() string {
	if s == Interacting {
		return "interacting"
	}
	return "settled"
}

// Scheduler tracks the time of the last gesture. The zero value is settled.
// It is owned by the render loop goroutine and is not safe for concurrent use.
type Scheduler struct {
	last  time.Time
	state State
}

// Poke records a gesture at now.
func (s *Scheduler) Poke(now time.Time) {
	s.last = now
	s.state = Interacting
}

// LastInteraction returns the time of the last gesture.
func (s *Scheduler) LastInteraction() time.Time {
	return s.last
}

// Update evaluates the settle timeout at now. It is called once per frame;
// there is no timer behind it.
func (s *Scheduler) Update(now time.Time) State {
	if s.state == Interacting && now.Sub(s.last) >= Window {
		s.state = Settled
	}
	return s.state
}

// State returns the state as of the last Update or Poke.
func (s *Scheduler) State() State {
	return s.state
}

// Budget updates the state at now and returns the iteration budget for a
// frame of a view limited to maxIter. maxIter itself is never changed.
func (s *Scheduler) Budget(maxIter int, now time.Time) int {
	if s.Update(now) == Interacting {
		return Reduced(maxIter)
	}
	return maxIter
}

// Current returns the budget for the state as of the last Update or Poke,
// which is the budget of the frame rendered last.
func (s *Scheduler) Current(maxIter int) int {
	if s.state == Interacting {
		return Reduced(maxIter)
	}
	return maxIter
}

// Reduced is the interactive budget for maxIter.
func Reduced(maxIter int) int {
	return max(Floor, int(math.Floor(float64(maxIter)*Factor)))
}
