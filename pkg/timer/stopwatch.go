package timer

import "time"

// Stopwatch accumulates running time across pause/resume cycles:
//
//	elapsed = accumulated + (paused ? 0 : now - resumedAt)
//
// Folding each running segment into accumulated on pause keeps repeated
// pause/resume from drifting.
type Stopwatch struct {
	clock       Clock
	accumulated time.Duration
	resumedAt   time.Time
	started     bool
	paused      bool
}

func NewStopwatch(clock Clock) *Stopwatch {
	return &Stopwatch{clock: clock, paused: true}
}

// Start begins timing. It only works from the not-yet-started state.
func (s *Stopwatch) Start() bool {
	if s.started {
		return false
	}
	s.started = true
	s.paused = false
	s.resumedAt = s.clock.Now()
	return true
}

// Pause folds the running segment into the accumulator. Pausing a paused or
// unstarted stopwatch does nothing.
func (s *Stopwatch) Pause() {
	if !s.started || s.paused {
		return
	}
	s.accumulated += s.clock.Now().Sub(s.resumedAt)
	s.paused = true
}

// Resume restarts timing after a Pause. It is a no-op when never started or
// already running.
func (s *Stopwatch) Resume() bool {
	if !s.started || !s.paused {
		return false
	}
	s.resumedAt = s.clock.Now()
	s.paused = false
	return true
}

// Reset returns the stopwatch to the not-yet-started state.
func (s *Stopwatch) Reset() {
	s.accumulated = 0
	s.resumedAt = time.Time{}
	s.started = false
	s.paused = true
}

func (s *Stopwatch) Started() bool { return s.started }
func (s *Stopwatch) Running() bool { return s.started && !s.paused }

// Elapsed returns the accumulated running time.
func (s *Stopwatch) Elapsed() time.Duration {
	if !s.Running() {
		return s.accumulated
	}
	return s.accumulated + s.clock.Now().Sub(s.resumedAt)
}
