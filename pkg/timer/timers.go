package timer

import "time"

// Timers pairs the total play-time accumulator with the current-level one.
// Both are driven together by the session; only the level one is ever reset
// mid-game.
type Timers struct {
	Total *Stopwatch
	Level *Stopwatch
}

func NewTimers(clock Clock) *Timers {
	return &Timers{
		Total: NewStopwatch(clock),
		Level: NewStopwatch(clock),
	}
}

// Play is called when the Playing state is entered: the total keeps counting
// from where it was (or starts), and the level timer restarts from zero.
func (t *Timers) Play() {
	if !t.Total.Start() {
		t.Total.Resume()
	}
	t.Level.Reset()
	t.Level.Start()
}

// Pause stops both accumulators.
func (t *Timers) Pause() {
	t.Total.Pause()
	t.Level.Pause()
}

// Resume continues both accumulators after a Pause.
func (t *Timers) Resume() {
	t.Total.Resume()
	t.Level.Resume()
}

// ResetLevel zeroes the level accumulator. The total is untouched.
func (t *Timers) ResetLevel() {
	t.Level.Reset()
}

func (t *Timers) TotalElapsed() time.Duration { return t.Total.Elapsed() }
func (t *Timers) LevelElapsed() time.Duration { return t.Level.Elapsed() }
