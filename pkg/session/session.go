// Package session is the game state machine. It owns the active level, the
// play timers, the penalty ledger and the click counters, and it is driven
// entirely by method calls from a frame loop: no goroutines, no locks.
package session

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/bee-mcc/ispy/pkg/assets"
	"github.com/bee-mcc/ispy/pkg/effects"
	"github.com/bee-mcc/ispy/pkg/geometry"
	"github.com/bee-mcc/ispy/pkg/level"
	"github.com/bee-mcc/ispy/pkg/levelpack"
	"github.com/bee-mcc/ispy/pkg/sched"
	"github.com/bee-mcc/ispy/pkg/timer"
)

type press struct {
	active      bool
	start, last geometry.Point
	dragging    bool
	longPressed bool
	timer       *sched.Task
}

type Session struct {
	cfg   Config
	clock timer.Clock
	rng   *rand.Rand
	defs  []level.Definition

	sched  *sched.Scheduler
	timers *timer.Timers

	state  State
	index  int
	level  *level.Level
	canvas geometry.Size

	penalty       time.Duration
	clicks        int
	correctClicks int

	countdown   int
	press       press
	hint        bool
	hintTimer   *sched.Task
	fade        *effects.FadeTransition
	celebration *effects.Celebration

	err        error
	events     []Event
	lastUpdate time.Time
}

// New starts a play-through over defs in the Loading state.
func New(defs []level.Definition, cfg Config, clock timer.Clock, rng *rand.Rand) (*Session, error) {
	if len(defs) == 0 {
		return nil, &levelpack.ConfigError{Reason: "no levels to play", Err: levelpack.ErrNoLevels}
	}
	if clock == nil {
		clock = timer.SystemClock{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(clock.Now().UnixNano()))
	}
	s := &Session{
		cfg:        cfg,
		clock:      clock,
		rng:        rng,
		defs:       append([]level.Definition(nil), defs...),
		sched:      sched.New(clock),
		timers:     timer.NewTimers(clock),
		lastUpdate: clock.Now(),
	}
	s.level = level.New(s.defs[0], cfg.Viewport, rng)
	return s, nil
}

// Restart builds a brand new session over the same levels. The receiver is
// shut down and must not be used afterwards.
func (s *Session) Restart() (*Session, error) {
	s.sched.CancelAll()
	s.timers.Pause()
	ns, err := New(s.defs, s.cfg, s.clock, s.rng)
	if err != nil {
		return nil, err
	}
	ns.Resize(s.canvas)
	return ns, nil
}

func (s *Session) setState(st State) {
	if s.state == st {
		return
	}
	s.state = st
	s.emit(Event{Kind: StateChanged, State: st, Level: s.index})
}

func (s *Session) emit(e Event) {
	s.events = append(s.events, e)
}

// DrainEvents returns the events queued since the last call.
func (s *Session) DrainEvents() []Event {
	ev := s.events
	s.events = nil
	return ev
}

// PendingLoad returns the definition whose image should be fetched, if the
// session is waiting on one.
func (s *Session) PendingLoad() (level.Definition, bool) {
	if s.state != Loading || s.level.Loaded() {
		return level.Definition{}, false
	}
	return s.level.Definition(), true
}

// LevelLoaded hands over the decoded image size of the pending level.
func (s *Session) LevelLoaded(image geometry.Size) {
	if s.state != Loading {
		return
	}
	if image.Empty() {
		s.LoadFailed(errors.New("image has no pixels"))
		return
	}
	s.level.Load(image)
	s.level.Resize(s.canvas)
	s.setState(LevelStart)
}

// LoadFailed aborts the play-through. There is no retry; the shell offers a
// restart instead.
func (s *Session) LoadFailed(err error) {
	if s.state.Terminal() {
		return
	}
	var ae *assets.AssetLoadError
	if !errors.As(err, &ae) {
		err = &assets.AssetLoadError{Name: s.level.Definition().Image, Err: err}
	}
	s.err = err
	s.sched.CancelAll()
	s.timers.Pause()
	s.setState(Failed)
}

// Confirm is the player dismissing the level-start screen.
func (s *Session) Confirm() bool {
	if s.state != LevelStart {
		return false
	}
	s.setState(Countdown)
	s.countdown = s.cfg.CountdownFrom
	if s.countdown <= 0 {
		s.startPlaying()
		return true
	}
	s.emit(Event{Kind: CountdownTick, State: Countdown, Level: s.index, Count: s.countdown})
	s.sched.After(s.cfg.CountdownStep, s.countdownStep)
	return true
}

func (s *Session) countdownStep() {
	if s.state != Countdown {
		return
	}
	s.countdown--
	s.emit(Event{Kind: CountdownTick, State: Countdown, Level: s.index, Count: s.countdown})
	if s.countdown > 0 {
		s.sched.After(s.cfg.CountdownStep, s.countdownStep)
		return
	}
	s.sched.After(s.cfg.GoDuration, s.startPlaying)
}

func (s *Session) startPlaying() {
	if s.state != Countdown {
		return
	}
	s.setState(Playing)
	s.timers.Play()
	s.showHint()
}

func (s *Session) showHint() {
	s.hintTimer.Cancel()
	s.hint = true
	s.hintTimer = s.sched.After(s.cfg.HintDuration, func() {
		s.hint = false
		s.hintTimer = nil
	})
}

func (s *Session) hideHint() {
	s.hintTimer.Cancel()
	s.hintTimer = nil
	s.hint = false
}

// Press starts a pointer interaction. It may end as a pan, a tap or a long
// press.
func (s *Session) Press(p geometry.Point) {
	if s.state != Playing {
		return
	}
	s.press.timer.Cancel()
	s.hideHint()
	s.press = press{active: true, start: p, last: p}
	s.press.timer = s.sched.After(s.cfg.LongPress, s.longPress)
}

func (s *Session) longPress() {
	if !s.press.active || s.press.dragging || s.press.longPressed || s.state != Playing {
		return
	}
	s.press.timer = nil
	s.press.longPressed = true
	s.Click(s.press.start)
}

// Move is pointer motion, pressed or not. Only a press that wanders past
// the drag threshold pans.
func (s *Session) Move(p geometry.Point) {
	if !s.press.active || s.state != Playing {
		return
	}
	if !s.press.dragging {
		if p.Dist(s.press.start) <= s.cfg.DragThreshold {
			return
		}
		s.press.dragging = true
		s.press.timer.Cancel()
		s.press.timer = nil
	}
	s.level.PanBy(p.Sub(s.press.last))
	s.press.last = p
}

// Release ends the interaction. A press that neither panned nor already
// fired as a long press is a tap at p.
func (s *Session) Release(p geometry.Point) {
	if !s.press.active {
		return
	}
	pr := s.press
	pr.timer.Cancel()
	s.press = press{}
	if !pr.dragging && !pr.longPressed {
		s.Click(p)
	}
}

// CancelPress drops an interaction without clicking, e.g. a cancelled touch.
func (s *Session) CancelPress() {
	s.press.timer.Cancel()
	s.press = press{}
}

// Click classifies p against the active level. It reports false when the
// click was not accepted: outside Playing, or with the timers stopped.
func (s *Session) Click(p geometry.Point) (level.Outcome, bool) {
	if s.state != Playing || !s.timers.Total.Running() {
		return level.Incorrect, false
	}

	s.clicks++
	out := s.level.Classify(p)
	if out == level.Correct {
		s.correctClicks++
		s.timers.Pause()
		s.hideHint()
		s.setState(Transitioning)
		s.emit(Event{Kind: CorrectClick, State: s.state, Level: s.index, Point: p})
		s.sched.After(s.cfg.CorrectDelay, s.beginFade)
		return out, true
	}

	s.penalty += s.cfg.Penalty
	s.emit(Event{Kind: WrongClick, State: s.state, Level: s.index, Point: p, Penalty: s.cfg.Penalty})
	return out, true
}

func (s *Session) beginFade() {
	if s.state != Transitioning {
		return
	}
	s.fade = effects.NewFadeTransition(s.cfg.Transition)
	s.sched.After(s.cfg.Transition, s.advance)
}

func (s *Session) advance() {
	if s.state != Transitioning {
		return
	}
	s.fade = nil
	s.index++
	s.timers.ResetLevel()
	if s.index >= len(s.defs) {
		s.timers.Pause()
		s.celebration = effects.NewCelebration(s.canvas, s.rng)
		s.setState(Completed)
		return
	}
	s.level = level.New(s.defs[s.index], s.cfg.Viewport, s.rng)
	s.level.Resize(s.canvas)
	s.setState(Loading)
}

// Update runs due timers and advances cosmetic effects. Call once per frame.
func (s *Session) Update() {
	now := s.clock.Now()
	dt := now.Sub(s.lastUpdate)
	if dt < 0 {
		dt = 0
	}
	s.lastUpdate = now

	s.sched.Tick()
	s.level.Update(dt)
	if s.fade != nil {
		s.fade.Update(dt)
	}
	if s.celebration != nil && s.celebration.Update(dt) {
		s.celebration = nil
	}
}

// Resize is safe in every state; an unloaded level just remembers the size.
func (s *Session) Resize(canvas geometry.Size) {
	if canvas.Empty() {
		return
	}
	s.canvas = canvas
	s.level.Resize(canvas)
	if s.state == Playing && s.hint {
		s.showHint()
	}
}

func (s *Session) State() State { return s.state }
func (s *Session) Err() error { return s.err }
func (s *Session) Level() *level.Level { return s.level }
func (s *Session) LevelIndex() int { return s.index }
func (s *Session) LevelCount() int { return len(s.defs) }
func (s *Session) Canvas() geometry.Size { return s.canvas }
func (s *Session) Config() Config { return s.cfg }
func (s *Session) CountdownValue() int { return s.countdown }
func (s *Session) HintVisible() bool { return s.hint }
func (s *Session) Fade() *effects.FadeTransition { return s.fade }
func (s *Session) Celebration() *effects.Celebration { return s.celebration }
func (s *Session) TotalElapsed() time.Duration { return s.timers.TotalElapsed() }
func (s *Session) LevelElapsed() time.Duration { return s.timers.LevelElapsed() }
func (s *Session) Penalty() time.Duration { return s.penalty }
func (s *Session) Clicks() (correct, total int) { return s.correctClicks, s.clicks }
func (s *Session) Dragging() bool { return s.press.active && s.press.dragging }

// ScoreTime is elapsed play time plus penalties.
func (s *Session) ScoreTime() time.Duration {
	return s.TotalElapsed() + s.penalty
}

// Accuracy is correct/total as a fraction; 1 when nothing was clicked.
func (s *Session) Accuracy() float64 {
	if s.clicks == 0 {
		return 1
	}
	return float64(s.correctClicks) / float64(s.clicks)
}

func (s *Session) AccuracyPercent() int {
	return int(math.Round(s.Accuracy() * 100))
}

// Result is only meaningful once the session is Completed.
func (s *Session) Result() (Result, bool) {
	if s.state != Completed {
		return Result{}, false
	}
	return Result{
		Time:     s.ScoreTime(),
		Elapsed:  s.TotalElapsed(),
		Penalty:  s.penalty,
		Accuracy: s.AccuracyPercent(),
		Correct:  s.correctClicks,
		Clicks:   s.clicks,
		Levels:   len(s.defs),
	}, true
}
