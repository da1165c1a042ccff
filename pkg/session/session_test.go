package session

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/bee-mcc/ispy/pkg/assets"
	"github.com/bee-mcc/ispy/pkg/geometry"
	"github.com/bee-mcc/ispy/pkg/level"
	"github.com/bee-mcc/ispy/pkg/levelpack"
	"github.com/bee-mcc/ispy/pkg/timer"
)

var (
	canvas    = geometry.Size{W: 800, H: 600}
	imageSize = geometry.Size{W: 800, H: 600}

	// With the pan at (0,0) and the desktop zoom of 2, image (140,150)
	// lands on canvas (280,300) and canvas (50,50) is image (25,25).
	hitPoint  = geometry.Point{X: 280, Y: 300}
	missPoint = geometry.Point{X: 50, Y: 50}
)

func testLevels(n int) []level.Definition {
	defs := make([]level.Definition, n)
	for i := range defs {
		defs[i] = level.Definition{
			Name:        "level",
			Image:       "level.png",
			ClickRegion: geometry.Rect{X: 100, Y: 100, Width: 80, Height: 100},
		}
	}
	return defs
}

func newTestSession(t *testing.T, levels int) (*Session, *timer.ManualClock) {
	t.Helper()
	clock := timer.NewManualClock()
	s, err := New(testLevels(levels), DefaultConfig(), clock, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Resize(canvas)
	return s, clock
}

func step(s *Session, clock *timer.ManualClock, d time.Duration) {
	clock.Advance(d)
	s.Update()
}

// load finishes the pending image load and pins the pan to (0,0).
func load(t *testing.T, s *Session) {
	t.Helper()
	if _, ok := s.PendingLoad(); !ok {
		t.Fatalf("no pending load in state %v", s.State())
	}
	s.LevelLoaded(imageSize)
	s.Level().Viewport().SetPan(geometry.Point{})
	if s.State() != LevelStart {
		t.Fatalf("state after load = %v, expected LevelStart", s.State())
	}
}

// startPlaying loads the pending level and runs the countdown.
func startPlaying(t *testing.T, s *Session, clock *timer.ManualClock) {
	t.Helper()
	load(t, s)
	if !s.Confirm() {
		t.Fatal("Confirm refused")
	}
	step(s, clock, 3*time.Second+800*time.Millisecond)
	if s.State() != Playing {
		t.Fatalf("state after countdown = %v, expected Playing", s.State())
	}
}

func TestNewRejectsEmptyLevels(t *testing.T) {
	_, err := New(nil, DefaultConfig(), timer.NewManualClock(), nil)
	var ce *levelpack.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, expected ConfigError", err)
	}
	if !errors.Is(err, levelpack.ErrNoLevels) {
		t.Errorf("err = %v, expected to wrap ErrNoLevels", err)
	}
}

func TestCountdownKeepsTimersPaused(t *testing.T) {
	s, clock := newTestSession(t, 1)
	step(s, clock, 2*time.Second) // loading
	load(t, s)
	step(s, clock, 5*time.Second) // reading the level-start screen
	s.Confirm()

	want := []int{3, 2, 1, 0}
	for i, n := range want {
		if got := s.CountdownValue(); got != n {
			t.Fatalf("tick %d: countdown = %d, expected %d", i, got, n)
		}
		if s.State() != Countdown {
			t.Fatalf("tick %d: state = %v", i, s.State())
		}
		if s.TotalElapsed() != 0 {
			t.Fatalf("tick %d: total elapsed %v during countdown", i, s.TotalElapsed())
		}
		if i < len(want)-1 {
			step(s, clock, time.Second)
		}
	}
	step(s, clock, 800*time.Millisecond)
	if s.State() != Playing {
		t.Fatalf("state = %v, expected Playing", s.State())
	}
	step(s, clock, 1500*time.Millisecond)
	if got := s.TotalElapsed(); got != 1500*time.Millisecond {
		t.Errorf("total = %v, expected 1.5s", got)
	}
	if got := s.LevelElapsed(); got != 1500*time.Millisecond {
		t.Errorf("level = %v, expected 1.5s", got)
	}
}

func TestWrongClicksAccumulatePenalty(t *testing.T) {
	s, clock := newTestSession(t, 1)
	startPlaying(t, s, clock)

	for i := 0; i < 3; i++ {
		out, ok := s.Click(missPoint)
		if !ok || out != level.Incorrect {
			t.Fatalf("click %d = (%v, %v)", i, out, ok)
		}
	}

	if s.Penalty() != 15*time.Second {
		t.Errorf("penalty = %v, expected 15s", s.Penalty())
	}
	correct, total := s.Clicks()
	if correct != 0 || total != 3 {
		t.Errorf("clicks = %d/%d, expected 0/3", correct, total)
	}
	if s.AccuracyPercent() != 0 {
		t.Errorf("accuracy = %d%%, expected 0%%", s.AccuracyPercent())
	}
	if s.State() != Playing {
		t.Errorf("state = %v, expected Playing", s.State())
	}

	step(s, clock, 2*time.Second)
	if got := s.ScoreTime(); got != 17*time.Second {
		t.Errorf("score time = %v, expected 17s", got)
	}
}

func TestCorrectClickAdvancesOnce(t *testing.T) {
	s, clock := newTestSession(t, 2)
	startPlaying(t, s, clock)
	step(s, clock, 4*time.Second)

	if out, ok := s.Click(hitPoint); !ok || out != level.Correct {
		t.Fatalf("Click = (%v, %v), expected correct", out, ok)
	}
	if s.State() != Transitioning {
		t.Fatalf("state = %v, expected Transitioning", s.State())
	}

	// Everything until the next level is loaded must be ignored.
	for _, p := range []geometry.Point{hitPoint, missPoint, hitPoint} {
		if _, ok := s.Click(p); ok {
			t.Fatal("click accepted during transition")
		}
	}
	step(s, clock, time.Second)
	s.Click(hitPoint)
	step(s, clock, 800*time.Millisecond)
	if s.State() != Loading || s.LevelIndex() != 1 {
		t.Fatalf("state = %v index = %d, expected Loading on level 1", s.State(), s.LevelIndex())
	}
	s.Click(hitPoint)

	correct, total := s.Clicks()
	if correct != 1 || total != 1 {
		t.Errorf("clicks = %d/%d, expected 1/1", correct, total)
	}
	if s.TotalElapsed() != 4*time.Second {
		t.Errorf("total = %v, expected 4s frozen through the transition", s.TotalElapsed())
	}
	if s.LevelElapsed() != 0 {
		t.Errorf("level = %v, expected reset to 0", s.LevelElapsed())
	}
}

func TestFullPlayThrough(t *testing.T) {
	s, clock := newTestSession(t, 2)

	startPlaying(t, s, clock)
	step(s, clock, 2*time.Second)
	s.Click(missPoint)
	s.Click(hitPoint)
	step(s, clock, 1800*time.Millisecond)

	startPlaying(t, s, clock)
	step(s, clock, 3*time.Second)
	s.Click(hitPoint)
	step(s, clock, 1800*time.Millisecond)

	if s.State() != Completed {
		t.Fatalf("state = %v, expected Completed", s.State())
	}
	res, ok := s.Result()
	if !ok {
		t.Fatal("no result")
	}
	want := Result{
		Time:     10 * time.Second,
		Elapsed:  5 * time.Second,
		Penalty:  5 * time.Second,
		Accuracy: 67,
		Correct:  2,
		Clicks:   3,
		Levels:   2,
	}
	if res != want {
		t.Errorf("result = %+v\nexpected %+v", res, want)
	}
	if s.Celebration() == nil {
		t.Error("completion did not start the celebration")
	}
}

func TestTapLongPressAndPan(t *testing.T) {
	tests := []struct {
		name        string
		run         func(s *Session, clock *timer.ManualClock)
		wantClicks  int
		wantPanned  bool
		wantPenalty time.Duration
	}{
		{
			name: "quick tap clicks at release point",
			run: func(s *Session, clock *timer.ManualClock) {
				s.Press(missPoint)
				step(s, clock, 100*time.Millisecond)
				s.Release(missPoint)
			},
			wantClicks:  1,
			wantPenalty: 5 * time.Second,
		},
		{
			name: "jitter below threshold is still a tap",
			run: func(s *Session, clock *timer.ManualClock) {
				s.Press(missPoint)
				s.Move(missPoint.Add(geometry.Point{X: 6, Y: 6}))
				s.Release(missPoint.Add(geometry.Point{X: 6, Y: 6}))
			},
			wantClicks:  1,
			wantPenalty: 5 * time.Second,
		},
		{
			name: "long press clicks once, release adds nothing",
			run: func(s *Session, clock *timer.ManualClock) {
				s.Press(missPoint)
				step(s, clock, 600*time.Millisecond)
				step(s, clock, time.Second)
				s.Release(missPoint)
			},
			wantClicks:  1,
			wantPenalty: 5 * time.Second,
		},
		{
			name: "drag pans and never clicks",
			run: func(s *Session, clock *timer.ManualClock) {
				s.Press(geometry.Point{X: 400, Y: 300})
				s.Move(geometry.Point{X: 380, Y: 300})
				s.Move(geometry.Point{X: 300, Y: 250})
				step(s, clock, time.Second)
				s.Release(geometry.Point{X: 300, Y: 250})
			},
			wantPanned: true,
		},
		{
			name: "cancelled touch does nothing",
			run: func(s *Session, clock *timer.ManualClock) {
				s.Press(missPoint)
				s.CancelPress()
				step(s, clock, time.Second)
				s.Release(missPoint)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, clock := newTestSession(t, 1)
			startPlaying(t, s, clock)
			s.Level().Viewport().SetPan(geometry.Point{})

			tt.run(s, clock)

			_, total := s.Clicks()
			if total != tt.wantClicks {
				t.Errorf("clicks = %d, expected %d", total, tt.wantClicks)
			}
			if s.Penalty() != tt.wantPenalty {
				t.Errorf("penalty = %v, expected %v", s.Penalty(), tt.wantPenalty)
			}
			panned := s.Level().Viewport().Pan() != geometry.Point{}
			if panned != tt.wantPanned {
				t.Errorf("panned = %v (pan %v), expected %v", panned, s.Level().Viewport().Pan(), tt.wantPanned)
			}
		})
	}
}

func TestDragMovesImageWithPointer(t *testing.T) {
	s, clock := newTestSession(t, 1)
	startPlaying(t, s, clock)
	s.Level().Viewport().SetPan(geometry.Point{X: 300, Y: 300})

	s.Press(geometry.Point{X: 400, Y: 300})
	s.Move(geometry.Point{X: 420, Y: 300}) // crosses the threshold, pans by 20
	s.Move(geometry.Point{X: 470, Y: 280})
	s.Release(geometry.Point{X: 470, Y: 280})

	if got, want := s.Level().Viewport().Pan(), (geometry.Point{X: 230, Y: 320}); got != want {
		t.Errorf("pan = %v, expected %v", got, want)
	}
}

func TestInputIgnoredOutsidePlaying(t *testing.T) {
	s, clock := newTestSession(t, 1)
	s.Click(hitPoint)
	load(t, s)
	s.Press(hitPoint)
	s.Release(hitPoint)
	s.Confirm()
	step(s, clock, time.Second)
	s.Click(hitPoint)

	if _, total := s.Clicks(); total != 0 {
		t.Errorf("clicks = %d, expected 0", total)
	}
	if s.AccuracyPercent() != 100 {
		t.Errorf("accuracy with no clicks = %d, expected 100", s.AccuracyPercent())
	}
}

func TestLoadFailureIsTerminal(t *testing.T) {
	s, _ := newTestSession(t, 2)
	s.LoadFailed(errors.New("404"))

	if s.State() != Failed {
		t.Fatalf("state = %v, expected Failed", s.State())
	}
	var ae *assets.AssetLoadError
	if !errors.As(s.Err(), &ae) || ae.Name != "level.png" {
		t.Errorf("err = %v, expected AssetLoadError for level.png", s.Err())
	}
	s.LevelLoaded(imageSize)
	if s.State() != Failed {
		t.Errorf("late load revived a failed session: %v", s.State())
	}
}

func TestRestartIsFresh(t *testing.T) {
	s, clock := newTestSession(t, 1)
	startPlaying(t, s, clock)
	s.Click(missPoint)
	step(s, clock, time.Second)

	ns, err := s.Restart()
	if err != nil {
		t.Fatal(err)
	}
	if ns == s {
		t.Fatal("Restart returned the same session")
	}
	if ns.State() != Loading || ns.LevelIndex() != 0 || ns.Penalty() != 0 || ns.TotalElapsed() != 0 {
		t.Errorf("restarted session not zeroed: state=%v index=%d penalty=%v total=%v",
			ns.State(), ns.LevelIndex(), ns.Penalty(), ns.TotalElapsed())
	}
	if ns.Canvas() != canvas {
		t.Errorf("canvas = %v, expected it carried over", ns.Canvas())
	}
}

func TestHintHidesOnFirstPress(t *testing.T) {
	s, clock := newTestSession(t, 1)
	startPlaying(t, s, clock)
	if !s.HintVisible() {
		t.Fatal("hint not shown when play starts")
	}
	s.Press(geometry.Point{X: 400, Y: 300})
	if s.HintVisible() {
		t.Error("hint still visible after press")
	}
	s.CancelPress()

	s2, clock2 := newTestSession(t, 1)
	startPlaying(t, s2, clock2)
	step(s2, clock2, 4*time.Second)
	if s2.HintVisible() {
		t.Error("hint did not fade out on its own")
	}
}

func TestEventsReportCountdownAndClicks(t *testing.T) {
	s, clock := newTestSession(t, 1)
	startPlaying(t, s, clock)
	s.Click(missPoint)

	var ticks []int
	wrong := 0
	for _, e := range s.DrainEvents() {
		switch e.Kind {
		case CountdownTick:
			ticks = append(ticks, e.Count)
		case WrongClick:
			wrong++
			if e.Penalty != 5*time.Second {
				t.Errorf("penalty event carries %v", e.Penalty)
			}
		}
	}
	if len(ticks) != 4 || ticks[0] != 3 || ticks[3] != 0 {
		t.Errorf("countdown ticks = %v, expected [3 2 1 0]", ticks)
	}
	if wrong != 1 {
		t.Errorf("wrong click events = %d, expected 1", wrong)
	}
	if len(s.DrainEvents()) != 0 {
		t.Error("DrainEvents did not clear the queue")
	}
}
