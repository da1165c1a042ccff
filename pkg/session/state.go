package session

import (
	"fmt"
	"time"

	"github.com/bee-mcc/ispy/pkg/geometry"
)

type State int

const (
	Loading State = iota
	LevelStart
	Countdown
	Playing
	Transitioning
	Completed
	Failed
)

var stateNames = [...]string{
	Loading:       "loading",
	LevelStart:    "level-start",
	Countdown:     "countdown",
	Playing:       "playing",
	Transitioning: "transitioning",
	Completed:     "completed",
	Failed:        "failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal states only leave through a fresh session.
func (s State) Terminal() bool {
	return s == Completed || s == Failed
}

type EventKind int

const (
	StateChanged EventKind = iota
	CountdownTick
	CorrectClick
	WrongClick
)

// Event is something the presentation layer may want to react to (sounds,
// banners, logging). Events queue up until DrainEvents.
type Event struct {
	Kind    EventKind
	State   State
	Level   int
	Point   geometry.Point
	Count   int           // CountdownTick: 3, 2, 1, then 0 for "GO"
	Penalty time.Duration // WrongClick: penalty just added
}

// Result is the final score of a completed play-through.
type Result struct {
	Time     time.Duration // Elapsed + Penalty
	Elapsed  time.Duration
	Penalty  time.Duration
	Accuracy int // rounded percent
	Correct  int
	Clicks   int
	Levels   int
}
