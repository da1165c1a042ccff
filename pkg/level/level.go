// Package level is one playable picture: its viewport, its target region and
// the click classifier that judges pointer hits against it.
package level

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/bee-mcc/ispy/pkg/effects"
	"github.com/bee-mcc/ispy/pkg/geometry"
	"github.com/bee-mcc/ispy/pkg/viewport"
)

// Definition is a level as it appears in a level pack.
type Definition struct {
	Name              string        `json:"name" toml:"name"`
	Image             string        `json:"image" toml:"image"`
	ClickRegion       geometry.Rect `json:"clickRegion" toml:"click_region"`
	DesktopZoomFactor float64       `json:"desktopZoomFactor,omitempty" toml:"desktop_zoom_factor"`
}

type Outcome int

const (
	Incorrect Outcome = iota
	Correct
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Level is created when a session reaches it and discarded afterwards.
type Level struct {
	def    Definition
	policy viewport.Policy
	rng    *rand.Rand

	canvas   geometry.Size
	view     *viewport.Viewport
	loaded   bool
	resolved bool

	shake    *effects.ShakeEffect
	feedback []effects.Effect
}

func New(def Definition, policy viewport.Policy, rng *rand.Rand) *Level {
	return &Level{def: def, policy: policy, rng: rng}
}

func (l *Level) Definition() Definition { return l.def }
func (l *Level) Loaded() bool { return l.loaded }
func (l *Level) Resolved() bool { return l.resolved }
func (l *Level) Canvas() geometry.Size { return l.canvas }

// Viewport is nil until Load.
func (l *Level) Viewport() *viewport.Viewport { return l.view }

// Load records the decoded image size and lays it out against the last
// known canvas. The initial pan is randomized exactly once, as soon as a
// layout exists. Loading twice is a no-op.
func (l *Level) Load(image geometry.Size) bool {
	if l.loaded || image.Empty() {
		return false
	}
	l.view = viewport.New(image, l.def.DesktopZoomFactor, l.policy)
	l.loaded = true
	l.layout()
	return true
}

// Resize can be called in any state. Before the image is loaded it only
// remembers the canvas.
func (l *Level) Resize(canvas geometry.Size) {
	if canvas.Empty() {
		return
	}
	l.canvas = canvas
	if l.loaded {
		l.layout()
	}
}

func (l *Level) layout() {
	if !l.view.Resize(l.canvas) {
		return
	}
	l.view.RandomizeInitialPan(l.rng)
}

// PanBy drags the picture. Dragging moves the image with the pointer, so the
// pan moves against the pointer delta.
func (l *Level) PanBy(delta geometry.Point) geometry.Point {
	if !l.loaded {
		return geometry.Point{}
	}
	return l.view.PanBy(geometry.Point{X: -delta.X, Y: -delta.Y})
}

// Hit reports whether p, in canvas space, lands inside the target region.
// It uses the un-shaken image position and has no side effects.
func (l *Level) Hit(p geometry.Point) bool {
	if !l.loaded || !geometry.Bounds(l.canvas).Contains(p) {
		return false
	}
	ip, ok := l.view.CanvasToImage(p)
	if !ok {
		return false
	}
	return l.def.ClickRegion.Contains(ip)
}

// Classify judges a click and starts the matching feedback. Points off the
// canvas, or any click before the image has loaded, are Incorrect with no
// feedback. Once the level is resolved further clicks are still judged but
// start nothing new.
func (l *Level) Classify(p geometry.Point) Outcome {
	if !l.loaded || !geometry.Bounds(l.canvas).Contains(p) {
		return Incorrect
	}
	hit := l.Hit(p)
	if l.resolved {
		if hit {
			return Correct
		}
		return Incorrect
	}

	if hit {
		l.resolved = true
		l.feedback = append(l.feedback, effects.NewParticleBurst(p, l.rng))
		return Correct
	}
	l.shake = effects.NewShake(l.rng)
	l.feedback = append(l.feedback, effects.NewXMark(p))
	return Incorrect
}

// Update advances the cosmetic feedback and drops finished effects.
func (l *Level) Update(dt time.Duration) {
	if l.shake != nil && l.shake.Update(dt) {
		l.shake = nil
	}
	live := l.feedback[:0]
	for _, e := range l.feedback {
		if !e.Update(dt) {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(l.feedback); i++ {
		l.feedback[i] = nil
	}
	l.feedback = live
}

// ShakeOffset is the horizontal draw displacement of the current shake.
// Hit-testing never sees it.
func (l *Level) ShakeOffset() float64 {
	if l.shake == nil {
		return 0
	}
	return l.shake.Offset
}

// Feedback returns the running effects for drawing.
func (l *Level) Feedback() []effects.Effect { return l.feedback }
