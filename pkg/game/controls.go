package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/bee-mcc/ispy/pkg/geometry"
)

// TouchZone defines a rectangular touch area
type TouchZone struct {
	X, Y, Width, Height int
	Enabled             bool
}

// Contains checks if a point is within the touch zone
func (tz *TouchZone) Contains(p geometry.Point) bool {
	x, y := int(p.X), int(p.Y)
	return tz.Enabled &&
		x >= tz.X && x < tz.X+tz.Width &&
		y >= tz.Y && y < tz.Y+tz.Height
}

type Action int

const (
	ActionNone Action = iota
	ActionRestart
	ActionToggleDev
	ActionToggleMute
)

// Controls is the on-screen menu for devices without a keyboard. A menu
// button in the top left toggles restart, mute and dev-mode buttons.
type Controls struct {
	menuButton    TouchZone
	restartButton TouchZone
	muteButton    TouchZone
	devButton     TouchZone

	menuOpen bool
	visible  bool
}

func NewControls() *Controls {
	c := &Controls{}
	c.layout()
	return c
}

func (c *Controls) layout() {
	const size, margin, gap = 40, 20, 10
	zone := func(i int) TouchZone {
		return TouchZone{X: margin, Y: margin + i*(size+gap), Width: size, Height: size}
	}
	c.menuButton = zone(0)
	c.menuButton.Enabled = true
	c.restartButton = zone(1)
	c.muteButton = zone(2)
	c.devButton = zone(3)
	c.updateMenuButtons()
}

// SetVisible shows the controls; they stay hidden until touch input is seen.
func (c *Controls) SetVisible(v bool) {
	c.visible = v
}

// Press handles a pointer press. consumed is true when the press landed on
// a button and must not reach the game.
func (c *Controls) Press(p geometry.Point) (a Action, consumed bool) {
	if !c.visible {
		return ActionNone, false
	}
	switch {
	case c.menuButton.Contains(p):
		c.menuOpen = !c.menuOpen
		c.updateMenuButtons()
		return ActionNone, true
	case c.restartButton.Contains(p):
		c.close()
		return ActionRestart, true
	case c.muteButton.Contains(p):
		return ActionToggleMute, true
	case c.devButton.Contains(p):
		return ActionToggleDev, true
	}
	return ActionNone, false
}

func (c *Controls) close() {
	c.menuOpen = false
	c.updateMenuButtons()
}

// updateMenuButtons toggles visibility of menu-related buttons
func (c *Controls) updateMenuButtons() {
	c.restartButton.Enabled = c.menuOpen
	c.muteButton.Enabled = c.menuOpen
	c.devButton.Enabled = c.menuOpen
}

func (c *Controls) Draw(screen *ebiten.Image, f *fonts, muted bool) {
	if !c.visible {
		return
	}
	drawButton(screen, f, c.menuButton, "≡", color.RGBA{80, 80, 80, 200})
	if !c.menuOpen {
		return
	}
	drawButton(screen, f, c.restartButton, "R", color.RGBA{150, 100, 100, 200})
	mute := "♪"
	if muted {
		mute = "×"
	}
	drawButton(screen, f, c.muteButton, mute, color.RGBA{100, 100, 150, 200})
	drawButton(screen, f, c.devButton, "</>", color.RGBA{100, 150, 100, 200})
}

// drawButton draws a simple button with text
func drawButton(screen *ebiten.Image, f *fonts, zone TouchZone, label string, bg color.RGBA) {
	if !zone.Enabled {
		return
	}

	vector.DrawFilledRect(screen,
		float32(zone.X), float32(zone.Y),
		float32(zone.Width), float32(zone.Height),
		bg, false)

	vector.StrokeRect(screen,
		float32(zone.X), float32(zone.Y),
		float32(zone.Width), float32(zone.Height),
		2, color.RGBA{255, 255, 255, 150}, false)

	const size = 18
	f.draw(screen, label, size,
		float64(zone.X)+float64(zone.Width)/2,
		float64(zone.Y)+(float64(zone.Height)-size*1.2)/2,
		color.White, text.AlignCenter)
}
