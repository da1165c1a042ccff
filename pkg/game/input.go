package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/bee-mcc/ispy/pkg/geometry"
)

var (
	cursorPosition       = ebiten.CursorPosition
	isMouseButtonPressed = ebiten.IsMouseButtonPressed
	appendTouchIDs       = ebiten.AppendTouchIDs
	touchPosition        = ebiten.TouchPosition
	appendInputChars     = ebiten.AppendInputChars
	isKeyJustPressed     = inpututil.IsKeyJustPressed
)

// TestInput replaces the ebiten input functions. Nil fields keep the
// current function.
type TestInput struct {
	Cursor         func() (int, int)
	Mouse          func(ebiten.MouseButton) bool
	Touches        func([]ebiten.TouchID) []ebiten.TouchID
	TouchPos       func(ebiten.TouchID) (int, int)
	Chars          func([]rune) []rune
	KeyJustPressed func(ebiten.Key) bool
}

// SetInputForTest swaps the input functions and returns a function that
// restores the originals.
func SetInputForTest(in TestInput) func() {
	oldCursor := cursorPosition
	oldMouse := isMouseButtonPressed
	oldTouches := appendTouchIDs
	oldTouchPos := touchPosition
	oldChars := appendInputChars
	oldKey := isKeyJustPressed
	if in.Cursor != nil {
		cursorPosition = in.Cursor
	}
	if in.Mouse != nil {
		isMouseButtonPressed = in.Mouse
	}
	if in.Touches != nil {
		appendTouchIDs = in.Touches
	}
	if in.TouchPos != nil {
		touchPosition = in.TouchPos
	}
	if in.Chars != nil {
		appendInputChars = in.Chars
	}
	if in.KeyJustPressed != nil {
		isKeyJustPressed = in.KeyJustPressed
	}
	return func() {
		cursorPosition = oldCursor
		isMouseButtonPressed = oldMouse
		appendTouchIDs = oldTouches
		touchPosition = oldTouchPos
		appendInputChars = oldChars
		isKeyJustPressed = oldKey
	}
}

type PointerKind int

const (
	PointerPress PointerKind = iota
	PointerMove
	PointerRelease
)

// PointerEvent is mouse or touch input in canvas pixels.
type PointerEvent struct {
	Kind  PointerKind
	Pos   geometry.Point
	Touch bool
}

// pointer folds the left mouse button and the first touch into one stream
// of press/move/release events. Only one contact is tracked at a time.
type pointer struct {
	active   bool
	touch    bool
	id       ebiten.TouchID
	last     geometry.Point
	hover    geometry.Point
	sawTouch bool
}

func pt(x, y int) geometry.Point {
	return geometry.Point{X: float64(x), Y: float64(y)}
}

func containsTouch(ids []ebiten.TouchID, id ebiten.TouchID) bool {
	for _, t := range ids {
		if t == id {
			return true
		}
	}
	return false
}

// Poll reads the current input state and returns what changed since the
// previous call.
func (p *pointer) Poll() []PointerEvent {
	var events []PointerEvent
	touches := appendTouchIDs(nil)
	if len(touches) > 0 {
		p.sawTouch = true
	}

	if p.active {
		if p.touch {
			if containsTouch(touches, p.id) {
				pos := pt(touchPosition(p.id))
				if pos != p.last {
					p.last = pos
					events = append(events, PointerEvent{Kind: PointerMove, Pos: pos, Touch: true})
				}
				p.hover = p.last
				return events
			}
			p.active = false
			return append(events, PointerEvent{Kind: PointerRelease, Pos: p.last, Touch: true})
		}

		pos := pt(cursorPosition())
		p.hover = pos
		if isMouseButtonPressed(ebiten.MouseButtonLeft) {
			if pos != p.last {
				p.last = pos
				events = append(events, PointerEvent{Kind: PointerMove, Pos: pos})
			}
			return events
		}
		p.active = false
		return append(events, PointerEvent{Kind: PointerRelease, Pos: pos})
	}

	if len(touches) > 0 {
		p.active, p.touch, p.id = true, true, touches[0]
		p.last = pt(touchPosition(p.id))
		p.hover = p.last
		return append(events, PointerEvent{Kind: PointerPress, Pos: p.last, Touch: true})
	}

	pos := pt(cursorPosition())
	if isMouseButtonPressed(ebiten.MouseButtonLeft) {
		p.active, p.touch = true, false
		p.last, p.hover = pos, pos
		return append(events, PointerEvent{Kind: PointerPress, Pos: pos})
	}
	if pos != p.hover {
		p.hover = pos
		events = append(events, PointerEvent{Kind: PointerMove, Pos: pos})
	}
	return events
}

// Hover is the last known pointer position, pressed or not.
func (p *pointer) Hover() geometry.Point { return p.hover }

// Pressed reports whether a contact is currently down.
func (p *pointer) Pressed() bool { return p.active }

// TouchSeen reports whether any touch input has ever arrived.
func (p *pointer) TouchSeen() bool { return p.sawTouch }
