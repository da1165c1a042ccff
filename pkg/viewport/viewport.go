// Package viewport maps a source image into a fixed-size canvas.
//
// The image is scaled uniformly (no distortion). An axis where the scaled
// image is smaller than the canvas is centred and cannot be panned; an axis
// where it is larger can be panned within [0, scaled-canvas]. The forward
// transform used for drawing is
//
//	canvas = origin - pan + image*scale
//
// and CanvasToImage is its exact inverse.
package viewport

import (
	"math"

	"github.com/bee-mcc/ispy/pkg/geometry"
)

const (
	DefaultDesktopBreakpoint = 768.0
	DefaultZoom              = 2.0

	// Scaled sizes within epsilon of the canvas count as fitting.
	epsilon = 1e-9
)

// Policy decides when the extra desktop zoom kicks in.
type Policy struct {
	DesktopBreakpoint float64 // canvas widths >= this get the zoom factor
	DefaultZoom       float64 // used when a level does not set its own
}

func DefaultPolicy() Policy {
	return Policy{
		DesktopBreakpoint: DefaultDesktopBreakpoint,
		DefaultZoom:       DefaultZoom,
	}
}

// Layout is the result of fitting an image into a canvas.
type Layout struct {
	Scale       float64        // original-image units -> canvas units
	DisplaySize geometry.Size  // scaled image size
	Origin      geometry.Point // canvas position of image (0,0) before pan
}

// ComputeLayout fits image into canvas preserving aspect ratio, then applies
// zoom when the canvas is at least as wide as the desktop breakpoint.
// It reports false for degenerate sizes, leaving layout deferred.
func ComputeLayout(image, canvas geometry.Size, zoom float64, policy Policy) (Layout, bool) {
	if image.Empty() || canvas.Empty() {
		return Layout{}, false
	}
	if zoom <= 0 {
		zoom = policy.DefaultZoom
	}
	if zoom <= 0 {
		zoom = 1
	}

	scale := math.Min(canvas.W/image.W, canvas.H/image.H)
	if canvas.W >= policy.DesktopBreakpoint {
		scale *= zoom
	}

	display := image.Scale(scale)
	var origin geometry.Point
	if !pannable(display.W, canvas.W) {
		origin.X = (canvas.W - display.W) / 2
	}
	if !pannable(display.H, canvas.H) {
		origin.Y = (canvas.H - display.H) / 2
	}

	return Layout{Scale: scale, DisplaySize: display, Origin: origin}, true
}

func pannable(scaled, canvas float64) bool {
	return scaled-canvas > epsilon
}

// Rand is the randomness the viewport needs; *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Viewport owns the layout and pan state of one level.
type Viewport struct {
	policy Policy
	image  geometry.Size
	zoom   float64

	canvas geometry.Size
	layout Layout
	ready  bool

	pan        geometry.Point
	randomized bool
}

// New creates a viewport for an image of the given size. Nothing is laid out
// until the first non-degenerate Resize.
func New(image geometry.Size, zoom float64, policy Policy) *Viewport {
	return &Viewport{
		policy: policy,
		image:  image,
		zoom:   zoom,
	}
}

// Resize recomputes the layout for a new canvas, keeping the current pan
// wherever it is still valid and clamping it otherwise. Degenerate sizes are
// ignored.
func (v *Viewport) Resize(canvas geometry.Size) bool {
	layout, ok := ComputeLayout(v.image, canvas, v.zoom, v.policy)
	if !ok {
		return false
	}
	v.canvas = canvas
	v.layout = layout
	v.ready = true
	v.pan = v.Clamp(v.pan)
	return true
}

func (v *Viewport) Ready() bool { return v.ready }
func (v *Viewport) Layout() Layout { return v.layout }
func (v *Viewport) Canvas() geometry.Size { return v.canvas }
func (v *Viewport) ImageSize() geometry.Size { return v.image }
func (v *Viewport) Pan() geometry.Point { return v.pan }

// Pannable reports per axis whether the scaled image exceeds the canvas.
func (v *Viewport) Pannable() (x, y bool) {
	if !v.ready {
		return false, false
	}
	return pannable(v.layout.DisplaySize.W, v.canvas.W), pannable(v.layout.DisplaySize.H, v.canvas.H)
}

// MaxPan returns the upper end of the pan range per axis; 0 on axes that
// cannot be panned.
func (v *Viewport) MaxPan() geometry.Point {
	px, py := v.Pannable()
	var m geometry.Point
	if px {
		m.X = v.layout.DisplaySize.W - v.canvas.W
	}
	if py {
		m.Y = v.layout.DisplaySize.H - v.canvas.H
	}
	return m
}

// Clamp limits p to the valid pan range without storing it.
func (v *Viewport) Clamp(p geometry.Point) geometry.Point {
	m := v.MaxPan()
	return geometry.Point{
		X: clamp(p.X, 0, m.X),
		Y: clamp(p.Y, 0, m.Y),
	}
}

func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return lo
	}
	return math.Max(lo, math.Min(x, hi))
}

// SetPan clamps each axis independently and stores the result.
func (v *Viewport) SetPan(p geometry.Point) geometry.Point {
	if !v.ready {
		return v.pan
	}
	v.pan = v.Clamp(p)
	return v.pan
}

// PanBy shifts the pan by d and clamps.
func (v *Viewport) PanBy(d geometry.Point) geometry.Point {
	return v.SetPan(v.pan.Add(d))
}

// RandomizeInitialPan picks a starting pan uniformly inside the valid range.
// It only ever succeeds once per viewport; later calls (and calls before the
// first layout) are no-ops that return false.
func (v *Viewport) RandomizeInitialPan(r Rand) bool {
	if v.randomized || !v.ready {
		return false
	}
	m := v.MaxPan()
	v.pan = v.Clamp(geometry.Point{X: r.Float64() * m.X, Y: r.Float64() * m.Y})
	v.randomized = true
	return true
}

// ImageOrigin is where image (0,0) lands on the canvas once pan is applied.
func (v *Viewport) ImageOrigin() geometry.Point {
	return v.layout.Origin.Sub(v.pan)
}

// ImageToCanvas applies the forward transform.
func (v *Viewport) ImageToCanvas(p geometry.Point) (geometry.Point, bool) {
	if !v.ready {
		return geometry.Point{}, false
	}
	o := v.ImageOrigin()
	return geometry.Point{
		X: o.X + p.X*v.layout.Scale,
		Y: o.Y + p.Y*v.layout.Scale,
	}, true
}

// CanvasToImage is the exact inverse of ImageToCanvas.
func (v *Viewport) CanvasToImage(p geometry.Point) (geometry.Point, bool) {
	if !v.ready {
		return geometry.Point{}, false
	}
	o := v.ImageOrigin()
	return geometry.Point{
		X: (p.X - o.X) / v.layout.Scale,
		Y: (p.Y - o.Y) / v.layout.Scale,
	}, true
}

// Visible returns the part of the original image currently on screen, in
// original-image coordinates.
func (v *Viewport) Visible() geometry.Rect {
	if !v.ready {
		return geometry.Rect{}
	}
	tl, _ := v.CanvasToImage(geometry.Point{})
	br, _ := v.CanvasToImage(geometry.Point{X: v.canvas.W, Y: v.canvas.H})
	tl.X, tl.Y = math.Max(tl.X, 0), math.Max(tl.Y, 0)
	br.X, br.Y = math.Min(br.X, v.image.W), math.Min(br.Y, v.image.H)
	return geometry.Rect{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
}
