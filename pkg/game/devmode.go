package game

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/bee-mcc/ispy/pkg/geometry"
	"github.com/bee-mcc/ispy/pkg/level"
)

const copiedFeedback = 2 * time.Second

// Default size of a copied click region; authors adjust it by hand.
const (
	snippetWidth  = 80
	snippetHeight = 100
)

// DevMode is the level-authoring overlay: it shows the pointer in canvas and
// image coordinates and copies a click-region snippet for the level file.
type DevMode struct {
	enabled  bool
	mouse    geometry.Point
	copiedAt time.Time
	lastErr  error
}

func (d *DevMode) Toggle() bool {
	d.enabled = !d.enabled
	return d.enabled
}

func (d *DevMode) Enabled() bool { return d.enabled }

func (d *DevMode) SetMouse(p geometry.Point) { d.mouse = p }

// ImagePoint is the pointer position in original-image pixels, rounded.
func (d *DevMode) ImagePoint(l *level.Level) (geometry.Point, bool) {
	if l == nil || !l.Loaded() {
		return geometry.Point{}, false
	}
	p, ok := l.Viewport().CanvasToImage(d.mouse)
	if !ok {
		return geometry.Point{}, false
	}
	return geometry.Point{X: math.Round(p.X), Y: math.Round(p.Y)}, true
}

// regionSnippet renders a click region with its top-left at p in the
// level file's JSON form.
func regionSnippet(p geometry.Point) (string, error) {
	region := struct {
		X      int `json:"x"`
		Y      int `json:"y"`
		Width  int `json:"width"`
		Height int `json:"height"`
	}{int(p.X), int(p.Y), snippetWidth, snippetHeight}
	b, err := json.MarshalIndent(region, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Copy puts the snippet for the current pointer on the clipboard and
// returns it.
func (d *DevMode) Copy(l *level.Level, now time.Time) (string, error) {
	p, ok := d.ImagePoint(l)
	if !ok {
		return "", fmt.Errorf("no level loaded")
	}
	s, err := regionSnippet(p)
	if err != nil {
		return "", err
	}
	if err := writeClipboard(s); err != nil {
		d.lastErr = err
		return s, fmt.Errorf("copy to clipboard: %w", err)
	}
	d.lastErr = nil
	d.copiedAt = now
	return s, nil
}

// Copied reports whether the "Copied!" feedback should still show.
func (d *DevMode) Copied(now time.Time) bool {
	return !d.copiedAt.IsZero() && now.Sub(d.copiedAt) < copiedFeedback
}

func (d *DevMode) Draw(screen *ebiten.Image, l *level.Level, now time.Time) {
	if !d.enabled {
		return
	}

	mx, my := float32(d.mouse.X), float32(d.mouse.Y)
	red := color.RGBA{255, 0, 0, 255}
	vector.StrokeLine(screen, mx-10, my, mx+10, my, 2, red, false)
	vector.StrokeLine(screen, mx, my-10, mx, my+10, 2, red, false)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Canvas: %.0f, %.0f", d.mouse.X, d.mouse.Y), 10, 30)

	if l != nil && l.Loaded() {
		v := l.Viewport()
		o := v.ImageOrigin()
		scale := v.Layout().Scale
		img := v.ImageSize()
		vector.StrokeRect(screen, float32(o.X), float32(o.Y),
			float32(img.W*scale), float32(img.H*scale), 1, color.RGBA{0, 255, 0, 255}, false)

		r := l.Definition().ClickRegion
		tl, _ := v.ImageToCanvas(geometry.Point{X: r.X, Y: r.Y})
		vector.StrokeRect(screen, float32(tl.X), float32(tl.Y),
			float32(r.Width*scale), float32(r.Height*scale), 2, color.RGBA{255, 255, 0, 255}, false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Click Region: %.0f, %.0f", r.X, r.Y), int(tl.X), int(tl.Y)-16)

		if p, ok := d.ImagePoint(l); ok {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Image: %.0f, %.0f", p.X, p.Y), 10, 50)
		}
	}

	status := "C: copy region"
	switch {
	case d.Copied(now):
		status = "Copied!"
	case d.lastErr != nil:
		status = "Copy failed: " + d.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 10, 70)
}
