package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/bee-mcc/ispy/pkg/effects"
)

var whitePixel *ebiten.Image

func pixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

func withAlpha(c color.RGBA, a float64) color.RGBA {
	a = math.Max(0, math.Min(1, a))
	// vector and ColorScale take premultiplied colors.
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

func drawEffect(screen *ebiten.Image, e effects.Effect) {
	switch e := e.(type) {
	case *effects.ParticleBurst:
		drawBurst(screen, e)
	case *effects.XMark:
		drawXMark(screen, e)
	}
}

func drawBurst(screen *ebiten.Image, b *effects.ParticleBurst) {
	a := b.Alpha / 255
	if a > 0 {
		cx, cy := float32(b.Center.X), float32(b.Center.Y)
		vector.StrokeCircle(screen, cx, cy, float32(b.Radius), 4, withAlpha(color.RGBA{0, 255, 0, 255}, a), true)
		if b.Radius > 20 {
			vector.StrokeCircle(screen, cx, cy, float32(b.Radius-20), 2, withAlpha(color.RGBA{255, 255, 0, 255}, a*0.7), true)
		}
	}
	for _, p := range b.Particles {
		if p.Life <= 0 {
			continue
		}
		vector.DrawFilledCircle(screen, float32(p.Pos.X), float32(p.Pos.Y), float32(p.Size*p.Life), withAlpha(p.Color, p.Life), true)
	}
	for _, c := range b.Confetti {
		drawConfetti(screen, c)
	}
	for _, s := range b.Sparkles {
		if s.Life <= 0 {
			continue
		}
		vector.DrawFilledCircle(screen, float32(s.Pos.X), float32(s.Pos.Y), float32(s.Size),
			withAlpha(color.RGBA{255, 255, 255, 255}, s.Life*s.Brightness()), true)
	}
}

func drawConfetti(screen *ebiten.Image, c effects.Confetti) {
	if c.Life <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-0.5, -0.5)
	op.GeoM.Scale(c.Size, c.Size*0.6)
	op.GeoM.Rotate(c.Rotation)
	op.GeoM.Translate(c.Pos.X, c.Pos.Y)
	op.ColorScale.ScaleWithColor(c.Color)
	op.ColorScale.ScaleAlpha(float32(math.Min(1, c.Life)))
	screen.DrawImage(pixel(), op)
}

func drawXMark(screen *ebiten.Image, x *effects.XMark) {
	a := x.Alpha / 255
	if a <= 0 {
		return
	}
	clr := withAlpha(color.RGBA{255, 40, 40, 255}, a)
	half := x.Size / 2
	sin, cos := math.Sincos(x.Rotation)
	for _, d := range [2][2]float64{{1, 1}, {1, -1}} {
		dx := (d[0]*cos - d[1]*sin) * half
		dy := (d[0]*sin + d[1]*cos) * half
		vector.StrokeLine(screen,
			float32(x.Center.X-dx), float32(x.Center.Y-dy),
			float32(x.Center.X+dx), float32(x.Center.Y+dy),
			5, clr, true)
	}
}

func drawCelebration(screen *ebiten.Image, c *effects.Celebration) {
	if c == nil {
		return
	}
	for _, p := range c.Pieces {
		drawConfetti(screen, p)
	}
}

func drawFade(screen *ebiten.Image, f *effects.FadeTransition) {
	if f == nil {
		return
	}
	a := f.Alpha() / 255
	if a <= 0 {
		return
	}
	b := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), withAlpha(color.RGBA{255, 255, 255, 255}, a), false)
}
