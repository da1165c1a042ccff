package game

import (
	"bytes"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// fonts caches Go Regular faces by size.
type fonts struct {
	src   *text.GoTextFaceSource
	faces map[float64]*text.GoTextFace
}

func newFonts() (*fonts, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, err
	}
	return &fonts{src: src, faces: make(map[float64]*text.GoTextFace)}, nil
}

func (f *fonts) face(size float64) *text.GoTextFace {
	if face, ok := f.faces[size]; ok {
		return face
	}
	face := &text.GoTextFace{Source: f.src, Size: size}
	f.faces[size] = face
	return face
}

func (f *fonts) measure(s string, size float64) (float64, float64) {
	return text.Measure(s, f.face(size), size*1.2)
}

// draw renders s with its top edge at y. align controls how x is
// interpreted: start, center or end of the line.
func (f *fonts) draw(dst *ebiten.Image, s string, size, x, y float64, clr color.Color, align text.Align) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LayoutOptions.PrimaryAlign = align
	op.LayoutOptions.LineSpacing = size * 1.2
	text.Draw(dst, s, f.face(size), op)
}

// drawShadowed draws s twice, offset by 2px, for legibility over photos.
func (f *fonts) drawShadowed(dst *ebiten.Image, s string, size, x, y float64, clr color.Color, align text.Align) {
	f.draw(dst, s, size, x+2, y+2, color.RGBA{0, 0, 0, 180}, align)
	f.draw(dst, s, size, x, y, clr, align)
}
