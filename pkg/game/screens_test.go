package game

import (
	"image/color"
	"math/rand"
	"testing"
	"time"
)

func TestHSL(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float64
		want    color.RGBA
	}{
		{"red", 0, 1, 0.5, color.RGBA{255, 0, 0, 255}},
		{"green", 120, 1, 0.5, color.RGBA{0, 255, 0, 255}},
		{"blue", 240, 1, 0.5, color.RGBA{0, 0, 255, 255}},
		{"grey", 0, 0, 0.5, color.RGBA{128, 128, 128, 255}},
		{"hue wraps", 360, 1, 0.5, color.RGBA{255, 0, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hsl(tt.h, tt.s, tt.l); got != tt.want {
				t.Errorf("hsl(%v,%v,%v) = %v, expected %v", tt.h, tt.s, tt.l, got, tt.want)
			}
		})
	}
}

func TestBrightColorIsSaturated(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		c := brightColor(rng)
		hi := max(c.R, c.G, c.B)
		lo := min(c.R, c.G, c.B)
		if hi-lo < 150 {
			t.Fatalf("color %v is not bright enough", c)
		}
	}
}

func TestCountdownLabel(t *testing.T) {
	for n, want := range map[int]string{3: "3", 2: "2", 1: "1", 0: "GO!"} {
		if got := countdownLabel(n); got != want {
			t.Errorf("countdownLabel(%d) = %q, expected %q", n, got, want)
		}
	}
}

func TestBeepLength(t *testing.T) {
	pcm := beep(440, 100*time.Millisecond, 1000)
	if len(pcm) != 100*4 {
		t.Fatalf("len = %d, expected 100 stereo 16-bit frames", len(pcm))
	}
	silent := true
	for _, b := range pcm {
		if b != 0 {
			silent = false
			break
		}
	}
	if silent {
		t.Error("beep is silent")
	}
}
