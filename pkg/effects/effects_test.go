package effects

import (
	"math/rand"
	"testing"
	"time"

	"github.com/bee-mcc/ispy/pkg/geometry"
)

const frame = time.Second / 60

func runUntilDone(e Effect, limit int) int {
	for i := 1; i <= limit; i++ {
		if e.Update(frame) {
			return i
		}
	}
	return -1
}

func TestEffectsFinish(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	at := geometry.Point{X: 100, Y: 100}

	tests := []struct {
		name   string
		effect Effect
		frames int // frames until done, -1 means "some finite number"
	}{
		{"ParticleBurst ends when the ring reaches max radius", NewParticleBurst(at, rng), 38},
		{"XMark ends when fully grown", NewXMark(at), 15},
		{"Shake decays below threshold", NewShake(rng), -1},
		{"Fade lasts its duration", NewFadeTransition(800 * time.Millisecond), -1},
		{"Celebration lasts three seconds", NewCelebration(geometry.Size{W: 800, H: 600}, rng), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := runUntilDone(tt.effect, 1000)
			if n < 0 {
				t.Fatal("effect never finished")
			}
			// A 60 FPS frame is not exactly representable, allow one extra.
			if tt.frames > 0 && (n < tt.frames || n > tt.frames+1) {
				t.Errorf("finished after %d frames, expected about %d", n, tt.frames)
			}
		})
	}
}

func TestShakeOffsetStaysWithinIntensity(t *testing.T) {
	s := NewShake(rand.New(rand.NewSource(9)))
	prev := s.Intensity
	for !s.Update(frame) {
		if s.Offset < -prev/2 || s.Offset > prev/2 {
			t.Fatalf("offset %v outside +-%v", s.Offset, prev/2)
		}
		if s.Intensity >= prev {
			t.Fatalf("intensity did not decay: %v -> %v", prev, s.Intensity)
		}
		prev = s.Intensity
	}
	if s.Offset != 0 || s.Intensity != 0 {
		t.Errorf("finished shake left offset=%v intensity=%v", s.Offset, s.Intensity)
	}
}

func TestFadeAlphaPeaksHalfway(t *testing.T) {
	f := NewFadeTransition(800 * time.Millisecond)
	f.Update(400 * time.Millisecond)
	if a := f.Alpha(); a < 254.9 {
		t.Errorf("alpha at half = %v, expected ~255", a)
	}
	f.Update(400 * time.Millisecond)
	if a := f.Alpha(); a > 1e-9 {
		t.Errorf("alpha at end = %v, expected ~0", a)
	}
}
