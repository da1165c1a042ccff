// Package effects holds the cosmetic click feedback and screen transitions.
// Nothing in here feeds back into hit-testing or scoring.
package effects

import (
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/bee-mcc/ispy/pkg/geometry"
)

// Tuning is per animation frame at 60 FPS; dt is converted to
// that many frames so the look does not depend on the real frame rate.
const framesPerSecond = 60.0

func frames(dt time.Duration) float64 {
	return dt.Seconds() * framesPerSecond
}

// Effect is one of ParticleBurst, XMark, ShakeEffect, FadeTransition or
// Celebration. Update advances it and reports whether it has finished.
type Effect interface {
	Update(dt time.Duration) (done bool)
}

var (
	particleColors = []color.RGBA{
		{255, 215, 0, 255},  // gold
		{255, 165, 0, 255},  // orange
		{255, 69, 0, 255},   // red-orange
		{255, 20, 147, 255}, // deep pink
		{138, 43, 226, 255}, // blue violet
	}
	confettiColors = []color.RGBA{
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 255},
		{255, 255, 0, 255},
		{255, 0, 255, 255},
		{0, 255, 255, 255},
		{255, 165, 0, 255},
		{128, 0, 128, 255},
	}
)

func pick(rng *rand.Rand, palette []color.RGBA) color.RGBA {
	return palette[rng.Intn(len(palette))]
}

// Particle is a fading dot with velocity.
type Particle struct {
	Pos   geometry.Point
	Vel   geometry.Point
	Life  float64 // 1 -> 0
	Decay float64 // life lost per frame
	Size  float64
	Color color.RGBA
}

// Confetti is a spinning square particle affected by gravity.
type Confetti struct {
	Particle
	Rotation float64
	Spin     float64
}

// Sparkle twinkles in place.
type Sparkle struct {
	Pos     geometry.Point
	Life    float64
	Decay   float64
	Size    float64
	Twinkle float64
}

// Brightness is the current twinkle factor in [0,1].
func (s Sparkle) Brightness() float64 {
	return math.Sin(s.Twinkle)*0.5 + 0.5
}

// ParticleBurst is the correct-click celebration: expanding rings plus
// particles, confetti and sparkles.
type ParticleBurst struct {
	Center    geometry.Point
	Radius    float64
	MaxRadius float64
	Alpha     float64 // 0-255
	Particles []Particle
	Confetti  []Confetti
	Sparkles  []Sparkle
}

func NewParticleBurst(at geometry.Point, rng *rand.Rand) *ParticleBurst {
	b := &ParticleBurst{Center: at, MaxRadius: 150, Alpha: 255}

	const particles = 20
	for i := 0; i < particles; i++ {
		angle := 2 * math.Pi * float64(i) / particles
		speed := 3 + rng.Float64()*5
		b.Particles = append(b.Particles, Particle{
			Pos:   at,
			Vel:   geometry.Point{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed},
			Life:  1,
			Decay: 0.015,
			Size:  3 + rng.Float64()*4,
			Color: pick(rng, particleColors),
		})
	}
	for i := 0; i < 15; i++ {
		b.Confetti = append(b.Confetti, Confetti{
			Particle: Particle{
				Pos:   at,
				Vel:   geometry.Point{X: (rng.Float64() - 0.5) * 6, Y: -rng.Float64()*8 - 2},
				Life:  1,
				Decay: 0.01,
				Size:  4 + rng.Float64()*6,
				Color: pick(rng, confettiColors),
			},
			Rotation: rng.Float64() * 2 * math.Pi,
			Spin:     (rng.Float64() - 0.5) * 0.2,
		})
	}
	for i := 0; i < 12; i++ {
		b.Sparkles = append(b.Sparkles, Sparkle{
			Pos:     geometry.Point{X: at.X + (rng.Float64()-0.5)*40, Y: at.Y + (rng.Float64()-0.5)*40},
			Life:    1,
			Decay:   0.03,
			Size:    2 + rng.Float64()*3,
			Twinkle: rng.Float64() * 2 * math.Pi,
		})
	}
	return b
}

func (b *ParticleBurst) Update(dt time.Duration) bool {
	f := frames(dt)
	friction := math.Pow(0.98, f)

	b.Radius += 4 * f
	b.Alpha -= 4 * f

	for i := range b.Particles {
		p := &b.Particles[i]
		p.Pos.X += p.Vel.X * f
		p.Pos.Y += p.Vel.Y * f
		p.Life -= p.Decay * f
		p.Vel.X *= friction
		p.Vel.Y *= friction
	}
	for i := range b.Confetti {
		c := &b.Confetti[i]
		c.Pos.X += c.Vel.X * f
		c.Pos.Y += c.Vel.Y * f
		c.Life -= c.Decay * f
		c.Rotation += c.Spin * f
		c.Vel.Y += 0.2 * f
	}
	for i := range b.Sparkles {
		s := &b.Sparkles[i]
		s.Life -= s.Decay * f
		s.Twinkle += 0.3 * f
	}

	return b.Radius >= b.MaxRadius || b.Alpha <= 0
}

// XMark is the wrong-click cross that grows, spins and fades.
type XMark struct {
	Center   geometry.Point
	Size     float64
	MaxSize  float64
	Alpha    float64
	Rotation float64
}

func NewXMark(at geometry.Point) *XMark {
	return &XMark{Center: at, MaxSize: 30, Alpha: 255}
}

func (x *XMark) Update(dt time.Duration) bool {
	f := frames(dt)
	x.Size += 2 * f
	x.Alpha -= 8 * f
	x.Rotation += 0.1 * f
	return x.Size >= x.MaxSize || x.Alpha <= 0
}

// ShakeEffect is the horizontal wobble after a wrong click. Its Offset is a
// draw-time displacement only.
type ShakeEffect struct {
	Intensity float64
	Decay     float64 // multiplier per frame
	Offset    float64
	rng       *rand.Rand
}

func NewShake(rng *rand.Rand) *ShakeEffect {
	return &ShakeEffect{Intensity: 10, Decay: 0.9, rng: rng}
}

func (s *ShakeEffect) Update(dt time.Duration) bool {
	if s.Intensity <= 0 {
		s.Offset = 0
		return true
	}
	s.Offset = (s.rng.Float64() - 0.5) * s.Intensity
	s.Intensity *= math.Pow(s.Decay, frames(dt))
	if s.Intensity < 0.1 {
		s.Intensity = 0
		s.Offset = 0
		return true
	}
	return false
}

// FadeTransition is a white flash between levels: alpha follows
// sin(progress*pi), peaking halfway through.
type FadeTransition struct {
	Duration time.Duration
	Elapsed  time.Duration
	MaxAlpha float64
}

func NewFadeTransition(d time.Duration) *FadeTransition {
	return &FadeTransition{Duration: d, MaxAlpha: 255}
}

func (t *FadeTransition) Progress() float64 {
	if t.Duration <= 0 {
		return 1
	}
	return math.Min(float64(t.Elapsed)/float64(t.Duration), 1)
}

func (t *FadeTransition) Alpha() float64 {
	return math.Sin(t.Progress()*math.Pi) * t.MaxAlpha
}

func (t *FadeTransition) Update(dt time.Duration) bool {
	t.Elapsed += dt
	return t.Progress() >= 1
}

// Celebration rains confetti over the whole canvas when the game is done.
type Celebration struct {
	Pieces   []Confetti
	Duration time.Duration
	Elapsed  time.Duration
}

func NewCelebration(canvas geometry.Size, rng *rand.Rand) *Celebration {
	c := &Celebration{Duration: 3 * time.Second}
	for i := 0; i < 50; i++ {
		c.Pieces = append(c.Pieces, Confetti{
			Particle: Particle{
				Pos:   geometry.Point{X: rng.Float64() * canvas.W, Y: -10},
				Vel:   geometry.Point{X: (rng.Float64() - 0.5) * 4, Y: rng.Float64()*3 + 1},
				Life:  1,
				Decay: 0.002,
				Size:  4 + rng.Float64()*6,
				Color: pick(rng, confettiColors),
			},
			Rotation: rng.Float64() * 2 * math.Pi,
			Spin:     (rng.Float64() - 0.5) * 0.1,
		})
	}
	return c
}

func (c *Celebration) Update(dt time.Duration) bool {
	f := frames(dt)
	c.Elapsed += dt
	for i := range c.Pieces {
		p := &c.Pieces[i]
		if p.Life <= 0 {
			continue
		}
		p.Pos.X += p.Vel.X * f
		p.Pos.Y += p.Vel.Y * f
		p.Life -= p.Decay * f
		p.Rotation += p.Spin * f
		p.Vel.Y += 0.1 * f
	}
	return c.Elapsed >= c.Duration
}
