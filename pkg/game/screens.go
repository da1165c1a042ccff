package game

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/bee-mcc/ispy/pkg/leaderboard"
	"github.com/bee-mcc/ispy/pkg/session"
)

// brightColor picks a saturated color: any hue, 80-99% saturation,
// 50-59% lightness.
func brightColor(rng *rand.Rand) color.RGBA {
	h := float64(rng.Intn(360))
	s := float64(80+rng.Intn(20)) / 100
	l := float64(50+rng.Intn(10)) / 100
	return hsl(h, s, l)
}

func hsl(h, s, l float64) color.RGBA {
	c := (1 - math.Abs(2*l-1)) * s
	hp := math.Mod(h, 360) / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	to8 := func(v float64) uint8 { return uint8(math.Round((v + m) * 255)) }
	return color.RGBA{to8(r), to8(g), to8(b), 255}
}

func fill(screen *ebiten.Image, clr color.Color) {
	b := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), clr, false)
}

func center(screen *ebiten.Image) (float64, float64) {
	b := screen.Bounds()
	return float64(b.Dx()) / 2, float64(b.Dy()) / 2
}

// countdownLabel is what the countdown overlay shows for a tick value.
func countdownLabel(n int) string {
	if n <= 0 {
		return "GO!"
	}
	return fmt.Sprint(n)
}

func (g *Game) drawLoading(screen *ebiten.Image, now time.Time) {
	fill(screen, color.RGBA{20, 20, 30, 255})
	cx, cy := center(screen)
	dots := int(now.UnixMilli()/400) % 4
	g.fonts.draw(screen, "Loading"+strings.Repeat(".", dots), 28, cx, cy-20, color.White, text.AlignCenter)

	// spinner
	angle := float64(now.UnixMilli()%1000) / 1000 * 2 * math.Pi
	for i := 0; i < 8; i++ {
		a := angle + float64(i)*math.Pi/4
		alpha := float64(i+1) / 8
		vector.DrawFilledCircle(screen,
			float32(cx+math.Cos(a)*30), float32(cy+50+math.Sin(a)*30), 5,
			withAlpha(color.RGBA{255, 255, 255, 255}, alpha), true)
	}
}

func (g *Game) drawLevelStart(screen *ebiten.Image) {
	s := g.session
	fill(screen, g.screenColor)
	cx, cy := center(screen)

	def := s.Level().Definition()
	g.fonts.drawShadowed(screen, def.Name, 44, cx, cy-130, color.White, text.AlignCenter)
	g.fonts.drawShadowed(screen, fmt.Sprintf("Level %d of %d", s.LevelIndex()+1, s.LevelCount()), 24, cx, cy-60, color.White, text.AlignCenter)
	g.fonts.drawShadowed(screen, "Total time: "+leaderboard.FormatTime(s.TotalElapsed()+s.Penalty()), 20, cx, cy-10, color.White, text.AlignCenter)
	g.fonts.drawShadowed(screen, "Penalties: +"+leaderboard.FormatTime(s.Penalty()), 20, cx, cy+20, color.White, text.AlignCenter)

	prompt := "Click or press Space to start"
	if g.pointer.TouchSeen() {
		prompt = "Tap to start"
	}
	g.fonts.drawShadowed(screen, prompt, 22, cx, cy+90, color.White, text.AlignCenter)
}

func (g *Game) drawCountdown(screen *ebiten.Image) {
	fill(screen, g.screenColor)
	cx, cy := center(screen)
	label := countdownLabel(g.session.CountdownValue())

	const r = 110
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), r, g.accentColor, true)
	vector.StrokeCircle(screen, float32(cx), float32(cy), r, 6, color.White, true)
	size := 120.0
	if label == "GO!" {
		size = 80
	}
	g.fonts.drawShadowed(screen, label, size, cx, cy-size*0.6, color.White, text.AlignCenter)
}

func (g *Game) drawHint(screen *ebiten.Image) {
	if !g.session.HintVisible() {
		return
	}
	msg := "Find it! Drag to look around, click to guess."
	if g.pointer.TouchSeen() {
		msg = "Find it! Drag to look around, tap to guess."
	}
	b := screen.Bounds()
	w, h := g.fonts.measure(msg, 18)
	x := (float64(b.Dx()) - w) / 2
	y := float64(b.Dy()) - h - 40
	vector.DrawFilledRect(screen, float32(x-14), float32(y-10), float32(w+28), float32(h+20), color.RGBA{0, 0, 0, 170}, false)
	g.fonts.draw(screen, msg, 18, x, y, color.White, text.AlignStart)
}

func (g *Game) drawError(screen *ebiten.Image) {
	fill(screen, color.RGBA{40, 10, 10, 255})
	cx, cy := center(screen)
	g.fonts.draw(screen, "Something went wrong", 32, cx, cy-80, color.RGBA{255, 120, 120, 255}, text.AlignCenter)
	msg := "Failed to load the game."
	if err := g.session.Err(); err != nil {
		msg = err.Error()
	}
	g.fonts.draw(screen, msg, 16, cx, cy-20, color.White, text.AlignCenter)
	g.fonts.draw(screen, "Press R or tap to reload", 20, cx, cy+40, color.White, text.AlignCenter)
}

// stateColors picks fresh backgrounds when a screen appears or the
// countdown ticks.
func (g *Game) stateColors(e session.Event) {
	switch {
	case e.Kind == session.StateChanged && e.State == session.LevelStart,
		e.Kind == session.CountdownTick:
		g.screenColor = brightColor(g.rng)
		g.accentColor = brightColor(g.rng)
	}
}
