// Package dashboard draws the in-game timer panel and the penalty banner.
package dashboard

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/bee-mcc/ispy/pkg/leaderboard"
)

// BannerDuration is how long a penalty banner stays on screen.
const BannerDuration = 2 * time.Second

// Stats is what the panel shows for one frame.
type Stats struct {
	LevelName    string
	Index        int // zero-based
	Count        int
	LevelElapsed time.Duration
	TotalElapsed time.Duration
	Penalty      time.Duration
	Accuracy     int
	Clicks       int
}

type Dashboard struct {
	Face text.Face

	banner     string
	bannerFrom time.Time
}

func New(face text.Face) *Dashboard {
	return &Dashboard{Face: face}
}

// Lines returns the panel text, top to bottom.
func (d *Dashboard) Lines(s Stats) []string {
	lines := []string{
		fmt.Sprintf("Level %d/%d", s.Index+1, s.Count),
		fmt.Sprintf("Level: %s", leaderboard.FormatTime(s.LevelElapsed)),
		fmt.Sprintf("Total: %s", leaderboard.FormatTime(s.TotalElapsed+s.Penalty)),
	}
	if s.Penalty > 0 {
		lines = append(lines, fmt.Sprintf("Penalty: +%s", leaderboard.FormatTime(s.Penalty)))
	}
	if s.Clicks > 0 {
		lines = append(lines, fmt.Sprintf("Accuracy: %d%%", s.Accuracy))
	}
	return lines
}

// ShowPenalty starts a banner for a penalty that was just added.
func (d *Dashboard) ShowPenalty(p time.Duration, now time.Time) {
	d.banner = fmt.Sprintf("+%s penalty!", leaderboard.FormatTime(p))
	d.bannerFrom = now
}

// Banner returns the banner text and its opacity in [0,1]. The banner holds
// full opacity and fades out over its last quarter.
func (d *Dashboard) Banner(now time.Time) (string, float64) {
	if d.banner == "" {
		return "", 0
	}
	age := now.Sub(d.bannerFrom)
	if age >= BannerDuration || age < 0 {
		return "", 0
	}
	fadeFrom := BannerDuration * 3 / 4
	if age < fadeFrom {
		return d.banner, 1
	}
	return d.banner, 1 - float64(age-fadeFrom)/float64(BannerDuration-fadeFrom)
}

func (d *Dashboard) ClearBanner() {
	d.banner = ""
}

func (d *Dashboard) Draw(screen *ebiten.Image, s Stats, now time.Time) {
	const size, pad, width = 16.0, 8.0, 190.0
	lines := d.Lines(s)
	if s.LevelName != "" {
		lines = append([]string{s.LevelName}, lines...)
	}
	x := float64(screen.Bounds().Dx()) - width - 10
	y := 10.0
	height := float64(len(lines))*size*1.3 + 2*pad

	vector.DrawFilledRect(screen, float32(x), float32(y), width, float32(height), color.RGBA{0, 0, 0, 150}, false)

	ty := y + pad
	for _, line := range lines {
		d.text(screen, line, x+pad, ty, color.White, 1)
		ty += size * 1.3
	}

	if msg, alpha := d.Banner(now); msg != "" {
		w, _ := text.Measure(msg, d.Face, 0)
		bx := (float64(screen.Bounds().Dx()) - w) / 2
		by := 70.0
		vector.DrawFilledRect(screen, float32(bx-12), float32(by-6), float32(w+24), float32(size+16),
			color.RGBA{uint8(200 * alpha), 0, 0, uint8(200 * alpha)}, false)
		d.text(screen, msg, bx, by, color.White, alpha)
	}
}

func (d *Dashboard) text(screen *ebiten.Image, s string, x, y float64, clr color.Color, alpha float64) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.ColorScale.ScaleAlpha(float32(alpha))
	text.Draw(screen, s, d.Face, op)
}
