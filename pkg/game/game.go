// Package game is the ebiten front end: it turns input into session calls
// and draws the session state every frame.
package game

import (
	"context"
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/bee-mcc/ispy/internal/log"
	"github.com/bee-mcc/ispy/pkg/assets"
	"github.com/bee-mcc/ispy/pkg/dashboard"
	"github.com/bee-mcc/ispy/pkg/geometry"
	"github.com/bee-mcc/ispy/pkg/leaderboard"
	"github.com/bee-mcc/ispy/pkg/level"
	"github.com/bee-mcc/ispy/pkg/session"
	"github.com/bee-mcc/ispy/pkg/timer"
)

type Options struct {
	Levels []level.Definition
	Config session.Config
	Source assets.Source
	Board  *leaderboard.Board // nil disables score saving
	Logger *log.Logger
	Clock  timer.Clock // defaults to the system clock
	Rand   *rand.Rand  // defaults to a time-seeded source
	Dev    bool
	Muted  bool
}

type Game struct {
	session *session.Session
	levels  []level.Definition

	loader   *assets.Loader
	pictures map[string]*ebiten.Image
	loadErrs map[string]error

	pointer    pointer
	swallow    bool // current press belongs to an overlay
	controls   *Controls
	scoreboard *Scoreboard
	dashboard  *dashboard.Dashboard
	dev        DevMode
	sounds     *sounds
	fonts      *fonts

	ctx   context.Context
	clock timer.Clock
	rng   *rand.Rand
	log   *log.Logger

	canvas      geometry.Size
	showHelp    bool
	screenColor color.RGBA
	accentColor color.RGBA
}

func New(opts Options) (*Game, error) {
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Clock == nil {
		opts.Clock = timer.SystemClock{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s, err := session.New(opts.Levels, opts.Config, opts.Clock, opts.Rand)
	if err != nil {
		return nil, err
	}
	f, err := newFonts()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	g := &Game{
		session:    s,
		levels:     opts.Levels,
		loader:     assets.NewLoader(opts.Source),
		pictures:   make(map[string]*ebiten.Image),
		loadErrs:   make(map[string]error),
		controls:   NewControls(),
		scoreboard: NewScoreboard(opts.Board, opts.Logger),
		dashboard:  dashboard.New(f.face(16)),
		sounds:     newSounds(opts.Muted, opts.Logger),
		fonts:      f,
		ctx:        context.Background(),
		clock:      opts.Clock,
		rng:        opts.Rand,
		log:        opts.Logger,
	}
	g.dev.enabled = opts.Dev
	g.screenColor = brightColor(g.rng)
	g.accentColor = brightColor(g.rng)
	return g, nil
}

// Close stops background image loads.
func (g *Game) Close() {
	g.loader.Close()
}

func (g *Game) Session() *session.Session { return g.session }

func (g *Game) Update() error {
	now := g.clock.Now()

	if !IsWASM() && !g.scoreboard.IsCapturingInput() && isKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	g.handleKeys(now)

	g.pollAssets()

	events := g.pointer.Poll()
	g.controls.SetVisible(g.pointer.TouchSeen())
	g.dev.SetMouse(g.pointer.Hover())
	for _, e := range events {
		g.handlePointer(e)
	}

	g.session.Update()
	g.handleEvents(now)

	if g.scoreboard.Update(g.ctx, now) {
		g.restart()
	}

	g.updateCursor()
	return nil
}

func (g *Game) handleKeys(now time.Time) {
	if isKeyJustPressed(ebiten.KeyF2) {
		g.toggleDev()
	}
	if g.scoreboard.IsCapturingInput() {
		return
	}

	if isKeyJustPressed(ebiten.KeyR) {
		g.restart()
		return
	}
	if isKeyJustPressed(ebiten.KeyM) {
		g.toggleMute()
	}
	if isKeyJustPressed(ebiten.KeyH) {
		g.showHelp = !g.showHelp
	}
	if g.dev.Enabled() && isKeyJustPressed(ebiten.KeyC) {
		if s, err := g.dev.Copy(g.session.Level(), now); err != nil {
			g.log.Warnf("dev: %v", err)
		} else {
			g.log.Infof("dev: copied click region\n%s", s)
		}
	}
	if g.session.State() == session.LevelStart &&
		(isKeyJustPressed(ebiten.KeySpace) || isKeyJustPressed(ebiten.KeyEnter)) {
		g.session.Confirm()
	}
}

func (g *Game) apply(a Action) {
	switch a {
	case ActionRestart:
		g.restart()
	case ActionToggleDev:
		g.toggleDev()
	case ActionToggleMute:
		g.toggleMute()
	}
}

func (g *Game) toggleDev() {
	g.log.Infof("dev mode: %v", g.dev.Toggle())
}

func (g *Game) toggleMute() {
	g.log.Infof("muted: %v", g.sounds.toggleMute())
}

func (g *Game) handlePointer(e PointerEvent) {
	if e.Kind == PointerPress {
		if a, ok := g.controls.Press(e.Pos); ok {
			g.apply(a)
			g.swallow = true
			return
		}
		if g.scoreboard.IsVisible() {
			g.swallow = true
			if g.scoreboard.Press(g.ctx, e.Pos) {
				g.restart()
			}
			return
		}
	}
	if g.swallow {
		if e.Kind == PointerRelease {
			g.swallow = false
		}
		return
	}

	switch g.session.State() {
	case session.LevelStart:
		if e.Kind == PointerRelease {
			g.session.Confirm()
		}
	case session.Failed:
		if e.Kind == PointerRelease {
			g.restart()
		}
	case session.Playing, session.Transitioning:
		switch e.Kind {
		case PointerPress:
			g.session.Press(e.Pos)
		case PointerMove:
			g.session.Move(e.Pos)
		case PointerRelease:
			g.session.Release(e.Pos)
		}
	}
}

// pollAssets collects finished loads and feeds the level the session is
// waiting for. Decoded pictures are kept, so a restart does not reload.
func (g *Game) pollAssets() {
	for {
		r, ok := g.loader.Poll()
		if !ok {
			break
		}
		if r.Err != nil {
			g.loadErrs[r.Name] = r.Err
			continue
		}
		g.pictures[r.Name] = ebiten.NewImageFromImage(r.Image)
		g.log.Debugf("loaded %s", r.Name)
	}

	def, ok := g.session.PendingLoad()
	if !ok {
		return
	}
	if pic, ok := g.pictures[def.Image]; ok {
		b := pic.Bounds()
		g.session.LevelLoaded(geometry.Size{W: float64(b.Dx()), H: float64(b.Dy())})
		g.preloadNext()
		return
	}
	if err, ok := g.loadErrs[def.Image]; ok {
		delete(g.loadErrs, def.Image)
		g.session.LoadFailed(err)
		return
	}
	if g.loader.Request(def.Image) {
		g.log.Debugf("loading %s", def.Image)
	}
}

func (g *Game) preloadNext() {
	next := g.session.LevelIndex() + 1
	if next >= len(g.levels) {
		return
	}
	name := g.levels[next].Image
	if _, ok := g.pictures[name]; ok {
		return
	}
	g.loader.Request(name)
}

func (g *Game) handleEvents(now time.Time) {
	for _, e := range g.session.DrainEvents() {
		g.stateColors(e)
		switch e.Kind {
		case session.StateChanged:
			g.log.Debugf("state %s (level %d)", e.State, e.Level+1)
			g.onState(e.State, now)
		case session.CountdownTick:
			if e.Count > 0 {
				g.sounds.play(soundTick)
			} else {
				g.sounds.play(soundGo)
			}
		case session.CorrectClick:
			g.log.Infof("level %d found at %s", e.Level+1, leaderboard.FormatTime(g.session.LevelElapsed()))
			g.sounds.play(soundCorrect)
		case session.WrongClick:
			g.log.Debugf("miss at %.0f,%.0f", e.Point.X, e.Point.Y)
			g.sounds.play(soundWrong)
			g.dashboard.ShowPenalty(e.Penalty, now)
		}
	}
}

func (g *Game) onState(st session.State, now time.Time) {
	switch st {
	case session.Loading:
		g.dashboard.ClearBanner()
	case session.Completed:
		res, ok := g.session.Result()
		if !ok {
			return
		}
		g.log.Infof("game complete: %s (base %s, penalty %s, accuracy %d%%)",
			leaderboard.FormatTime(res.Time), leaderboard.FormatTime(res.Elapsed),
			leaderboard.FormatTime(res.Penalty), res.Accuracy)
		g.scoreboard.Show(g.ctx, res, now)
	case session.Failed:
		g.log.Errorf("%v", g.session.Err())
	}
}

func (g *Game) restart() {
	s, err := g.session.Restart()
	if err != nil {
		g.log.Errorf("restart: %v", err)
		return
	}
	g.session = s
	g.swallow = false
	g.scoreboard.Hide()
	g.dashboard.ClearBanner()
	g.log.Infof("restarted")
}

func (g *Game) updateCursor() {
	switch {
	case g.session.Dragging():
		ebiten.SetCursorShape(ebiten.CursorShapeMove)
	case g.session.State() == session.Playing:
		ebiten.SetCursorShape(ebiten.CursorShapeCrosshair)
	default:
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

func (g *Game) stats() dashboard.Stats {
	s := g.session
	_, clicks := s.Clicks()
	return dashboard.Stats{
		LevelName:    s.Level().Definition().Name,
		Index:        s.LevelIndex(),
		Count:        s.LevelCount(),
		LevelElapsed: s.LevelElapsed(),
		TotalElapsed: s.TotalElapsed(),
		Penalty:      s.Penalty(),
		Accuracy:     s.AccuracyPercent(),
		Clicks:       clicks,
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	now := g.clock.Now()
	s := g.session

	switch s.State() {
	case session.Loading:
		g.drawLoading(screen, now)
	case session.LevelStart:
		g.drawLevelStart(screen)
	case session.Countdown:
		g.drawCountdown(screen)
	case session.Playing, session.Transitioning:
		g.drawPlayfield(screen, now)
	case session.Completed:
		screen.Fill(color.RGBA{20, 20, 30, 255})
	case session.Failed:
		g.drawError(screen)
	}

	drawFade(screen, s.Fade())
	drawCelebration(screen, s.Celebration())
	g.scoreboard.Draw(screen, g.fonts)
	if s.State() == session.Playing || s.State() == session.Transitioning {
		g.dev.Draw(screen, s.Level(), now)
	}
	g.controls.Draw(screen, g.fonts, g.sounds.muted)

	if g.showHelp {
		g.drawHelpScreen(screen)
	}
}

func (g *Game) drawPlayfield(screen *ebiten.Image, now time.Time) {
	screen.Fill(color.Black)

	l := g.session.Level()
	if pic, ok := g.pictures[l.Definition().Image]; ok && l.Loaded() {
		v := l.Viewport()
		o := v.ImageOrigin()
		scale := v.Layout().Scale

		op := &ebiten.DrawImageOptions{}
		op.Filter = ebiten.FilterLinear
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(o.X+l.ShakeOffset(), o.Y)
		screen.DrawImage(pic, op)
	}

	for _, e := range l.Feedback() {
		drawEffect(screen, e)
	}

	g.dashboard.Draw(screen, g.stats(), now)
	g.drawHint(screen)
}

// drawHelpScreen lists the keyboard shortcuts.
func (g *Game) drawHelpScreen(screen *ebiten.Image) {
	b := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), color.RGBA{0, 0, 0, 180}, false)

	keys := [][2]string{
		{"Drag", "look around"},
		{"Click / tap", "guess"},
		{"Space", "start level"},
		{"R", "restart"},
		{"M", "mute"},
		{"F2", "dev mode (C copies a click region)"},
		{"H", "close help"},
	}
	if !IsWASM() {
		keys = append(keys, [2]string{"Q", "quit"})
	}

	cx := float64(b.Dx()) / 2
	y := float64(b.Dy())/2 - 200
	g.fonts.draw(screen, "I SPY", 32, cx, y, color.White, text.AlignCenter)
	y += 56
	g.fonts.draw(screen, "Find the hidden object in each picture as fast as you can.", 18, cx, y, color.White, text.AlignCenter)
	y += 26
	g.fonts.draw(screen, "Every wrong click adds a time penalty.", 18, cx, y, color.White, text.AlignCenter)
	y += 48
	for _, k := range keys {
		g.fonts.draw(screen, k[0], 18, cx-20, y, color.RGBA{255, 215, 0, 255}, text.AlignEnd)
		g.fonts.draw(screen, k[1], 18, cx+20, y, color.White, text.AlignStart)
		y += 28
	}
}

// Layout uses the window size as the canvas so the picture always fills it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := geometry.Size{W: float64(outsideWidth), H: float64(outsideHeight)}
	if size != g.canvas {
		g.canvas = size
		g.session.Resize(size)
		g.scoreboard.Resize(size)
	}
	return outsideWidth, outsideHeight
}
