package game

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/mattn/go-runewidth"

	"github.com/bee-mcc/ispy/internal/log"
	"github.com/bee-mcc/ispy/pkg/geometry"
	"github.com/bee-mcc/ispy/pkg/leaderboard"
	"github.com/bee-mcc/ispy/pkg/session"
)

const (
	maxNameLength    = 20
	nameDisplayWidth = 16
)

type ScoreboardState int

const (
	StateEnterName ScoreboardState = iota
	StateDisplayLeaderboard
	StateError
)

// Scoreboard is the end-of-game modal: the final result, name entry, and
// the leaderboard.
type Scoreboard struct {
	isVisible bool
	state     ScoreboardState

	playerName []rune
	result     session.Result
	qualifies  bool

	entries   []leaderboard.Entry
	currentID string

	cursorBlink bool
	lastBlink   time.Time
	submitError string

	board *leaderboard.Board
	log   *log.Logger

	saveButton      TouchZone
	skipButton      TouchZone
	playAgainButton TouchZone
}

func NewScoreboard(board *leaderboard.Board, logger *log.Logger) *Scoreboard {
	s := &Scoreboard{board: board, log: logger}
	s.Resize(geometry.Size{W: 1024, H: 768})
	return s
}

// Resize places the buttons for the given canvas.
func (s *Scoreboard) Resize(canvas geometry.Size) {
	cx, cy := int(canvas.W/2), int(canvas.H/2)
	s.saveButton = TouchZone{X: cx - 130, Y: cy + 60, Width: 120, Height: 40, Enabled: true}
	s.skipButton = TouchZone{X: cx + 10, Y: cy + 60, Width: 120, Height: 40, Enabled: true}
	s.playAgainButton = TouchZone{X: cx - 80, Y: int(canvas.H) - 90, Width: 160, Height: 50, Enabled: true}
}

// Show displays the modal for a finished game.
func (s *Scoreboard) Show(ctx context.Context, result session.Result, now time.Time) {
	s.isVisible = true
	s.state = StateEnterName
	s.result = result
	s.playerName = s.playerName[:0]
	s.submitError = ""
	s.entries = nil
	s.currentID = ""
	s.lastBlink = now

	if s.board == nil {
		s.state = StateDisplayLeaderboard
		return
	}
	q, err := s.board.Qualifies(ctx, result.Time)
	if err != nil {
		s.fail(err)
		return
	}
	s.qualifies = q
}

// Hide closes the scoreboard
func (s *Scoreboard) Hide() {
	s.isVisible = false
	s.state = StateEnterName
	s.playerName = s.playerName[:0]
	s.entries = nil
	s.currentID = ""
}

func (s *Scoreboard) IsVisible() bool { return s.isVisible }

// IsCapturingInput reports whether typed characters belong to the name field.
func (s *Scoreboard) IsCapturingInput() bool {
	return s.isVisible && s.state == StateEnterName
}

func (s *Scoreboard) State() ScoreboardState { return s.state }

func (s *Scoreboard) Name() string { return string(s.playerName) }

func (s *Scoreboard) Entries() []leaderboard.Entry { return s.entries }

// CurrentRank is the 1-based rank of the score saved in this session, or 0.
func (s *Scoreboard) CurrentRank() int {
	return leaderboard.Rank(s.entries, s.currentID)
}

func (s *Scoreboard) fail(err error) {
	s.log.Errorf("leaderboard: %v", err)
	s.submitError = err.Error()
	s.state = StateError
}

// Update handles keyboard input. It reports true when the player asked to
// play again.
func (s *Scoreboard) Update(ctx context.Context, now time.Time) bool {
	if !s.isVisible {
		return false
	}

	if now.Sub(s.lastBlink) > 500*time.Millisecond {
		s.cursorBlink = !s.cursorBlink
		s.lastBlink = now
	}

	switch s.state {
	case StateEnterName:
		s.updateNameInput(ctx)
	case StateDisplayLeaderboard, StateError:
		if isKeyJustPressed(ebiten.KeyEnter) || isKeyJustPressed(ebiten.KeySpace) {
			return true
		}
	}
	return false
}

// Names are plain ASCII letters, digits and a little punctuation.
func isValidNameChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune(" -_.'", r)
}

func (s *Scoreboard) updateNameInput(ctx context.Context) {
	for _, ch := range appendInputChars(nil) {
		if len(s.playerName) < maxNameLength && isValidNameChar(ch) {
			s.playerName = append(s.playerName, ch)
		}
	}

	if isKeyJustPressed(ebiten.KeyBackspace) && len(s.playerName) > 0 {
		s.playerName = s.playerName[:len(s.playerName)-1]
	}

	if isKeyJustPressed(ebiten.KeyEnter) {
		s.submitScore(ctx)
	}

	if isKeyJustPressed(ebiten.KeyEscape) {
		s.loadLeaderboard(ctx)
	}
}

func (s *Scoreboard) submitScore(ctx context.Context) {
	entries, e, err := s.board.AddScore(ctx, string(s.playerName), s.result.Time, s.result.Accuracy)
	if errors.Is(err, leaderboard.ErrEmptyName) {
		s.submitError = "Please enter a name"
		return
	}
	if err != nil {
		s.fail(err)
		return
	}
	s.log.Infof("saved score %s for %q (rank %d)", leaderboard.FormatTime(s.result.Time), e.Name, leaderboard.Rank(entries, e.ID))
	s.entries = entries
	s.currentID = e.ID
	s.submitError = ""
	s.state = StateDisplayLeaderboard
}

func (s *Scoreboard) loadLeaderboard(ctx context.Context) {
	if s.board == nil {
		s.state = StateDisplayLeaderboard
		return
	}
	entries, err := s.board.Scores(ctx)
	if err != nil {
		s.fail(err)
		return
	}
	s.entries = entries
	s.state = StateDisplayLeaderboard
}

// Press handles a pointer press on the modal. Every press is consumed while
// the modal is up; playAgain is true when the play-again button was hit.
func (s *Scoreboard) Press(ctx context.Context, p geometry.Point) (playAgain bool) {
	if !s.isVisible {
		return false
	}
	switch s.state {
	case StateEnterName:
		switch {
		case s.saveButton.Contains(p):
			s.submitScore(ctx)
		case s.skipButton.Contains(p):
			s.loadLeaderboard(ctx)
		}
	default:
		return s.playAgainButton.Contains(p)
	}
	return false
}

func displayName(name string) string {
	return runewidth.Truncate(name, nameDisplayWidth, "…")
}

func (s *Scoreboard) Draw(screen *ebiten.Image, f *fonts) {
	if !s.isVisible {
		return
	}

	b := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), color.RGBA{0, 0, 0, 200}, false)

	switch s.state {
	case StateEnterName:
		s.drawNameEntry(screen, f)
	case StateDisplayLeaderboard:
		s.drawLeaderboard(screen, f)
	case StateError:
		s.drawError(screen, f)
	}
}

func (s *Scoreboard) drawSummary(screen *ebiten.Image, f *fonts, y float64) float64 {
	cx := float64(screen.Bounds().Dx()) / 2
	f.draw(screen, "Final time: "+leaderboard.FormatTime(s.result.Time), 32, cx, y, color.RGBA{255, 215, 0, 255}, text.AlignCenter)
	y += 48
	detail := fmt.Sprintf("Time %s   Penalties +%s   Accuracy %d%%",
		leaderboard.FormatTime(s.result.Elapsed),
		leaderboard.FormatTime(s.result.Penalty),
		s.result.Accuracy)
	f.draw(screen, detail, 16, cx, y, color.White, text.AlignCenter)
	return y + 32
}

func (s *Scoreboard) drawNameEntry(screen *ebiten.Image, f *fonts) {
	cx := float64(screen.Bounds().Dx()) / 2
	cy := float64(screen.Bounds().Dy()) / 2

	f.draw(screen, "You found them all!", 36, cx, cy-200, color.White, text.AlignCenter)
	s.drawSummary(screen, f, cy-140)

	prompt := "Enter your name:"
	if s.qualifies {
		prompt = "New high score! Enter your name:"
	}
	f.draw(screen, prompt, 20, cx, cy-40, color.White, text.AlignCenter)

	fieldX, fieldY := float32(cx-150), float32(cy)
	vector.DrawFilledRect(screen, fieldX, fieldY, 300, 36, color.White, false)
	vector.StrokeRect(screen, fieldX, fieldY, 300, 36, 2, color.RGBA{100, 100, 100, 255}, false)

	name := string(s.playerName)
	if s.cursorBlink {
		name += "|"
	}
	f.draw(screen, name, 20, float64(fieldX)+8, float64(fieldY)+6, color.Black, text.AlignStart)

	drawButton(screen, f, s.saveButton, "Save", color.RGBA{60, 160, 80, 230})
	drawButton(screen, f, s.skipButton, "Skip", color.RGBA{120, 120, 120, 230})
	f.draw(screen, "ENTER to save • ESC to skip", 14, cx, cy+115, color.RGBA{200, 200, 200, 255}, text.AlignCenter)

	if s.submitError != "" {
		f.draw(screen, s.submitError, 16, cx, cy+140, color.RGBA{255, 100, 100, 255}, text.AlignCenter)
	}
}

func (s *Scoreboard) drawLeaderboard(screen *ebiten.Image, f *fonts) {
	cx := float64(screen.Bounds().Dx()) / 2
	y := s.drawSummary(screen, f, 40)

	f.draw(screen, "LEADERBOARD", 28, cx, y, color.White, text.AlignCenter)
	y += 50

	cols := [4]float64{cx - 200, cx - 150, cx + 60, cx + 150}
	for i, h := range []string{"#", "Name", "Time", "Acc."} {
		f.draw(screen, h, 16, cols[i], y, color.RGBA{200, 200, 200, 255}, text.AlignStart)
	}
	y += 24
	vector.StrokeLine(screen, float32(cx-210), float32(y), float32(cx+210), float32(y), 1, color.White, false)
	y += 8

	if len(s.entries) == 0 {
		f.draw(screen, "No scores yet", 18, cx, y+10, color.White, text.AlignCenter)
	}
	for i, e := range s.entries {
		if e.ID == s.currentID {
			vector.DrawFilledRect(screen, float32(cx-210), float32(y-2), 420, 26, color.RGBA{173, 216, 230, 150}, false)
		}
		row := []string{
			fmt.Sprint(i + 1),
			displayName(e.Name),
			leaderboard.FormatMillis(e.TimeMs),
			fmt.Sprintf("%d%%", e.Accuracy),
		}
		for c, v := range row {
			f.draw(screen, v, 18, cols[c], y, color.White, text.AlignStart)
		}
		y += 30
	}

	drawButton(screen, f, s.playAgainButton, "Play again", color.RGBA{60, 120, 200, 230})
}

func (s *Scoreboard) drawError(screen *ebiten.Image, f *fonts) {
	cx := float64(screen.Bounds().Dx()) / 2
	cy := float64(screen.Bounds().Dy()) / 2
	s.drawSummary(screen, f, cy-160)
	f.draw(screen, "Could not reach the leaderboard", 24, cx, cy-40, color.RGBA{255, 100, 100, 255}, text.AlignCenter)
	f.draw(screen, s.submitError, 14, cx, cy, color.White, text.AlignCenter)
	drawButton(screen, f, s.playAgainButton, "Play again", color.RGBA{60, 120, 200, 230})
}
