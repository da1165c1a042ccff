package game

import (
	"context"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/bee-mcc/ispy/internal/log"
	"github.com/bee-mcc/ispy/pkg/geometry"
	"github.com/bee-mcc/ispy/pkg/leaderboard"
	"github.com/bee-mcc/ispy/pkg/session"
)

// keyboard feeds typed characters and just-pressed keys for one Update.
type keyboard struct {
	chars   []rune
	pressed map[ebiten.Key]bool
}

func (k *keyboard) install(t *testing.T) {
	t.Helper()
	restore := SetInputForTest(TestInput{
		Chars: func(r []rune) []rune {
			out := append(r, k.chars...)
			k.chars = nil
			return out
		},
		KeyJustPressed: func(key ebiten.Key) bool { return k.pressed[key] },
	})
	t.Cleanup(restore)
}

func (k *keyboard) press(keys ...ebiten.Key) {
	k.pressed = make(map[ebiten.Key]bool)
	for _, key := range keys {
		k.pressed[key] = true
	}
}

func newTestScoreboard(t *testing.T) (*Scoreboard, *keyboard) {
	t.Helper()
	kb := &keyboard{}
	kb.install(t)
	board := leaderboard.New(&leaderboard.MemoryStore{}, 3)
	return NewScoreboard(board, log.Discard()), kb
}

func TestScoreboardSubmit(t *testing.T) {
	ctx := context.Background()
	s, kb := newTestScoreboard(t)
	now := time.Unix(0, 0)

	s.Show(ctx, session.Result{Time: 17 * time.Second, Accuracy: 67}, now)
	if !s.IsCapturingInput() {
		t.Fatal("expected name entry after Show")
	}

	kb.chars = []rune("Ann!e")
	kb.press()
	s.Update(ctx, now)
	if got := s.Name(); got != "Anne" {
		t.Errorf("name = %q, expected invalid characters dropped", got)
	}

	kb.press(ebiten.KeyBackspace)
	s.Update(ctx, now)
	if got := s.Name(); got != "Ann" {
		t.Errorf("name after backspace = %q", got)
	}

	kb.press(ebiten.KeyEnter)
	if s.Update(ctx, now) {
		t.Error("submitting a name should not restart the game")
	}
	if s.State() != StateDisplayLeaderboard {
		t.Fatalf("state = %v, expected leaderboard", s.State())
	}
	if len(s.Entries()) != 1 || s.Entries()[0].Name != "Ann" || s.Entries()[0].TimeMs != 17000 {
		t.Errorf("entries = %+v", s.Entries())
	}
	if s.CurrentRank() != 1 {
		t.Errorf("CurrentRank = %d, expected 1", s.CurrentRank())
	}

	kb.press(ebiten.KeyEnter)
	if !s.Update(ctx, now) {
		t.Error("Enter on the leaderboard should ask to play again")
	}
}

func TestScoreboardEmptyNameStaysInEntry(t *testing.T) {
	ctx := context.Background()
	s, kb := newTestScoreboard(t)
	now := time.Unix(0, 0)
	s.Show(ctx, session.Result{Time: time.Second}, now)

	kb.chars = []rune("   ")
	kb.press(ebiten.KeyEnter)
	s.Update(ctx, now)

	if s.State() != StateEnterName {
		t.Errorf("state = %v, expected to stay in name entry", s.State())
	}
	if s.submitError == "" {
		t.Error("expected an error message for a blank name")
	}
}

func TestScoreboardNameLimit(t *testing.T) {
	ctx := context.Background()
	s, kb := newTestScoreboard(t)
	now := time.Unix(0, 0)
	s.Show(ctx, session.Result{Time: time.Second}, now)

	kb.chars = []rune("abcdefghijklmnopqrstuvwxyz")
	kb.press()
	s.Update(ctx, now)
	if got := len([]rune(s.Name())); got != maxNameLength {
		t.Errorf("name length = %d, expected %d", got, maxNameLength)
	}
}

func TestScoreboardSkip(t *testing.T) {
	ctx := context.Background()
	s, kb := newTestScoreboard(t)
	now := time.Unix(0, 0)
	s.Show(ctx, session.Result{Time: time.Second}, now)

	kb.press(ebiten.KeyEscape)
	s.Update(ctx, now)
	if s.State() != StateDisplayLeaderboard {
		t.Fatalf("state = %v, expected leaderboard after skip", s.State())
	}
	if len(s.Entries()) != 0 || s.CurrentRank() != 0 {
		t.Errorf("skip should not save a score: %+v", s.Entries())
	}
}

func zoneCenter(z TouchZone) geometry.Point {
	return geometry.Point{X: float64(z.X + z.Width/2), Y: float64(z.Y + z.Height/2)}
}

func TestScoreboardPressOnly(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestScoreboard(t)
	s.Show(ctx, session.Result{Time: time.Second}, time.Unix(0, 0))

	if s.Press(ctx, geometry.Point{X: 1, Y: 1}) {
		t.Error("a press outside the buttons should not restart")
	}
	if s.State() != StateEnterName {
		t.Fatalf("state = %v, expected name entry to stay", s.State())
	}

	if s.Press(ctx, zoneCenter(s.skipButton)) {
		t.Error("skip should not restart")
	}
	if s.State() != StateDisplayLeaderboard {
		t.Fatalf("state = %v, expected leaderboard after tapping skip", s.State())
	}
	if len(s.Entries()) != 0 {
		t.Errorf("skip should not save a score: %+v", s.Entries())
	}

	if !s.Press(ctx, zoneCenter(s.playAgainButton)) {
		t.Error("tapping play again should ask to restart")
	}
}

func TestScoreboardSaveButton(t *testing.T) {
	ctx := context.Background()
	s, kb := newTestScoreboard(t)
	now := time.Unix(0, 0)
	s.Show(ctx, session.Result{Time: 3 * time.Second}, now)

	kb.chars = []rune("Bo")
	kb.press()
	s.Update(ctx, now)

	s.Press(ctx, zoneCenter(s.saveButton))
	if s.State() != StateDisplayLeaderboard || s.CurrentRank() != 1 {
		t.Errorf("state = %v rank = %d, expected saved score at rank 1", s.State(), s.CurrentRank())
	}
}

func TestIsValidNameChar(t *testing.T) {
	tests := []struct {
		r    rune
		want bool
	}{
		{'a', true},
		{'Z', true},
		{'7', true},
		{' ', true},
		{'-', true},
		{'\'', true},
		{'!', false},
		{'é', false},
		{'日', false},
		{'٣', false},
	}
	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			if got := isValidNameChar(tt.r); got != tt.want {
				t.Errorf("isValidNameChar(%q) = %v, expected %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestScoreboardWithoutBoard(t *testing.T) {
	s := NewScoreboard(nil, nil)
	s.Show(context.Background(), session.Result{Time: time.Second}, time.Unix(0, 0))
	if s.IsCapturingInput() {
		t.Error("no board means no name entry")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ann", "Ann"},
		{"Bartholomew Longname", "Bartholomew Lon…"},
		{"日本語の名前です", "日本語の名前です"},
		{"日本語の名前ですよね", "日本語の名前で…"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := displayName(tt.in); got != tt.want {
				t.Errorf("displayName(%q) = %q, expected %q", tt.in, got, tt.want)
			}
		})
	}
}
