//go:build !(js && wasm)

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bee-mcc/ispy/pkg/leaderboard"
)

func openTestDB(t *testing.T) (*SQLite, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "scores.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, path := openTestDB(t)

	date := time.Date(2024, 3, 2, 1, 0, 0, 123, time.UTC)
	in := []leaderboard.Entry{
		{ID: "a", Name: "Ann", TimeMs: 1000, Accuracy: 100, Date: date},
		{ID: "b", Name: "Bob", TimeMs: 1000, Accuracy: 50, Date: date},
		{ID: "c", Name: "Cid", TimeMs: 900, Accuracy: 75, Date: date},
	}
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, err := s2.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	wantOrder := []string{"c", "a", "b"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d entries", len(got))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("entry %d = %s, expected %s", i, got[i].ID, id)
		}
	}
	if !got[0].Date.Equal(date) || got[0].Accuracy != 75 {
		t.Errorf("entry = %+v", got[0])
	}
}

func TestSQLiteSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestDB(t)

	s.Save(ctx, []leaderboard.Entry{{ID: "a", Name: "A", TimeMs: 1}, {ID: "b", Name: "B", TimeMs: 2}})
	s.Save(ctx, []leaderboard.Entry{{ID: "b", Name: "B", TimeMs: 2}})

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("got %+v", got)
	}
}

func TestSQLiteBacksBoard(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestDB(t)
	b := leaderboard.New(s, 3)

	for i, d := range []time.Duration{4 * time.Second, time.Second, 3 * time.Second, 2 * time.Second} {
		if _, _, err := b.AddScore(ctx, string(rune('a'+i)), d, 100); err != nil {
			t.Fatal(err)
		}
	}
	scores, err := b.Scores(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 3 || scores[0].Name != "b" || scores[2].Name != "c" {
		t.Errorf("scores = %+v", scores)
	}
}
