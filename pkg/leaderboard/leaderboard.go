// Package leaderboard keeps the local best-scores list.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultMaxScores = 5

var ErrEmptyName = errors.New("leaderboard: empty player name")

// Entry is one saved score. Time is stored in milliseconds, fastest first.
type Entry struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	TimeMs   int64     `json:"time"`
	Accuracy int       `json:"accuracy,omitempty"`
	Date     time.Time `json:"date"`
}

func (e Entry) Time() time.Duration {
	return time.Duration(e.TimeMs) * time.Millisecond
}

// Store persists the list. Implementations replace the whole list on Save.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

type Board struct {
	store Store
	max   int
	now   func() time.Time
	newID func() string
}

func New(store Store, maxScores int) *Board {
	if maxScores <= 0 {
		maxScores = DefaultMaxScores
	}
	return &Board{
		store: store,
		max:   maxScores,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

func (b *Board) Max() int { return b.max }

// Scores returns the saved list, fastest first.
func (b *Board) Scores(ctx context.Context) ([]Entry, error) {
	entries, err := b.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}
	sortEntries(entries)
	if len(entries) > b.max {
		entries = entries[:b.max]
	}
	return entries, nil
}

// Qualifies reports whether t would make it onto the list.
func (b *Board) Qualifies(ctx context.Context, t time.Duration) (bool, error) {
	entries, err := b.Scores(ctx)
	if err != nil {
		return false, err
	}
	return len(entries) < b.max || t.Milliseconds() < entries[len(entries)-1].TimeMs, nil
}

// AddScore records a score and returns the new top list together with the
// entry that was added. The entry may not be in the list if it was too slow.
func (b *Board) AddScore(ctx context.Context, name string, t time.Duration, accuracy int) ([]Entry, Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Entry{}, ErrEmptyName
	}
	entries, err := b.store.Load(ctx)
	if err != nil {
		return nil, Entry{}, fmt.Errorf("load scores: %w", err)
	}

	e := Entry{
		ID:       b.newID(),
		Name:     name,
		TimeMs:   t.Milliseconds(),
		Accuracy: accuracy,
		Date:     b.now().UTC(),
	}
	entries = append(entries, e)
	sortEntries(entries)
	if len(entries) > b.max {
		entries = entries[:b.max]
	}

	if err := b.store.Save(ctx, entries); err != nil {
		return nil, Entry{}, fmt.Errorf("save scores: %w", err)
	}
	return entries, e, nil
}

// Rank returns the 1-based position of id in entries, or 0.
func Rank(entries []Entry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i + 1
		}
	}
	return 0
}

// Ties keep insertion order, so an equal newer time ranks below the old one.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TimeMs < entries[j].TimeMs
	})
}

// FormatTime renders d as mm:ss.cc, truncating rather than rounding.
func FormatTime(d time.Duration) string {
	return FormatMillis(d.Milliseconds())
}

func FormatMillis(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	totalSeconds := ms / 1000
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	centis := (ms % 1000) / 10
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, centis)
}
