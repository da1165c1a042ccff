package dashboard

import (
	"reflect"
	"testing"
	"time"
)

func TestLines(t *testing.T) {
	d := New(nil)

	tests := []struct {
		name  string
		stats Stats
		want  []string
	}{
		{
			name:  "fresh level",
			stats: Stats{Index: 0, Count: 3},
			want:  []string{"Level 1/3", "Level: 00:00.00", "Total: 00:00.00"},
		},
		{
			name: "penalty folded into total",
			stats: Stats{
				Index: 1, Count: 3,
				LevelElapsed: 2500 * time.Millisecond,
				TotalElapsed: 12 * time.Second,
				Penalty:      10 * time.Second,
				Accuracy:     33,
				Clicks:       3,
			},
			want: []string{
				"Level 2/3",
				"Level: 00:02.50",
				"Total: 00:22.00",
				"Penalty: +00:10.00",
				"Accuracy: 33%",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Lines(tt.stats)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBanner(t *testing.T) {
	d := New(nil)
	start := time.Unix(1000, 0)

	if msg, _ := d.Banner(start); msg != "" {
		t.Fatalf("banner before any penalty: %q", msg)
	}

	d.ShowPenalty(5*time.Second, start)

	msg, alpha := d.Banner(start.Add(time.Second))
	if msg != "+00:05.00 penalty!" {
		t.Errorf("banner = %q", msg)
	}
	if alpha != 1 {
		t.Errorf("alpha at 1s = %v, want 1", alpha)
	}

	_, alpha = d.Banner(start.Add(1750 * time.Millisecond))
	if alpha <= 0 || alpha >= 1 {
		t.Errorf("alpha while fading = %v, want (0,1)", alpha)
	}

	if msg, _ := d.Banner(start.Add(BannerDuration)); msg != "" {
		t.Errorf("banner still visible after %v: %q", BannerDuration, msg)
	}

	d.ShowPenalty(5*time.Second, start)
	d.ClearBanner()
	if msg, _ := d.Banner(start); msg != "" {
		t.Errorf("banner after ClearBanner: %q", msg)
	}
}
