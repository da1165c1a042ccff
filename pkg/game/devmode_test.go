package game

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/bee-mcc/ispy/pkg/geometry"
	"github.com/bee-mcc/ispy/pkg/level"
	"github.com/bee-mcc/ispy/pkg/viewport"
)

func loadedLevel(t *testing.T) *level.Level {
	t.Helper()
	l := level.New(level.Definition{
		Name:        "dev",
		ClickRegion: geometry.Rect{X: 100, Y: 100, Width: 80, Height: 100},
	}, viewport.DefaultPolicy(), rand.New(rand.NewSource(1)))
	l.Resize(geometry.Size{W: 800, H: 600})
	if !l.Load(geometry.Size{W: 800, H: 600}) {
		t.Fatal("level did not load")
	}
	l.Viewport().SetPan(geometry.Point{})
	return l
}

func TestRegionSnippet(t *testing.T) {
	got, err := regionSnippet(geometry.Point{X: 140, Y: 150})
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"x\": 140,\n  \"y\": 150,\n  \"width\": 80,\n  \"height\": 100\n}"
	if got != want {
		t.Errorf("snippet =\n%s\nexpected\n%s", got, want)
	}
}

func TestDevModeImagePoint(t *testing.T) {
	l := loadedLevel(t)
	var d DevMode

	// Zoom 2 on an 800-wide canvas: canvas (281,301) is image (140.5,150.5).
	d.SetMouse(geometry.Point{X: 281, Y: 301})
	p, ok := d.ImagePoint(l)
	if !ok {
		t.Fatal("ImagePoint not ok on a loaded level")
	}
	if p != (geometry.Point{X: 141, Y: 151}) {
		t.Errorf("ImagePoint = %+v, expected rounded (141,151)", p)
	}

	if _, ok := d.ImagePoint(nil); ok {
		t.Error("ImagePoint should fail without a level")
	}
}

func TestDevModeCopy(t *testing.T) {
	l := loadedLevel(t)
	var copied string
	old := writeClipboard
	t.Cleanup(func() { writeClipboard = old })
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}

	var d DevMode
	d.SetMouse(geometry.Point{X: 200, Y: 200})
	now := time.Unix(100, 0)

	s, err := d.Copy(l, now)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if copied != s {
		t.Errorf("clipboard got %q, Copy returned %q", copied, s)
	}
	if !d.Copied(now.Add(time.Second)) {
		t.Error("expected copied feedback after 1s")
	}
	if d.Copied(now.Add(copiedFeedback)) {
		t.Error("copied feedback should end after 2s")
	}

	writeClipboard = func(string) error { return errors.New("no clipboard") }
	if _, err := d.Copy(l, now); err == nil {
		t.Error("expected clipboard failure to surface")
	}
}

func TestDevModeToggle(t *testing.T) {
	var d DevMode
	if !d.Toggle() || !d.Enabled() {
		t.Error("first toggle should enable")
	}
	if d.Toggle() {
		t.Error("second toggle should disable")
	}
}
