package geometry

import "testing"

func TestRectContainsIsBoundaryInclusive(t *testing.T) {
	r := Rect{X: 100, Y: 100, Width: 80, Height: 100}

	tests := []struct {
		name     string
		p        Point
		expected bool
	}{
		{"Center", Point{X: 140, Y: 150}, true},
		{"Top left corner", Point{X: 100, Y: 100}, true},
		{"Bottom right corner", Point{X: 180, Y: 200}, true},
		{"Right edge", Point{X: 180, Y: 120}, true},
		{"Just left", Point{X: 99.999, Y: 150}, false},
		{"Just below", Point{X: 140, Y: 200.001}, false},
		{"Far away", Point{X: 50, Y: 50}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tt.p, got, tt.expected)
			}
		})
	}
}

func TestSizeEmpty(t *testing.T) {
	if !(Size{W: 0, H: 10}).Empty() {
		t.Error("zero width should be empty")
	}
	if !(Size{W: 10, H: -1}).Empty() {
		t.Error("negative height should be empty")
	}
	if (Size{W: 1, H: 1}).Empty() {
		t.Error("1x1 should not be empty")
	}
	if got := (Size{}).Aspect(); got != 0 {
		t.Errorf("Aspect of empty size = %v, expected 0", got)
	}
}
