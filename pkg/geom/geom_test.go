package geom

import (
	"image"
	"testing"
)

func TestCenter(t *testing.T) {
	if c := Center(image.Rect(10, 20, 30, 60)); c != image.Pt(20, 40) {
		t.Fatalf("Bad center: %v", c)
	}
}

func TestDist(t *testing.T) {
	if d := Dist(image.Pt(0, 0), image.Pt(30, 40)); d != 50 {
		t.Fatalf("Bad distance: %f", d)
	}
	if d := Dist(image.Pt(5, 5), image.Pt(5, 5)); d != 0 {
		t.Fatalf("Bad distance: %f", d)
	}
}

func TestCrossedDown(t *testing.T) {
	for _, c := range []struct {
		prev, curr, line int
		want             bool
	}{
		{55, 95, 90, true},
		{89, 90, 90, true}, // landing exactly on the line counts
		{50, 55, 90, false},
		{95, 99, 90, false}, // already below
		{95, 55, 90, false}, // upward
		{90, 95, 90, false}, // was on the line already
	} {
		if got := CrossedDown(c.prev, c.curr, c.line); got != c.want {
			t.Fatalf("CrossedDown(%d, %d, %d) = %v, want %v", c.prev, c.curr, c.line, got, c.want)
		}
	}
}
