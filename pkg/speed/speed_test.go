package speed

import (
	"image"
	"math"
	"testing"

	"github.com/Robogera/roadwatch/pkg/gring"
)

func TestUnavailable(t *testing.T) {
	if _, ok := Estimate(nil, 30); ok {
		t.Fatal("nil history should be unavailable")
	}
	h := gring.NewRing[image.Point](30)
	h.Push(image.Pt(0, 0))
	if _, ok := Estimate(h, 30); ok {
		t.Fatal("Single point should be unavailable")
	}
}

func TestEstimate(t *testing.T) {
	h := gring.NewRing[image.Point](30)
	h.Push(image.Pt(0, 0))
	h.Push(image.Pt(30, 40))
	// distance 50 over 2/30 s
	v, ok := Estimate(h, 30)
	if !ok {
		t.Fatal("Estimate unavailable")
	}
	if math.Abs(v-750) > 1e-9 {
		t.Fatalf("Speed %f, want 750", v)
	}
}

func TestWindowed(t *testing.T) {
	h := gring.NewRing[image.Point](30)
	// 40 frames moving 10 px/frame: the window only sees the last 30
	for i := range 40 {
		h.Push(image.Pt(i*10, 0))
	}
	v, ok := Estimate(h, 30)
	if !ok {
		t.Fatal("Estimate unavailable")
	}
	// oldest retained is frame 10, newest frame 39: 290 px over 1 s
	if math.Abs(v-290) > 1e-9 {
		t.Fatalf("Speed %f, want 290", v)
	}
}
