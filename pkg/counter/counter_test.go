package counter

import (
	"image"
	"testing"

	"github.com/Robogera/roadwatch/pkg/gring"
	"github.com/Robogera/roadwatch/pkg/vehicle"
)

func history(points ...image.Point) *gring.Ring[image.Point] {
	h := gring.NewRing[image.Point](30)
	for _, p := range points {
		h.Push(p)
	}
	return h
}

func TestCrossing(t *testing.T) {
	c := NewCounter(90)
	h := history(image.Pt(100, 55), image.Pt(100, 95))
	if !c.Register(1, vehicle.ClassCar, h) {
		t.Fatal("Downward crossing not registered")
	}
	if c.Snapshot()[vehicle.ClassCar] != 1 {
		t.Fatalf("Car count %d, want 1", c.Snapshot()[vehicle.ClassCar])
	}
}

func TestLandingOnLine(t *testing.T) {
	c := NewCounter(90)
	if !c.Register(1, vehicle.ClassBus, history(image.Pt(0, 89), image.Pt(0, 90))) {
		t.Fatal("curr_y == line_y should count")
	}
}

func TestNoCrossing(t *testing.T) {
	c := NewCounter(90)
	cases := []*gring.Ring[image.Point]{
		history(image.Pt(0, 50), image.Pt(0, 55)),  // still above
		history(image.Pt(0, 95), image.Pt(0, 99)),  // already below
		history(image.Pt(0, 95), image.Pt(0, 55)),  // upward
		history(image.Pt(0, 90), image.Pt(0, 95)),  // started on the line
		history(image.Pt(0, 95)),                   // single point
	}
	for i, h := range cases {
		if c.Register(uint64(i+1), vehicle.ClassCar, h) {
			t.Fatalf("Case %d registered a crossing", i)
		}
	}
	if c.Total() != 0 {
		t.Fatalf("Total %d, want 0", c.Total())
	}
}

func TestCountedOnce(t *testing.T) {
	c := NewCounter(90)
	h := history(image.Pt(100, 55), image.Pt(100, 95))
	c.Register(7, vehicle.ClassTruck, h)
	// same id oscillating around the line must not re-trigger
	h.Push(image.Pt(100, 89))
	h.Push(image.Pt(100, 91))
	if c.Register(7, vehicle.ClassTruck, h) {
		t.Fatal("Id counted twice")
	}
	if c.Snapshot()[vehicle.ClassTruck] != 1 {
		t.Fatalf("Truck count %d, want 1", c.Snapshot()[vehicle.ClassTruck])
	}
}

func TestDisabled(t *testing.T) {
	c := NewCounter(0)
	if c.Enabled() {
		t.Fatal("line_y 0 should leave counting disabled")
	}
	if c.Register(1, vehicle.ClassCar, history(image.Pt(0, 55), image.Pt(0, 95))) {
		t.Fatal("Disabled counter registered a crossing")
	}
	if len(c.Snapshot()) != 0 {
		t.Fatal("Disabled counter mutated the table")
	}
}

func TestForget(t *testing.T) {
	c := NewCounter(90)
	c.Register(3, vehicle.ClassCar, history(image.Pt(0, 55), image.Pt(0, 95)))
	c.Forget(3)
	// the count itself stays, only the per-id flag is released
	if c.Total() != 1 {
		t.Fatalf("Total %d after Forget, want 1", c.Total())
	}
}
