package gsma

import (
	"math"
	"testing"
)

func TestCapacityCheck(t *testing.T) {
	if _, err := NewSMA[int](2); err == nil {
		t.Fatal("Capacity 2 should be rejected")
	}
}

func TestWarmup(t *testing.T) {
	s, _ := NewSMA[float64](4)
	s.Recalc(10)
	s.Recalc(20)
	if avg := s.Show(); avg != 15 {
		t.Fatalf("Average %f, want 15", avg)
	}
}

func TestRollover(t *testing.T) {
	s, _ := NewSMA[float64](3)
	for _, v := range []float64{3, 3, 3, 9} {
		s.Recalc(v)
	}
	// window is now 3, 3, 9
	if avg := s.Show(); math.Abs(float64(avg)-5) > 1e-5 {
		t.Fatalf("Average %f, want 5", avg)
	}
}
