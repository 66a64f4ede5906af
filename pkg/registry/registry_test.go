package registry

import (
	"image"
	"testing"

	"github.com/Robogera/roadwatch/pkg/config"
	"github.com/Robogera/roadwatch/pkg/vehicle"
)

func testConfig() *config.TrackerConfig {
	return &config.TrackerConfig{
		GatePx:        100,
		HistoryCap:    30,
		MissTolerance: 0,
		ConfirmHits:   3,
		Method:        config.AssocMethodGreedy,
	}
}

func det(x, y int) vehicle.Detection {
	return vehicle.Detection{
		Box:        image.Rect(x-10, y-10, x+10, y+10),
		Class:      vehicle.ClassCar,
		Confidence: 0.9,
	}
}

func TestFreshIds(t *testing.T) {
	r := NewRegistry(testConfig())
	tracked, _ := r.Update([]vehicle.Detection{det(100, 100), det(500, 100)})
	if tracked[0].Id == tracked[1].Id {
		t.Fatalf("Both detections got id %d", tracked[0].Id)
	}
	// far outside the gate of both: fresh id again
	tracked2, _ := r.Update([]vehicle.Detection{det(100, 100), det(500, 100), det(900, 900)})
	if tracked2[2].Id == tracked[0].Id || tracked2[2].Id == tracked[1].Id {
		t.Fatalf("Far detection reused id %d", tracked2[2].Id)
	}
}

func TestGateMatch(t *testing.T) {
	r := NewRegistry(testConfig())
	tracked, _ := r.Update([]vehicle.Detection{det(100, 100)})
	id := tracked[0].Id
	tracked, _ = r.Update([]vehicle.Detection{det(110, 110)})
	if tracked[0].Id != id {
		t.Fatalf("Detection inside the gate got id %d, want %d", tracked[0].Id, id)
	}
	track, ok := r.Get(id)
	if !ok {
		t.Fatalf("Track %d missing", id)
	}
	if track.History().Size() != 2 {
		t.Fatalf("History size %d, want 2", track.History().Size())
	}
}

func TestGateReject(t *testing.T) {
	r := NewRegistry(testConfig())
	tracked, _ := r.Update([]vehicle.Detection{det(100, 100)})
	id := tracked[0].Id
	// exactly at the gate is not a match (strictly less than)
	tracked, _ = r.Update([]vehicle.Detection{det(200, 100)})
	if tracked[0].Id == id {
		t.Fatal("Detection at gate distance should not match")
	}
}

func TestIdempotentReplay(t *testing.T) {
	r := NewRegistry(testConfig())
	frame := []vehicle.Detection{det(100, 100), det(300, 100)}
	first, _ := r.Update(frame)
	second, _ := r.Update(frame)
	for i := range frame {
		if first[i].Id != second[i].Id {
			t.Fatalf("Replay changed id %d -> %d", first[i].Id, second[i].Id)
		}
	}
	if r.Len() != 2 {
		t.Fatalf("Replay grew the live set to %d", r.Len())
	}
}

func TestUniqueAssignment(t *testing.T) {
	r := NewRegistry(testConfig())
	r.Update([]vehicle.Detection{det(100, 100)})
	// two detections inside the same track's gate: only one may claim it
	tracked, _ := r.Update([]vehicle.Detection{det(105, 100), det(95, 100)})
	if tracked[0].Id == tracked[1].Id {
		t.Fatalf("Track %d assigned to two detections in one frame", tracked[0].Id)
	}
}

func TestHungarianSwap(t *testing.T) {
	cfg := testConfig()
	cfg.Method = config.AssocMethodHungarian
	r := NewRegistry(cfg)
	first, _ := r.Update([]vehicle.Detection{det(100, 100), det(160, 100)})
	second, _ := r.Update([]vehicle.Detection{det(110, 100), det(170, 100)})
	if second[0].Id != first[0].Id || second[1].Id != first[1].Id {
		t.Fatalf("Crossed assignment: got %d/%d want %d/%d",
			second[0].Id, second[1].Id, first[0].Id, first[1].Id)
	}
}

func TestImmediateRetire(t *testing.T) {
	r := NewRegistry(testConfig())
	tracked, _ := r.Update([]vehicle.Detection{det(100, 100)})
	id := tracked[0].Id
	_, retired := r.Update(nil)
	if len(retired) != 1 || retired[0] != id {
		t.Fatalf("Expected %d retired, got %v", id, retired)
	}
	if _, ok := r.Get(id); ok {
		t.Fatal("Retired track still in the registry")
	}
	if r.Len() != 0 {
		t.Fatalf("Live set not empty: %d", r.Len())
	}
}

func TestMissTolerance(t *testing.T) {
	cfg := testConfig()
	cfg.MissTolerance = 2
	r := NewRegistry(cfg)
	tracked, _ := r.Update([]vehicle.Detection{det(100, 100)})
	id := tracked[0].Id
	for i := range 2 {
		_, retired := r.Update(nil)
		if len(retired) != 0 {
			t.Fatalf("Retired after %d misses with tolerance 2", i+1)
		}
		track, _ := r.Get(id)
		if track.Stage() != StageLost {
			t.Fatalf("Stage %s after miss, want lost", track.Stage())
		}
	}
	_, retired := r.Update(nil)
	if len(retired) != 1 {
		t.Fatal("Not retired after exceeding the tolerance")
	}
	// a detection at the old spot starts a fresh track
	tracked, _ = r.Update([]vehicle.Detection{det(100, 100)})
	if tracked[0].Id == id {
		t.Fatal("Retired id was reused")
	}
}

func TestLostTrackRematch(t *testing.T) {
	cfg := testConfig()
	cfg.MissTolerance = 3
	r := NewRegistry(cfg)
	tracked, _ := r.Update([]vehicle.Detection{det(100, 100)})
	id := tracked[0].Id
	r.Update(nil)
	tracked, _ = r.Update([]vehicle.Detection{det(105, 100)})
	if tracked[0].Id != id {
		t.Fatalf("Lost track not re-matched: got %d want %d", tracked[0].Id, id)
	}
}

func TestHistoryBound(t *testing.T) {
	cfg := testConfig()
	cfg.HistoryCap = 30
	r := NewRegistry(cfg)
	var id uint64
	for i := range 30 + 13 {
		tracked, _ := r.Update([]vehicle.Detection{det(100, 100+i)})
		id = tracked[0].Id
	}
	track, _ := r.Get(id)
	if track.History().Size() != 30 {
		t.Fatalf("History size %d, want 30", track.History().Size())
	}
}

func TestConfirmation(t *testing.T) {
	r := NewRegistry(testConfig())
	tracked, _ := r.Update([]vehicle.Detection{det(100, 100)})
	track, _ := r.Get(tracked[0].Id)
	if track.Stage() != StageTentative {
		t.Fatalf("New track stage %s, want tentative", track.Stage())
	}
	r.Update([]vehicle.Detection{det(101, 100)})
	r.Update([]vehicle.Detection{det(102, 100)})
	if track.Stage() != StageConfirmed {
		t.Fatalf("Stage %s after 3 hits, want confirmed", track.Stage())
	}
}

func TestClassRefresh(t *testing.T) {
	r := NewRegistry(testConfig())
	d := det(100, 100)
	tracked, _ := r.Update([]vehicle.Detection{d})
	d.Class = vehicle.ClassTruck
	d.Box = d.Box.Add(image.Pt(5, 0))
	r.Update([]vehicle.Detection{d})
	track, _ := r.Get(tracked[0].Id)
	if track.Class() != vehicle.ClassTruck {
		t.Fatalf("Class %s not refreshed", track.Class())
	}
}

func TestEmptyFrame(t *testing.T) {
	r := NewRegistry(testConfig())
	tracked, retired := r.Update(nil)
	if len(tracked) != 0 || len(retired) != 0 {
		t.Fatal("Empty frame produced output")
	}
}
