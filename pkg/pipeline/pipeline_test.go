package pipeline

import (
	"image"
	"math"
	"testing"

	"github.com/Robogera/roadwatch/pkg/config"
	"github.com/Robogera/roadwatch/pkg/vehicle"
)

func testPipeline(line_y int) *Pipeline {
	cfg := config.Default()
	cfg.Counter.LineY = line_y
	cfg.Lanes.Enabled = false
	return NewPipeline(cfg)
}

func det(x, y int) vehicle.Detection {
	return vehicle.Detection{
		Box:        image.Rect(x-10, y-10, x+10, y+10),
		Class:      vehicle.ClassCar,
		Confidence: 0.9,
	}
}

func TestCountingScenario(t *testing.T) {
	p := testPipeline(90)
	frames := [][]vehicle.Detection{
		{det(100, 50)},
		{det(100, 55)},
		{det(100, 95)},
	}
	for i, frame := range frames {
		result := p.Process(nil, frame)
		switch i {
		case 2:
			if len(result.Crossings) != 1 {
				t.Fatalf("Frame %d: %d crossings, want 1", i, len(result.Crossings))
			}
			if result.Counts[vehicle.ClassCar] != 1 {
				t.Fatalf("Frame %d: car count %d, want 1", i, result.Counts[vehicle.ClassCar])
			}
		default:
			if len(result.Crossings) != 0 || result.Counts[vehicle.ClassCar] != 0 {
				t.Fatalf("Frame %d counted early", i)
			}
		}
	}
	if p.Frames() != 3 {
		t.Fatalf("Frames %d, want 3", p.Frames())
	}
}

func TestReplayIdempotence(t *testing.T) {
	p := testPipeline(0)
	frame := []vehicle.Detection{det(100, 100), det(400, 100)}
	first := p.Process(nil, frame)
	second := p.Process(nil, frame)
	for i := range frame {
		if first.Tracked[i].Id != second.Tracked[i].Id {
			t.Fatalf("Replay changed id %d -> %d", first.Tracked[i].Id, second.Tracked[i].Id)
		}
	}
}

func TestQueries(t *testing.T) {
	p := testPipeline(0)
	result := p.Process(nil, []vehicle.Detection{det(0, 0)})
	id := result.Tracked[0].Id

	if _, ok := p.Speed(id); ok {
		t.Fatal("Speed available with a single history point")
	}
	p.Process(nil, []vehicle.Detection{det(30, 40)})
	v, ok := p.Speed(id)
	if !ok {
		t.Fatal("Speed unavailable")
	}
	if math.Abs(v-750) > 1e-9 {
		t.Fatalf("Speed %f, want 750", v)
	}

	points := p.History(id)
	if len(points) != 2 {
		t.Fatalf("History length %d, want 2", len(points))
	}
	if points[0] != image.Pt(30, 40) {
		t.Fatalf("Newest point %v, want (30,40)", points[0])
	}

	if p.History(999) != nil {
		t.Fatal("Unknown id returned a history")
	}
	if _, ok := p.Speed(999); ok {
		t.Fatal("Unknown id returned a speed")
	}
}

func TestEmptyFrames(t *testing.T) {
	p := testPipeline(90)
	result := p.Process(nil, nil)
	if len(result.Tracked) != 0 || len(result.Crossings) != 0 {
		t.Fatal("Empty frame produced tracking output")
	}
	// a track that disappears is retired and its counted flag released
	r := p.Process(nil, []vehicle.Detection{det(100, 85)})
	id := r.Tracked[0].Id
	p.Process(nil, nil)
	if _, ok := p.Speed(id); ok {
		t.Fatal("Retired track still queryable")
	}
}

func TestLateLine(t *testing.T) {
	p := testPipeline(0)
	p.Process(nil, []vehicle.Detection{det(100, 85)})
	result := p.Process(nil, []vehicle.Detection{det(100, 95)})
	if len(result.Crossings) != 0 {
		t.Fatal("Counted without a configured line")
	}
	p.SetCountingLine(90)
	if _, enabled := p.CountingLine(); !enabled {
		t.Fatal("Line not enabled")
	}
	result = p.Process(nil, []vehicle.Detection{det(100, 89)})
	result = p.Process(nil, []vehicle.Detection{det(100, 95)})
	if len(result.Crossings) != 1 {
		t.Fatalf("%d crossings after enabling the line, want 1", len(result.Crossings))
	}
}
