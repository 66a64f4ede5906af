package registry

import (
	"image"
	"image/color"
	"iter"

	"github.com/Robogera/roadwatch/pkg/gring"
	"github.com/Robogera/roadwatch/pkg/vehicle"

	"gocv.io/x/gocv"
)

type Stage int

const (
	StageTentative Stage = iota
	StageConfirmed
	StageLost
	StageRetired
)

func (s Stage) String() string {
	switch s {
	case StageTentative:
		return "tentative"
	case StageConfirmed:
		return "confirmed"
	case StageLost:
		return "lost"
	case StageRetired:
		return "retired"
	default:
		return "invalid"
	}
}

// A persistent identity linking detections of the same vehicle
// across frames. Owned by the registry.
type Track struct {
	id           uint64
	class        vehicle.Class
	confidence   float32
	color        color.RGBA
	history      *gring.Ring[image.Point]
	stage        Stage
	hits, misses uint
	last_box     image.Rectangle
}

func NewTrack(id uint64, det vehicle.Detection, history_cap int, c color.RGBA) *Track {
	history := gring.NewRing[image.Point](history_cap)
	history.Push(det.Center())
	return &Track{
		id:         id,
		class:      det.Class,
		confidence: det.Confidence,
		color:      c,
		history:    history,
		stage:      StageTentative,
		hits:       1,
	}
}

func (t *Track) Id() uint64                      { return t.id }
func (t *Track) Class() vehicle.Class            { return t.class }
func (t *Track) Confidence() float32             { return t.confidence }
func (t *Track) Color() color.RGBA               { return t.color }
func (t *Track) Stage() Stage                    { return t.stage }
func (t *Track) Position() image.Point           { return t.history.Newest() }
func (t *Track) History() *gring.Ring[image.Point] { return t.history }
func (t *Track) Trajectory() iter.Seq[image.Point] { return t.history.All() }

func (t *Track) update(det vehicle.Detection, confirm_hits uint) {
	t.hits++
	t.misses = 0
	t.class = det.Class
	t.confidence = det.Confidence
	t.last_box = det.Box
	t.history.Push(det.Center())
	if t.hits >= confirm_hits {
		t.stage = StageConfirmed
	} else {
		t.stage = StageTentative
	}
}

// Returns true once the track exceeded the miss tolerance and
// must be retired. Tolerance 0 retires on the first miss.
func (t *Track) miss(tolerance uint) bool {
	t.misses++
	t.last_box = image.Rect(0, 0, 0, 0)
	if t.misses > tolerance {
		t.stage = StageRetired
		return true
	}
	t.stage = StageLost
	return false
}

func (t *Track) DrawBox(m *gocv.Mat, w int) {
	if !t.last_box.Empty() {
		gocv.Rectangle(m, t.last_box, t.class.Color(), w)
	}
}

func (t *Track) DrawTrajectory(m *gocv.Mat, w int) {
	prev_point := t.Position()
	for point := range t.Trajectory() {
		if (image.Point{}) != prev_point {
			gocv.Line(m, prev_point, point, t.color, w)
		}
		prev_point = point
	}
}

type ExportedTrack struct {
	Id         uint64  `json:"id"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Class      string  `json:"class"`
	Stage      string  `json:"stage"`
	SpeedPxSec float64 `json:"speed_px_sec"`
}

func (t *Track) Export(speed float64) *ExportedTrack {
	return &ExportedTrack{
		Id:         t.id,
		X:          t.Position().X,
		Y:          t.Position().Y,
		Class:      string(t.class),
		Stage:      t.stage.String(),
		SpeedPxSec: speed,
	}
}
