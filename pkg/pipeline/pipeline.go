package pipeline

import (
	"image"

	"github.com/Robogera/roadwatch/pkg/config"
	"github.com/Robogera/roadwatch/pkg/counter"
	"github.com/Robogera/roadwatch/pkg/lanes"
	"github.com/Robogera/roadwatch/pkg/registry"
	"github.com/Robogera/roadwatch/pkg/speed"
	"github.com/Robogera/roadwatch/pkg/vehicle"

	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"
)

// The capability the pipeline consumes: somebody else turns a frame
// into detections, we don't care how
type Detector interface {
	Detect(img *gocv.Mat) ([]vehicle.Detection, error)
}

// Everything one frame produced
type Result struct {
	Tracked   []vehicle.Tracked
	Counts    map[vehicle.Class]uint64
	Segments  []lanes.Segment
	Crossings []uint64
}

// Pipeline sequences association, counting and lane extraction for
// one camera feed. Frame-at-a-time: association for frame N depends
// on the registry state left by frame N-1, so frames must arrive in
// order and one at a time. The lane branch is stateless and runs
// concurrently with the tracking branch inside a single Process call.
type Pipeline struct {
	registry *registry.Registry
	counter  *counter.Counter
	lanes    *lanes.Detector
	fps      float64
	frames   uint64
}

func NewPipeline(cfg *config.ConfigFile) *Pipeline {
	p := &Pipeline{
		registry: registry.NewRegistry(&cfg.Tracker),
		counter:  counter.NewCounter(cfg.Counter.LineY),
		fps:      cfg.Speed.FPS,
	}
	if cfg.Lanes.Enabled {
		p.lanes = lanes.NewDetector(&cfg.Lanes)
	}
	return p
}

// Process runs one frame through the pipeline. The detections come
// from the external detector (already filtered by confidence there);
// img is only read by the lane branch and may be nil when no raster
// is available. An empty detection list is a normal frame, not an
// error.
func (p *Pipeline) Process(img *gocv.Mat, detections []vehicle.Detection) *Result {
	result := new(Result)

	eg := new(errgroup.Group)
	if p.lanes != nil && img != nil {
		eg.Go(func() error {
			result.Segments = p.lanes.Detect(img)
			return nil
		})
	}

	tracked, retired := p.registry.Update(detections)
	p.counter.Forget(retired...)
	result.Tracked = tracked
	for _, t := range tracked {
		track, ok := p.registry.Get(t.Id)
		if !ok {
			continue
		}
		if p.counter.Register(t.Id, t.Class, track.History()) {
			result.Crossings = append(result.Crossings, t.Id)
		}
	}
	result.Counts = p.counter.Snapshot()

	eg.Wait()
	p.frames++
	return result
}

// Query surface

func (p *Pipeline) History(id uint64) []image.Point {
	track, ok := p.registry.Get(id)
	if !ok {
		return nil
	}
	points := make([]image.Point, 0, track.History().Size())
	for point := range track.Trajectory() {
		points = append(points, point)
	}
	return points
}

func (p *Pipeline) Speed(id uint64) (float64, bool) {
	track, ok := p.registry.Get(id)
	if !ok {
		return 0, false
	}
	return speed.Estimate(track.History(), p.fps)
}

func (p *Pipeline) Counts() map[vehicle.Class]uint64 {
	return p.counter.Snapshot()
}

func (p *Pipeline) Total() uint64 {
	return p.counter.Total()
}

func (p *Pipeline) Tracks() []*registry.Track {
	return p.registry.Tracks()
}

func (p *Pipeline) SetCountingLine(y int) {
	p.counter.SetLine(y)
}

func (p *Pipeline) CountingLine() (int, bool) {
	return p.counter.LineY(), p.counter.Enabled()
}

func (p *Pipeline) Frames() uint64 {
	return p.frames
}
