package counter

import (
	"image"

	"github.com/Robogera/roadwatch/pkg/geom"
	"github.com/Robogera/roadwatch/pkg/gring"
	"github.com/Robogera/roadwatch/pkg/gset"
	"github.com/Robogera/roadwatch/pkg/vehicle"
)

// Counter keeps per-class totals of tracks that crossed the
// counting line downward. Counters only ever grow; Reset is the
// one explicit way back to zero.
type Counter struct {
	line_y  int
	counts  map[vehicle.Class]uint64
	counted *gset.Set[uint64]
}

// A non-positive line_y leaves counting disabled
func NewCounter(line_y int) *Counter {
	return &Counter{
		line_y:  line_y,
		counts:  make(map[vehicle.Class]uint64),
		counted: new(gset.Set[uint64]),
	}
}

func (c *Counter) Enabled() bool {
	return c.line_y > 0
}

func (c *Counter) LineY() int {
	return c.line_y
}

func (c *Counter) SetLine(y int) {
	c.line_y = y
}

// Register inspects the last two history points of a track and
// increments the class counter on a downward crossing. A track id is
// counted at most once over its lifetime, so calling this every frame
// for a track idling on the line can't inflate the totals. Returns
// whether a crossing was registered.
func (c *Counter) Register(id uint64, class vehicle.Class, history *gring.Ring[image.Point]) bool {
	if !c.Enabled() || history == nil || history.Size() < 2 {
		return false
	}
	prev_y := history.At(1).Y
	curr_y := history.At(0).Y
	if !geom.CrossedDown(prev_y, curr_y, c.line_y) {
		return false
	}
	if c.counted.Contains(id) {
		return false
	}
	c.counted.Add(id)
	c.counts[class]++
	return true
}

// Forget releases the counted flag of a retired id so the
// set stays bounded by the live track count
func (c *Counter) Forget(ids ...uint64) {
	c.counted.Del(ids...)
}

func (c *Counter) Snapshot() map[vehicle.Class]uint64 {
	snapshot := make(map[vehicle.Class]uint64, len(c.counts))
	for class, count := range c.counts {
		snapshot[class] = count
	}
	return snapshot
}

func (c *Counter) Total() uint64 {
	var total uint64
	for _, count := range c.counts {
		total += count
	}
	return total
}

func (c *Counter) Reset() {
	c.counts = make(map[vehicle.Class]uint64)
	c.counted = new(gset.Set[uint64])
}
