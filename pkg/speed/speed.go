package speed

import (
	"image"

	"github.com/Robogera/roadwatch/pkg/geom"
	"github.com/Robogera/roadwatch/pkg/gring"
)

// Estimate returns the average speed in pixels/second over the
// retained history window: displacement between the oldest and the
// newest centroid divided by the window's time span. The window is
// bounded, so for long-lived tracks this is a moving average, not a
// cumulative one. Unavailable (false) below two points.
func Estimate(history *gring.Ring[image.Point], fps float64) (float64, bool) {
	if history == nil || history.Size() < 2 || fps <= 0 {
		return 0, false
	}
	displacement := geom.Dist(history.Oldest(), history.Newest())
	elapsed := float64(history.Size()) / fps
	return displacement / elapsed, true
}
