package geom

import (
	"image"
	"math"
)

func Center(r image.Rectangle) image.Point {
	return image.Pt(
		(r.Max.X+r.Min.X)/2,
		(r.Max.Y+r.Min.Y)/2,
	)
}

func Dist(a, b image.Point) float64 {
	return math.Sqrt(
		math.Pow(float64(a.X-b.X), 2) +
			math.Pow(float64(a.Y-b.Y), 2))
}

// Downward crossing only (y grows towards the bottom of the frame).
// Strictly above the line before, at or below it after.
func CrossedDown(prev_y, curr_y, line_y int) bool {
	return prev_y < line_y && curr_y >= line_y
}
