package lanes

import (
	"image"
	"image/color"
	"math"

	"github.com/Robogera/roadwatch/pkg/config"

	"gocv.io/x/gocv"
)

// Candidate lane marking, fresh every frame
type Segment struct {
	P1 image.Point `json:"p1"`
	P2 image.Point `json:"p2"`
}

func (s Segment) YDelta() int {
	d := s.P2.Y - s.P1.Y
	if d < 0 {
		return -d
	}
	return d
}

func (s Segment) Draw(m *gocv.Mat, c color.RGBA, w int) {
	gocv.Line(m, s.P1, s.P2, c, w)
}

// Stateless per-frame lane marking extractor: blur, Canny edges,
// triangular bottom-center region of interest, probabilistic Hough,
// then keep only the near-horizontal segments paint usually makes
// in a forward-facing view.
type Detector struct {
	blur_size       int
	canny_low       float32
	canny_high      float32
	hough_threshold int
	min_length      float32
	max_gap         float32
	max_y_delta     int
}

func NewDetector(cfg *config.LanesConfig) *Detector {
	return &Detector{
		blur_size:       cfg.BlurSize,
		canny_low:       cfg.CannyLow,
		canny_high:      cfg.CannyHigh,
		hough_threshold: cfg.HoughThreshold,
		min_length:      cfg.MinLength,
		max_gap:         cfg.MaxGap,
		max_y_delta:     cfg.MaxYDelta,
	}
}

func (d *Detector) Detect(img *gocv.Mat) []Segment {
	if img == nil || img.Empty() {
		return nil
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if img.Channels() > 1 {
		gocv.CvtColor(*img, &gray, gocv.ColorBGRToGray)
	} else {
		img.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(d.blur_size, d.blur_size), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, d.canny_low, d.canny_high)

	height, width := edges.Rows(), edges.Cols()
	mask := gocv.Zeros(height, width, gocv.MatTypeCV8UC1)
	defer mask.Close()
	roi := gocv.NewPointsVectorFromPoints([][]image.Point{{
		image.Pt(0, height),
		image.Pt(width/2, height/2),
		image.Pt(width, height),
	}})
	defer roi.Close()
	gocv.FillPoly(&mask, roi, color.RGBA{255, 255, 255, 255})

	masked := gocv.NewMat()
	defer masked.Close()
	gocv.BitwiseAnd(edges, mask, &masked)

	lines := gocv.NewMat()
	defer lines.Close()
	gocv.HoughLinesPWithParams(
		masked, &lines,
		1, math.Pi/180,
		d.hough_threshold, d.min_length, d.max_gap)

	var segments []Segment
	for i := 0; i < lines.Rows(); i++ {
		line := lines.GetVeciAt(i, 0)
		segment := Segment{
			P1: image.Pt(int(line[0]), int(line[1])),
			P2: image.Pt(int(line[2]), int(line[3])),
		}
		if segment.YDelta() < d.max_y_delta {
			segments = append(segments, segment)
		}
	}
	return segments
}
