package registry

import (
	"cmp"
	"image/color"
	"math"
	"slices"

	"github.com/Robogera/roadwatch/pkg/config"
	"github.com/Robogera/roadwatch/pkg/functions"
	"github.com/Robogera/roadwatch/pkg/geom"
	"github.com/Robogera/roadwatch/pkg/gmat"
	"github.com/Robogera/roadwatch/pkg/vehicle"

	hung "github.com/arthurkushman/go-hungarian"
	"github.com/muesli/gamut"
	"gonum.org/v1/gonum/mat"
)

// Registry owns every live track: association, id allocation,
// bounded histories and the track lifecycle. One registry per
// camera feed, no shared state between instances.
type Registry struct {
	tracks         map[uint64]*Track
	next_id        uint64
	gate           float64
	history_cap    int
	miss_tolerance uint
	confirm_hits   uint
	method         config.AssocMethod
	next_color     color.Color
}

func NewRegistry(cfg *config.TrackerConfig) *Registry {
	return &Registry{
		tracks:         make(map[uint64]*Track),
		next_id:        1,
		gate:           cfg.GatePx,
		history_cap:    cfg.HistoryCap,
		miss_tolerance: cfg.MissTolerance,
		confirm_hits:   cfg.ConfirmHits,
		method:         config.AssocMethod(cfg.Method),
		next_color:     color.RGBA{255, 0, 0, 255},
	}
}

func (r *Registry) Len() int {
	return len(r.tracks)
}

func (r *Registry) Get(id uint64) (*Track, bool) {
	track, ok := r.tracks[id]
	return track, ok
}

// Live tracks ordered by id so association is deterministic
func (r *Registry) Tracks() []*Track {
	tracks := make([]*Track, 0, len(r.tracks))
	for _, track := range r.tracks {
		tracks = append(tracks, track)
	}
	slices.SortFunc(tracks, func(a, b *Track) int {
		return cmp.Compare(a.id, b.id)
	})
	return tracks
}

// Update associates the frame's detections against the positions the
// live tracks held before this call. Matched tracks get the detection's
// centroid appended and their class refreshed, unmatched detections
// open fresh tracks, unmatched tracks take a miss and are retired once
// they exceed the miss tolerance. Retired ids are returned so callers
// can release any per-id state of their own; the retired track's
// history is dropped here.
func (r *Registry) Update(detections []vehicle.Detection) (tracked []vehicle.Tracked, retired []uint64) {
	tracked = make([]vehicle.Tracked, len(detections))
	live := r.Tracks()

	var det_assign []int
	switch r.method {
	case config.AssocMethodHungarian:
		det_assign = r.assignHungarian(live, detections)
	default:
		det_assign = r.assignGreedy(live, detections)
	}

	track_matched := make([]bool, len(live))
	for det_ind, det := range detections {
		if track_ind := det_assign[det_ind]; track_ind >= 0 {
			track := live[track_ind]
			track.update(det, r.confirm_hits)
			track_matched[track_ind] = true
			tracked[det_ind] = vehicle.Tracked{Detection: det, Id: track.id}
		} else {
			track := r.newTrack(det)
			r.tracks[track.id] = track
			tracked[det_ind] = vehicle.Tracked{Detection: det, Id: track.id}
		}
	}

	for track_ind, track := range live {
		if track_matched[track_ind] {
			continue
		}
		if track.miss(r.miss_tolerance) {
			delete(r.tracks, track.id)
			retired = append(retired, track.id)
		}
	}

	return tracked, retired
}

type edge struct {
	track, det int
	dist       float64
}

// Greedy by ascending distance with removal: every track is matched
// to at most one detection per frame and vice versa
func (r *Registry) assignGreedy(live []*Track, detections []vehicle.Detection) []int {
	det_assign := make([]int, len(detections))
	for i := range det_assign {
		det_assign[i] = -1
	}
	edges := make([]edge, 0, len(live)*len(detections))
	for track_ind, track := range live {
		for det_ind, det := range detections {
			if d := geom.Dist(track.Position(), det.Center()); d < r.gate {
				edges = append(edges, edge{track: track_ind, det: det_ind, dist: d})
			}
		}
	}
	slices.SortFunc(edges, func(a, b edge) int {
		return cmp.Compare(a.dist, b.dist)
	})
	track_taken := make([]bool, len(live))
	for _, e := range edges {
		if det_assign[e.det] < 0 && !track_taken[e.track] {
			det_assign[e.det] = e.track
			track_taken[e.track] = true
		}
	}
	return det_assign
}

// Optimal assignment over a square affinity matrix. Distances decay
// into scores so the solver's padding rows/columns (infinite distance,
// zero score) never steal a real match. The gate still applies.
func (r *Registry) assignHungarian(live []*Track, detections []vehicle.Detection) []int {
	det_assign := make([]int, len(detections))
	for i := range det_assign {
		det_assign[i] = -1
	}
	if len(live) == 0 || len(detections) == 0 {
		return det_assign
	}
	n := max(len(live), len(detections))
	distances := mat.NewDense(n, n, nil)
	for track_ind := range n {
		for det_ind := range n {
			if track_ind < len(live) && det_ind < len(detections) {
				distances.Set(track_ind, det_ind,
					geom.Dist(live[track_ind].Position(), detections[det_ind].Center()))
			} else {
				distances.Set(track_ind, det_ind, math.Inf(1))
			}
		}
	}
	affinities := gmat.NewMatFromDense(distances, func(d float64) float64 {
		return functions.Gaussian(1.0, d, r.gate)
	})
	ass := hung.SolveMax(affinities.To2d())
	for track_ind := range live {
		for det_ind := range ass[track_ind] {
			if det_ind < len(detections) &&
				geom.Dist(live[track_ind].Position(), detections[det_ind].Center()) < r.gate {
				det_assign[det_ind] = track_ind
			}
			break
		}
	}
	return det_assign
}

func (r *Registry) newTrack(det vehicle.Detection) *Track {
	r.next_color = gamut.HueOffset(r.next_color, 153)
	cr, cg, cb, _ := r.next_color.RGBA()
	track := NewTrack(
		r.next_id,
		det,
		r.history_cap,
		color.RGBA{uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8), 255})
	r.next_id++
	return track
}
