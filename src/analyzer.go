package main

import (
	// stdlib
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"

	// internal
	"github.com/Robogera/roadwatch/pkg/config"
	"github.com/Robogera/roadwatch/pkg/indexed"
	"github.com/Robogera/roadwatch/pkg/pipeline"
	"github.com/Robogera/roadwatch/pkg/registry"
	"github.com/Robogera/roadwatch/pkg/seq"
	"github.com/Robogera/roadwatch/pkg/synapse"
	"github.com/Robogera/roadwatch/pkg/vehicle"

	// external
	"gocv.io/x/gocv"
)

// Drives the per-frame pipeline (association, counting, lanes) over
// the sequenced frames and draws the overlays for the webplayer
func analyzer(
	ctx context.Context,
	parent_logger *slog.Logger,
	cfg *config.ConfigFile,
	in_chan <-chan indexed.Indexed[ProcessedFrame],
	out_chan chan<- indexed.Indexed[*gocv.Mat],
	snapshot_chan chan<- *synapse.Message,
	stat_chan chan<- Statistics,
) error {

	logger := parent_logger.With("coroutine", "analyzer")

	pl := pipeline.NewPipeline(cfg)

	snapshot_period := time.Duration(max(cfg.Mqtt.PeriodSec, 1)) * time.Second
	last_snapshot := time.Now()

	logger.Info(
		"Started",
		"counting line", cfg.Counter.LineY,
		"gate (px)", cfg.Tracker.GatePx,
		"association", cfg.Tracker.Method)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cancelled by context")
			return context.Canceled
		case frame := <-in_chan:
			frame_start := time.Now()
			result := pl.Process(frame.Value().Mat, frame.Value().Detections)

			for _, id := range result.Crossings {
				logger.Info("Vehicle counted", "id", id, "total", pl.Total())
			}

			drawOverlays(frame.Value().Mat, pl, result)

			select {
			case stat_chan <- Statistics{frame_time: time.Since(frame_start)}:
			default:
			}

			if cfg.Mqtt.Enabled && time.Since(last_snapshot) > snapshot_period {
				select {
				case snapshot_chan <- snapshot(pl, result):
					last_snapshot = time.Now()
				default:
					logger.Warn("Snapshot channel full. Dropping the snapshot...")
				}
			}

			select {
			case <-ctx.Done():
				logger.Info("Cancelled by context")
				frame.Value().Mat.Close()
				return context.Canceled
			case out_chan <- indexed.NewIndexed(frame.Id(), frame.Time(), frame.Value().Mat):
			}
		}
	}
}

func drawOverlays(m *gocv.Mat, pl *pipeline.Pipeline, result *pipeline.Result) {
	for _, segment := range result.Segments {
		segment.Draw(m, color.RGBA{255, 0, 0, 255}, 2)
	}

	if line_y, enabled := pl.CountingLine(); enabled {
		gocv.Line(m,
			image.Pt(0, line_y), image.Pt(m.Cols(), line_y),
			color.RGBA{0, 255, 255, 255}, 2)
	}

	for _, track := range pl.Tracks() {
		track.DrawTrajectory(m, 2)
		track.DrawBox(m, 2)
		label := fmt.Sprintf("%s #%d: %.2f", track.Class(), track.Id(), track.Confidence())
		gocv.PutText(m, label,
			track.Position().Add(image.Pt(0, -10)),
			gocv.FontHersheyPlain, 1.2, track.Class().Color(), 2)
	}

	y_offset := 30
	for _, class := range vehicle.Classes() {
		gocv.PutText(m,
			fmt.Sprintf("%s: %d", class, result.Counts[class]),
			image.Pt(10, y_offset),
			gocv.FontHersheySimplex, 0.7, color.RGBA{255, 255, 255, 255}, 2)
		y_offset += 25
	}
	gocv.PutText(m,
		fmt.Sprintf("total: %d", pl.Total()),
		image.Pt(10, y_offset),
		gocv.FontHersheySimplex, 0.8, color.RGBA{0, 255, 255, 255}, 2)
}

func snapshot(pl *pipeline.Pipeline, result *pipeline.Result) *synapse.Message {
	exported := seq.SMap(pl.Tracks(), func(track *registry.Track, _ int) *registry.ExportedTrack {
		track_speed, _ := pl.Speed(track.Id())
		return track.Export(track_speed)
	})
	counts := make(map[string]uint64, len(result.Counts))
	for class, count := range result.Counts {
		counts[string(class)] = count
	}
	return &synapse.Message{
		Frame:  pl.Frames(),
		Counts: counts,
		Total:  pl.Total(),
		Tracks: exported,
		Lanes:  result.Segments,
	}
}
