package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/Robogera/roadwatch/pkg/gsma"
)

type Statistics struct {
	frame_time time.Duration
}

func stat(ctx context.Context, logger *slog.Logger, stats <-chan Statistics, stat_period_sec uint) error {
	var frames uint = 0
	var frames_since_last_tick uint = 0
	frame_time_sma, _ := gsma.NewSMA[float64](16)
	ticker := time.NewTicker(time.Second * time.Duration(max(stat_period_sec, 1)))
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stat cancelled by context")
			return context.Canceled
		case s := <-stats:
			frames++
			frames_since_last_tick++
			frame_time_sma.Recalc(s.frame_time.Seconds())
		case <-ticker.C:
			var fps float32 = 0
			if avg_frame_time := frame_time_sma.Show(); avg_frame_time > 0 {
				fps = 1 / avg_frame_time
			}
			logger.Info(
				"Stats",
				"frames processed", frames,
				"frames per second", fps,
				"since last tick", frames_since_last_tick)
			frames_since_last_tick = 0
		}
	}
}
