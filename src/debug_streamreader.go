package main

import (
	// stdlib
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	// internal
	"github.com/Robogera/roadwatch/pkg/config"
	"github.com/Robogera/roadwatch/pkg/indexed"
	"github.com/Robogera/roadwatch/pkg/rpath"

	// external
	"gocv.io/x/gocv"
)

// Loops a folder of stills as a frame source, handy for feeding the
// pipeline reproducible frames without a video file
func debug_streamreader(
	ctx context.Context,
	parent_logger *slog.Logger,
	cfg *config.ConfigFile,
	mat_chan chan<- indexed.Indexed[gocv.Mat],
) error {

	logger := parent_logger.With("coroutine", "debug_streamreader")

	folder := rpath.Convert(exe_dir, cfg.Input.Path)

	dir, err := os.Open(folder)
	if err != nil {
		logger.Error("Can't open debug folder", "path", folder, "error", err)
		return ERR_BAD_INPUT
	}

	files, err := dir.Readdir(-1)
	if err != nil {
		logger.Error("Can't read debug folder", "path", folder, "error", err)
		return ERR_BAD_INPUT
	}

	names := make([]string, 0)
	for _, f := range files {
		switch strings.ToLower(filepath.Ext(f.Name())) {
		case ".jpg", ".jpeg", ".png":
			names = append(names, filepath.Join(folder, f.Name()))
		}
	}

	if len(names) == 0 {
		logger.Error("No images in the debug folder", "path", folder)
		return ERR_BAD_INPUT
	}

	slices.Sort(names)

	logger.Info("Debug mode", "images", names)

	var frame_id uint64 = 0

	counter := 0

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cancelled by context")
			return context.Canceled
		default:
			img := gocv.IMRead(names[counter], gocv.IMReadColor)
			counter++
			if counter >= len(names) {
				counter = 0
			}

			if img.Empty() {
				logger.Error("Empty frame received, skipping", "stream", cfg.Input.Path)
				img.Close()
				continue
			}

			select {
			case <-ctx.Done():
				logger.Info("Cancelled by context")
				img.Close()
				return context.Canceled
			case mat_chan <- indexed.NewIndexed(frame_id, time.Now(), img):
				frame_id++
			}
		}
	}
}
