package main

import (
	// stdlib
	"context"
	"image"
	"log/slog"
	"runtime"
	"time"

	// internal
	"github.com/Robogera/roadwatch/pkg/config"
	gocvcommon "github.com/Robogera/roadwatch/pkg/gocv-common"
	"github.com/Robogera/roadwatch/pkg/indexed"
	"github.com/Robogera/roadwatch/pkg/rpath"
	"github.com/Robogera/roadwatch/pkg/vehicle"
	"github.com/Robogera/roadwatch/pkg/yolo"

	// external
	"gocv.io/x/gocv"
)

// Frame annotated by the detector worker pool, not yet sequenced
type ProcessedFrame struct {
	Mat        *gocv.Mat
	Detections []vehicle.Detection
}

func detector(
	ctx context.Context,
	parent_logger *slog.Logger,
	cfg *config.ConfigFile,
	worker uint,
	in_chan <-chan indexed.Indexed[gocv.Mat],
	out_chan chan<- indexed.Indexed[ProcessedFrame],
) error {

	// not sure if this helps
	runtime.LockOSThread()

	logger := parent_logger.With("coroutine", "detector", "worker", worker)

	var net gocv.Net
	model_path := rpath.Convert(exe_dir, cfg.Model.Path)

	// TODO: panic and recover when the CGO segfaults maybe?
	switch config.ModelFormat(cfg.Model.Format) {
	case config.ModelFormatCaffe:
		net = gocv.ReadNetFromCaffe(rpath.Convert(exe_dir, cfg.Model.ConfigPath), model_path)
	case config.ModelFormatONNX:
		net = gocv.ReadNetFromONNX(model_path)
	case config.ModelFormatOpenVINO:
		net = gocv.ReadNet(model_path, rpath.Convert(exe_dir, cfg.Model.ConfigPath))
	default:
		logger.Error(
			"No valid model format provided. Shutting down...",
			"provided value", cfg.Model.Format)
		return ERR_INVALID_CONFIG
	}

	if net.Empty() {
		logger.Error("Error reading network model", "model", cfg.Model.Path)
		return ERR_BAD_MODEL
	}
	defer net.Close()

	output_layer_names := gocvcommon.GetOutputLayerNames(&net)
	if len(output_layer_names) == 0 {
		logger.Error("Can't read output layer name", "model", cfg.Model.Path)
		return ERR_BAD_MODEL
	}
	logger.Debug("Model info", "model", cfg.Model.Path, "output layers", output_layer_names)

	blob_conv_params := gocv.NewImageToBlobParams(
		1.0/255.0,
		image.Pt(int(cfg.Model.X), int(cfg.Model.Y)),
		gocv.NewScalar(0, 0, 0, 0),
		true,
		gocv.MatTypeCV32F,
		gocv.DataLayoutNCHW,
		gocv.PaddingModeLetterbox,
		gocv.NewScalar(0, 0, 0, 0),
	)

	logger.Info("Started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cancelled by context")
			return context.Canceled
		case frame := <-in_chan:
			img := frame.Value()
			inference_start := time.Now()
			detections, err := yolo.Detect(
				&net, &img, &cfg.Model, output_layer_names, &blob_conv_params)
			if err != nil {
				logger.Error("Detection failed, dropping the frame", "error", err)
				img.Close()
				continue
			}
			logger.Debug(
				"Frame processed",
				"id", frame.Id(),
				"detections", len(detections),
				"inference time", time.Since(inference_start))

			select {
			case <-ctx.Done():
				logger.Info("Cancelled by context")
				img.Close()
				return context.Canceled
			case out_chan <- indexed.NewIndexed(
				frame.Id(), frame.Time(),
				ProcessedFrame{Mat: &img, Detections: detections}):
			}
		}
	}
}
