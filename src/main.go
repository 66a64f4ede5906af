package main

import (
	// stdlib
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	// internal
	"github.com/Robogera/roadwatch/pkg/config"
	"github.com/Robogera/roadwatch/pkg/indexed"
	"github.com/Robogera/roadwatch/pkg/rpath"
	"github.com/Robogera/roadwatch/pkg/synapse"

	// external
	"github.com/lmittmann/tint"
	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"
)

const (
	default_cfg_path string = "../cfg/config.default.toml"
)

var cfg_path string
var exe_dir string

func init() {
	var err error

	exe_dir, err = rpath.ExecutableDir()
	if err != nil {
		slog.Error("Can't find the executable's location", "error", err)
		return
	}

	flag.StringVar(
		&cfg_path, "config",
		default_cfg_path,
		"Path to config file")
}

func main() {

	// Configuration init

	flag.Parse()

	cfg, err := config.Unmarshal(rpath.Convert(exe_dir, cfg_path))
	if err != nil {
		slog.Error("Config file not loaded. Shutting down...", "provided path", cfg_path, "error", err)
		return
	}

	var log_level slog.Level

	switch config.LoggingLevel(cfg.Logging.Level) {
	case config.LoggingLevelDebug:
		log_level = slog.LevelDebug
	case config.LoggingLevelInfo:
		log_level = slog.LevelInfo
	case config.LoggingLevelWarn:
		log_level = slog.LevelWarn
	case config.LoggingLevelError:
		log_level = slog.LevelError
	default:
		slog.Warn(
			"No valid logging level provided. Defaulting to LevelError",
			"provided value", cfg.Logging.Level)
		log_level = slog.LevelError
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      log_level,
		TimeFormat: time.RFC3339,
		AddSource:  true, // change to false on release version
	}))

	logger.Info("Starting...")

	ctx := context.Background()
	eg, child_ctx := errgroup.WithContext(ctx)

	workers := max(cfg.Model.Workers, 1)

	mat_chan := make(chan indexed.Indexed[gocv.Mat], workers)
	detected_chan := make(chan indexed.Indexed[ProcessedFrame], workers)
	sorted_chan := make(chan indexed.Indexed[ProcessedFrame])
	annotated_chan := make(chan indexed.Indexed[*gocv.Mat])
	snapshot_chan := make(chan *synapse.Message, 1)
	stat_chan := make(chan Statistics, 16)

	switch config.InputType(cfg.Input.Type) {
	case config.InputTypeFolder:
		eg.Go(func() error {
			return debug_streamreader(child_ctx, logger, cfg, mat_chan)
		})
	default:
		eg.Go(func() error {
			return streamreader(child_ctx, logger, cfg, mat_chan)
		})
	}

	for worker := range workers {
		eg.Go(func() error {
			return detector(child_ctx, logger, cfg, worker, mat_chan, detected_chan)
		})
	}

	eg.Go(func() error {
		return sorter(child_ctx, logger, cfg, detected_chan, sorted_chan)
	})

	eg.Go(func() error {
		return analyzer(child_ctx, logger, cfg, sorted_chan, annotated_chan, snapshot_chan, stat_chan)
	})

	eg.Go(func() error {
		return webplayer(child_ctx, logger, cfg, annotated_chan)
	})

	if cfg.Mqtt.Enabled {
		eg.Go(func() error {
			return mqttclient(child_ctx, logger, cfg, snapshot_chan)
		})
	}

	eg.Go(func() error {
		return stat(child_ctx, logger, stat_chan, cfg.Logging.StatPeriodSec)
	})

	eg.Go(func() error {
		return control(child_ctx, logger)
	})

	eg.Wait()

	logger.Info("Stopped")
}

func control(ctx context.Context, logger *slog.Logger) error {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt,
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGINT)

	select {
	case <-ctx.Done():
		logger.Info("Control cancelled by context")
		return context.Canceled
	case <-interrupt:
		logger.Info("Cancelled by user")
		return ERR_INTERRUPTED_BY_USER
	}
}
