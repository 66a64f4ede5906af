package config

import (
	// stdlib
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Enum types

type ModelFormat string

const (
	ModelFormatONNX     = "onnx"
	ModelFormatOpenVINO = "openvino"
	ModelFormatCaffe    = "caffe"
)

type LoggingLevel string

const (
	LoggingLevelDebug = "debug"
	LoggingLevelInfo  = "info"
	LoggingLevelWarn  = "warn"
	LoggingLevelError = "error"
)

type InputType string

const (
	InputTypeFile   = "file"
	InputTypeWebcam = "webcam"
	InputTypeIPC    = "ipc"
	InputTypeFolder = "folder"
)

type AssocMethod string

const (
	AssocMethodGreedy    = "greedy"
	AssocMethodHungarian = "hungarian"
)

// Config file structure

type ConfigFile struct {
	Model     ModelConfig
	Input     InputConfig
	Tracker   TrackerConfig
	Counter   CounterConfig
	Speed     SpeedConfig
	Lanes     LanesConfig
	Webserver WebserverConfig
	Mqtt      MqttConfig
	Logging   LoggingConfig
}

type ModelConfig struct {
	Format              string
	Path                string
	ConfigPath          string `toml:"config_path"`
	Transpose           bool
	X                   uint
	Y                   uint
	ConfidenceThreshold float32 `toml:"confidence_threshold"`
	NMSThreshold        float32 `toml:"nms_threshold"`
	Workers             uint
	SortingFPS          uint `toml:"sorting_fps"`
}

type InputConfig struct {
	Type string
	Path string
}

type TrackerConfig struct {
	GatePx        float64 `toml:"gate_px"`
	HistoryCap    int     `toml:"history_cap"`
	MissTolerance uint    `toml:"miss_tolerance"`
	ConfirmHits   uint    `toml:"confirm_hits"`
	Method        string
}

type CounterConfig struct {
	// counting is inactive while LineY <= 0
	LineY int `toml:"line_y"`
}

type SpeedConfig struct {
	FPS float64 `toml:"fps"`
}

type LanesConfig struct {
	Enabled        bool
	BlurSize       int     `toml:"blur_size"`
	CannyLow       float32 `toml:"canny_low"`
	CannyHigh      float32 `toml:"canny_high"`
	HoughThreshold int     `toml:"hough_threshold"`
	MinLength      float32 `toml:"min_length"`
	MaxGap         float32 `toml:"max_gap"`
	MaxYDelta      int     `toml:"max_y_delta"`
}

type WebserverConfig struct {
	Port               uint
	ReadTimeoutSec     uint `toml:"read_timeout_sec"`
	WriteTimeoutSec    uint `toml:"write_timeout_sec"`
	ShutdownTimeoutSec uint `toml:"shutdown_timeout_sec"`
	W                  uint
	H                  uint
}

type MqttConfig struct {
	Enabled   bool
	Broker    string
	ClientId  string `toml:"client_id"`
	Username  string
	Password  string
	Topic     string
	PeriodSec uint `toml:"period_sec"`
}

type LoggingConfig struct {
	Level         string
	StatPeriodSec uint `toml:"stat_period_sec"`
}

func Default() *ConfigFile {
	return &ConfigFile{
		Model: ModelConfig{
			Format:              ModelFormatONNX,
			Path:                "../models/yolov8n.onnx",
			Transpose:           true,
			X:                   640,
			Y:                   640,
			ConfidenceThreshold: 0.5,
			NMSThreshold:        0.4,
			Workers:             2,
			SortingFPS:          60,
		},
		Input: InputConfig{
			Type: InputTypeFile,
			Path: "../video/traffic.mp4",
		},
		Tracker: TrackerConfig{
			GatePx:        100,
			HistoryCap:    30,
			MissTolerance: 0,
			ConfirmHits:   3,
			Method:        AssocMethodGreedy,
		},
		Counter: CounterConfig{
			LineY: 0,
		},
		Speed: SpeedConfig{
			FPS: 30,
		},
		Lanes: LanesConfig{
			Enabled:        true,
			BlurSize:       5,
			CannyLow:       50,
			CannyHigh:      150,
			HoughThreshold: 50,
			MinLength:      100,
			MaxGap:         50,
			MaxYDelta:      50,
		},
		Webserver: WebserverConfig{
			Port:               8080,
			ReadTimeoutSec:     10,
			WriteTimeoutSec:    10,
			ShutdownTimeoutSec: 5,
		},
		Mqtt: MqttConfig{
			Enabled:   false,
			Broker:    "127.0.0.1:1883",
			ClientId:  "roadwatch",
			Topic:     "roadwatch/traffic",
			PeriodSec: 1,
		},
		Logging: LoggingConfig{
			Level:         LoggingLevelInfo,
			StatPeriodSec: 10,
		},
	}
}

func Unmarshal(file_path string) (*ConfigFile, error) {
	config_file := new(ConfigFile)
	data, err := os.ReadFile(file_path)
	if err != nil {
		return nil,
			fmt.Errorf("Unable to read %s error: %w", file_path, err)
	}
	err = toml.Unmarshal(data, config_file)
	if err != nil {
		return nil,
			fmt.Errorf("Unable to unmarshal %s error: %w", file_path, err)
	}
	return config_file, nil
}

func CreateDefault(file_path string) error {
	data, err := toml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("Unable to marshal default config error: %w", err)
	}
	err = os.WriteFile(file_path, data, 0644)
	if err != nil {
		return fmt.Errorf("Unable to write %s error: %w", file_path, err)
	}
	return nil
}
