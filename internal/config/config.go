// Package config loads the posetrack YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gympigeons/posetrack/internal/capture"
	"github.com/gympigeons/posetrack/internal/detector"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Camera   CameraConfig   `yaml:"camera"`
	Detector DetectorConfig `yaml:"detector"`
	Tracker  TrackerConfig  `yaml:"tracker"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// CameraConfig selects the frame source.
type CameraConfig struct {
	// Source is a device number ("0") or a video file path.
	Source string `yaml:"source" validate:"required"`
	Width  int    `yaml:"width" validate:"gte=0"`
	Height int    `yaml:"height" validate:"gte=0"`
	FPS    int    `yaml:"fps" validate:"gte=0"`
}

// DetectorConfig configures the pose landmarker service.
type DetectorConfig struct {
	ModelPath                  string        `yaml:"model_path" validate:"required"`
	ScriptPath                 string        `yaml:"script_path"`
	PythonPath                 string        `yaml:"python_path"`
	NumPoses                   int           `yaml:"num_poses" validate:"gte=1"`
	MinPoseDetectionConfidence float64       `yaml:"min_pose_detection_confidence" validate:"gte=0,lte=1"`
	MinPosePresenceConfidence  float64       `yaml:"min_pose_presence_confidence" validate:"gte=0,lte=1"`
	MinTrackingConfidence      float64       `yaml:"min_tracking_confidence" validate:"gte=0,lte=1"`
	IdleTimeout                time.Duration `yaml:"idle_timeout" validate:"gte=0"`
}

// TrackerConfig configures the frame loop.
type TrackerConfig struct {
	// Side is "right", "left" or "both".
	Side          string  `yaml:"side" validate:"oneof=right left both"`
	Normalize     bool    `yaml:"normalize"`
	MinVisibility float64 `yaml:"min_visibility" validate:"gte=0,lte=1"`
	WindowTitle   string  `yaml:"window_title"`
	QuitKey       string  `yaml:"quit_key" validate:"len=1"`
	Headless      bool    `yaml:"headless"`
	DrawAngles    bool    `yaml:"draw_angles"`
	PrintAngles   bool    `yaml:"print_angles"`
}

// ServerConfig configures the optional HTTP server.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr" validate:"required_if=Enabled true"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
	// File enables a rotating log file in addition to stderr.
	File string `yaml:"file"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	dc := detector.DefaultConfig()

	return Config{
		Camera: CameraConfig{
			Source: "0",
			Width:  capture.DefaultWidth,
			Height: capture.DefaultHeight,
			FPS:    capture.DefaultFPS,
		},
		Detector: DetectorConfig{
			ModelPath:                  dc.ModelPath,
			NumPoses:                   dc.NumPoses,
			MinPoseDetectionConfidence: dc.MinPoseDetectionConfidence,
			MinPosePresenceConfidence:  dc.MinPosePresenceConfidence,
			MinTrackingConfidence:      dc.MinTrackingConfidence,
			IdleTimeout:                dc.IdleTimeout,
		},
		Tracker: TrackerConfig{
			Side:          "both",
			MinVisibility: 0.5,
			WindowTitle:   "Pose Detection",
			QuitKey:       "q",
			DrawAngles:    true,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:       "info",
			Development: true,
		},
	}
}

// Load reads the YAML file at path on top of the defaults and validates the
// result. An empty path returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ToDetector converts to the detector package configuration.
func (d DetectorConfig) ToDetector() detector.Config {
	return detector.Config{
		ModelPath:                  d.ModelPath,
		ScriptPath:                 d.ScriptPath,
		PythonPath:                 d.PythonPath,
		NumPoses:                   d.NumPoses,
		MinPoseDetectionConfidence: d.MinPoseDetectionConfidence,
		MinPosePresenceConfidence:  d.MinPosePresenceConfidence,
		MinTrackingConfidence:      d.MinTrackingConfidence,
		IdleTimeout:                d.IdleTimeout,
	}
}

// Options converts to capture options.
func (c CameraConfig) Options() capture.Options {
	return capture.Options{Width: c.Width, Height: c.Height, FPS: c.FPS}
}
