// Package detector runs pose estimation on video frames.
package detector

import (
	"time"

	"github.com/gympigeons/posetrack/internal/pose"
	"gocv.io/x/gocv"
)

// Detector defines the interface for pose detection implementations.
type Detector interface {
	// Detect analyzes a video frame taken at timestampMs and returns the
	// detected poses. An empty Detection means nobody is in frame.
	Detect(frame *gocv.Mat, timestampMs int64) (pose.Detection, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for pose detection.
type Config struct {
	// ModelPath is the pose landmarker model bundle (.task file).
	ModelPath string

	// ScriptPath is the pose service script. Empty means search the usual locations.
	ScriptPath string

	// PythonPath is the interpreter. Empty means a local venv or python3.
	PythonPath string

	// NumPoses is the maximum number of poses to detect (default: 1).
	NumPoses int

	// MinPoseDetectionConfidence is the minimum detection confidence (0.0-1.0).
	MinPoseDetectionConfidence float64

	// MinPosePresenceConfidence is the minimum pose presence confidence (0.0-1.0).
	MinPosePresenceConfidence float64

	// MinTrackingConfidence is the minimum tracking confidence (0.0-1.0).
	MinTrackingConfidence float64

	// IdleTimeout stops the service after this long without frames.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		ModelPath:                  "pose_landmarker_full.task",
		NumPoses:                   1,
		MinPoseDetectionConfidence: 0.6,
		MinPosePresenceConfidence:  0.6,
		MinTrackingConfidence:      0.5,
		IdleTimeout:                30 * time.Second,
	}
}
