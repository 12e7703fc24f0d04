package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posetrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "0", cfg.Camera.Source)
	assert.Equal(t, "both", cfg.Tracker.Side)
	assert.Equal(t, "q", cfg.Tracker.QuitKey)
	assert.Equal(t, "Pose Detection", cfg.Tracker.WindowTitle)
	assert.Equal(t, 0.5, cfg.Tracker.MinVisibility)
	assert.Equal(t, 1, cfg.Detector.NumPoses)
	assert.Equal(t, 0.6, cfg.Detector.MinPoseDetectionConfidence)
	assert.Equal(t, 0.6, cfg.Detector.MinPosePresenceConfidence)
	assert.Equal(t, 0.5, cfg.Detector.MinTrackingConfidence)
	assert.False(t, cfg.Server.Enabled)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
camera:
  source: clips/squat.mp4
tracker:
  side: left
  normalize: true
  print_angles: true
detector:
  idle_timeout: 5s
server:
  enabled: true
  addr: ":9090"
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "clips/squat.mp4", cfg.Camera.Source)
	assert.Equal(t, "left", cfg.Tracker.Side)
	assert.True(t, cfg.Tracker.Normalize)
	assert.True(t, cfg.Tracker.PrintAngles)
	assert.Equal(t, 5*time.Second, cfg.Detector.IdleTimeout)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched sections keep their defaults
	assert.Equal(t, "q", cfg.Tracker.QuitKey)
	assert.Equal(t, "pose_landmarker_full.task", cfg.Detector.ModelPath)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown side", body: "tracker:\n  side: middle\n"},
		{name: "quit key too long", body: "tracker:\n  quit_key: quit\n"},
		{name: "confidence above one", body: "detector:\n  min_tracking_confidence: 1.5\n"},
		{name: "no poses", body: "detector:\n  num_poses: 0\n"},
		{name: "server without addr", body: "server:\n  enabled: true\n  addr: \"\"\n"},
		{name: "bad log level", body: "log:\n  level: loud\n"},
		{name: "malformed yaml", body: "tracker: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConversions(t *testing.T) {
	cfg := Default()

	dc := cfg.Detector.ToDetector()
	assert.Equal(t, cfg.Detector.ModelPath, dc.ModelPath)
	assert.Equal(t, cfg.Detector.NumPoses, dc.NumPoses)
	assert.Equal(t, cfg.Detector.IdleTimeout, dc.IdleTimeout)

	opts := cfg.Camera.Options()
	assert.Equal(t, cfg.Camera.Width, opts.Width)
	assert.Equal(t, cfg.Camera.FPS, opts.FPS)
}
