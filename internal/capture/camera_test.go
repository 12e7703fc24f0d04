package capture

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestNewSource(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		opts       Options
		wantSource any
		wantFPS    int
	}{
		{
			name:       "numeric source is a device",
			source:     "1",
			opts:       DefaultOptions(),
			wantSource: 1,
			wantFPS:    DefaultFPS,
		},
		{
			name:       "path source is a file",
			source:     "clips/squat.mp4",
			opts:       Options{FPS: 24},
			wantSource: "clips/squat.mp4",
			wantFPS:    24,
		},
		{
			name:       "stream url is not a device",
			source:     "rtsp://10.0.0.5/gym",
			opts:       DefaultOptions(),
			wantSource: "rtsp://10.0.0.5/gym",
			wantFPS:    DefaultFPS,
		},
		{
			name:       "zero fps falls back to default",
			source:     "0",
			opts:       Options{Width: 1280, Height: 720},
			wantSource: 0,
			wantFPS:    DefaultFPS,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewSource(tt.source, tt.opts)

			impl, ok := cam.(*cameraImpl)
			if !ok {
				t.Fatalf("NewSource returned %T", cam)
			}
			if impl.source != tt.wantSource {
				t.Errorf("source = %v (%T), want %v (%T)", impl.source, impl.source, tt.wantSource, tt.wantSource)
			}
			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
			if cam.IsOpen() {
				t.Error("source should not be open initially")
			}
		})
	}
}

func TestSource_SetFPSIgnoresNonPositive(t *testing.T) {
	cam := NewSource("0", Options{FPS: 15})

	for _, fps := range []int{0, -5} {
		cam.SetFPS(fps)
		if got := cam.FPS(); got != 15 {
			t.Errorf("SetFPS(%d): FPS() = %d, want 15", fps, got)
		}
	}

	cam.SetFPS(60)
	if got := cam.FPS(); got != 60 {
		t.Errorf("FPS() = %d, want 60", got)
	}
}

func TestSource_NotOpened(t *testing.T) {
	cam := NewSource("0", DefaultOptions())

	// The tracker treats ErrCameraNotOpen as fatal, not as end of stream
	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
	if errors.Is(err, ErrEndOfStream) {
		t.Error("an unopened source must not report end of stream")
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on unopened source = %v, want nil", err)
	}
}

func TestSource_OpenMissingFile(t *testing.T) {
	cam := NewSource(filepath.Join(t.TempDir(), "missing.mp4"), DefaultOptions())

	if err := cam.Open(); err == nil {
		cam.Close()
		t.Fatal("Open() should fail for a missing video file")
	}

	if cam.IsOpen() {
		t.Error("IsOpen() should be false after failed Open()")
	}
}

func TestSource_Device_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewSource("0", DefaultOptions())
	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	mat, err := cam.ReadFrame()
	if errors.Is(err, ErrEndOfStream) {
		t.Skip("skipping test - camera delivered no frame")
	}
	if err != nil {
		t.Fatalf("ReadFrame() failed: %v", err)
	}
	if mat.Empty() {
		t.Error("ReadFrame() returned empty mat")
	}
	mat.Close()

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() after Close() = %v, want ErrCameraNotOpen", err)
	}
}
