package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gympigeons/posetrack/internal/pose"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

const scriptName = "pose_service.py"

var (
	// ErrScriptNotFound is returned when the pose service script cannot be located.
	ErrScriptNotFound = errors.New(scriptName + " not found")

	// ErrService wraps an error the pose service reported for one frame.
	// The service stays usable after it.
	ErrService = errors.New("pose service")
)

// MediaPipeDetector implements Detector using a Python MediaPipe pose
// landmarker subprocess running in video mode.
//
// Wire format per frame, big-endian: uint32 JPEG length, int64 timestamp in
// milliseconds, JPEG bytes. The service answers with one JSON line.
type MediaPipeDetector struct {
	config     Config
	scriptPath string
	log        *zap.Logger
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stdout     *bufio.Reader
	mu         sync.Mutex
	started    bool
	lastTS     int64
	idleTimer  *time.Timer
}

// NewMediaPipeDetector creates a new MediaPipe detector.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config, log *zap.Logger) (*MediaPipeDetector, error) {
	if log == nil {
		log = zap.NewNop()
	}

	scriptPath := config.ScriptPath
	if scriptPath == "" {
		scriptPath = findMediaPipeScript()
	}
	if scriptPath == "" {
		return nil, ErrScriptNotFound
	}
	if _, err := os.Stat(scriptPath); err != nil {
		return nil, fmt.Errorf("pose service script: %w", err)
	}

	return &MediaPipeDetector{
		config:     config,
		scriptPath: scriptPath,
		log:        log.Named("mediapipe"),
		lastTS:     -1,
	}, nil
}

// Detect analyzes a frame and returns the detected poses.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat, timestampMs int64) (pose.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return pose.Detection{}, err
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return pose.Detection{}, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	header := make([]byte, 12)
	binary.BigEndian.PutUint32(header[0:4], uint32(len(data)))
	binary.BigEndian.PutUint64(header[4:12], uint64(d.nextTimestamp(timestampMs)))

	line, err := d.roundTrip(header, data)
	if err != nil {
		return pose.Detection{}, d.abort(err)
	}

	detection, err := ParseResponse(line)
	if errors.Is(err, ErrService) {
		d.resetIdleTimer()
		return pose.Detection{}, err
	}
	if err != nil {
		// A reply we cannot parse leaves the stream misaligned
		return pose.Detection{}, d.abort(err)
	}

	d.resetIdleTimer()

	return detection, nil
}

func (d *MediaPipeDetector) roundTrip(header, data []byte) ([]byte, error) {
	if _, err := d.stdin.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return line, nil
}

// abort kills the service after a failed exchange so the next Detect
// starts a fresh one. It returns err.
func (d *MediaPipeDetector) abort(err error) error {
	d.log.Warn("pose service failed, restarting on next frame", zap.Error(err))

	if d.cmd != nil && d.cmd.Process != nil {
		d.cmd.Process.Kill()
	}
	// Wait reports the kill; only the original error matters
	d.shutdown()

	return err
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

// nextTimestamp keeps timestamps strictly increasing, which video mode requires.
func (d *MediaPipeDetector) nextTimestamp(ts int64) int64 {
	if ts <= d.lastTS {
		ts = d.lastTS + 1
	}
	d.lastTS = ts
	return ts
}

func (d *MediaPipeDetector) args() []string {
	c := d.config
	return []string{
		d.scriptPath,
		"--model", c.ModelPath,
		"--running-mode", "video",
		"--num-poses", strconv.Itoa(c.NumPoses),
		"--min-pose-detection-confidence", strconv.FormatFloat(c.MinPoseDetectionConfidence, 'f', -1, 64),
		"--min-pose-presence-confidence", strconv.FormatFloat(c.MinPosePresenceConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(c.MinTrackingConfidence, 'f', -1, 64),
	}
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	pythonPath := d.config.PythonPath
	if pythonPath == "" {
		pythonPath = findVenvPython()
	}
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, d.args()...)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Service diagnostics go straight to our stderr
	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start pose service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	d.lastTS = -1

	d.log.Info("pose service started",
		zap.String("python", pythonPath),
		zap.String("script", d.scriptPath),
		zap.String("model", d.config.ModelPath),
	)

	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	d.log.Info("pose service stopped")

	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.config.IdleTimeout <= 0 {
		return
	}
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(d.config.IdleTimeout, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if err := d.shutdown(); err != nil {
			d.log.Warn("idle shutdown", zap.Error(err))
		}
	})
}

func findMediaPipeScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	return firstExisting([]string{
		filepath.Join("scripts", scriptName),
		filepath.Join("..", "scripts", scriptName),
		filepath.Join("..", "..", "scripts", scriptName),
		filepath.Join(execDir, "scripts", scriptName),
		filepath.Join(os.Getenv("HOME"), ".posetrack", "scripts", scriptName),
	})
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	return firstExisting([]string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".posetrack/venv/bin/python"),
	})
}

func firstExisting(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonResponse is one line from the pose service. Older service builds send
// a single flat "landmarks" list instead of "poses".
type jsonResponse struct {
	Poses     [][]jsonPoint `json:"poses"`
	Landmarks []jsonPoint   `json:"landmarks"`
	Error     string        `json:"error"`
}

type jsonPoint struct {
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Z          float64  `json:"z"`
	Visibility *float64 `json:"visibility"`
	Presence   float64  `json:"presence"`
}

func (p jsonPoint) toLandmark() pose.Landmark {
	vis := 1.0
	if p.Visibility != nil {
		vis = *p.Visibility
	}
	return pose.Landmark{X: p.X, Y: p.Y, Z: p.Z, Visibility: vis, Presence: p.Presence}
}

func toLandmarks(points []jsonPoint) []pose.Landmark {
	lm := make([]pose.Landmark, len(points))
	for i, p := range points {
		lm[i] = p.toLandmark()
	}
	return lm
}

// ParseResponse decodes one pose service reply. Replies carry either a
// "poses" list per person or a single flat "landmarks" list; a landmark
// without "visibility" counts as fully visible.
func ParseResponse(line []byte) (pose.Detection, error) {
	var resp jsonResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return pose.Detection{}, fmt.Errorf("parse response: %w", err)
	}

	if resp.Error != "" {
		return pose.Detection{}, fmt.Errorf("%w: %s", ErrService, resp.Error)
	}

	if len(resp.Poses) > 0 {
		poses := make([][]pose.Landmark, len(resp.Poses))
		for i, p := range resp.Poses {
			poses[i] = toLandmarks(p)
		}
		return pose.MultiPose(poses), nil
	}

	return pose.SinglePose(toLandmarks(resp.Landmarks)), nil
}
