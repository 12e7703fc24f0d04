// Package tracker runs the synchronous capture, detect, extract and present
// loop for a single person.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gympigeons/posetrack/internal/capture"
	"github.com/gympigeons/posetrack/internal/detector"
	"github.com/gympigeons/posetrack/internal/display"
	"github.com/gympigeons/posetrack/internal/logger"
	"github.com/gympigeons/posetrack/internal/pose"
	"github.com/gympigeons/posetrack/internal/render"
	"github.com/gympigeons/posetrack/internal/report"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// Config holds configuration options for the tracker.
type Config struct {
	// Sides to extract, in output order.
	Sides []pose.Side
	// Normalize reports landmarks scaled by the shoulder-to-ankle span.
	Normalize bool
	// MinVisibility is the confidence needed to draw or print a joint.
	MinVisibility float64
	// QuitKey ends the loop when pressed.
	QuitKey     rune
	DrawAngles  bool
	PrintAngles bool
	Style       render.Style
}

// DefaultConfig tracks both sides, prints landmarks at 0.5 confidence and quits on 'q'.
func DefaultConfig() Config {
	return Config{
		Sides:         []pose.Side{pose.Right, pose.Left},
		MinVisibility: report.DefaultMinVisibility,
		QuitKey:       'q',
		DrawAngles:    true,
		Style:         render.DefaultStyle(),
	}
}

// ParseSides converts "right", "left" or "both" into the sides to track.
func ParseSides(s string) ([]pose.Side, error) {
	if strings.EqualFold(strings.TrimSpace(s), "both") {
		return []pose.Side{pose.Right, pose.Left}, nil
	}
	side, err := pose.ParseSide(s)
	if err != nil {
		return nil, err
	}
	return []pose.Side{side}, nil
}

// SideResult is what the tracker computed for one side in one frame.
type SideResult struct {
	Landmarks pose.KeyLandmarks `json:"landmarks"`
	Angles    pose.JointAngles  `json:"angles"`
}

// Frame is the per-frame record handed to a Publisher.
type Frame struct {
	Session     string      `json:"session"`
	Sequence    int64       `json:"sequence"`
	TimestampMs int64       `json:"timestamp"`
	Detected    bool        `json:"detected"`
	Right       *SideResult `json:"right,omitempty"`
	Left        *SideResult `json:"left,omitempty"`
	// JPEG is the annotated frame.
	JPEG []byte `json:"-"`
}

// Publisher receives every processed frame. Publish must not block.
type Publisher interface {
	Publish(f Frame)
}

// Stats counts processed frames.
type Stats struct {
	Frames       int64
	Detections   int64
	DetectErrors int64
}

// Tracker owns the capture device, detector and display for one run.
type Tracker struct {
	config    Config
	camera    capture.Camera
	detector  detector.Detector
	display   display.Display
	printer   *report.Printer
	publisher Publisher
	log       *zap.Logger
	session   string

	mu    sync.RWMutex
	stats Stats
}

// New creates a Tracker. Diagnostic lines go to stdout until SetOutput is called.
func New(config Config, camera capture.Camera, det detector.Detector, disp display.Display) *Tracker {
	if len(config.Sides) == 0 {
		config.Sides = DefaultConfig().Sides
	}
	if config.QuitKey == 0 {
		config.QuitKey = 'q'
	}
	// Drawing and printing share one threshold
	if config.MinVisibility <= 0 {
		config.MinVisibility = report.DefaultMinVisibility
	}
	if config.Style == (render.Style{}) {
		config.Style = render.DefaultStyle()
	}

	return &Tracker{
		config:   config,
		camera:   camera,
		detector: det,
		display:  disp,
		printer:  report.NewPrinter(os.Stdout, config.MinVisibility),
		log:      zap.NewNop(),
		session:  uuid.NewString(),
	}
}

// SetOutput redirects the diagnostic text stream.
func (t *Tracker) SetOutput(w io.Writer) {
	t.printer = report.NewPrinter(w, t.config.MinVisibility)
}

// SetPublisher registers a consumer for processed frames.
func (t *Tracker) SetPublisher(p Publisher) {
	t.publisher = p
}

// SetLogger sets the logger. A nil logger disables logging.
func (t *Tracker) SetLogger(l *zap.Logger) {
	t.log = logger.OrNop(l).Named("tracker")
}

// Session returns the ID attached to every published frame of this run.
func (t *Tracker) Session() string {
	return t.session
}

// Stats returns a snapshot of the frame counters.
func (t *Tracker) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stats
}

// Run processes frames until the source ends, the quit key is pressed or
// ctx is cancelled. Camera, detector and display are released on return.
func (t *Tracker) Run(ctx context.Context) error {
	if err := t.camera.Open(); err != nil {
		t.release()
		return fmt.Errorf("open camera: %w", err)
	}
	defer t.release()

	t.log.Info("tracking started",
		zap.String("session", t.session),
		zap.Stringers("sides", t.config.Sides),
		zap.Bool("normalize", t.config.Normalize),
	)

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			t.log.Info("tracking cancelled")
			return nil
		default:
		}

		stop, err := t.step(time.Since(start).Milliseconds())
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// step handles one frame and reports whether the loop should end.
func (t *Tracker) step(timestampMs int64) (bool, error) {
	frame, err := t.camera.ReadFrame()
	if errors.Is(err, capture.ErrEndOfStream) {
		t.log.Info("end of stream", zap.Int64("frames", t.Stats().Frames))
		return true, nil
	}
	if err != nil {
		return true, fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()

	t.mu.Lock()
	t.stats.Frames++
	seq := t.stats.Frames
	t.mu.Unlock()

	detection, err := t.detector.Detect(frame, timestampMs)
	if err != nil {
		t.mu.Lock()
		t.stats.DetectErrors++
		t.mu.Unlock()
		t.log.Warn("detect pose", zap.Error(err), zap.Int64("frame", seq))
	} else {
		t.process(frame, detection, seq, timestampMs)
	}

	t.display.Show(frame)

	key := t.display.WaitKey(1)
	if key != display.NoKey && rune(key) == t.config.QuitKey {
		t.log.Info("quit key pressed")
		return true, nil
	}

	return false, nil
}

// process draws, prints and publishes one detection.
func (t *Tracker) process(frame *gocv.Mat, detection pose.Detection, seq, timestampMs int64) {
	out := Frame{
		Session:     t.session,
		Sequence:    seq,
		TimestampMs: timestampMs,
	}

	if landmarks, ok := detection.First(); ok {
		out.Detected = true

		t.mu.Lock()
		t.stats.Detections++
		t.mu.Unlock()

		render.Skeleton(frame, landmarks, t.config.MinVisibility, t.config.Style)

		for _, side := range t.config.Sides {
			result := t.side(frame, detection, side)
			switch side {
			case pose.Right:
				out.Right = result
			case pose.Left:
				out.Left = result
			}
		}

		if err := t.printer.Separator(); err != nil {
			t.log.Warn("write report", zap.Error(err))
		}
	}

	if t.publisher == nil {
		return
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		t.log.Warn("encode frame", zap.Error(err))
	} else {
		out.JPEG = append([]byte(nil), buf.GetBytes()...)
		buf.Close()
	}

	t.publisher.Publish(out)
}

// side extracts, annotates and prints one body side. The detection is
// known to hold a pose.
func (t *Tracker) side(frame *gocv.Mat, detection pose.Detection, side pose.Side) *SideResult {
	raw, ok := pose.Extract(detection, side)
	if !ok {
		return nil
	}

	// Angles come from image coordinates; normalization only rescales Y.
	angles := raw.Angles()
	if t.config.DrawAngles {
		render.Angles(frame, raw, angles, t.config.MinVisibility, t.config.Style)
	}

	reported := raw
	if t.config.Normalize {
		reported = pose.Normalize(raw)
	}

	if _, err := t.printer.Landmarks(side, reported); err != nil {
		t.log.Warn("write report", zap.Error(err))
	}
	if t.config.PrintAngles {
		if err := t.printer.Angles(side, angles); err != nil {
			t.log.Warn("write report", zap.Error(err))
		}
	}

	return &SideResult{Landmarks: reported, Angles: angles}
}

func (t *Tracker) release() {
	if err := t.camera.Close(); err != nil {
		t.log.Warn("close camera", zap.Error(err))
	}
	if err := t.detector.Close(); err != nil {
		t.log.Warn("close detector", zap.Error(err))
	}
	if err := t.display.Close(); err != nil {
		t.log.Warn("close display", zap.Error(err))
	}

	stats := t.Stats()
	t.log.Info("tracking stopped",
		zap.Int64("frames", stats.Frames),
		zap.Int64("detections", stats.Detections),
		zap.Int64("detect_errors", stats.DetectErrors),
	)
}
