package detector

import (
	"sync"

	"github.com/gympigeons/posetrack/internal/pose"
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu         sync.Mutex
	detection  pose.Detection
	err        error
	timestamps []int64
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetDetection sets the detection that will be returned by Detect.
func (m *MockDetector) SetDetection(d pose.Detection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detection = d
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Timestamps returns every timestamp passed to Detect so far.
func (m *MockDetector) Timestamps() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.timestamps...)
}

// Detect returns the pre-configured detection or error.
func (m *MockDetector) Detect(frame *gocv.Mat, timestampMs int64) (pose.Detection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.timestamps = append(m.timestamps, timestampMs)
	if m.err != nil {
		return pose.Detection{}, m.err
	}
	return m.detection, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// basePose returns a front-facing person standing upright in the middle of
// the frame. Y grows downwards.
func basePose() []pose.Landmark {
	lm := make([]pose.Landmark, pose.NumLandmarks)
	set := func(i pose.LandmarkIndex, x, y, vis float64) {
		lm[i] = pose.Landmark{X: x, Y: y, Visibility: vis, Presence: vis}
	}

	// Face
	set(pose.Nose, 0.50, 0.12, 0.99)
	set(pose.LeftEyeInner, 0.51, 0.10, 0.99)
	set(pose.LeftEye, 0.52, 0.10, 0.99)
	set(pose.LeftEyeOuter, 0.53, 0.10, 0.99)
	set(pose.RightEyeInner, 0.49, 0.10, 0.99)
	set(pose.RightEye, 0.48, 0.10, 0.99)
	set(pose.RightEyeOuter, 0.47, 0.10, 0.99)
	set(pose.LeftEar, 0.55, 0.11, 0.90)
	set(pose.RightEar, 0.45, 0.11, 0.90)
	set(pose.MouthLeft, 0.51, 0.14, 0.99)
	set(pose.MouthRight, 0.49, 0.14, 0.99)

	// Arms hanging down. The person's right side is on the image left.
	set(pose.LeftShoulder, 0.58, 0.22, 0.98)
	set(pose.RightShoulder, 0.42, 0.22, 0.98)
	set(pose.LeftElbow, 0.60, 0.35, 0.95)
	set(pose.RightElbow, 0.40, 0.35, 0.95)
	set(pose.LeftWrist, 0.61, 0.47, 0.90)
	set(pose.RightWrist, 0.39, 0.47, 0.90)
	set(pose.LeftPinky, 0.62, 0.50, 0.80)
	set(pose.RightPinky, 0.38, 0.50, 0.80)
	set(pose.LeftIndex, 0.61, 0.51, 0.80)
	set(pose.RightIndex, 0.39, 0.51, 0.80)
	set(pose.LeftThumb, 0.60, 0.49, 0.80)
	set(pose.RightThumb, 0.40, 0.49, 0.80)

	// Legs straight
	set(pose.LeftHip, 0.55, 0.52, 0.97)
	set(pose.RightHip, 0.45, 0.52, 0.97)
	set(pose.LeftKnee, 0.55, 0.70, 0.93)
	set(pose.RightKnee, 0.45, 0.70, 0.93)
	set(pose.LeftAnkle, 0.55, 0.88, 0.88)
	set(pose.RightAnkle, 0.45, 0.88, 0.88)
	set(pose.LeftHeel, 0.55, 0.90, 0.70)
	set(pose.RightHeel, 0.45, 0.90, 0.70)
	set(pose.LeftFootIndex, 0.57, 0.92, 0.70)
	set(pose.RightFootIndex, 0.43, 0.92, 0.70)

	return lm
}

// StandingPose returns a detection of one person standing upright with arms down.
func StandingPose() pose.Detection {
	return pose.SinglePose(basePose())
}

// SquatPose returns a detection of one person at the bottom of a squat:
// knees bent to roughly a right angle, hips pushed back.
func SquatPose() pose.Detection {
	lm := basePose()

	// Thigh horizontal, shin vertical
	for _, i := range []pose.LandmarkIndex{pose.LeftHip, pose.RightHip} {
		lm[i].X -= 0.12
		lm[i].Y = 0.70
	}
	for _, i := range []pose.LandmarkIndex{pose.LeftShoulder, pose.RightShoulder} {
		lm[i].Y = 0.42
	}
	for _, i := range []pose.LandmarkIndex{pose.LeftElbow, pose.RightElbow} {
		lm[i].Y = 0.55
	}
	for _, i := range []pose.LandmarkIndex{pose.LeftWrist, pose.RightWrist} {
		lm[i].Y = 0.66
	}

	return pose.SinglePose(lm)
}

// ArmRaisedPose returns a detection with the right arm raised overhead and
// the left forearm hidden behind the body (low visibility).
func ArmRaisedPose() pose.Detection {
	lm := basePose()

	lm[pose.RightElbow].Y = 0.10
	lm[pose.RightElbow].X = 0.42
	lm[pose.RightWrist].Y = 0.00
	lm[pose.RightWrist].X = 0.42

	lm[pose.LeftElbow].Visibility = 0.20
	lm[pose.LeftWrist].Visibility = 0.10

	return pose.SinglePose(lm)
}
