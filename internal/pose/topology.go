// Package pose provides body landmark types, the 33-point pose topology and
// the joint geometry used by the tracker.
package pose

import (
	"fmt"
	"strings"
)

// LandmarkIndex is a position in the 33-point pose topology.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
type LandmarkIndex int

// Pose landmark indices following MediaPipe convention.
const (
	Nose LandmarkIndex = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex
	NumLandmarks = 33
)

// Side selects one half of the body.
type Side int

const (
	Right Side = iota
	Left
)

// Sides lists both sides in output order.
var Sides = [...]Side{Right, Left}

func (s Side) String() string {
	switch s {
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ParseSide converts "right" or "left" (any case) into a Side.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right":
		return Right, nil
	case "left":
		return Left, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

// Joint names one of the six key landmarks tracked per side.
type Joint int

const (
	Shoulder Joint = iota
	Elbow
	Wrist
	Hip
	Knee
	Ankle
	NumJoints = 6
)

// Joints lists the key joints in record order.
var Joints = [NumJoints]Joint{Shoulder, Elbow, Wrist, Hip, Knee, Ankle}

var jointNames = [NumJoints]string{"shoulder", "elbow", "wrist", "hip", "knee", "ankle"}

func (j Joint) String() string {
	if j < 0 || int(j) >= NumJoints {
		return fmt.Sprintf("Joint(%d)", int(j))
	}
	return jointNames[j]
}

// topology maps side and joint to the landmark index in the detector output.
var topology = [2][NumJoints]LandmarkIndex{
	Right: {RightShoulder, RightElbow, RightWrist, RightHip, RightKnee, RightAnkle},
	Left:  {LeftShoulder, LeftElbow, LeftWrist, LeftHip, LeftKnee, LeftAnkle},
}

// IndexOf returns the topology index for the joint on the given side.
func IndexOf(side Side, joint Joint) LandmarkIndex {
	return topology[side][joint]
}

// Connections are the landmark pairs joined when drawing a skeleton.
var Connections = [][2]LandmarkIndex{
	{Nose, LeftEyeInner}, {LeftEyeInner, LeftEye}, {LeftEye, LeftEyeOuter}, {LeftEyeOuter, LeftEar},
	{Nose, RightEyeInner}, {RightEyeInner, RightEye}, {RightEye, RightEyeOuter}, {RightEyeOuter, RightEar},
	{MouthLeft, MouthRight},
	{LeftShoulder, RightShoulder},
	{LeftShoulder, LeftElbow}, {LeftElbow, LeftWrist},
	{LeftWrist, LeftPinky}, {LeftWrist, LeftIndex}, {LeftWrist, LeftThumb}, {LeftPinky, LeftIndex},
	{RightShoulder, RightElbow}, {RightElbow, RightWrist},
	{RightWrist, RightPinky}, {RightWrist, RightIndex}, {RightWrist, RightThumb}, {RightPinky, RightIndex},
	{LeftShoulder, LeftHip}, {RightShoulder, RightHip}, {LeftHip, RightHip},
	{LeftHip, LeftKnee}, {RightHip, RightKnee},
	{LeftKnee, LeftAnkle}, {RightKnee, RightAnkle},
	{LeftAnkle, LeftHeel}, {RightAnkle, RightHeel},
	{LeftHeel, LeftFootIndex}, {RightHeel, RightFootIndex},
	{LeftAnkle, LeftFootIndex}, {RightAnkle, RightFootIndex},
}
