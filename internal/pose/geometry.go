package pose

import "math"

// AngleAt returns the angle in degrees at b formed by the arms b->a and b->c.
// The result is in [0, 180]. Only X and Y are used.
//
// A zero-length arm (a or c equal to b) is not rejected: math.Atan2(0, 0) is 0,
// so the angle is measured against the positive x axis.
func AngleAt(a, b, c Point) float64 {
	radians := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	angle := math.Abs(radians * 180.0 / math.Pi)

	if angle > 180.0 {
		angle = 360.0 - angle
	}

	return angle
}

// JointAngles holds the included angles of one body side in degrees.
type JointAngles struct {
	Shoulder float64 `json:"shoulder"` // hip-shoulder-elbow
	Elbow    float64 `json:"elbow"`    // shoulder-elbow-wrist
	Hip      float64 `json:"hip"`      // shoulder-hip-knee
	Knee     float64 `json:"knee"`     // hip-knee-ankle
}

// Angles computes the joint angles for k.
func (k KeyLandmarks) Angles() JointAngles {
	return JointAngles{
		Shoulder: AngleAt(k.Hip, k.Shoulder, k.Elbow),
		Elbow:    AngleAt(k.Shoulder, k.Elbow, k.Wrist),
		Hip:      AngleAt(k.Shoulder, k.Hip, k.Knee),
		Knee:     AngleAt(k.Hip, k.Knee, k.Ankle),
	}
}

// Normalize divides every Y by the vertical shoulder-to-ankle span so the
// record no longer depends on the subject's distance from the camera.
// X and visibility are unchanged. A zero span returns k as is.
//
// Each call divides by the span of its input. A normalized record has a span
// of 1, so normalizing it again changes nothing beyond rounding.
func Normalize(k KeyLandmarks) KeyLandmarks {
	scale := math.Abs(k.Shoulder.Y - k.Ankle.Y)
	if scale == 0 {
		return k
	}

	var n KeyLandmarks
	for _, j := range Joints {
		p := k.Point(j)
		p.Y /= scale
		n.set(j, p)
	}
	return n
}

// Normalize normalizes each side by its own span.
func (b Body) Normalize() Body {
	return Body{
		Right: Normalize(b.Right),
		Left:  Normalize(b.Left),
	}
}
