package pose

// Point is a 2D landmark in normalized image coordinates with a confidence score.
type Point struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// NewPoint returns a fully visible point.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y, Visibility: 1.0}
}

// Landmark is a single raw point as reported by the pose model.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
	Presence   float64 `json:"presence"`
}

// Point drops depth and presence.
func (l Landmark) Point() Point {
	return Point{X: l.X, Y: l.Y, Visibility: l.Visibility}
}

// KeyLandmarks holds the six key joints of one body side.
// Values are never modified in place; transforms return a new record.
type KeyLandmarks struct {
	Shoulder Point `json:"shoulder"`
	Elbow    Point `json:"elbow"`
	Wrist    Point `json:"wrist"`
	Hip      Point `json:"hip"`
	Knee     Point `json:"knee"`
	Ankle    Point `json:"ankle"`
}

// Point returns the point stored for joint j.
func (k KeyLandmarks) Point(j Joint) Point {
	switch j {
	case Shoulder:
		return k.Shoulder
	case Elbow:
		return k.Elbow
	case Wrist:
		return k.Wrist
	case Hip:
		return k.Hip
	case Knee:
		return k.Knee
	case Ankle:
		return k.Ankle
	}
	panic("pose: unknown joint " + j.String())
}

// set is only used while building a fresh record.
func (k *KeyLandmarks) set(j Joint, p Point) {
	switch j {
	case Shoulder:
		k.Shoulder = p
	case Elbow:
		k.Elbow = p
	case Wrist:
		k.Wrist = p
	case Hip:
		k.Hip = p
	case Knee:
		k.Knee = p
	case Ankle:
		k.Ankle = p
	}
}

// Body is the dual-side record: twelve points, six per side.
type Body struct {
	Right KeyLandmarks `json:"right"`
	Left  KeyLandmarks `json:"left"`
}

// Side returns the record for one side.
func (b Body) Side(s Side) KeyLandmarks {
	if s == Left {
		return b.Left
	}
	return b.Right
}

// Detection is a pose model result reduced to its landmark lists.
// Detectors that report a single best pose and those that report one list
// per person both map into it.
type Detection struct {
	Poses [][]Landmark `json:"poses"`
}

// SinglePose wraps a flat landmark list. A nil or empty list means no pose.
func SinglePose(landmarks []Landmark) Detection {
	if len(landmarks) == 0 {
		return Detection{}
	}
	return Detection{Poses: [][]Landmark{landmarks}}
}

// MultiPose wraps per-person landmark lists.
func MultiPose(poses [][]Landmark) Detection {
	return Detection{Poses: poses}
}

// Empty reports whether the detector found no pose.
func (d Detection) Empty() bool {
	_, ok := d.First()
	return !ok
}

// First returns the first person's landmarks.
func (d Detection) First() ([]Landmark, bool) {
	if len(d.Poses) == 0 || len(d.Poses[0]) == 0 {
		return nil, false
	}
	return d.Poses[0], true
}

// Extract maps the first pose of d into the key landmarks of one side.
// It returns false when no pose was detected. A pose that does not follow
// the 33-point topology panics with an index out of range.
func Extract(d Detection, side Side) (KeyLandmarks, bool) {
	lm, ok := d.First()
	if !ok {
		return KeyLandmarks{}, false
	}

	var k KeyLandmarks
	for _, j := range Joints {
		k.set(j, lm[IndexOf(side, j)].Point())
	}
	return k, true
}

// ExtractBody extracts both sides of the first pose.
func ExtractBody(d Detection) (Body, bool) {
	right, ok := Extract(d, Right)
	if !ok {
		return Body{}, false
	}
	left, _ := Extract(d, Left)
	return Body{Right: right, Left: left}, true
}
