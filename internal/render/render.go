// Package render draws pose overlays onto video frames.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gympigeons/posetrack/internal/pose"
	"gocv.io/x/gocv"
)

// Overlay colours, BGR order is handled by gocv.
var (
	ConnectionColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	LandmarkColor   = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	TextColor       = color.RGBA{R: 255, G: 255, B: 255, A: 0}
)

// Style controls line and dot sizes.
type Style struct {
	LineThickness int
	CircleRadius  int
	FontScale     float64
}

// DefaultStyle returns the drawing style used by the tracker.
func DefaultStyle() Style {
	return Style{
		LineThickness: 2,
		CircleRadius:  4,
		FontScale:     0.5,
	}
}

// toPixel converts normalized coordinates to a pixel position in img.
func toPixel(img *gocv.Mat, x, y float64) image.Point {
	return image.Pt(int(x*float64(img.Cols())), int(y*float64(img.Rows())))
}

// Skeleton draws the pose connections and landmark dots for one person.
// Landmarks below minVisibility are left out together with their connections.
// Poses with fewer points than the topology are ignored.
func Skeleton(img *gocv.Mat, landmarks []pose.Landmark, minVisibility float64, style Style) {
	if img == nil || img.Empty() || len(landmarks) < pose.NumLandmarks {
		return
	}

	visible := func(i pose.LandmarkIndex) bool {
		return landmarks[i].Visibility >= minVisibility
	}

	for _, conn := range pose.Connections {
		a, b := conn[0], conn[1]
		if !visible(a) || !visible(b) {
			continue
		}
		gocv.Line(img,
			toPixel(img, landmarks[a].X, landmarks[a].Y),
			toPixel(img, landmarks[b].X, landmarks[b].Y),
			ConnectionColor, style.LineThickness)
	}

	for i := pose.LandmarkIndex(0); i < pose.NumLandmarks; i++ {
		if !visible(i) {
			continue
		}
		gocv.Circle(img, toPixel(img, landmarks[i].X, landmarks[i].Y), style.CircleRadius, LandmarkColor, -1)
	}
}

// Angles writes the joint angles of one side next to the matching joints.
func Angles(img *gocv.Mat, k pose.KeyLandmarks, angles pose.JointAngles, minVisibility float64, style Style) {
	if img == nil || img.Empty() {
		return
	}

	labels := []struct {
		at    pose.Point
		value float64
	}{
		{k.Shoulder, angles.Shoulder},
		{k.Elbow, angles.Elbow},
		{k.Hip, angles.Hip},
		{k.Knee, angles.Knee},
	}

	for _, l := range labels {
		if l.at.Visibility < minVisibility {
			continue
		}
		org := toPixel(img, l.at.X, l.at.Y).Add(image.Pt(8, -8))
		gocv.PutText(img, fmt.Sprintf("%.0f", l.value), org, gocv.FontHersheySimplex, style.FontScale, TextColor, 1)
	}
}
