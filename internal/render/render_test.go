package render

import (
	"image"
	"testing"

	"github.com/gympigeons/posetrack/internal/detector"
	"github.com/gympigeons/posetrack/internal/pose"
	"gocv.io/x/gocv"
)

func blankFrame(rows, cols int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC3)
}

func TestToPixel(t *testing.T) {
	img := blankFrame(480, 640)
	defer img.Close()

	tests := []struct {
		x, y float64
		want image.Point
	}{
		{0, 0, image.Pt(0, 0)},
		{0.5, 0.5, image.Pt(320, 240)},
		{1, 1, image.Pt(640, 480)},
		{0.25, 0.75, image.Pt(160, 360)},
	}

	for _, tt := range tests {
		if got := toPixel(&img, tt.x, tt.y); got != tt.want {
			t.Errorf("toPixel(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestSkeleton_DrawsOnFrame(t *testing.T) {
	img := blankFrame(480, 640)
	defer img.Close()

	lm, _ := detector.StandingPose().First()
	Skeleton(&img, lm, 0.5, DefaultStyle())

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	if gocv.CountNonZero(gray) == 0 {
		t.Error("expected skeleton pixels on a black frame")
	}
}

func TestSkeleton_SkipsInvisible(t *testing.T) {
	img := blankFrame(480, 640)
	defer img.Close()

	lm, _ := detector.StandingPose().First()
	hidden := make([]pose.Landmark, len(lm))
	for i, l := range lm {
		l.Visibility = 0.1
		hidden[i] = l
	}

	Skeleton(&img, hidden, 0.5, DefaultStyle())

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	if n := gocv.CountNonZero(gray); n != 0 {
		t.Errorf("expected nothing drawn for hidden landmarks, got %d pixels", n)
	}
}

func TestSkeleton_IgnoresShortPose(t *testing.T) {
	img := blankFrame(48, 64)
	defer img.Close()

	// Must not panic
	Skeleton(&img, make([]pose.Landmark, 5), 0, DefaultStyle())
	Skeleton(nil, nil, 0, DefaultStyle())
}

func TestAngles_DrawsLabels(t *testing.T) {
	img := blankFrame(480, 640)
	defer img.Close()

	k, _ := pose.Extract(detector.SquatPose(), pose.Right)
	Angles(&img, k, k.Angles(), 0.5, DefaultStyle())

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	if gocv.CountNonZero(gray) == 0 {
		t.Error("expected angle labels on a black frame")
	}
}
