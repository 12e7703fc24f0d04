// Package report writes per-joint diagnostic lines for tracked poses.
package report

import (
	"fmt"
	"io"

	"github.com/gympigeons/posetrack/internal/pose"
)

// DefaultMinVisibility is the confidence a joint needs to be printed.
const DefaultMinVisibility = 0.5

// Separator is written after each frame that produced output.
const Separator = "-----"

// Printer formats key landmarks as text lines of the form
// "<side> <joint>: x=0.00, y=0.00, vis=0.00".
type Printer struct {
	w             io.Writer
	minVisibility float64
}

// NewPrinter creates a Printer writing to w. A non-positive minVisibility
// uses DefaultMinVisibility.
func NewPrinter(w io.Writer, minVisibility float64) *Printer {
	if minVisibility <= 0 {
		minVisibility = DefaultMinVisibility
	}
	return &Printer{w: w, minVisibility: minVisibility}
}

// Landmarks writes one line per joint whose visibility reaches the threshold
// and returns the number of lines written.
func (p *Printer) Landmarks(side pose.Side, k pose.KeyLandmarks) (int, error) {
	n := 0
	for _, j := range pose.Joints {
		pt := k.Point(j)
		if pt.Visibility < p.minVisibility {
			continue
		}
		if _, err := fmt.Fprintf(p.w, "%s %s: x=%.2f, y=%.2f, vis=%.2f\n", side, j, pt.X, pt.Y, pt.Visibility); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Angles writes the joint angles of one side on a single line.
func (p *Printer) Angles(side pose.Side, a pose.JointAngles) error {
	_, err := fmt.Fprintf(p.w, "%s angles: shoulder=%.1f, elbow=%.1f, hip=%.1f, knee=%.1f\n",
		side, a.Shoulder, a.Elbow, a.Hip, a.Knee)
	return err
}

// Separator ends the output of one frame.
func (p *Printer) Separator() error {
	_, err := fmt.Fprintln(p.w, Separator)
	return err
}
