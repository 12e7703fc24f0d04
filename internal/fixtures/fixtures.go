// Package fixtures embeds recorded pose detections for tests.
package fixtures

import (
	"embed"
	"fmt"
	"path"

	"github.com/gympigeons/posetrack/internal/detector"
	"github.com/gympigeons/posetrack/internal/pose"
)

//go:embed detections
var detectionsFS embed.FS

// LoadDetection loads a recorded detection by name, e.g. "standing.json".
// Files are pose service replies and are decoded by detector.ParseResponse,
// so both the "poses" and the flat "landmarks" shape are accepted.
func LoadDetection(name string) (pose.Detection, error) {
	data, err := detectionsFS.ReadFile(path.Join("detections", name))
	if err != nil {
		return pose.Detection{}, fmt.Errorf("load detection %s: %w", name, err)
	}

	d, err := detector.ParseResponse(data)
	if err != nil {
		return pose.Detection{}, fmt.Errorf("decode detection %s: %w", name, err)
	}

	return d, nil
}

// LoadSequence loads a recorded sequence of detections in file name order.
func LoadSequence(dir string) ([]pose.Detection, error) {
	entries, err := detectionsFS.ReadDir(path.Join("detections", dir))
	if err != nil {
		return nil, err
	}

	var seq []pose.Detection
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		d, err := LoadDetection(path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		seq = append(seq, d)
	}

	return seq, nil
}
