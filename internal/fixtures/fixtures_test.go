package fixtures

import (
	"testing"

	"github.com/gympigeons/posetrack/internal/pose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDetection(t *testing.T) {
	t.Run("standing", func(t *testing.T) {
		d, err := LoadDetection("standing.json")
		require.NoError(t, err)

		lm, ok := d.First()
		require.True(t, ok)
		require.Len(t, lm, pose.NumLandmarks)
		assert.Equal(t, pose.Landmark{X: 0.42, Y: 0.22, Visibility: 0.98, Presence: 0.98}, lm[pose.RightShoulder])
	})

	t.Run("no person", func(t *testing.T) {
		d, err := LoadDetection("no_person.json")
		require.NoError(t, err)
		assert.True(t, d.Empty())
	})

	t.Run("two people", func(t *testing.T) {
		d, err := LoadDetection("two_people.json")
		require.NoError(t, err)
		assert.Len(t, d.Poses, 2)
	})

	t.Run("flat landmarks without visibility", func(t *testing.T) {
		d, err := LoadDetection("standing_flat.json")
		require.NoError(t, err)

		lm, ok := d.First()
		require.True(t, ok)
		require.Len(t, lm, pose.NumLandmarks)
		// Same geometry as standing.json, fully visible
		assert.Equal(t, pose.Landmark{X: 0.42, Y: 0.22, Visibility: 1}, lm[pose.RightShoulder])

		k, ok := pose.Extract(d, pose.Right)
		require.True(t, ok)
		assert.InDelta(t, 180.0, k.Angles().Knee, 1e-9)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadDetection("missing.json")
		assert.Error(t, err)
	})
}

func TestLoadSequence(t *testing.T) {
	seq, err := LoadSequence("squat")
	require.NoError(t, err)
	require.Len(t, seq, 3)

	want := []float64{180, 146.31, 90}
	for i, d := range seq {
		k, ok := pose.Extract(d, pose.Right)
		require.True(t, ok)
		assert.InDelta(t, want[i], k.Angles().Knee, 0.01, "frame %d", i)
	}
}
