package server

import (
	"testing"

	"github.com/gympigeons/posetrack/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_FanOut(t *testing.T) {
	hub := NewHub()

	a, unsubA := hub.Subscribe()
	defer unsubA()
	b, unsubB := hub.Subscribe()
	defer unsubB()

	assert.Equal(t, 2, hub.Subscribers())

	hub.Publish(tracker.Frame{Sequence: 1})

	assert.Equal(t, int64(1), (<-a).Sequence)
	assert.Equal(t, int64(1), (<-b).Sequence)
}

func TestHub_Latest(t *testing.T) {
	hub := NewHub()

	_, ok := hub.Latest()
	assert.False(t, ok)

	hub.Publish(tracker.Frame{Sequence: 1})
	hub.Publish(tracker.Frame{Sequence: 2})

	latest, ok := hub.Latest()
	require.True(t, ok)
	assert.Equal(t, int64(2), latest.Sequence)
}

func TestHub_SlowSubscriberDropsFrames(t *testing.T) {
	hub := NewHub()
	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	// Publishing past the buffer must not block
	for i := 1; i <= subscriberBuffer+10; i++ {
		hub.Publish(tracker.Frame{Sequence: int64(i)})
	}

	assert.Len(t, ch, subscriberBuffer)
	assert.Equal(t, int64(1), (<-ch).Sequence)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub()
	ch, unsubscribe := hub.Subscribe()

	unsubscribe()
	unsubscribe() // idempotent

	assert.Equal(t, 0, hub.Subscribers())

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe is safe
	hub.Publish(tracker.Frame{Sequence: 1})
}

func TestHub_ImplementsPublisher(t *testing.T) {
	var _ tracker.Publisher = NewHub()
}
