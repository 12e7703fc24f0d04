package server

import (
	"sync"

	"github.com/gympigeons/posetrack/internal/tracker"
)

// subscriberBuffer is how many frames a slow subscriber may lag before
// frames are dropped for it.
const subscriberBuffer = 4

// Hub fans tracker frames out to HTTP clients. It implements tracker.Publisher.
type Hub struct {
	mu     sync.RWMutex
	subs   map[chan tracker.Frame]struct{}
	latest *tracker.Frame
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[chan tracker.Frame]struct{}),
	}
}

// Publish stores f as the latest frame and offers it to every subscriber
// without blocking.
func (h *Hub) Publish(f tracker.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = &f
	for ch := range h.subs {
		select {
		case ch <- f:
		default:
			// Subscriber is behind, drop the frame for it
		}
	}
}

// Subscribe returns a channel of future frames and a function that
// unsubscribes and closes it.
func (h *Hub) Subscribe() (<-chan tracker.Frame, func()) {
	ch := make(chan tracker.Frame, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Latest returns the most recent frame.
func (h *Hub) Latest() (tracker.Frame, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.latest == nil {
		return tracker.Frame{}, false
	}
	return *h.latest, true
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
