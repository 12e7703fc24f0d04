// Package display shows annotated frames and reports key presses.
package display

import (
	"sync"

	"gocv.io/x/gocv"
)

// NoKey is returned by WaitKey when no key was pressed.
const NoKey = -1

// Display is a surface for annotated frames.
type Display interface {
	// Show presents the frame. The display does not take ownership of it.
	Show(frame *gocv.Mat)

	// WaitKey waits up to delayMs for a key press and returns its code,
	// or NoKey.
	WaitKey(delayMs int) int

	Close() error
}

// Window displays frames in an OpenCV window.
type Window struct {
	window *gocv.Window
}

// NewWindow opens a window with the given title.
func NewWindow(title string) *Window {
	return &Window{window: gocv.NewWindow(title)}
}

// Show implements Display.
func (w *Window) Show(frame *gocv.Mat) {
	if frame == nil || frame.Empty() {
		return
	}
	w.window.IMShow(*frame)
}

// WaitKey implements Display.
func (w *Window) WaitKey(delayMs int) int {
	key := w.window.WaitKey(delayMs)
	if key < 0 {
		return NoKey
	}
	return key & 0xFF
}

// Close implements Display.
func (w *Window) Close() error {
	return w.window.Close()
}

// Headless discards frames. Keys can be injected with Press, which is how
// tests and server-only runs stop the tracker.
type Headless struct {
	mu    sync.Mutex
	keys  []int
	shown int
}

// NewHeadless returns a display without a window.
func NewHeadless() *Headless {
	return &Headless{}
}

// Show implements Display.
func (h *Headless) Show(frame *gocv.Mat) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shown++
}

// WaitKey implements Display. It returns the oldest injected key, if any.
func (h *Headless) WaitKey(delayMs int) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.keys) == 0 {
		return NoKey
	}
	key := h.keys[0]
	h.keys = h.keys[1:]
	return key
}

// Press queues a key press.
func (h *Headless) Press(key int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys = append(h.keys, key)
}

// Shown returns how many frames were shown.
func (h *Headless) Shown() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shown
}

// Close implements Display.
func (h *Headless) Close() error {
	return nil
}
