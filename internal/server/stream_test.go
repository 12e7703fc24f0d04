package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/gympigeons/posetrack/internal/pose"
	"github.com/gympigeons/posetrack/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_MethodNotAllowed(t *testing.T) {
	s := New(Config{Hub: NewHub()})

	req := httptest.NewRequest(http.MethodPost, "/api/stream", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStream_ServesLatestFrame(t *testing.T) {
	hub := NewHub()
	jpeg := []byte("\xff\xd8fake-jpeg\xff\xd9")
	hub.Publish(tracker.Frame{Sequence: 1, JPEG: jpeg})

	ts := httptest.NewServer(New(Config{Hub: hub}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/stream", nil)
	require.NoError(t, err)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "multipart/x-mixed-replace; boundary=frame", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	boundary, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "--frame\r\n", boundary)

	header, err := textproto.NewReader(reader).ReadMIMEHeader()
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", header.Get("Content-Type"))

	n, err := strconv.Atoi(header.Get("Content-Length"))
	require.NoError(t, err)
	body := make([]byte, n)
	_, err = io.ReadFull(reader, body)
	require.NoError(t, err)
	assert.Equal(t, jpeg, body)
}

func TestLandmarks_WebSocket(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(New(Config{Hub: hub}))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/landmarks"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Wait for the handler to subscribe before publishing
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(tracker.Frame{
		Session:  "run-1",
		Sequence: 7,
		Detected: true,
		Right: &tracker.SideResult{
			Landmarks: pose.KeyLandmarks{Shoulder: pose.Point{X: 0.4, Y: 0.2, Visibility: 0.9}},
			Angles:    pose.JointAngles{Knee: 175},
		},
		JPEG: []byte("not sent"),
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg, &got))

	assert.Equal(t, "run-1", got["session"])
	assert.Equal(t, float64(7), got["sequence"])
	assert.Equal(t, true, got["detected"])
	assert.NotContains(t, got, "JPEG")
	assert.NotContains(t, got, "left")

	right := got["right"].(map[string]any)
	angles := right["angles"].(map[string]any)
	assert.Equal(t, float64(175), angles["knee"])

	conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}
