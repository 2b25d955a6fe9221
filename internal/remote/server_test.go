package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/reel/internal/playback"
)

type fixture struct {
	sink *playback.MockSink
	ctrl playback.Controller
	hub  *Hub
	srv  *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zerolog.Nop()
	hub := NewHub(logger)
	sink := playback.NewMockSink(100 * time.Second)
	ctrl := playback.New(sink, playback.Options{WindInterval: time.Hour}, hub)

	s, err := NewServer("127.0.0.1:0", hub, ctrl, Options{Title: "test.mp3"}, logger)
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())

	t.Cleanup(func() {
		srv.Close()
		hub.Close()
		_ = ctrl.Close()
	})
	return &fixture{sink: sink, ctrl: ctrl, hub: hub, srv: srv}
}

func (f *fixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads events until match accepts one or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, match func(Event) bool) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var ev Event
		require.NoError(t, conn.ReadJSON(&ev))
		if match(ev) {
			return ev
		}
	}
}

func stateWhere(t *testing.T, pred func(State) bool) func(Event) bool {
	return func(ev Event) bool {
		if ev.Type != TypeState {
			return false
		}
		var s State
		require.NoError(t, json.Unmarshal(ev.Data, &s))
		return pred(s)
	}
}

func send(t *testing.T, conn *websocket.Conn, typ EventType, data any) {
	t.Helper()
	ev := Event{Type: typ}
	if data != nil {
		ev2, err := NewEvent(typ, data)
		require.NoError(t, err)
		ev = *ev2
	}
	require.NoError(t, conn.WriteJSON(ev))
}

func TestServer_InitialState(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	ev := readUntil(t, conn, func(ev Event) bool { return ev.Type == TypeState })
	var s State
	require.NoError(t, json.Unmarshal(ev.Data, &s))
	assert.Equal(t, "00:00:00", s.TimeText)
	assert.Equal(t, "play", s.Icon)
	assert.False(t, s.Rewind)
	assert.False(t, s.Forward)
	assert.Zero(t, s.Fill)
}

func TestServer_PlayPause(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	send(t, conn, TypePlayPause, nil)
	readUntil(t, conn, stateWhere(t, func(s State) bool { return s.Icon == "pause" }))
	assert.Equal(t, 1, f.sink.PlayCalls())
	assert.False(t, f.sink.Paused())

	send(t, conn, TypePlayPause, nil)
	readUntil(t, conn, stateWhere(t, func(s State) bool { return s.Icon == "play" }))
	assert.True(t, f.sink.Paused())
}

func TestServer_WindButtons(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	send(t, conn, TypeForward, nil)
	readUntil(t, conn, stateWhere(t, func(s State) bool { return s.Forward && !s.Rewind }))

	send(t, conn, TypeRewind, nil)
	readUntil(t, conn, stateWhere(t, func(s State) bool { return s.Rewind && !s.Forward }))
	assert.Equal(t, playback.WindRewinding, f.ctrl.Snapshot().Wind)

	send(t, conn, TypeStop, nil)
	readUntil(t, conn, stateWhere(t, func(s State) bool { return !s.Rewind && !s.Forward }))
	assert.Equal(t, playback.WindIdle, f.ctrl.Snapshot().Wind)
}

func TestServer_Seek(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	send(t, conn, TypeSeek, 0.5)
	ev := readUntil(t, conn, stateWhere(t, func(s State) bool { return s.TimeText == "00:00:50" }))

	var s State
	require.NoError(t, json.Unmarshal(ev.Data, &s))
	assert.InDelta(t, 500, s.Fill, 0.001)
	assert.Equal(t, []time.Duration{50 * time.Second}, f.sink.SeekCalls())
}

func TestServer_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"unknown type", `{"type":"eject"}`, "unknown event type"},
		{"seek without fraction", `{"type":"seek"}`, "seek needs a fraction"},
		{"malformed json", `{"type":}`, "malformed event"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			conn := f.dial(t)

			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.raw)))
			ev := readUntil(t, conn, func(ev Event) bool { return ev.Type == TypeError })
			var msg string
			require.NoError(t, json.Unmarshal(ev.Data, &msg))
			assert.Contains(t, msg, tt.want)
		})
	}
}

func TestServer_SinkErrorIsReported(t *testing.T) {
	f := newFixture(t)
	f.sink.SetPlayError(assert.AnError)
	conn := f.dial(t)

	send(t, conn, TypePlayPause, nil)
	ev := readUntil(t, conn, func(ev Event) bool { return ev.Type == TypeError })
	var msg string
	require.NoError(t, json.Unmarshal(ev.Data, &msg))
	assert.Contains(t, msg, "play")
}

func TestServer_BroadcastsToAllClients(t *testing.T) {
	f := newFixture(t)
	a := f.dial(t)
	b := f.dial(t)

	// Wait for both registrations through their initial state.
	readUntil(t, a, func(ev Event) bool { return ev.Type == TypeState })
	readUntil(t, b, func(ev Event) bool { return ev.Type == TypeState })
	assert.Equal(t, 2, f.hub.Clients())

	require.NoError(t, f.ctrl.TogglePlayPause())
	for _, conn := range []*websocket.Conn{a, b} {
		readUntil(t, conn, stateWhere(t, func(s State) bool { return s.Icon == "pause" }))
	}
}

func TestServer_StateEndpoint(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.SeekToFraction(0.25))

	resp, err := http.Get(f.srv.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var s State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Equal(t, "00:00:25", s.TimeText)
	assert.Equal(t, "pause", s.Icon)
	assert.InDelta(t, 250, s.Fill, 0.001)
}

func TestServer_Page(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "<title>test.mp3</title>")
	assert.Regexp(t, `const barWidth =\s*1000\s*;`, string(body))
}

func TestServer_StartStop(t *testing.T) {
	logger := zerolog.Nop()
	hub := NewHub(logger)
	defer hub.Close()
	ctrl := playback.New(playback.NewMockSink(time.Minute), playback.Options{}, hub)
	defer ctrl.Close()

	s, err := NewServer("127.0.0.1:0", hub, ctrl, Options{}, logger)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	assert.NotEqual(t, "127.0.0.1:0", s.Addr())

	resp, err := http.Get("http://" + s.Addr() + "/api/state")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
