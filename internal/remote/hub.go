package remote

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/llehouerou/reel/internal/playback"
)

// BarWidth is the virtual width of the browser seek bar. Fill is sent in
// these units and the page scales it to its own width.
const BarWidth = 1000

// Hub is a playback.Display that mirrors the overlay to every connected
// browser. Setters never block: they record the state and wake the
// broadcaster, which sends the latest state to each client.
type Hub struct {
	mu    sync.Mutex
	state State

	clientsMu sync.Mutex
	clients   map[*client]struct{}

	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	logger zerolog.Logger
}

// Verify Hub implements playback.Display at compile time.
var _ playback.Display = (*Hub)(nil)

// NewHub starts the broadcaster. Close stops it.
func NewHub(logger zerolog.Logger) *Hub {
	h := &Hub{
		state:   State{TimeText: playback.FormatElapsed(0), Icon: "play"},
		clients: make(map[*client]struct{}),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		logger:  logger.With().Str("component", "remote-hub").Logger(),
	}
	go h.run()
	return h
}

func (h *Hub) SetTimeText(text string) {
	h.update(func(s *State) { s.TimeText = text })
}

func (h *Hub) SetPlayIcon(icon playback.Icon) {
	name := "play"
	if icon == playback.IconPause {
		name = "pause"
	}
	h.update(func(s *State) { s.Icon = name })
}

func (h *Hub) SetButtonActive(b playback.Button, active bool) {
	h.update(func(s *State) {
		switch b {
		case playback.ButtonRewind:
			s.Rewind = active
		case playback.ButtonForward:
			s.Forward = active
		case playback.ButtonPlayPause, playback.ButtonStop:
		}
	})
}

func (h *Hub) SeekBarWidth() float64 {
	return BarWidth
}

func (h *Hub) SetSeekFill(width float64) {
	h.update(func(s *State) { s.Fill = width })
}

// SeekBarBounds spans the virtual bar, so a click at x per-mille seeks to
// x/1000.
func (h *Hub) SeekBarBounds() (left, right float64) {
	return 0, BarWidth
}

// State returns the current overlay state.
func (h *Hub) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *Hub) update(fn func(*State)) {
	h.mu.Lock()
	before := h.state
	fn(&h.state)
	changed := h.state != before
	h.mu.Unlock()

	if changed {
		select {
		case h.wake <- struct{}{}:
		default:
		}
	}
}

func (h *Hub) run() {
	defer close(h.stopped)
	for {
		select {
		case <-h.done:
			return
		case <-h.wake:
			msg, err := h.stateMessage()
			if err != nil {
				h.logger.Error().Err(err).Msg("encode state")
				continue
			}
			h.broadcast(msg)
		}
	}
}

func (h *Hub) stateMessage() ([]byte, error) {
	ev, err := NewEvent(TypeState, h.State())
	if err != nil {
		return nil, err
	}
	return json.Marshal(ev)
}

func (h *Hub) broadcast(msg []byte) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for c := range h.clients {
		if !c.trySend(msg) {
			h.logger.Debug().Str("remote", c.addr).Msg("client too slow, dropping state")
		}
	}
}

func (h *Hub) register(c *client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	h.clients[c] = struct{}{}
	h.logger.Debug().Str("remote", c.addr).Int("clients", len(h.clients)).Msg("client connected")
}

func (h *Hub) unregister(c *client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	delete(h.clients, c)
	h.logger.Debug().Str("remote", c.addr).Int("clients", len(h.clients)).Msg("client disconnected")
}

// closeClients disconnects every browser.
func (h *Hub) closeClients() {
	h.clientsMu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

// Clients returns the number of connected browsers.
func (h *Hub) Clients() int {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	return len(h.clients)
}

// Close stops the broadcaster and disconnects every browser.
func (h *Hub) Close() {
	h.once.Do(func() {
		close(h.done)
		<-h.stopped
		h.closeClients()
	})
}
