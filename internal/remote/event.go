// Package remote serves the playback overlay to web browsers: a page with
// the same four buttons, time text and seek bar, kept in sync over a
// websocket and driving the same controller as the terminal.
package remote

import (
	"encoding/json"

	"emperror.dev/errors"
)

// EventType names a websocket message.
type EventType string

const (
	// Server to browser
	TypeState EventType = "state"
	TypeError EventType = "error"

	// Browser to server
	TypePlayPause EventType = "play-pause"
	TypeStop      EventType = "stop"
	TypeRewind    EventType = "rewind"
	TypeForward   EventType = "forward"
	TypeSeek      EventType = "seek" // data: fraction 0..1
)

// Event is one websocket message.
type Event struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent marshals data into an event of type t.
func NewEvent(t EventType, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot marshal %s event data", t)
	}
	return &Event{Type: t, Data: raw}, nil
}

// State is the overlay as the browser draws it.
type State struct {
	TimeText string  `json:"time"`
	Icon     string  `json:"icon"` // "play" or "pause"
	Rewind   bool    `json:"rewind"`
	Forward  bool    `json:"forward"`
	Fill     float64 `json:"fill"` // per-mille of the bar
}
