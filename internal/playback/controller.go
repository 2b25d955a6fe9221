package playback

import (
	"time"

	"emperror.dev/errors"
)

var (
	// ErrClosed is returned by operations on a closed controller.
	ErrClosed = errors.New("playback controller closed")
	// ErrDurationUnknown is returned by seeks while the media length is unknown.
	ErrDurationUnknown = errors.New("media duration unknown")
	// ErrNoDisplay is returned by SeekTo when no display provides bar geometry.
	ErrNoDisplay = errors.New("no display attached")
)

// Controller defines the transport overlay contract.
type Controller interface {
	// Transport buttons
	TogglePlayPause() error
	Stop() error
	ToggleRewind() error
	ToggleForward() error

	// Seek bar
	SeekTo(clickX float64) error // click coordinate on the primary display
	SeekToFraction(f float64) error
	SeekToPosition(pos time.Duration) error

	// Rendering
	Refresh()
	Snapshot() Snapshot

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}

// Snapshot is a point-in-time copy of the overlay state.
type Snapshot struct {
	Wind     WindState
	Icon     Icon
	Paused   bool
	Position time.Duration
	Duration time.Duration
	TimeText string
	Fraction float64
}

// Active reports whether b is highlighted in this snapshot.
func (s Snapshot) Active(b Button) bool {
	wb, ok := windButton(s.Wind)
	return ok && wb == b
}
