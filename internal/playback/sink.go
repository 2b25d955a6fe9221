package playback

import "time"

// MediaSink is the playback engine the controller drives.
//
// Notification callbacks registered with OnTimeUpdate and OnEnded must be
// invoked from the sink's own goroutine, never from inside one of the sink's
// methods: the controller calls the sink while holding its lock, and the
// callbacks take that lock.
type MediaSink interface {
	Play() error
	Pause() error
	Paused() bool
	Position() time.Duration
	SetPosition(pos time.Duration) error
	// Duration returns 0 while the media length is unknown.
	Duration() time.Duration
	OnTimeUpdate(fn func())
	OnEnded(fn func())
}

// Display renders the overlay.
//
// Widths and coordinates are in the display's own units (terminal cells,
// pixels, per-mille).
type Display interface {
	SetTimeText(text string)
	SetPlayIcon(icon Icon)
	SetButtonActive(b Button, active bool)
	SeekBarWidth() float64
	SetSeekFill(width float64)
	// SeekBarBounds returns the left and right edges of the seek bar in the
	// same coordinate space as the clicks passed to Controller.SeekTo.
	SeekBarBounds() (left, right float64)
}
