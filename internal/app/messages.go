package app

import (
	"time"

	"github.com/llehouerou/reel/internal/playback"
)

// DisplayChangedMsg is sent when the control bar was repainted by the
// controller, from any goroutine.
type DisplayChangedMsg struct{}

// StateChangedMsg mirrors playback.StateChange.
type StateChangedMsg struct {
	Previous playback.Icon
	Current  playback.Icon
}

// WindChangedMsg mirrors playback.WindChange.
type WindChangedMsg struct {
	Previous playback.WindState
	Current  playback.WindState
}

// PositionChangedMsg is sent after the controller moved the position.
type PositionChangedMsg struct {
	Position time.Duration
}

// PlaybackErrorMsg is sent when a sink command failed.
type PlaybackErrorMsg struct {
	Operation string
	Err       error
}

// SubscriptionClosedMsg is sent once the controller has been closed.
type SubscriptionClosedMsg struct{}

// ClearStatusMsg clears the status line if it still shows the message
// with the same sequence number.
type ClearStatusMsg struct {
	Seq int
}
