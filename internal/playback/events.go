package playback

import "time"

// StateChange is emitted when the play/pause icon changes, which happens
// whenever the controller plays or pauses the sink on the user's behalf.
type StateChange struct {
	Previous Icon
	Current  Icon
}

// WindChange is emitted when the wind state machine transitions.
//
// Emitted by:
//   - ToggleRewind/ToggleForward: on every activation and deactivation
//   - TogglePlayPause/Stop/SeekTo: when they cancel an active wind
//   - the wind timer: when a boundary forces a stop
//
// NOT emitted when a cancelling operation finds the machine already Idle.
type WindChange struct {
	Previous WindState
	Current  WindState
}

// PositionChange is emitted after the controller moves the playback position
// (seek, wind step, stop).
type PositionChange struct {
	Position time.Duration
}

// ErrorEvent is emitted when a sink command fails.
type ErrorEvent struct {
	Operation string // e.g., "play", "seek"
	Err       error
}
