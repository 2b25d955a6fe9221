// Package keymap defines key bindings and action dispatch for the overlay.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Transport buttons
	ActionPlayPause Action = "play_pause"
	ActionStop      Action = "stop"
	ActionRewind    Action = "rewind"
	ActionForward   Action = "forward"

	// Seek bar
	ActionSeekPercent Action = "seek_percent" // 0-9 jump to 0%..90%
	ActionSeekBack    Action = "seek_back"    // left
	ActionSeekAhead   Action = "seek_ahead"   // right

	// Output
	ActionVolumeUp   Action = "volume_up"
	ActionVolumeDown Action = "volume_down"
	ActionMute       Action = "mute"
)
