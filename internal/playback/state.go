// internal/playback/state.go
package playback

// WindState is the rewind/fast-forward state machine.
//
//	            toggleRewind                 toggleForward
//	┌──────────┐ ───────────▶ ┌───────────┐ ◀─────────── ┌────────────────┐
//	│   Idle   │              │ Rewinding │              │ FastForwarding │
//	└──────────┘ ◀─────────── └───────────┘ ───────────▶ └────────────────┘
//	     ▲   toggleRewind,          toggleForward              │
//	     │   stop, playPause,                                  │
//	     │   start boundary                                    │
//	     └──────────────────────────────────────────────────────┘
//	          toggleForward, stop, playPause, end boundary
//
// Leaving Rewinding or FastForwarding through the same toggle resumes
// playback. Every other exit leaves the sink as the exiting operation set it.
type WindState int

const (
	WindIdle WindState = iota
	WindRewinding
	WindFastForwarding
)

// String returns the state name.
func (s WindState) String() string {
	switch s {
	case WindIdle:
		return "Idle"
	case WindRewinding:
		return "Rewinding"
	case WindFastForwarding:
		return "FastForwarding"
	default:
		return "Unknown"
	}
}

// IsWinding returns true if a wind timer is running.
func (s WindState) IsWinding() bool {
	return s == WindRewinding || s == WindFastForwarding
}

// Icon is the glyph shown on the play/pause button.
type Icon int

const (
	// IconPlay is shown while the media is paused.
	IconPlay Icon = iota
	// IconPause is shown while the media is playing.
	IconPause
)

// String returns the icon name.
func (i Icon) String() string {
	switch i {
	case IconPlay:
		return "Play"
	case IconPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// Button identifies a transport button.
type Button int

const (
	ButtonPlayPause Button = iota
	ButtonStop
	ButtonRewind
	ButtonForward
)

// Buttons lists the transport buttons in display order.
var Buttons = []Button{ButtonRewind, ButtonPlayPause, ButtonStop, ButtonForward}

// String returns the button name.
func (b Button) String() string {
	switch b {
	case ButtonPlayPause:
		return "PlayPause"
	case ButtonStop:
		return "Stop"
	case ButtonRewind:
		return "Rewind"
	case ButtonForward:
		return "Forward"
	default:
		return "Unknown"
	}
}

// windButton returns the button highlighted while s is active.
func windButton(s WindState) (Button, bool) {
	switch s {
	case WindRewinding:
		return ButtonRewind, true
	case WindFastForwarding:
		return ButtonForward, true
	case WindIdle:
	}
	return 0, false
}
