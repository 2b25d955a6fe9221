// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Transport
	OpPlay  Op = "play"
	OpPause Op = "pause"
	OpStop  Op = "stop"
	OpWind  Op = "wind"
	OpSeek  Op = "seek"

	// Output
	OpVolume Op = "change volume"

	// Media
	OpOpenMedia Op = "open media"
	OpReadTags  Op = "read file tags"
	OpStartMpv  Op = "start mpv"

	// Surfaces
	OpRemoteStart Op = "start remote"
	OpMprisStart  Op = "register MPRIS"

	// Initialization
	OpLoadConfig Op = "load config"
	OpInitialize Op = "initialize application"
)

// ForSinkOperation maps the operation name of a failed sink call, as
// reported by the playback controller, to an Op.
func ForSinkOperation(name string) Op {
	switch name {
	case "play":
		return OpPlay
	case "pause":
		return OpPause
	case "seek":
		return OpSeek
	}
	return Op(name)
}

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
