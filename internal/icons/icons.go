// Package icons holds the glyph sets used by the control overlay.
package icons

import "github.com/llehouerou/reel/internal/playback"

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the glyphs for one style.
type Icons struct {
	Play    string
	Pause   string
	Stop    string
	Rewind  string
	Forward string
	Audio   string
	Video   string
}

var (
	nerdIcons = Icons{
		Play:    "\U000F040A", // nf-md-play
		Pause:   "\U000F03E4", // nf-md-pause
		Stop:    "\U000F04DB", // nf-md-stop
		Rewind:  "\U000F045F", // nf-md-rewind
		Forward: "\U000F0211", // nf-md-fast_forward
		Audio:   " ",         // nf-fa-music
		Video:   " ",         // nf-fa-film
	}

	unicodeIcons = Icons{
		Play:    "▶",
		Pause:   "⏸",
		Stop:    "⏹",
		Rewind:  "⏪",
		Forward: "⏩",
		Audio:   "♪ ",
		Video:   "▣ ",
	}

	noneIcons = Icons{
		Play:    ">",
		Pause:   "||",
		Stop:    "[]",
		Rewind:  "<<",
		Forward: ">>",
	}

	// current holds the active icon set
	current = unicodeIcons
)

// Init selects the glyph set. Unknown styles fall back to unicode.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleNone:
		current = noneIcons
	default:
		current = unicodeIcons
	}
}

// Current returns the active glyph set.
func Current() Icons {
	return current
}

// Button returns the glyph for a transport button. The play/pause button
// shows icon.
func Button(b playback.Button, icon playback.Icon) string {
	switch b {
	case playback.ButtonPlayPause:
		if icon == playback.IconPause {
			return current.Pause
		}
		return current.Play
	case playback.ButtonStop:
		return current.Stop
	case playback.ButtonRewind:
		return current.Rewind
	case playback.ButtonForward:
		return current.Forward
	}
	return ""
}

// FormatMedia prefixes a file name with the audio or video glyph.
func FormatMedia(name string, video bool) string {
	if video {
		return current.Video + name
	}
	return current.Audio + name
}
