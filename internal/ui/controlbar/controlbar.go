// Package controlbar renders the transport overlay in the terminal:
// rewind, play/pause, stop and forward buttons, the elapsed time and a
// clickable seek bar. Bar implements playback.Display.
package controlbar

import (
	"sync"

	"github.com/llehouerou/reel/internal/playback"
)

// Height is the rendered height: top border, content, bottom border.
const Height = 3

// Bar is a thread-safe playback.Display for the terminal. The controller
// writes to it from any goroutine; the TUI reads it when rendering and
// learns about writes through Changed.
type Bar struct {
	mu sync.Mutex

	timeText string
	icon     playback.Icon
	active   [4]bool
	fill     float64

	width   int
	originX int
	layout  layout

	changed chan struct{}
}

// Verify Bar implements playback.Display at compile time.
var _ playback.Display = (*Bar)(nil)

// New returns a bar laid out for width terminal columns.
func New(width int) *Bar {
	b := &Bar{
		timeText: playback.FormatElapsed(0),
		changed:  make(chan struct{}, 1),
	}
	b.width = width
	b.layout = computeLayout(width)
	return b
}

// Changed delivers a value after any state change. Bursts of changes
// coalesce into one notification.
func (b *Bar) Changed() <-chan struct{} {
	return b.changed
}

func (b *Bar) notify() {
	select {
	case b.changed <- struct{}{}:
	default:
	}
}

// SetWidth lays the bar out for a new terminal width. The caller should
// refresh the controller afterwards so the fill matches the new bar.
func (b *Bar) SetWidth(width int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if width == b.width {
		return
	}
	b.width = width
	b.layout = computeLayout(width)
	b.notify()
}

// SetOrigin sets the screen column of the bar's left border, so
// SeekBarBounds and HitTest work in terminal coordinates.
func (b *Bar) SetOrigin(x int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.originX = x
}

func (b *Bar) SetTimeText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if text == b.timeText {
		return
	}
	b.timeText = text
	b.notify()
}

func (b *Bar) SetPlayIcon(icon playback.Icon) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if icon == b.icon {
		return
	}
	b.icon = icon
	b.notify()
}

func (b *Bar) SetButtonActive(btn playback.Button, active bool) {
	if int(btn) < 0 || int(btn) >= len(b.active) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.active[btn] == active {
		return
	}
	b.active[btn] = active
	b.notify()
}

// SeekBarWidth returns the number of bar cells.
func (b *Bar) SeekBarWidth() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return float64(b.layout.barEnd - b.layout.barStart)
}

func (b *Bar) SetSeekFill(width float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if width == b.fill {
		return
	}
	b.fill = width
	b.notify()
}

// SeekBarBounds returns the first and last bar columns, in terminal
// columns, so a click on the last cell seeks to the end.
func (b *Bar) SeekBarBounds() (left, right float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	off := b.originX + contentOffset
	last := max(b.layout.barEnd-1, b.layout.barStart)
	return float64(off + b.layout.barStart), float64(off + last)
}

// State is a copy of what the bar currently shows.
type State struct {
	TimeText string
	Icon     playback.Icon
	Active   [4]bool
	Fill     float64
}

// State returns the current display state.
func (b *Bar) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return State{TimeText: b.timeText, Icon: b.icon, Active: b.active, Fill: b.fill}
}
