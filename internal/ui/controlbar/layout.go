package controlbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/reel/internal/icons"
	"github.com/llehouerou/reel/internal/playback"
)

// contentOffset is the left border plus one column of padding.
const contentOffset = 2

const (
	buttonGap  = 1
	timeWidth  = 8 // HH:MM:SS
	sectionGap = 2
)

type span struct {
	start, end int
}

func (s span) contains(col int) bool {
	return col >= s.start && col < s.end
}

// layout holds content-relative column ranges.
type layout struct {
	inner    int
	buttons  [4]span // indexed by playback.Button
	time     span
	barStart int
	barEnd   int
}

// computeLayout splits a bar of the given total width into
// [⏪] [▶] [⏹] [⏩]  HH:MM:SS  ━━━━━━───────
// Buttons get a blank column on each side as click target.
func computeLayout(width int) layout {
	l := layout{inner: max(width-2*contentOffset, 0)}

	g := icons.Current()
	col := 0
	for i, btn := range playback.Buttons {
		w := buttonWidth(btn, g) + 2
		l.buttons[btn] = span{col, col + w}
		col += w
		if i < len(playback.Buttons)-1 {
			col += buttonGap
		}
	}

	col += sectionGap
	l.time = span{col, col + timeWidth}
	col += timeWidth + sectionGap

	l.barStart = min(col, l.inner)
	l.barEnd = l.inner
	return l
}

// buttonWidth is stable across the play/pause icon change.
func buttonWidth(btn playback.Button, g icons.Icons) int {
	if btn == playback.ButtonPlayPause {
		return max(lipgloss.Width(g.Play), lipgloss.Width(g.Pause))
	}
	return lipgloss.Width(icons.Button(btn, playback.IconPlay))
}

// Target is what a click landed on.
type Target int

const (
	TargetNone Target = iota
	TargetButton
	TargetSeekBar
)

// Hit is the result of HitTest.
type Hit struct {
	Target Target
	Button playback.Button
}

// HitTest maps a terminal column on the bar's content row to a button or
// the seek bar.
func (b *Bar) HitTest(x int) Hit {
	b.mu.Lock()
	defer b.mu.Unlock()

	col := x - b.originX - contentOffset
	for _, btn := range playback.Buttons {
		if b.layout.buttons[btn].contains(col) {
			return Hit{Target: TargetButton, Button: btn}
		}
	}
	if col >= b.layout.barStart && col < b.layout.barEnd {
		return Hit{Target: TargetSeekBar}
	}
	return Hit{Target: TargetNone}
}
