package controlbar

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/reel/internal/icons"
	"github.com/llehouerou/reel/internal/playback"
)

// newTestBar uses the ASCII glyph set so widths are predictable:
// buttons at content columns [0,4) [5,9) [10,14) [15,19), time at
// [21,29), bar from 31 to the inner width.
func newTestBar(t *testing.T, width int) *Bar {
	t.Helper()
	icons.Init("none")
	t.Cleanup(func() { icons.Init("unicode") })
	return New(width)
}

func drain(b *Bar) bool {
	select {
	case <-b.Changed():
		return true
	default:
		return false
	}
}

func TestNew_InitialState(t *testing.T) {
	b := newTestBar(t, 60)
	s := b.State()

	assert.Equal(t, "00:00:00", s.TimeText)
	assert.Equal(t, playback.IconPlay, s.Icon)
	assert.Equal(t, [4]bool{}, s.Active)
	assert.Zero(t, s.Fill)
}

func TestSeekBarGeometry(t *testing.T) {
	b := newTestBar(t, 60)

	assert.InDelta(t, 25.0, b.SeekBarWidth(), 1e-9)
	left, right := b.SeekBarBounds()
	assert.InDelta(t, 33.0, left, 1e-9)
	assert.InDelta(t, 57.0, right, 1e-9)

	b.SetOrigin(10)
	left, right = b.SeekBarBounds()
	assert.InDelta(t, 43.0, left, 1e-9)
	assert.InDelta(t, 67.0, right, 1e-9)
}

func TestSeekBarGeometry_TooNarrow(t *testing.T) {
	b := newTestBar(t, 20)
	assert.Zero(t, b.SeekBarWidth())
	left, right := b.SeekBarBounds()
	assert.Equal(t, left, right)
}

func TestSetWidth(t *testing.T) {
	b := newTestBar(t, 60)
	drain(b)

	b.SetWidth(80)
	assert.True(t, drain(b))
	assert.InDelta(t, 45.0, b.SeekBarWidth(), 1e-9)

	b.SetWidth(80)
	assert.False(t, drain(b), "same width should not notify")
}

func TestHitTest(t *testing.T) {
	b := newTestBar(t, 60)

	tests := []struct {
		name string
		x    int
		want Hit
	}{
		{"border", 0, Hit{Target: TargetNone}},
		{"rewind", 2, Hit{Target: TargetButton, Button: playback.ButtonRewind}},
		{"gap between buttons", 6, Hit{Target: TargetNone}},
		{"play pause", 7, Hit{Target: TargetButton, Button: playback.ButtonPlayPause}},
		{"stop", 12, Hit{Target: TargetButton, Button: playback.ButtonStop}},
		{"forward", 20, Hit{Target: TargetButton, Button: playback.ButtonForward}},
		{"time text", 25, Hit{Target: TargetNone}},
		{"bar start", 33, Hit{Target: TargetSeekBar}},
		{"bar end", 57, Hit{Target: TargetSeekBar}},
		{"right border", 58, Hit{Target: TargetNone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.HitTest(tt.x))
		})
	}
}

func TestSetters_NotifyOnlyOnChange(t *testing.T) {
	b := newTestBar(t, 60)
	drain(b)

	b.SetTimeText("00:00:00")
	b.SetPlayIcon(playback.IconPlay)
	b.SetButtonActive(playback.ButtonRewind, false)
	b.SetSeekFill(0)
	assert.False(t, drain(b))

	b.SetTimeText("00:00:03")
	b.SetPlayIcon(playback.IconPause)
	b.SetButtonActive(playback.ButtonRewind, true)
	b.SetSeekFill(4)
	assert.True(t, drain(b))
	assert.False(t, drain(b), "notifications coalesce")

	s := b.State()
	assert.Equal(t, "00:00:03", s.TimeText)
	assert.Equal(t, playback.IconPause, s.Icon)
	assert.True(t, s.Active[playback.ButtonRewind])
	assert.InDelta(t, 4.0, s.Fill, 1e-9)
}

func TestRender(t *testing.T) {
	b := newTestBar(t, 60)
	b.SetTimeText("00:01:05")
	b.SetSeekFill(10.7)

	out := b.Render(60)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, Height)
	for _, line := range lines {
		assert.Equal(t, 60, lipgloss.Width(line))
	}

	content := ansi.Strip(lines[1])
	assert.Contains(t, content, "<<")
	assert.Contains(t, content, ">>")
	assert.Contains(t, content, "00:01:05")
	assert.Equal(t, 10, strings.Count(content, filledCell))
	assert.Equal(t, 15, strings.Count(content, emptyCell))
}

func TestRender_PauseIcon(t *testing.T) {
	b := newTestBar(t, 60)
	b.SetPlayIcon(playback.IconPause)

	content := ansi.Strip(strings.Split(b.Render(60), "\n")[1])
	assert.Contains(t, content, "||")
}

func TestRender_FillClamped(t *testing.T) {
	b := newTestBar(t, 60)
	b.SetSeekFill(500)

	content := ansi.Strip(strings.Split(b.Render(60), "\n")[1])
	assert.Equal(t, 25, strings.Count(content, filledCell))
	assert.Equal(t, 0, strings.Count(content, emptyCell))
}

// TestDrivenByController checks the bar end to end behind a controller.
func TestDrivenByController(t *testing.T) {
	b := newTestBar(t, 60)
	sink := playback.NewMockSink(100 * time.Second)
	c := playback.New(sink, playback.Options{}, b)
	t.Cleanup(func() { c.Close() })

	left, right := b.SeekBarBounds()
	require.NoError(t, c.SeekTo(left+(right-left)/2))

	s := b.State()
	assert.Equal(t, playback.IconPause, s.Icon)
	assert.InDelta(t, 12.5, s.Fill, 1e-9)
	assert.Equal(t, "00:00:50", s.TimeText)
}

func TestDrivenByController_LastColumnSeeksToEnd(t *testing.T) {
	b := newTestBar(t, 60)
	sink := playback.NewMockSink(100 * time.Second)
	c := playback.New(sink, playback.Options{}, b)
	t.Cleanup(func() { c.Close() })

	left, right := b.SeekBarBounds()
	require.NoError(t, c.SeekTo(right))
	assert.Equal(t, 100*time.Second, sink.Position())
	assert.InDelta(t, 25.0, b.State().Fill, 1e-9)

	require.NoError(t, c.SeekTo(left))
	assert.Equal(t, time.Duration(0), sink.Position())
}
