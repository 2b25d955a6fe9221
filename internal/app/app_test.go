package app

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/reel/internal/icons"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/ui/controlbar"
)

type fakeOutput struct {
	volume float64
	muted  bool
}

func (f *fakeOutput) Volume() float64     { return f.volume }
func (f *fakeOutput) SetVolume(v float64) { f.volume = v }
func (f *fakeOutput) Muted() bool         { return f.muted }
func (f *fakeOutput) SetMuted(muted bool) { f.muted = muted }

type harness struct {
	sink *playback.MockSink
	ctrl playback.Controller
	bar  *controlbar.Bar
	m    Model
}

// newHarness lays out a 60 column screen with ASCII glyphs: the bar's
// content row is y=3, the play button spans x 7..10 and the seek bar
// x 33..57.
func newHarness(t *testing.T, out Output) *harness {
	t.Helper()
	icons.Init("none")
	t.Cleanup(func() { icons.Init("unicode") })

	sink := playback.NewMockSink(100 * time.Second)
	bar := controlbar.New(60)
	ctrl := playback.New(sink, playback.Options{WindInterval: time.Hour}, bar)
	t.Cleanup(func() { _ = ctrl.Close() })

	m := New(ctrl, bar, Options{
		Media:  Media{Path: "/music/song.flac", Artist: "Artist", Format: "FLAC", Size: 3 << 20},
		Output: out,
	})
	h := &harness{sink: sink, ctrl: ctrl, bar: bar, m: m}
	h.update(t, tea.WindowSizeMsg{Width: 60, Height: 20})
	return h
}

func (h *harness) update(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := h.m.Update(msg)
	m, ok := next.(Model)
	require.True(t, ok, "Update should return Model")
	h.m = m
	return cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestUpdate_WindowSize(t *testing.T) {
	h := newHarness(t, nil)
	h.update(t, tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, 80, h.m.Width)
	assert.Equal(t, 24, h.m.Height)
	assert.InDelta(t, 45.0, h.bar.SeekBarWidth(), 1e-9)
}

func TestKeys_Transport(t *testing.T) {
	h := newHarness(t, nil)

	h.update(t, key(" "))
	assert.False(t, h.sink.Paused())
	assert.Equal(t, playback.IconPause, h.bar.State().Icon)

	h.update(t, key("f"))
	assert.Equal(t, playback.WindFastForwarding, h.ctrl.Snapshot().Wind)
	assert.True(t, h.bar.State().Active[playback.ButtonForward])

	h.update(t, key("r"))
	assert.Equal(t, playback.WindRewinding, h.ctrl.Snapshot().Wind)

	h.update(t, key("s"))
	assert.Equal(t, playback.WindIdle, h.ctrl.Snapshot().Wind)
	assert.True(t, h.sink.Paused())
	assert.Equal(t, time.Duration(0), h.sink.Position())
}

func TestKeys_Seek(t *testing.T) {
	h := newHarness(t, nil)

	h.update(t, key("5"))
	assert.Equal(t, 50*time.Second, h.sink.Position())
	assert.Equal(t, "00:00:50", h.bar.State().TimeText)

	h.update(t, key("right"))
	assert.Equal(t, 60*time.Second, h.sink.Position())

	h.update(t, key("left"))
	h.update(t, key("left"))
	assert.Equal(t, 40*time.Second, h.sink.Position())

	h.update(t, key("0"))
	assert.Equal(t, time.Duration(0), h.sink.Position())
	h.update(t, key("left"))
	assert.Equal(t, time.Duration(0), h.sink.Position())
}

func TestKeys_SeekWithUnknownDuration(t *testing.T) {
	h := newHarness(t, nil)
	h.sink.SetDuration(0)

	cmd := h.update(t, key("5"))
	assert.NotNil(t, cmd)
	assert.True(t, h.m.StatusErr)
	assert.Contains(t, h.m.Status, "duration unknown")
	assert.Empty(t, h.sink.SeekCalls())
}

func TestKeys_Volume(t *testing.T) {
	out := &fakeOutput{volume: 0.5}
	h := newHarness(t, out)

	h.update(t, key("+"))
	assert.InDelta(t, 0.55, out.volume, 1e-9)
	assert.Equal(t, "vol 55%", h.m.Status)

	h.update(t, key("m"))
	assert.True(t, out.muted)
	assert.Equal(t, "muted", h.m.Status)

	h.update(t, key("-"))
	assert.InDelta(t, 0.5, out.volume, 1e-9)
	assert.False(t, out.muted)
}

func TestKeys_VolumeWithoutOutput(t *testing.T) {
	h := newHarness(t, nil)

	h.update(t, key("+"))
	assert.True(t, h.m.StatusErr)
	assert.Contains(t, h.m.Status, "not available")
}

func TestKeys_HelpOverlay(t *testing.T) {
	h := newHarness(t, nil)

	h.update(t, key("?"))
	assert.True(t, h.m.ShowHelp)
	assert.Contains(t, h.m.View(), "Keys")

	// Transport keys are ignored while help is open
	h.update(t, key(" "))
	assert.True(t, h.sink.Paused())

	h.update(t, key("esc"))
	assert.False(t, h.m.ShowHelp)
}

func TestKeys_Quit(t *testing.T) {
	h := newHarness(t, nil)

	cmd := h.update(t, key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestMouse_ClickButton(t *testing.T) {
	h := newHarness(t, nil)

	h.update(t, click(8, barRow()))
	assert.False(t, h.sink.Paused())

	h.update(t, click(8, barRow()))
	assert.True(t, h.sink.Paused())
}

func TestMouse_ClickSeekBar(t *testing.T) {
	h := newHarness(t, nil)

	h.update(t, click(45, barRow()))
	assert.Equal(t, 50*time.Second, h.sink.Position())
	assert.False(t, h.sink.Paused())
	assert.InDelta(t, 12.5, h.bar.State().Fill, 1e-9)

	// The last cell reaches the end of the media
	h.update(t, click(57, barRow()))
	assert.Equal(t, 100*time.Second, h.sink.Position())
}

func TestMouse_IgnoresOtherRowsAndButtons(t *testing.T) {
	h := newHarness(t, nil)

	h.update(t, click(43, 0))
	h.update(t, click(43, barRow()+1))
	h.update(t, tea.MouseMsg{X: 43, Y: barRow(), Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	h.update(t, tea.MouseMsg{X: 43, Y: barRow(), Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	assert.Empty(t, h.sink.SeekCalls())
	assert.Equal(t, 0, h.sink.PlayCalls())
}

func TestPlaybackError_ShowsStatus(t *testing.T) {
	h := newHarness(t, nil)

	cmd := h.update(t, PlaybackErrorMsg{Operation: "play", Err: assert.AnError})
	assert.NotNil(t, cmd)
	assert.True(t, h.m.StatusErr)
	assert.True(t, strings.HasPrefix(h.m.Status, "Failed to play: "))

	// A stale timeout leaves a newer message alone
	h.update(t, key("m")) // no output: replaces the status
	h.update(t, ClearStatusMsg{Seq: 1})
	assert.NotEmpty(t, h.m.Status)

	h.update(t, ClearStatusMsg{Seq: 2})
	assert.Empty(t, h.m.Status)
}

func TestWatchEvents(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.ctrl.TogglePlayPause())
	msg := WatchEvents(h.m.sub)()
	assert.Equal(t, StateChangedMsg{Previous: playback.IconPlay, Current: playback.IconPause}, msg)

	require.NoError(t, h.ctrl.Close())
	// Drain anything buffered before the close.
	for {
		if _, ok := WatchEvents(h.m.sub)().(SubscriptionClosedMsg); ok {
			break
		}
	}
}

func TestWatchDisplay(t *testing.T) {
	h := newHarness(t, nil)
	// Drain the notifications from setup.
	select {
	case <-h.bar.Changed():
	default:
	}

	require.NoError(t, h.ctrl.SeekToFraction(0.5))
	assert.Equal(t, DisplayChangedMsg{}, WatchDisplay(h.bar)())
}

func TestView(t *testing.T) {
	h := newHarness(t, &fakeOutput{volume: 1})
	view := ansi.Strip(h.m.View())
	lines := strings.Split(view, "\n")

	require.Len(t, lines, headerHeight+controlbar.Height+1)
	assert.Contains(t, lines[0], "song.flac")
	assert.Contains(t, lines[1], "Artist")
	assert.Contains(t, lines[1], "FLAC")
	assert.Contains(t, lines[1], "3.0 MiB")
	assert.Contains(t, lines[1], "00:01:40")
	assert.Contains(t, lines[barRow()], "00:00:00")
	assert.Contains(t, lines[len(lines)-1], "vol 100%")
}

func TestView_EmptyBeforeSize(t *testing.T) {
	icons.Init("none")
	t.Cleanup(func() { icons.Init("unicode") })
	sink := playback.NewMockSink(time.Minute)
	bar := controlbar.New(0)
	ctrl := playback.New(sink, playback.Options{}, bar)
	defer ctrl.Close()

	assert.Empty(t, New(ctrl, bar, Options{}).View())
}
