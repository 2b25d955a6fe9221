package app

import (
	"time"

	"emperror.dev/errors"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/keymap"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/ui/controlbar"
)

var errNoOutput = errors.New("not available for this backend")

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case DisplayChangedMsg:
		return m, WatchDisplay(m.bar)

	case StateChangedMsg, WindChangedMsg, PositionChangedMsg:
		return m, WatchEvents(m.sub)

	case PlaybackErrorMsg:
		op := errmsg.ForSinkOperation(msg.Operation)
		cmd := m.setError(errmsg.Format(op, msg.Err))
		return m, tea.Batch(cmd, WatchEvents(m.sub))

	case SubscriptionClosedMsg:
		return m, nil

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.Status = ""
			m.StatusErr = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}
	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.Width = msg.Width
	m.Height = msg.Height
	m.help.Width = msg.Width - 4
	m.bar.SetOrigin(0)
	m.bar.SetWidth(msg.Width)
	// The fill is in bar cells, so it must be recomputed for the new width.
	m.ctrl.Refresh()
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.resolver.ResolveKey(msg)

	if m.ShowHelp {
		switch {
		case action == keymap.ActionQuit && msg.String() == "ctrl+c":
			return m, tea.Quit
		case action == keymap.ActionHelp, action == keymap.ActionQuit, msg.Type == tea.KeyEsc:
			m.ShowHelp = false
		}
		return m, nil
	}

	switch action {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.ShowHelp = true
		return m, nil
	case keymap.ActionSeekPercent:
		f, ok := keymap.SeekFraction(msg.String())
		if !ok {
			return m, nil
		}
		return m.run(errmsg.OpSeek, func() error { return m.ctrl.SeekToFraction(f) })
	case keymap.ActionSeekBack:
		return m.seekBy(-m.seekStep)
	case keymap.ActionSeekAhead:
		return m.seekBy(m.seekStep)
	case keymap.ActionVolumeUp:
		return m.changeVolume(volumeStep)
	case keymap.ActionVolumeDown:
		return m.changeVolume(-volumeStep)
	case keymap.ActionMute:
		return m.toggleMute()
	case keymap.ActionPlayPause, keymap.ActionStop, keymap.ActionRewind, keymap.ActionForward:
		return m.press(buttonFor(action))
	}
	return m, nil
}

func buttonFor(action keymap.Action) playback.Button {
	switch action {
	case keymap.ActionStop:
		return playback.ButtonStop
	case keymap.ActionRewind:
		return playback.ButtonRewind
	case keymap.ActionForward:
		return playback.ButtonForward
	}
	return playback.ButtonPlayPause
}

// press activates a transport button, from a key or a click.
func (m Model) press(b playback.Button) (tea.Model, tea.Cmd) {
	m.logger.Debug().Int("button", int(b)).Msg("press")
	switch b {
	case playback.ButtonPlayPause:
		return m.run(errmsg.OpPlay, m.ctrl.TogglePlayPause)
	case playback.ButtonStop:
		return m.run(errmsg.OpStop, m.ctrl.Stop)
	case playback.ButtonRewind:
		return m.run(errmsg.OpWind, m.ctrl.ToggleRewind)
	case playback.ButtonForward:
		return m.run(errmsg.OpWind, m.ctrl.ToggleForward)
	}
	return m, nil
}

func (m Model) seekBy(delta time.Duration) (tea.Model, tea.Cmd) {
	pos := m.ctrl.Snapshot().Position + delta
	return m.run(errmsg.OpSeek, func() error { return m.ctrl.SeekToPosition(pos) })
}

func (m Model) changeVolume(delta float64) (tea.Model, tea.Cmd) {
	if m.output == nil {
		return m, m.setError(errmsg.Format(errmsg.OpVolume, errNoOutput))
	}
	level := min(max(m.output.Volume()+delta, 0), 1)
	m.output.SetVolume(level)
	if m.output.Muted() {
		m.output.SetMuted(false)
	}
	return m, m.setInfo(volumeText(level, false))
}

func (m Model) toggleMute() (tea.Model, tea.Cmd) {
	if m.output == nil {
		return m, m.setError(errmsg.Format(errmsg.OpVolume, errNoOutput))
	}
	muted := !m.output.Muted()
	m.output.SetMuted(muted)
	return m, m.setInfo(volumeText(m.output.Volume(), muted))
}

// run calls a controller operation. Failed sink calls reach the status line
// through the subscription; only errors raised by the controller itself are
// reported here.
func (m Model) run(op errmsg.Op, fn func() error) (tea.Model, tea.Cmd) {
	err := fn()
	if err == nil {
		return m, nil
	}
	m.logger.Debug().Err(err).Str("op", string(op)).Msg("command failed")
	if errors.Is(err, playback.ErrDurationUnknown) ||
		errors.Is(err, playback.ErrNoDisplay) ||
		errors.Is(err, playback.ErrClosed) {
		return m, m.setError(errmsg.Format(op, err))
	}
	return m, nil
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.ShowHelp {
		if msg.Action == tea.MouseActionPress {
			m.ShowHelp = false
		}
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if msg.Y != barRow() {
		return m, nil
	}

	hit := m.bar.HitTest(msg.X)
	switch hit.Target {
	case controlbar.TargetButton:
		return m.press(hit.Button)
	case controlbar.TargetSeekBar:
		return m.run(errmsg.OpSeek, func() error { return m.ctrl.SeekTo(float64(msg.X)) })
	case controlbar.TargetNone:
	}
	return m, nil
}

func (m *Model) setError(text string) tea.Cmd {
	m.statusSeq++
	m.Status = text
	m.StatusErr = true
	return ClearStatusCmd(m.statusSeq)
}

func (m *Model) setInfo(text string) tea.Cmd {
	m.statusSeq++
	m.Status = text
	m.StatusErr = false
	return ClearStatusCmd(m.statusSeq)
}
