package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/ui/controlbar"
)

const statusTimeout = 4 * time.Second

// WatchEvents waits for the next controller event.
func WatchEvents(sub *playback.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return StateChangedMsg{Previous: e.Previous, Current: e.Current}
		case e := <-sub.WindChanged:
			return WindChangedMsg{Previous: e.Previous, Current: e.Current}
		case e := <-sub.PositionChanged:
			return PositionChangedMsg{Position: e.Position}
		case e := <-sub.Error:
			return PlaybackErrorMsg{Operation: e.Operation, Err: e.Err}
		case <-sub.Done:
			return SubscriptionClosedMsg{}
		}
	}
}

// WatchDisplay waits for the control bar to change.
func WatchDisplay(bar *controlbar.Bar) tea.Cmd {
	return func() tea.Msg {
		<-bar.Changed()
		return DisplayChangedMsg{}
	}
}

// ClearStatusCmd returns a command that sends ClearStatusMsg after statusTimeout.
func ClearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusTimeout, func(_ time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
