package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "transport", "seek", "output"
}

// Contexts lists binding groups in help order.
var Contexts = []string{"transport", "seek", "output", "global"}

// All contains every key binding.
var All = []Binding{
	// Transport
	{ActionPlayPause, []string{" ", "k"}, "Play/pause", "transport"},
	{ActionStop, []string{"s", "x"}, "Stop", "transport"},
	{ActionRewind, []string{"r", "j"}, "Rewind", "transport"},
	{ActionForward, []string{"f", "l"}, "Fast forward", "transport"},

	// Seek
	{ActionSeekPercent, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}, "Jump to 0%-90%", "seek"},
	{ActionSeekBack, []string{"left"}, "Back one step", "seek"},
	{ActionSeekAhead, []string{"right"}, "Ahead one step", "seek"},

	// Output
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "output"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "output"},
	{ActionMute, []string{"m"}, "Mute", "output"},

	// Global
	{ActionHelp, []string{"?"}, "Toggle help", "global"},
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
}

// SeekFraction returns the bar fraction a digit key jumps to.
func SeekFraction(k string) (float64, bool) {
	if len(k) != 1 || k[0] < '0' || k[0] > '9' {
		return 0, false
	}
	return float64(k[0]-'0') / 10, true
}

// KeyBinding converts b for use with bubbles components.
func (b Binding) KeyBinding() key.Binding {
	return key.NewBinding(
		key.WithKeys(b.Keys...),
		key.WithHelp(helpKeys(b), b.Description),
	)
}

// helpKeys is the short key label shown in help.
func helpKeys(b Binding) string {
	if b.Action == ActionSeekPercent {
		return "0-9"
	}
	labels := make([]string, 0, len(b.Keys))
	for _, k := range b.Keys {
		if k == " " {
			k = "space"
		}
		labels = append(labels, k)
	}
	return strings.Join(labels, "/")
}

// HelpMap implements bubbles' help.KeyMap over a set of bindings.
type HelpMap struct {
	groups [][]key.Binding
	short  []key.Binding
}

// NewHelpMap groups bindings by context, in Contexts order.
func NewHelpMap(bindings []Binding) HelpMap {
	var m HelpMap
	for _, ctx := range Contexts {
		var group []key.Binding
		for _, b := range bindings {
			if b.Context != ctx {
				continue
			}
			kb := b.KeyBinding()
			group = append(group, kb)
			if b.Action == ActionPlayPause || b.Action == ActionHelp || b.Action == ActionQuit {
				m.short = append(m.short, kb)
			}
		}
		if len(group) > 0 {
			m.groups = append(m.groups, group)
		}
	}
	return m
}

func (m HelpMap) ShortHelp() []key.Binding {
	return m.short
}

func (m HelpMap) FullHelp() [][]key.Binding {
	return m.groups
}
