// Package app is the terminal front end: a header describing the open
// media, the control bar and a status line, driven by keys and the mouse.
package app

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/reel/internal/keymap"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/ui/controlbar"
)

const (
	headerHeight = 2
	volumeStep   = 0.05
)

// Output is implemented by sinks with adjustable output level.
type Output interface {
	Volume() float64
	SetVolume(level float64)
	Muted() bool
	SetMuted(muted bool)
}

// Media describes the open file for the header.
type Media struct {
	Path       string
	Title      string
	Artist     string
	Album      string
	Format     string
	SampleRate int
	Size       int64
	Video      bool
}

// Options configures the model.
type Options struct {
	Media    Media
	Output   Output // nil when the backend has no volume control
	SeekStep time.Duration
	Logger   *zerolog.Logger
}

// Model is the root bubbletea model.
type Model struct {
	ctrl     playback.Controller
	bar      *controlbar.Bar
	sub      *playback.Subscription
	resolver *keymap.Resolver
	helpMap  keymap.HelpMap
	help     help.Model

	media    Media
	output   Output
	seekStep time.Duration
	logger   zerolog.Logger

	ShowHelp  bool
	Status    string
	StatusErr bool
	statusSeq int

	Width  int
	Height int
}

// New creates the model. bar must be one of ctrl's displays.
func New(ctrl playback.Controller, bar *controlbar.Bar, opts Options) Model {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	if opts.SeekStep <= 0 {
		opts.SeekStep = 10 * time.Second
	}
	h := help.New()
	h.ShowAll = true

	return Model{
		ctrl:     ctrl,
		bar:      bar,
		sub:      ctrl.Subscribe(),
		resolver: keymap.NewResolver(keymap.All),
		helpMap:  keymap.NewHelpMap(keymap.All),
		help:     h,
		media:    opts.Media,
		output:   opts.Output,
		seekStep: opts.SeekStep,
		logger:   logger.With().Str("component", "tui").Logger(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(WatchEvents(m.sub), WatchDisplay(m.bar))
}

// barRow is the screen row of the bar's content line.
func barRow() int {
	return headerHeight + 1
}
