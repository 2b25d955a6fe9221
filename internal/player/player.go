// Package player plays local audio files through the system speaker and
// exposes them as a playback.MediaSink.
package player

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/rs/zerolog"

	"github.com/llehouerou/reel/internal/playback"
)

const defaultPollInterval = 250 * time.Millisecond

// Options configures a Sink.
type Options struct {
	// PollInterval is how often the position is sampled for time updates.
	PollInterval time.Duration
	// Volume is the initial level, 0.0 to 1.0.
	Volume float64
	Logger *zerolog.Logger
}

// TrackInfo describes the opened file.
type TrackInfo struct {
	Path       string
	Title      string
	Artist     string
	Album      string
	Year       int
	Track      int
	Duration   time.Duration
	Format     string // "MP3", "FLAC" or "WAV"
	SampleRate int
	BitDepth   int
}

// Sink is a beep-backed MediaSink for a single audio file.
// It opens paused at position 0.
type Sink struct {
	mu sync.Mutex

	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	info     *TrackInfo
	ended    bool
	closed   bool

	volumeLevel float64
	muted       bool

	onTimeUpdate []func()
	onEnded      []func()

	mon    *monitor
	logger zerolog.Logger
}

// Verify Sink implements playback.MediaSink at compile time.
var _ playback.MediaSink = (*Sink)(nil)

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// TrackInfo returns the metadata of the opened file.
func (s *Sink) TrackInfo() *TrackInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// OnTimeUpdate registers fn to run whenever the position changes.
func (s *Sink) OnTimeUpdate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTimeUpdate = append(s.onTimeUpdate, fn)
}

// OnEnded registers fn to run when playback reaches the end of the file.
func (s *Sink) OnEnded(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnded = append(s.onEnded, fn)
}

func (s *Sink) fireTimeUpdate() {
	s.mu.Lock()
	fns := append([]func(){}, s.onTimeUpdate...)
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (s *Sink) fireEnded() {
	s.mu.Lock()
	s.ended = true
	fns := append([]func(){}, s.onEnded...)
	s.mu.Unlock()
	s.logger.Debug().Msg("end of stream")
	for _, fn := range fns {
		fn()
	}
}
