package mpv

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/rs/zerolog"

	"github.com/llehouerou/reel/internal/playback"
)

// Observed property ids.
const (
	obsTimePos = iota + 1
	obsDuration
	obsPause
	obsEOF
	obsVolume
	obsMute
)

var observed = []struct {
	id   int
	name string
}{
	{obsTimePos, "time-pos"},
	{obsDuration, "duration"},
	{obsPause, "pause"},
	{obsEOF, "eof-reached"},
	{obsVolume, "volume"},
	{obsMute, "mute"},
}

// Sink is a MediaSink backed by a running mpv instance. Position, duration
// and pause state are cached from property-change events, so queries never
// touch the socket.
type Sink struct {
	client *Client
	proc   *process
	logger zerolog.Logger

	mu       sync.Mutex
	position time.Duration
	duration time.Duration
	paused   bool
	eof      bool
	volume   float64
	muted    bool
	closed   bool

	onTimeUpdate []func()
	onEnded      []func()

	timeCh   chan struct{}
	endedCh  chan struct{}
	loopDone chan struct{}
	stop     chan struct{}
}

// Verify Sink implements playback.MediaSink at compile time.
var _ playback.MediaSink = (*Sink)(nil)

// NewSink subscribes to the properties the overlay needs and starts
// dispatching mpv events. mpv is expected to be paused.
func NewSink(ctx context.Context, client *Client, logger zerolog.Logger) (*Sink, error) {
	s := &Sink{
		client:   client,
		logger:   logger.With().Str("component", "mpv").Logger(),
		paused:   true,
		volume:   1,
		timeCh:   make(chan struct{}, 1),
		endedCh:  make(chan struct{}, 1),
		loopDone: make(chan struct{}),
		stop:     make(chan struct{}),
	}
	go s.eventLoop()
	go s.notifyLoop()

	for _, p := range observed {
		if err := client.ObserveProperty(ctx, p.id, p.name); err != nil {
			close(s.stop)
			return nil, errors.Wrapf(err, "observe %s", p.name)
		}
	}
	return s, nil
}

// OnTimeUpdate registers fn to run whenever mpv reports a new position.
func (s *Sink) OnTimeUpdate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTimeUpdate = append(s.onTimeUpdate, fn)
}

// OnEnded registers fn to run when mpv reaches the end of the file.
func (s *Sink) OnEnded(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnded = append(s.onEnded, fn)
}

func (s *Sink) Play() error {
	if err := s.client.SetProperty(context.Background(), "pause", false); err != nil {
		return errors.Wrap(err, "play")
	}
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
	return nil
}

func (s *Sink) Pause() error {
	if err := s.client.SetProperty(context.Background(), "pause", true); err != nil {
		return errors.Wrap(err, "pause")
	}
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
	return nil
}

func (s *Sink) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused || s.eof
}

func (s *Sink) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Duration returns 0 until mpv knows the length.
func (s *Sink) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

// SetPosition seeks to pos (clamped to the known duration) with an exact
// absolute seek.
func (s *Sink) SetPosition(pos time.Duration) error {
	s.mu.Lock()
	pos = max(pos, 0)
	if s.duration > 0 {
		pos = min(pos, s.duration)
	}
	s.mu.Unlock()

	if _, err := s.client.Command(context.Background(), "seek", pos.Seconds(), "absolute+exact"); err != nil {
		return errors.Wrapf(err, "seek to %v", pos)
	}

	s.mu.Lock()
	s.position = pos
	s.eof = false
	s.mu.Unlock()
	return nil
}

// SetVolume sets the output level (0.0 to 1.0).
func (s *Sink) SetVolume(level float64) {
	level = min(max(level, 0), 1)
	if err := s.client.SetProperty(context.Background(), "volume", level*100); err != nil {
		s.logger.Warn().Err(err).Msg("set volume")
		return
	}
	s.mu.Lock()
	s.volume = level
	s.mu.Unlock()
}

func (s *Sink) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// SetMuted silences or restores output.
func (s *Sink) SetMuted(muted bool) {
	if err := s.client.SetProperty(context.Background(), "mute", muted); err != nil {
		s.logger.Warn().Err(err).Msg("set mute")
		return
	}
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
}

func (s *Sink) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Close asks mpv to quit, drops the connection and reaps the process.
func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := s.client.Command(ctx, "quit"); err != nil {
		s.logger.Debug().Err(err).Msg("quit")
	}

	err := s.client.Close()
	<-s.loopDone
	close(s.stop)
	if s.proc != nil {
		err = errors.Combine(err, s.proc.wait())
	}
	return err
}

func (s *Sink) eventLoop() {
	defer close(s.loopDone)
	for ev := range s.client.Events() {
		switch ev.Name {
		case "property-change":
			s.handleProperty(ev)
		case "end-file":
			if ev.Reason == "eof" {
				s.signal(s.endedCh)
			}
		}
	}
}

func (s *Sink) handleProperty(ev Event) {
	switch ev.Property {
	case "time-pos":
		var sec float64
		if !decode(ev.Data, &sec) {
			return
		}
		s.mu.Lock()
		s.position = seconds(sec)
		s.mu.Unlock()
		s.signal(s.timeCh)

	case "duration":
		var sec float64
		if !decode(ev.Data, &sec) {
			return
		}
		s.mu.Lock()
		s.duration = seconds(sec)
		s.mu.Unlock()

	case "pause":
		var paused bool
		if !decode(ev.Data, &paused) {
			return
		}
		s.mu.Lock()
		s.paused = paused
		s.mu.Unlock()

	case "eof-reached":
		var eof bool
		if !decode(ev.Data, &eof) {
			return
		}
		s.mu.Lock()
		was := s.eof
		s.eof = eof
		s.mu.Unlock()
		if eof && !was {
			s.signal(s.endedCh)
		}

	case "volume":
		var vol float64
		if decode(ev.Data, &vol) {
			s.mu.Lock()
			s.volume = min(max(vol/100, 0), 1)
			s.mu.Unlock()
		}

	case "mute":
		var muted bool
		if decode(ev.Data, &muted) {
			s.mu.Lock()
			s.muted = muted
			s.mu.Unlock()
		}
	}
}

func (s *Sink) signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// notifyLoop runs the registered callbacks. It is separate from eventLoop so
// a callback waiting on an IPC reply cannot stall the reader.
func (s *Sink) notifyLoop() {
	for {
		select {
		case <-s.stop:
			return
		case <-s.timeCh:
			s.fire(&s.onTimeUpdate)
		case <-s.endedCh:
			s.logger.Debug().Msg("end of file")
			s.fire(&s.onTimeUpdate)
			s.fire(&s.onEnded)
		}
	}
}

func (s *Sink) fire(list *[]func()) {
	s.mu.Lock()
	fns := append([]func(){}, *list...)
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// decode reports false for null values, which mpv sends while a property is
// unavailable.
func decode(data json.RawMessage, v any) bool {
	if len(data) == 0 || string(data) == "null" {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func seconds(sec float64) time.Duration {
	if math.IsNaN(sec) || sec < 0 {
		return 0
	}
	return time.Duration(sec * float64(time.Second))
}
