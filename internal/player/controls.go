package player

import (
	"time"

	"emperror.dev/errors"
	"github.com/gopxl/beep/v2/speaker"
)

// ErrClosed is returned by commands on a closed sink.
var ErrClosed = errors.New("player closed")

// Play resumes output. After the end of the file, the stream is queued again
// so playback continues from the current position.
func (s *Sink) Play() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	ended := s.ended
	s.ended = false
	s.mu.Unlock()

	speaker.Lock()
	s.ctrl.Paused = false
	speaker.Unlock()

	if ended {
		s.queue()
	}
	return nil
}

// Pause suspends output.
func (s *Sink) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	speaker.Lock()
	s.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

// Paused reports whether output is suspended. A file that played to its end
// counts as paused.
func (s *Sink) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.ended {
		return true
	}
	speaker.Lock()
	defer speaker.Unlock()
	return s.ctrl.Paused
}

// Position returns the current playback position.
func (s *Sink) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	if s.streamer == nil {
		return 0
	}
	return s.format.SampleRate.D(s.streamer.Position())
}

// Duration returns the file length.
func (s *Sink) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.info == nil {
		return 0
	}
	return s.info.Duration
}

// SetPosition seeks to pos, clamped to the file.
func (s *Sink) SetPosition(pos time.Duration) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.mu.Unlock()

	speaker.Lock()
	if s.streamer == nil {
		speaker.Unlock()
		return ErrClosed
	}
	n := min(max(s.format.SampleRate.N(pos), 0), s.streamer.Len())
	err := s.streamer.Seek(n)
	speaker.Unlock()
	if err != nil {
		return errors.Wrapf(err, "seek to %v", pos)
	}

	s.mon.poke()
	return nil
}

// Close stops output and releases the file.
func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.mon.stop()
	speaker.Clear()

	speaker.Lock()
	err := s.streamer.Close()
	s.streamer = nil
	speaker.Unlock()

	// Decoders own the file and close it with the stream
	return errors.WithStack(err)
}
