package player

import (
	"math"

	"github.com/gopxl/beep/v2/speaker"
)

// SetVolume sets the output level (0.0 to 1.0).
// While muted the level is only stored.
func (s *Sink) SetVolume(level float64) {
	level = min(max(level, 0), 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumeLevel = level
	if s.muted || s.volume == nil {
		return
	}
	speaker.Lock()
	s.volume.Volume = levelToVolume(level)
	speaker.Unlock()
}

// Volume returns the output level (0.0 to 1.0).
func (s *Sink) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volumeLevel
}

// SetMuted silences or restores output.
func (s *Sink) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
	if s.volume == nil {
		return
	}
	speaker.Lock()
	s.volume.Silent = muted
	if !muted {
		s.volume.Volume = levelToVolume(s.volumeLevel)
	}
	speaker.Unlock()
}

// Muted reports whether output is silenced.
func (s *Sink) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// levelToVolume maps a 0.0-1.0 level onto beep's base-2 logarithmic scale:
// 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10 (essentially silent).
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
