package player

import (
	"encoding/binary"
	"io"

	"emperror.dev/errors"
	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// go-mp3 always yields interleaved little-endian 16-bit stereo.
const (
	mp3Channels  = 2
	mp3FrameSize = 2 * mp3Channels
)

var errMP3SampleRate = errors.New("mp3: invalid sample rate")

// mp3Stream exposes a go-mp3 decoder as a beep.StreamSeekCloser. Positions
// are in samples, which the decoder can seek to exactly.
type mp3Stream struct {
	dec *mp3.Decoder
	src io.Closer
	buf []byte
	err error
}

// decodeGoMP3 opens an MP3 stream. src is closed with the stream.
func decodeGoMP3(src io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	dec, err := mp3.NewDecoder(src)
	if err != nil {
		return nil, beep.Format{}, errors.Wrap(err, "mp3")
	}
	rate := dec.SampleRate()
	if rate == 0 {
		return nil, beep.Format{}, errMP3SampleRate
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: mp3Channels,
		Precision:   2,
	}
	return &mp3Stream{dec: dec, src: src}, format, nil
}

func (s *mp3Stream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	if want := len(samples) * mp3FrameSize; cap(s.buf) < want {
		s.buf = make([]byte, want)
	}
	s.buf = s.buf[:len(samples)*mp3FrameSize]

	read, err := io.ReadFull(s.dec, s.buf)
	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
	default:
		s.err = err
		return 0, false
	}

	n := read / mp3FrameSize
	for i := range n {
		frame := s.buf[i*mp3FrameSize:]
		samples[i][0] = pcm16(frame)
		samples[i][1] = pcm16(frame[2:])
	}
	return n, n > 0
}

// pcm16 converts one little-endian signed 16-bit sample to [-1, 1).
func pcm16(b []byte) float64 {
	return float64(int16(binary.LittleEndian.Uint16(b))) / 32768 //nolint:gosec // reinterpreting PCM bits
}

func (s *mp3Stream) Err() error { return s.err }

func (s *mp3Stream) Len() int {
	return int(max(s.dec.SampleCount(), 0))
}

func (s *mp3Stream) Position() int {
	return int(s.dec.SamplePosition())
}

// Seek moves to sample p, clamped to the stream, and clears a previous
// read error.
func (s *mp3Stream) Seek(p int) error {
	p = min(max(p, 0), s.Len())
	if err := s.dec.SeekToSample(int64(p)); err != nil {
		return errors.Wrapf(err, "mp3 seek to sample %d", p)
	}
	s.err = nil
	return nil
}

func (s *mp3Stream) Close() error {
	return s.src.Close()
}
