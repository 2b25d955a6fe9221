package player

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"github.com/rs/zerolog"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
)

// ErrUnsupportedFormat is returned by Open for files it cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// IsAudioFile reports whether Open can decode path.
func IsAudioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3, extFLAC, extWAV:
		return true
	}
	return false
}

// Open decodes path and queues it on the speaker, paused at position 0.
func Open(path string, opts Options) (*Sink, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsAudioFile(path) {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	streamer, format, err := decode(f, ext)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	if err := initSpeaker(format.SampleRate); err != nil {
		streamer.Close()
		return nil, err
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}

	s := &Sink{
		streamer:    streamer,
		format:      format,
		volumeLevel: 1,
		logger:      logger.With().Str("component", "player").Str("path", path).Logger(),
	}

	// Resample if the file's sample rate differs from the speaker's
	var playStreamer beep.Streamer = streamer
	if format.SampleRate != speakerSampleRate {
		playStreamer = beep.Resample(4, format.SampleRate, speakerSampleRate, streamer)
	}
	s.ctrl = &beep.Ctrl{Streamer: playStreamer, Paused: true}
	s.volume = &effects.Volume{Streamer: s.ctrl, Base: 2, Volume: 0, Silent: false}
	if opts.Volume > 0 {
		s.SetVolume(opts.Volume)
	}

	info, err := ReadTrackInfo(path)
	if err != nil {
		s.logger.Debug().Err(err).Msg("no tags")
		info = &TrackInfo{Path: path, Title: filepath.Base(path)}
	}
	info.Duration = format.SampleRate.D(streamer.Len())
	info.SampleRate = int(format.SampleRate)
	info.BitDepth = format.Precision * 8
	info.Format = strings.ToUpper(strings.TrimPrefix(ext, "."))
	s.info = info

	s.mon = newMonitor(opts.PollInterval, s.Position)
	go s.mon.run(s.fireTimeUpdate, s.fireEnded)

	s.queue()
	s.logger.Info().Dur("duration", info.Duration).Int("rate", info.SampleRate).Msg("opened")
	return s, nil
}

func decode(f *os.File, ext string) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext {
	case extMP3:
		return decodeGoMP3(f)
	case extFLAC:
		// Some taggers prepend ID3v2 to FLAC files, which the decoder rejects
		if err := skipID3v2(f); err != nil {
			return nil, beep.Format{}, err
		}
		return flac.Decode(f)
	case extWAV:
		return wav.Decode(f)
	}
	return nil, beep.Format{}, ErrUnsupportedFormat
}

func initSpeaker(rate beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return errors.Wrap(err, "init speaker")
	}
	speakerSampleRate = rate
	speakerInitialized = true
	return nil
}

// queue hands the stream to the speaker. The trailing callback runs on the
// speaker goroutine with the speaker locked, so it only signals the monitor.
func (s *Sink) queue() {
	mon := s.mon
	speaker.Play(beep.Seq(s.volume, beep.Callback(mon.signalEnded)))
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// Size is a syncsafe integer: 7 bits per byte
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])

	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
