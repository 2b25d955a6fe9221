//go:build linux

// Package mpris exposes the playback overlay on D-Bus, so desktop media
// keys and applets drive the same controller as the on-screen buttons.
package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"

	"github.com/llehouerou/reel/internal/playback"
)

// Adapter connects a playback.Controller to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter. vol may be nil when the
// backend has no volume control.
func New(ctrl playback.Controller, media Media, vol VolumeControl, logger zerolog.Logger) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("reel", newRootAdapter(), newPlayerAdapter(ctrl, media, vol)),
	}

	logger = logger.With().Str("component", "mpris").Logger()
	go func() {
		if err := a.server.Listen(); err != nil {
			logger.Warn().Err(err).Msg("listen")
		}
	}()

	return a, nil
}

// Close releases the bus name.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter answers the MediaPlayer2 interface. reel has no window to
// raise and its lifetime belongs to the terminal, so both are refused.
type rootAdapter struct {
	identity  string
	mimeTypes []string
}

func newRootAdapter() *rootAdapter {
	return &rootAdapter{
		identity: "Reel",
		mimeTypes: []string{
			"audio/mpeg", "audio/flac", "audio/wav",
			"video/mp4", "video/webm", "video/x-matroska",
		},
	}
}

func (*rootAdapter) Raise() error                { return nil }
func (*rootAdapter) Quit() error                 { return nil }
func (*rootAdapter) CanQuit() (bool, error)      { return false, nil }
func (*rootAdapter) CanRaise() (bool, error)     { return false, nil }
func (*rootAdapter) HasTrackList() (bool, error) { return false, nil }

func (r *rootAdapter) Identity() (string, error) { return r.identity, nil }

//nolint:revive // name fixed by go-mpris-server
func (*rootAdapter) SupportedUriSchemes() ([]string, error) { return []string{"file"}, nil }

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) { return r.mimeTypes, nil }

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter. Every
// transport call goes through the controller so the overlay stays in sync.
type playerAdapter struct {
	ctrl  playback.Controller
	media Media
	vol   VolumeControl
}

func newPlayerAdapter(ctrl playback.Controller, media Media, vol VolumeControl) *playerAdapter {
	return &playerAdapter{ctrl: ctrl, media: media, vol: vol}
}

// There is no track list, so Next and Previous do nothing.

func (*playerAdapter) Next() error                  { return nil }
func (*playerAdapter) Previous() error              { return nil }
func (*playerAdapter) CanGoNext() (bool, error)     { return false, nil }
func (*playerAdapter) CanGoPrevious() (bool, error) { return false, nil }

func (p *playerAdapter) Pause() error {
	if p.ctrl.Snapshot().Icon == playback.IconPause {
		return p.ctrl.TogglePlayPause()
	}
	return nil
}

func (p *playerAdapter) PlayPause() error {
	return p.ctrl.TogglePlayPause()
}

func (p *playerAdapter) Stop() error {
	return p.ctrl.Stop()
}

func (p *playerAdapter) Play() error {
	if p.ctrl.Snapshot().Icon == playback.IconPlay {
		return p.ctrl.TogglePlayPause()
	}
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	pos := p.ctrl.Snapshot().Position + time.Duration(offset)*time.Microsecond
	return p.ctrl.SeekToPosition(pos)
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	return p.ctrl.SeekToPosition(time.Duration(position) * time.Microsecond)
}

// OpenUri is refused: one process plays one file.
//
//nolint:revive // name fixed by go-mpris-server
func (*playerAdapter) OpenUri(string) error { return nil }

// PlaybackStatus reports Stopped for paused at the start, which is where
// the stop button leaves the media.
func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	snap := p.ctrl.Snapshot()
	switch {
	case snap.Icon == playback.IconPause:
		return types.PlaybackStatusPlaying, nil
	case snap.Position == 0:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusPaused, nil
}

// Playback speed is fixed at 1.

func (*playerAdapter) Rate() (float64, error) { return 1, nil }
func (*playerAdapter) SetRate(float64) error  { return nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	length := p.media.Duration
	if d := p.ctrl.Snapshot().Duration; d > 0 {
		length = d
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(p.media.Path)),
		Length:  types.Microseconds(length.Microseconds()),
		Title:   p.media.DisplayTitle(),
		Album:   p.media.Album,
	}
	if p.media.Artist != "" {
		meta.Artist = []string{p.media.Artist}
	}
	if p.media.Track > 0 {
		meta.TrackNumber = p.media.Track
	}
	if artPath := FindArtwork(p.media.Path); artPath != "" {
		meta.ArtUrl = "file://" + artPath
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	if p.vol == nil {
		return 1.0, nil
	}
	return p.vol.Volume(), nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	if p.vol != nil {
		p.vol.SetVolume(v)
	}
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.ctrl.Snapshot().Position.Microseconds(), nil
}

func (*playerAdapter) MinimumRate() (float64, error) { return 1, nil }
func (*playerAdapter) MaximumRate() (float64, error) { return 1, nil }

func (*playerAdapter) CanPlay() (bool, error)    { return true, nil }
func (*playerAdapter) CanPause() (bool, error)   { return true, nil }
func (*playerAdapter) CanControl() (bool, error) { return true, nil }

// CanSeek is false until the duration is known, matching the controller,
// which refuses seeks before then.
func (p *playerAdapter) CanSeek() (bool, error) {
	return p.ctrl.Snapshot().Duration > 0, nil
}

// formatTrackID derives a stable object path from the media path.
func formatTrackID(path string) string {
	sum := fnv.New64a()
	_, _ = sum.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", sum.Sum64())
}
