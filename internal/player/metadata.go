package player

import (
	"os"
	"path/filepath"

	"emperror.dev/errors"
	"github.com/dhowden/tag"
)

// ReadTrackInfo reads the tags of path. Duration and stream properties are
// left for the decoder to fill in.
func ReadTrackInfo(path string) (*TrackInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read tags of %s", path)
	}

	title := m.Title()
	if title == "" {
		title = filepath.Base(path)
	}

	artist := m.Artist()
	if artist == "" {
		artist = m.AlbumArtist()
	}

	track, _ := m.Track()

	return &TrackInfo{
		Path:   path,
		Title:  title,
		Artist: artist,
		Album:  m.Album(),
		Year:   m.Year(),
		Track:  track,
	}, nil
}
