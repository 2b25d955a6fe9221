package mpris

import (
	"path/filepath"
	"time"
)

// Media describes the open file for Metadata.
type Media struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Track    int
	Duration time.Duration
}

// DisplayTitle returns the title, or the file name when the file has none.
func (m Media) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return filepath.Base(m.Path)
}

// VolumeControl is implemented by backends with adjustable output.
type VolumeControl interface {
	Volume() float64
	SetVolume(level float64)
}
