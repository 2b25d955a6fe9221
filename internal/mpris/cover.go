package mpris

import (
	"os"
	"path/filepath"
	"strings"
)

// artNames lists folder-level artwork filenames in priority order.
var artNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"poster.jpg", "poster.png",
	"folder.jpg", "folder.png", "folder.jpeg",
	"front.jpg", "front.png",
}

// FindArtwork looks for artwork next to the media file: first an image
// sharing its base name (movie.mkv -> movie.jpg), then the common folder
// names. Returns an empty string if none exists.
func FindArtwork(mediaPath string) string {
	dir := filepath.Dir(mediaPath)
	stem := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))

	candidates := make([]string, 0, len(artNames)+2)
	candidates = append(candidates, stem+".jpg", stem+".png")
	candidates = append(candidates, artNames...)

	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
