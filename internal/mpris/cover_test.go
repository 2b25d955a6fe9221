package mpris

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFake(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("fake"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestFindArtwork(t *testing.T) {
	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.jpg")
	writeFake(t, coverPath)

	got := FindArtwork(filepath.Join(dir, "track.mp3"))
	if got != coverPath {
		t.Errorf("FindArtwork() = %q, want %q", got, coverPath)
	}
}

func TestFindArtwork_NotFound(t *testing.T) {
	dir := t.TempDir()

	if got := FindArtwork(filepath.Join(dir, "movie.mkv")); got != "" {
		t.Errorf("FindArtwork() = %q, want empty string", got)
	}
}

func TestFindArtwork_Priority(t *testing.T) {
	dir := t.TempDir()
	writeFake(t, filepath.Join(dir, "folder.jpg"))
	writeFake(t, filepath.Join(dir, "cover.jpg"))
	ownPath := filepath.Join(dir, "movie.png")
	writeFake(t, ownPath)

	got := FindArtwork(filepath.Join(dir, "movie.mkv"))
	if got != ownPath {
		t.Errorf("FindArtwork() = %q, want %q (same base name first)", got, ownPath)
	}
}

func TestMedia_DisplayTitle(t *testing.T) {
	if got := (Media{Path: "/v/movie.mkv"}).DisplayTitle(); got != "movie.mkv" {
		t.Errorf("DisplayTitle() = %q", got)
	}
	if got := (Media{Path: "/a/01.flac", Title: "Intro"}).DisplayTitle(); got != "Intro" {
		t.Errorf("DisplayTitle() = %q", got)
	}
}
