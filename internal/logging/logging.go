// Package logging sets up the zerolog logger. The TUI owns the terminal, so
// log lines go to a file.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/rs/zerolog"
)

// Options selects the log destination and verbosity.
type Options struct {
	File  string
	Level string // zerolog level name; "info" when empty or unknown
	Debug bool   // forces debug level
}

// Open creates the log file's directory and returns a logger writing to it.
// The returned closer closes the file.
func Open(opts Options) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return zerolog.Nop(), nil, errors.Wrap(err, "create log dir")
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, errors.Wrap(err, "open log file")
	}
	return New(f, opts), f, nil
}

// New returns a logger writing human-readable lines to w.
func New(w io.Writer, opts Options) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.DateTime}
	return zerolog.New(out).Level(ParseLevel(opts.Level, opts.Debug)).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(name string, debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
