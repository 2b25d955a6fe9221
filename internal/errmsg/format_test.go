//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpSeek,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpPlay,
			err:      errors.New("mpv connection closed"),
			expected: "Failed to play: mpv connection closed",
		},
		{
			name:     "multi-word operation",
			op:       OpOpenMedia,
			err:      errors.New("unsupported audio format"),
			expected: "Failed to open media: unsupported audio format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Format(tt.op, tt.err); result != tt.expected {
				t.Errorf("Format() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpOpenMedia,
			context:  "movie.mkv",
			err:      nil,
			expected: "",
		},
		{
			name:     "includes context",
			op:       OpOpenMedia,
			context:  "movie.mkv",
			err:      errors.New("no such file"),
			expected: "Failed to open media 'movie.mkv': no such file",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpStartMpv,
			context:  "",
			err:      errors.New("executable not found"),
			expected: "Failed to start mpv: executable not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := FormatWith(tt.op, tt.context, tt.err); result != tt.expected {
				t.Errorf("FormatWith() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestForSinkOperation(t *testing.T) {
	tests := []struct {
		name string
		want Op
	}{
		{"play", OpPlay},
		{"pause", OpPause},
		{"seek", OpSeek},
		{"reticulate", Op("reticulate")},
	}
	for _, tt := range tests {
		if got := ForSinkOperation(tt.name); got != tt.want {
			t.Errorf("ForSinkOperation(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
