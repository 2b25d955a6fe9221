package playback

import (
	"fmt"
	"math"
	"time"
)

// FormatElapsed renders a position as zero-padded HH:MM:SS.
// Fractions of a second are floored; negative positions render as 00:00:00.
func FormatElapsed(pos time.Duration) string {
	total := max(int64(pos/time.Second), 0)
	hours := total / 3600
	rest := total - hours*3600
	minutes := rest / 60
	seconds := rest - minutes*60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// ProgressWidth returns the filled width of a seek bar of barWidth units
// for pos within dur. Unknown durations (zero or negative) yield 0.
func ProgressWidth(pos, dur time.Duration, barWidth float64) float64 {
	if dur <= 0 || !(barWidth > 0) || math.IsInf(barWidth, 0) {
		return 0
	}
	return barWidth * clampFraction(float64(pos)/float64(dur))
}

// SeekFraction maps a click coordinate onto the bar spanning [left, right]
// and returns the clamped fraction. A degenerate bar maps every click to 0.
func SeekFraction(clickX, left, right float64) float64 {
	span := right - left
	if !(span > 0) || math.IsInf(span, 0) {
		return 0
	}
	return clampFraction((clickX - left) / span)
}

// PositionAt returns the position at fraction f of dur.
func PositionAt(f float64, dur time.Duration) time.Duration {
	return time.Duration(clampFraction(f) * float64(dur))
}

func clampFraction(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
