// Package overlay draws popups over an already rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Center places popup in the middle of base. Both are ANSI-styled blocks;
// base lines are padded to width and base is padded to height as needed.
func Center(base, popup string, width, height int) string {
	pw, ph := lipgloss.Size(popup)
	x := max((width-pw)/2, 0)
	y := max((height-ph)/2, 0)
	return Place(base, popup, x, y, width, height)
}

// Place draws popup over base with its top-left corner at column x, row y.
// Cells of base outside the popup keep their styling.
func Place(base, popup string, x, y, width, height int) string {
	baseLines := strings.Split(base, "\n")
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}

	for i, line := range strings.Split(popup, "\n") {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		lineWidth := ansi.StringWidth(line)
		if lineWidth == 0 {
			continue
		}

		baseLine := baseLines[row]
		if w := ansi.StringWidth(baseLine); w < width {
			baseLine += strings.Repeat(" ", width-w)
		}

		end := x + lineWidth
		result := ansi.Cut(baseLine, 0, x) + line
		if end < width {
			result += ansi.Cut(baseLine, end, width)
		}
		baseLines[row] = result
	}

	return strings.Join(baseLines, "\n")
}
