package controlbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/reel/internal/icons"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/ui/render"
	"github.com/llehouerou/reel/internal/ui/styles"
)

const (
	filledCell = "━"
	emptyCell  = "─"
)

// Render returns the bordered bar, width columns wide. The seek geometry
// reported to the controller follows SetWidth, not this argument.
func (b *Bar) Render(width int) string {
	b.mu.Lock()
	s := State{TimeText: b.timeText, Icon: b.icon, Active: b.active, Fill: b.fill}
	l := b.layout
	if width != b.width {
		l = computeLayout(width)
	}
	b.mu.Unlock()

	return renderBar(s, l, width)
}

func renderBar(s State, l layout, width int) string {
	if width < 2*contentOffset {
		return ""
	}
	t := styles.T()
	st := t.S()

	var content strings.Builder
	for i, btn := range playback.Buttons {
		if i > 0 {
			content.WriteString(strings.Repeat(" ", buttonGap))
		}
		w := l.buttons[btn].end - l.buttons[btn].start
		cell := " " + render.Pad(icons.Button(btn, s.Icon), w-2) + " "
		style := st.Button
		if s.Active[btn] {
			style = st.Active.Reverse(true)
		}
		content.WriteString(style.Render(cell))
	}

	content.WriteString(strings.Repeat(" ", sectionGap))
	content.WriteString(st.Title.Render(render.Pad(s.TimeText, timeWidth)))
	content.WriteString(strings.Repeat(" ", sectionGap))

	if barWidth := l.barEnd - l.barStart; barWidth > 0 {
		filled := min(max(int(s.Fill), 0), barWidth)
		content.WriteString(styles.GradientCells(filledCell, filled, barWidth, t.Primary, t.Secondary))
		content.WriteString(st.Muted.Render(strings.Repeat(emptyCell, barWidth-filled)))
	}

	line := lipgloss.NewStyle().MaxWidth(l.inner).Render(content.String())
	return styles.PanelStyle(s.Icon == playback.IconPause).
		Padding(0, contentOffset-1).
		Width(width - 2).
		Render(line)
}
