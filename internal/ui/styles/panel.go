package styles

import "github.com/charmbracelet/lipgloss"

// PanelStyle returns the rounded border around the control bar. The border
// takes the accent color while media is playing.
func PanelStyle(playing bool) lipgloss.Style {
	t := T()
	border := t.Border
	if playing {
		border = t.BorderFocus
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border)
}
