package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// neutral stands in for colors that are not #rrggbb (ANSI indexes).
var neutral = colorful.Color{R: 0.5, G: 0.5, B: 0.5}

// TitleGradient renders text in bold, each grapheme one step along the
// from..to blend.
func TitleGradient(text string, from, to lipgloss.Color) string {
	var clusters []string
	for g := uniseg.NewGraphemes(text); g.Next(); {
		clusters = append(clusters, g.Str())
	}
	if len(clusters) == 0 {
		return ""
	}

	ramp := blendColors(len(clusters), from, to)
	var b strings.Builder
	for i, c := range clusters {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(hexColor(ramp[i])).Render(c))
	}
	return b.String()
}

// GradientCells renders n copies of cell, blended from one color to the
// other over span cells. A partial seek bar fill passes the full bar width
// as span so each cell keeps its color as the fill grows.
func GradientCells(cell string, n, span int, from, to lipgloss.Color) string {
	if n <= 0 {
		return ""
	}
	ramp := blendColors(max(span, n), from, to)

	var b strings.Builder
	for i := range n {
		b.WriteString(lipgloss.NewStyle().Foreground(hexColor(ramp[i])).Render(cell))
	}
	return b.String()
}

// blendColors returns size colors from one end to the other, blended in
// HCL space.
func blendColors(size int, from, to lipgloss.Color) []color.Color {
	start, end := parseHex(from), parseHex(to)
	if size < 2 {
		return []color.Color{start}
	}
	ramp := make([]color.Color, size)
	for i := range ramp {
		ramp[i] = start.BlendHcl(end, float64(i)/float64(size-1)).Clamped()
	}
	return ramp
}

func parseHex(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	return neutral
}

func hexColor(c color.Color) lipgloss.Color {
	return lipgloss.Color(colorToHex(c))
}

func colorToHex(c color.Color) string {
	if cf, ok := c.(colorful.Color); ok {
		return cf.Hex()
	}
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}
