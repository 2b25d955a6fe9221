package styles

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the overlay palette and the styles built from it.
type Theme struct {
	Primary   lipgloss.Color // active buttons, filled bar start
	Secondary lipgloss.Color // filled bar end

	FgBase   lipgloss.Color // time text, idle buttons
	FgMuted  lipgloss.Color // unfilled bar
	FgSubtle lipgloss.Color // hints

	Border      lipgloss.Color
	BorderFocus lipgloss.Color // while playing

	Error   lipgloss.Color
	Warning lipgloss.Color

	once   sync.Once
	styles *Styles
}

// Styles contains pre-built lipgloss styles.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Active  lipgloss.Style // highlighted wind button
	Button  lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

const (
	defaultPrimary   = "#a78bfa"
	defaultSecondary = "#f1a208"
)

var (
	themeMu      sync.RWMutex
	currentTheme = newTheme(defaultPrimary, defaultSecondary)
)

func newTheme(primary, secondary lipgloss.Color) *Theme {
	return &Theme{
		Primary:   primary,
		Secondary: secondary,

		FgBase:   lipgloss.Color("#c0c0c0"),
		FgMuted:  lipgloss.Color("#585858"),
		FgSubtle: lipgloss.Color("#808080"),

		Border:      lipgloss.Color("#585858"),
		BorderFocus: primary,

		Error:   lipgloss.Color("#ff5555"),
		Warning: lipgloss.Color("#f1a208"),
	}
}

// T returns the current theme.
func T() *Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// SetAccent replaces the accent colors. Empty values keep the defaults.
// Call it once at startup, before rendering.
func SetAccent(primary, secondary string) {
	if primary == "" {
		primary = defaultPrimary
	}
	if secondary == "" {
		secondary = defaultSecondary
	}
	themeMu.Lock()
	defer themeMu.Unlock()
	currentTheme = newTheme(lipgloss.Color(primary), lipgloss.Color(secondary))
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	t.once.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:   base,
		Muted:  lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:  base.Bold(true),
		Active: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
		Button:  base,
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
	}
}
