package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/reel/internal/icons"
	"github.com/llehouerou/reel/internal/keymap"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/ui/overlay"
	"github.com/llehouerou/reel/internal/ui/render"
	"github.com/llehouerou/reel/internal/ui/styles"
)

// View renders the application UI.
func (m Model) View() string {
	if m.Width == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.bar.Render(m.Width))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	view := b.String()

	if m.ShowHelp {
		height := max(m.Height, lipgloss.Height(view))
		return overlay.Center(view, m.renderHelp(), m.Width, height)
	}
	return view
}

func (m Model) renderHeader() string {
	t := styles.T()

	title := m.media.Title
	if title == "" {
		title = filepath.Base(m.media.Path)
	}
	title = render.Truncate(render.Sanitize(icons.FormatMedia(title, m.media.Video)), m.Width)

	snap := m.ctrl.Snapshot()
	left := render.Truncate(render.Sanitize(joinNonEmpty(" - ", m.media.Artist, m.media.Album)), m.Width/2)
	right := joinNonEmpty(" · ", m.media.Format, sampleRateText(m.media.SampleRate), sizeText(m.media.Size), durationText(snap.Duration))

	return styles.TitleGradient(title, t.Primary, t.Secondary) + "\n" + t.S().Muted.Render(render.Row(left, right, m.Width))
}

func (m Model) renderStatus() string {
	st := styles.T().S()
	var left string
	if m.Status != "" {
		if m.StatusErr {
			left = st.Error.Render(render.Truncate(m.Status, m.Width*2/3))
		} else {
			left = st.Base.Render(render.Truncate(m.Status, m.Width*2/3))
		}
	}
	hint := "help"
	if keys := m.resolver.KeysFor(keymap.ActionHelp); len(keys) > 0 {
		hint = keys[0] + " help"
	}
	if m.output != nil {
		hint = volumeText(m.output.Volume(), m.output.Muted()) + "  " + hint
	}
	right := st.Subtle.Render(hint)
	return render.Row(left, right, m.Width)
}

func (m Model) renderHelp() string {
	st := styles.T().S()
	content := st.Title.Render("Keys") + "\n\n" + m.help.View(m.helpMap)
	return styles.PanelStyle(true).Padding(0, 1).Render(content)
}

func volumeText(level float64, muted bool) string {
	if muted {
		return "muted"
	}
	return fmt.Sprintf("vol %d%%", int(level*100+0.5))
}

func sampleRateText(rate int) string {
	if rate <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f kHz", float64(rate)/1000)
}

func sizeText(size int64) string {
	if size <= 0 {
		return ""
	}
	return humanize.IBytes(uint64(size))
}

func durationText(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return playback.FormatElapsed(d)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
