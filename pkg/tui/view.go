package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/pulse-scope/pkg/source"
)

// View implements tea.Model. The zone scan pass registers legend click
// targets every render.
func (m *Model) View() string {
	if m.width == 0 {
		return "starting pulse-scope..."
	}

	sections := []string{
		m.titleView(),
		m.chartView(),
		m.legendView(),
		m.footerView(),
		m.help.View(m.keys),
	}
	return m.zone.Scan(strings.Join(sections, "\n"))
}

func (m *Model) titleView() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.scheme.Accent)).
		Render("pulse-scope")

	state := m.sel.ActiveName()
	if m.sel.FellBack() {
		state += " (fallback)"
	}
	if m.paused {
		state += " | PAUSED"
	}
	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.scheme.Dim)).
		Render(state)

	gap := m.width - ansi.StringWidth(title) - ansi.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	return ansi.Truncate(title+strings.Repeat(" ", gap)+right, m.width, "")
}

func (m *Model) chartView() string {
	if m.renderErr != nil {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff5555")).
			Render("render error: " + m.renderErr.Error())
	}
	if m.payload == "" {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.scheme.Dim)).
			Render("waiting for samples...")
	}
	return m.payload
}

// legendView lists every signal with its stroke color, numbered to match
// the 1-9 toggle keys. Each entry is a bubblezone click target.
func (m *Model) legendView() string {
	sigs := m.st.Signals()
	if len(sigs) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.scheme.Dim)).
			Render("no signals")
	}

	cached, _ := m.src.(source.CachedSampler)

	entries := make([]string, 0, len(sigs))
	for i, sig := range sigs {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(sig.Color))
		if !sig.Enabled {
			style = lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.scheme.Dim)).
				Strikethrough(true)
		}
		label := fmt.Sprintf("%d:● %s", i+1, sig.DisplayName)
		if cached != nil && sig.Enabled {
			if raw, ok := cached.CachedSample(sig.ID); ok {
				label += "=" + raw
			}
		}
		entry := style.Render(label)
		entries = append(entries, m.zone.Mark(legendZoneID(sig.ID), entry))
	}
	return ansi.Truncate(strings.Join(entries, "  "), m.width, "…")
}

// footerView shows performance counters, the visible span, and any
// transient status message.
func (m *Model) footerView() string {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(m.scheme.Dim))

	var left string
	if r := m.sel.Active(); r != nil {
		pm := r.Metrics()
		left = fmt.Sprintf("%.0f fps | %.1f ms | %d draws | %d pts | span %ds",
			pm.FPS, pm.FrameTimeMs, pm.DrawCalls, pm.VertexCount,
			m.cfg.Settings.TimeSpanSec)
	}

	out := dim.Render(left)
	if m.status != "" {
		accent := lipgloss.NewStyle().Foreground(lipgloss.Color(m.scheme.Accent))
		out += "  " + accent.Render(m.status)
	}
	return ansi.Truncate(out, m.width, "…")
}
