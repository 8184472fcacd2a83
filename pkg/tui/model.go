// Package tui hosts the interactive scope: a Bubbletea model that drives
// the acquisition loop, renders frames through the active backend at the
// configured refresh rate, and exposes keyboard and mouse controls for
// pausing, zooming, signal toggling, and exports.
package tui

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/pulse-scope/pkg/acquire"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/config"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/render"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/source"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/store"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/theme"
)

// chromeRows is the vertical space reserved around the chart: title bar,
// legend, metrics footer, and help line.
const chromeRows = 4

// tickMsg drives the periodic redraw cycle.
type tickMsg struct {
	Time time.Time
}

// statusExpiredMsg clears a transient status message. Seq guards against
// clearing a newer message than the one that scheduled it.
type statusExpiredMsg struct {
	Seq int
}

// tickCmd schedules the next redraw after d.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg{Time: t}
	})
}

// schemeSetter is satisfied by both backends through render.Base.
type schemeSetter interface {
	SetScheme(theme.Scheme)
}

// frameExporter is satisfied by backends that can save the last frame as
// an image file.
type frameExporter interface {
	ExportPNG(path string) error
}

// Model is the root Bubbletea model for the scope.
type Model struct {
	cfg  *config.Config
	st   *store.Store
	src  source.Sampler
	loop *acquire.Loop
	sel  *render.Selector
	log  *slog.Logger

	zone *zone.Manager
	keys keyMap
	help help.Model

	scheme     theme.Scheme
	schemeIdx  int
	width      int
	height     int
	paused     bool
	showGrid   bool
	frozen     render.Frame // viewport and data pinned while paused
	payload    string
	renderErr  error
	status     string
	statusSeq  int
	exportTime func() time.Time // injectable for deterministic filenames
}

// New assembles the scope model. The selector must already be Ready.
func New(cfg *config.Config, st *store.Store, src source.Sampler, loop *acquire.Loop, sel *render.Selector, log *slog.Logger) *Model {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Model{
		cfg:        cfg,
		st:         st,
		src:        src,
		loop:       loop,
		sel:        sel,
		log:        log,
		zone:       zone.New(),
		keys:       defaultKeyMap(),
		help:       help.New(),
		scheme:     theme.Get(cfg.Settings.ColorScheme),
		schemeIdx:  schemeIndex(cfg.Settings.ColorScheme),
		showGrid:   true,
		exportTime: time.Now,
	}
}

// Init starts the redraw ticker.
func (m *Model) Init() tea.Cmd {
	return tickCmd(m.cfg.Settings.TickInterval())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		if !m.paused {
			m.redraw()
		}
		return m, tickCmd(m.cfg.Settings.TickInterval())

	case statusExpiredMsg:
		if msg.Seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.loop.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		if !m.paused {
			m.redraw()
		}

	case key.Matches(msg, m.keys.Grid):
		m.showGrid = !m.showGrid
		m.redraw()

	case key.Matches(msg, m.keys.Scheme):
		m.cycleScheme()

	case key.Matches(msg, m.keys.ZoomIn):
		return m, m.adjustSpan(0.5)

	case key.Matches(msg, m.keys.ZoomOut):
		return m, m.adjustSpan(2)

	case key.Matches(msg, m.keys.ExportJSON):
		return m, m.exportData(store.FormatJSON)

	case key.Matches(msg, m.keys.ExportCSV):
		return m, m.exportData(store.FormatCSV)

	case key.Matches(msg, m.keys.Snapshot):
		return m, m.exportFrame()

	case key.Matches(msg, m.keys.Toggle):
		m.toggleSignalAt(int(msg.String()[0] - '1'))

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// handleMouse toggles a signal when its legend entry is clicked.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	for i, sig := range m.st.Signals() {
		if m.zone.Get(legendZoneID(sig.ID)).InBounds(msg) {
			m.toggleSignalAt(i)
			return nil
		}
	}
	return nil
}

// resize propagates the new terminal dimensions to the active backend.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	chartH := height - chromeRows
	if chartH < 1 {
		chartH = 1
	}
	if r := m.sel.Active(); r != nil {
		r.Resize(width, chartH)
	}
	if !m.paused {
		m.redraw()
	}
}

// redraw takes fresh snapshots, computes the viewport, and renders one
// frame through the active backend.
func (m *Model) redraw() {
	r := m.sel.Active()
	if r == nil {
		return
	}

	snaps := m.st.SnapshotAll()
	frame := render.Frame{
		Signals:  snaps,
		Viewport: m.viewport(snaps),
		ShowGrid: m.showGrid,
	}
	m.frozen = frame

	payload, err := r.Render(frame)
	if err != nil {
		m.renderErr = err
		m.log.Warn("render failed", "backend", m.sel.ActiveName(), "error", err)
		return
	}
	m.payload = payload
	m.renderErr = nil
}

// viewport derives the visible X span from the newest sample and the
// configured time span, and the Y range from either the manual settings
// or auto-scale over the visible data.
func (m *Model) viewport(snaps []*store.Snapshot) render.Viewport {
	var xMax int64
	for _, snap := range snaps {
		if n := snap.Len(); n > 0 && snap.TimesMs[n-1] > xMax {
			xMax = snap.TimesMs[n-1]
		}
	}
	span := m.cfg.Settings.TimeSpanMs()
	vp := render.Viewport{XMin: float64(xMax - span), XMax: float64(xMax)}

	s := m.cfg.Settings
	if s.YAxisMode == config.YAxisManual && s.YMin != nil && s.YMax != nil && *s.YMax > *s.YMin {
		vp.YMin, vp.YMax = *s.YMin, *s.YMax
		return vp
	}
	vp.YMin, vp.YMax = render.AutoScale(snaps, vp.XMin, vp.XMax)
	return vp
}

// toggleSignalAt flips the enabled flag of the i-th signal in insertion
// order.
func (m *Model) toggleSignalAt(i int) {
	sigs := m.st.Signals()
	if i < 0 || i >= len(sigs) {
		return
	}
	enabled := !sigs[i].Enabled
	m.st.UpdateSignal(sigs[i].ID, store.SignalPatch{Enabled: &enabled})
	if !m.paused {
		m.redraw()
	}
}

// cycleScheme advances to the next registered color scheme and pushes it
// to the store and both backends.
func (m *Model) cycleScheme() {
	names := theme.Names()
	sort.Strings(names)
	m.schemeIdx = (m.schemeIdx + 1) % len(names)
	m.scheme = theme.Get(names[m.schemeIdx])
	m.cfg.Settings.ColorScheme = m.scheme.Name

	m.st.SetScheme(m.scheme)
	if s, ok := m.sel.Active().(schemeSetter); ok {
		s.SetScheme(m.scheme)
	}
	if !m.paused {
		m.redraw()
	}
}

// adjustSpan scales the visible time span, clamped to [1s, 1h].
func (m *Model) adjustSpan(factor float64) tea.Cmd {
	sec := int(float64(m.cfg.Settings.TimeSpanSec) * factor)
	if sec < 1 {
		sec = 1
	}
	if sec > 3600 {
		sec = 3600
	}
	m.cfg.Settings.TimeSpanSec = sec
	m.st.SetWindow(m.cfg.Settings.TimeSpanMs(), m.cfg.Settings.MaxDataPoints)
	if !m.paused {
		m.redraw()
	}
	return m.setStatus(fmt.Sprintf("span %ds", sec))
}

// exportData writes the buffered samples to a timestamped file in the
// configured export directory.
func (m *Model) exportData(format store.Format) tea.Cmd {
	path := m.exportPath("pulse-scope-%s." + string(format))
	if err := m.st.ExportToFile(path, format, m.cfg.Settings); err != nil {
		m.log.Error("data export failed", "path", path, "error", err)
		return m.setStatus("export failed: " + err.Error())
	}
	return m.setStatus("exported " + path)
}

// exportFrame saves the last rendered frame as a PNG when the active
// backend rasterizes frames.
func (m *Model) exportFrame() tea.Cmd {
	fe, ok := m.sel.Active().(frameExporter)
	if !ok {
		return m.setStatus("frame export needs the pixel backend")
	}
	path := m.exportPath("pulse-scope-%s.png")
	if err := fe.ExportPNG(path); err != nil {
		m.log.Error("frame export failed", "path", path, "error", err)
		return m.setStatus("export failed: " + err.Error())
	}
	return m.setStatus("saved " + path)
}

func (m *Model) exportPath(pattern string) string {
	name := fmt.Sprintf(pattern, m.exportTime().Format("20060102-150405"))
	dir := m.cfg.General.ExportDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, name)
}

// setStatus shows a transient message in the footer for a few seconds.
func (m *Model) setStatus(s string) tea.Cmd {
	m.status = s
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return statusExpiredMsg{Seq: seq}
	})
}

func schemeIndex(name string) int {
	names := theme.Names()
	sort.Strings(names)
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return 0
}

func legendZoneID(id string) string { return "legend:" + id }
