// pulse-scope is a live telemetry oscilloscope for the terminal.
//
// It samples system metrics (or deterministic mock waveforms), buffers
// them in a sliding time window, and charts them at the configured refresh
// rate. Terminals with a raster graphics protocol (Kitty, iTerm2, Sixel)
// get smooth pixel rendering; everything else falls back to braille-cell
// drawing.
//
// Usage:
//
//	pulse-scope [flags]
//
// Flags:
//
//	-config string   Path to configuration file (default: XDG config search)
//	-export-dir string Override the export directory
//	-signals string  Path to a signal preset file ([[signals]] TOML)
//	-use-mocks       Chart mock waveforms instead of system metrics
//	-mock-seed int   Seed for the mock waveform generator (0 = random)
//	-backend string  Force a backend: pixel or braille
//	-protocol string Force a graphics protocol: kitty, iterm2, sixel, none
//	-list-signals    Print available signal expressions and exit
//	-verbose         Enable debug logging
//	-version         Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/pulse-scope/pkg/acquire"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/config"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/render"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/render/braillebe"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/render/pixelbe"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/source"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/store"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/terminal"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/theme"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/tui"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var (
		configPath    = flag.String("config", "", "Path to configuration file")
		signalsPath   = flag.String("signals", "", "Path to a signal preset file")
		useMocks      = flag.Bool("use-mocks", false, "Chart mock waveforms instead of system metrics")
		mockSeed      = flag.Int64("mock-seed", 0, "Seed for the mock waveform generator (0 = random)")
		exportDir     = flag.String("export-dir", "", "Override the export directory")
		forceBackend  = flag.String("backend", "", "Force a backend: pixel or braille")
		forceProtocol = flag.String("protocol", "", "Force a graphics protocol: kitty, iterm2, sixel, none")
		listSignals   = flag.Bool("list-signals", false, "Print available signal expressions and exit")
		verbose       = flag.Bool("verbose", false, "Enable debug logging")
		showVersion   = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("pulse-scope %s (%s) built %s\n", version, commit, date)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *forceBackend != "" {
		cfg.Settings.Backend = *forceBackend
	}
	if *exportDir != "" {
		cfg.General.ExportDir = *exportDir
	}
	if err := cfg.Settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.General.LogLevel, *verbose)

	src := newSource(cfg, *useMocks, *mockSeed, logger)

	if *listSignals {
		printExpressions(src)
		return
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "pulse-scope needs an interactive terminal")
		os.Exit(1)
	}

	scheme, err := loadScheme(cfg)
	if err != nil {
		logger.Warn("theme load failed, using default", "error", err)
		scheme = theme.Get("default")
	}

	caps := terminal.DetectCapabilities()
	proto := caps.Protocol
	if *forceProtocol != "" {
		proto = terminal.SelectProtocolWithOverride(caps.Emulator, *forceProtocol)
	}
	logger.Debug("terminal detected",
		"emulator", caps.Emulator.String(),
		"protocol", proto.String(),
		"cols", caps.Size.Cols, "rows", caps.Size.Rows,
	)

	st := store.New(store.Config{
		TimeSpanMs: cfg.Settings.TimeSpanMs(),
		MaxPoints:  cfg.Settings.MaxDataPoints,
	}, scheme)

	loop := acquire.New(src, st, acquire.RealClock{}, logger)

	signals, err := resolveSignals(cfg, *signalsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load signals: %v\n", err)
		os.Exit(1)
	}
	addSignals(st, loop, signals, logger)

	sel, err := activateBackend(cfg, scheme, proto, caps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "no usable chart backend: %v\n", err)
		os.Exit(1)
	}
	if sel.FellBack() {
		logger.Info("pixel backend unavailable, using braille fallback")
	}

	loop.Start(cfg.Settings.TickInterval())
	defer loop.Stop()
	defer sel.Active().Close()

	st.SetOnEmpty(loop.Stop)

	if err := tui.Run(tui.New(cfg, st, src, loop, sel, logger)); err != nil {
		logger.Error("scope exited with error", "error", err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration from an explicit path or the XDG
// search cascade.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// newLogger writes structured logs to stderr. Stdout belongs to the TUI.
func newLogger(level string, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// newSource picks the sample source: mock waveforms when requested, the
// gopsutil-backed system source otherwise.
func newSource(cfg *config.Config, useMocks bool, seed int64, logger *slog.Logger) source.Sampler {
	if useMocks || cfg.Source.Kind == "mock" {
		if seed == 0 {
			seed = cfg.Source.MockSeed
		}
		logger.Info("using mock waveforms", "seed", seed)
		return source.NewMock(seed)
	}
	return source.NewSystem(cfg.Source.CacheTTL.Duration)
}

// loadScheme resolves the color scheme, loading custom scheme files from
// the configured theme directory first so they can shadow builtins.
func loadScheme(cfg *config.Config) (theme.Scheme, error) {
	if cfg.Theme.Dir != "" {
		entries, err := os.ReadDir(cfg.Theme.Dir)
		if err != nil {
			return theme.Scheme{}, fmt.Errorf("theme dir: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
				continue
			}
			if _, err := theme.LoadFile(filepath.Join(cfg.Theme.Dir, e.Name())); err != nil {
				return theme.Scheme{}, err
			}
		}
	}
	return theme.Get(cfg.Settings.ColorScheme), nil
}

// resolveSignals merges config signals with an optional preset file. The
// preset wins when both are present.
func resolveSignals(cfg *config.Config, presetPath string) ([]config.SignalConfig, error) {
	if presetPath != "" {
		return config.LoadSignals(presetPath)
	}
	if len(cfg.Signals) > 0 {
		return cfg.Signals, nil
	}
	// Nothing configured: chart CPU and memory so the scope is useful out
	// of the box.
	return []config.SignalConfig{
		{Expression: "cpu.percent", Name: "CPU %"},
		{Expression: "mem.used_percent", Name: "Memory %"},
	}, nil
}

// addSignals registers configured signals with the store, applies their
// style overrides, and backfills history where the source provides it.
func addSignals(st *store.Store, loop *acquire.Loop, signals []config.SignalConfig, logger *slog.Logger) {
	for _, sc := range signals {
		if sc.Expression == "" {
			continue
		}
		name := sc.Name
		if name == "" {
			name = sc.Expression
		}
		if !st.AddSignal(sc.Expression, name) {
			logger.Warn("duplicate signal skipped", "expression", sc.Expression)
			continue
		}

		patch := store.SignalPatch{}
		if sc.Style != "" {
			style := store.LineStyle(sc.Style)
			patch.LineStyle = &style
		}
		if sc.Width > 0 {
			patch.LineWidth = &sc.Width
		}
		if sc.Opacity > 0 {
			patch.Opacity = &sc.Opacity
		}
		if sc.Disabled {
			enabled := false
			patch.Enabled = &enabled
		}
		st.UpdateSignal(sc.Expression, patch)

		loop.Backfill(context.Background(), sc.Expression)
	}
}

// activateBackend builds both backends sized to the current terminal and
// runs the selection state machine. The pixel backend falls back to
// braille; braille has no fallback.
func activateBackend(cfg *config.Config, scheme theme.Scheme, proto terminal.GraphicsProtocol, caps *terminal.Capabilities) (*render.Selector, error) {
	chartH := caps.Size.Rows - 4
	if chartH < 3 {
		chartH = 3
	}
	cellW, cellH := caps.Size.CellDims()

	pixel := pixelbe.New(caps.Size.Cols, chartH, scheme, proto, cellW, cellH)
	braille := braillebe.New(caps.Size.Cols, chartH, scheme, caps.Profile)

	sel := render.NewSelector()
	var err error
	if cfg.Settings.Backend == config.BackendBraille {
		err = sel.Activate(config.BackendBraille, braille, "", nil)
	} else {
		err = sel.Activate(config.BackendPixel, pixel, config.BackendBraille, braille)
	}
	if err != nil {
		return nil, err
	}
	return sel, nil
}

// printExpressions lists the expressions the active source can evaluate.
func printExpressions(src source.Sampler) {
	type lister interface {
		Expressions() []string
	}
	l, ok := src.(lister)
	if !ok {
		fmt.Println("the active source does not enumerate expressions")
		return
	}
	for _, expr := range l.Expressions() {
		fmt.Println(expr)
	}
}
