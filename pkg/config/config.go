// Package config provides TOML-based configuration for pulse-scope.
package config

import (
	"fmt"
	"time"
)

// Backend names accepted by Settings.Backend.
const (
	BackendPixel   = "pixel"
	BackendBraille = "braille"
)

// Y-axis modes accepted by Settings.YAxisMode.
const (
	YAxisAuto   = "auto"
	YAxisManual = "manual"
)

// Config is the root configuration document.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Settings Settings       `toml:"settings"`
	Theme    ThemeConfig    `toml:"theme"`
	Source   SourceConfig   `toml:"source"`
	Signals  []SignalConfig `toml:"signals"`
}

// GeneralConfig holds process-wide options.
type GeneralConfig struct {
	LogLevel  string `toml:"log_level"`  // debug|info|warn|error
	ExportDir string `toml:"export_dir"` // destination for data/frame exports
}

// Settings are the process-wide chart settings. Mutations at runtime go
// through Patch / Apply so partial updates merge into the current values.
type Settings struct {
	TimeSpanSec   int      `toml:"time_span_sec"`
	RefreshRateHz float64  `toml:"refresh_rate_hz"`
	MaxDataPoints int      `toml:"max_data_points"`
	YAxisMode     string   `toml:"y_axis_mode"` // auto|manual
	YMin          *float64 `toml:"y_min"`       // used only in manual mode
	YMax          *float64 `toml:"y_max"`
	ColorScheme   string   `toml:"color_scheme"`
	Backend       string   `toml:"backend"` // pixel|braille
}

// Patch is a partial Settings update. Nil fields leave the current value
// unchanged. YMin/YMax are doubly-optional: the outer pointer marks the
// field as present, the inner pointer may still be nil to clear a bound.
type Patch struct {
	TimeSpanSec   *int
	RefreshRateHz *float64
	MaxDataPoints *int
	YAxisMode     *string
	YMin          **float64
	YMax          **float64
	ColorScheme   *string
	Backend       *string
}

// Apply merges a patch into s and reports which cadence-affecting fields
// changed so callers can restart timers.
func (s *Settings) Apply(p Patch) (refreshChanged bool) {
	if p.TimeSpanSec != nil {
		s.TimeSpanSec = *p.TimeSpanSec
	}
	if p.RefreshRateHz != nil && *p.RefreshRateHz != s.RefreshRateHz {
		s.RefreshRateHz = *p.RefreshRateHz
		refreshChanged = true
	}
	if p.MaxDataPoints != nil {
		s.MaxDataPoints = *p.MaxDataPoints
	}
	if p.YAxisMode != nil {
		s.YAxisMode = *p.YAxisMode
	}
	if p.YMin != nil {
		s.YMin = *p.YMin
	}
	if p.YMax != nil {
		s.YMax = *p.YMax
	}
	if p.ColorScheme != nil {
		s.ColorScheme = *p.ColorScheme
	}
	if p.Backend != nil {
		s.Backend = *p.Backend
	}
	return refreshChanged
}

// TickInterval returns the acquisition tick period derived from the
// refresh rate.
func (s Settings) TickInterval() time.Duration {
	hz := s.RefreshRateHz
	if hz <= 0 {
		hz = 10
	}
	return time.Duration(float64(time.Second) / hz)
}

// TimeSpanMs returns the sliding window width in milliseconds.
func (s Settings) TimeSpanMs() int64 {
	return int64(s.TimeSpanSec) * 1000
}

// Validate checks enum fields and value ranges.
func (s Settings) Validate() error {
	switch s.YAxisMode {
	case YAxisAuto, YAxisManual:
	default:
		return fmt.Errorf("config: invalid y_axis_mode %q", s.YAxisMode)
	}
	switch s.Backend {
	case BackendPixel, BackendBraille:
	default:
		return fmt.Errorf("config: invalid backend %q", s.Backend)
	}
	if s.TimeSpanSec <= 0 {
		return fmt.Errorf("config: time_span_sec must be positive, got %d", s.TimeSpanSec)
	}
	if s.RefreshRateHz <= 0 || s.RefreshRateHz > 240 {
		return fmt.Errorf("config: refresh_rate_hz out of range: %v", s.RefreshRateHz)
	}
	if s.MaxDataPoints < 2 {
		return fmt.Errorf("config: max_data_points too small: %d", s.MaxDataPoints)
	}
	if s.YAxisMode == YAxisManual && s.YMin != nil && s.YMax != nil && *s.YMin >= *s.YMax {
		return fmt.Errorf("config: y_min %v must be below y_max %v", *s.YMin, *s.YMax)
	}
	return nil
}

// ThemeConfig selects the color scheme and an optional directory of user
// scheme files.
type ThemeConfig struct {
	Name string `toml:"name"`
	Dir  string `toml:"dir"`
}

// SourceConfig selects the sample source.
type SourceConfig struct {
	// Kind is "system" (gopsutil-backed) or "mock" (deterministic waveforms).
	Kind string `toml:"kind"`

	// CacheTTL bounds how stale a cached sample read may be before the
	// source re-evaluates the expression.
	CacheTTL Duration `toml:"cache_ttl"`

	// MockSeed seeds the mock waveform generator. Zero picks a random seed.
	MockSeed int64 `toml:"mock_seed"`
}

// SignalConfig declares one signal to chart at startup. The same shape is
// used by standalone preset files loaded with -signals.
type SignalConfig struct {
	Expression string  `toml:"expression"`
	Name       string  `toml:"name"`
	Style      string  `toml:"style"` // solid|dashed|dotted, default solid
	Width      float64 `toml:"width"`
	Opacity    float64 `toml:"opacity"`
	Disabled   bool    `toml:"disabled"`
}
