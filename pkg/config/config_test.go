package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Settings.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
}

func TestLoadFromReader(t *testing.T) {
	doc := `
[general]
log_level = "debug"

[settings]
time_span_sec = 30
refresh_rate_hz = 20.0
max_data_points = 500
y_axis_mode = "manual"
y_min = -1.0
y_max = 1.0
backend = "braille"

[source]
kind = "mock"
cache_ttl = "250ms"

[[signals]]
expression = "cpu.percent"
name = "CPU"
style = "dashed"
`
	cfg, err := LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Settings.TimeSpanSec != 30 || cfg.Settings.RefreshRateHz != 20 {
		t.Errorf("settings not decoded: %+v", cfg.Settings)
	}
	if cfg.Settings.YMin == nil || *cfg.Settings.YMin != -1.0 {
		t.Errorf("y_min not decoded: %v", cfg.Settings.YMin)
	}
	if cfg.Settings.Backend != BackendBraille {
		t.Errorf("backend = %q", cfg.Settings.Backend)
	}
	if cfg.Source.CacheTTL.Duration != 250*time.Millisecond {
		t.Errorf("cache_ttl = %v", cfg.Source.CacheTTL.Duration)
	}
	if len(cfg.Signals) != 1 || cfg.Signals[0].Expression != "cpu.percent" {
		t.Errorf("signals not decoded: %+v", cfg.Signals)
	}
}

func TestLoadFromReaderRejectsBadSettings(t *testing.T) {
	tests := []string{
		"[settings]\nbackend = \"webgl\"",
		"[settings]\ny_axis_mode = \"weird\"",
		"[settings]\nrefresh_rate_hz = -5.0",
		"[settings]\ny_axis_mode = \"manual\"\ny_min = 2.0\ny_max = 1.0",
	}
	for _, doc := range tests {
		if _, err := LoadFromReader(strings.NewReader(doc)); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}

func TestApplyPatch(t *testing.T) {
	s := DefaultConfig().Settings

	hz := 30.0
	span := 120
	if changed := s.Apply(Patch{RefreshRateHz: &hz, TimeSpanSec: &span}); !changed {
		t.Fatal("refresh rate change should be reported")
	}
	if s.RefreshRateHz != 30 || s.TimeSpanSec != 120 {
		t.Errorf("patch not applied: %+v", s)
	}

	// Same rate again: no restart needed.
	if changed := s.Apply(Patch{RefreshRateHz: &hz}); changed {
		t.Fatal("unchanged refresh rate reported as changed")
	}

	// Clearing a manual bound through the double pointer.
	y := 5.0
	var yp *float64 = &y
	s.Apply(Patch{YMin: &yp})
	if s.YMin == nil || *s.YMin != 5.0 {
		t.Fatalf("y_min not set: %v", s.YMin)
	}
	yp = nil
	s.Apply(Patch{YMin: &yp})
	if s.YMin != nil {
		t.Fatalf("y_min not cleared: %v", *s.YMin)
	}
}

func TestTickInterval(t *testing.T) {
	s := Settings{RefreshRateHz: 10}
	if got := s.TickInterval(); got != 100*time.Millisecond {
		t.Errorf("10 Hz interval = %v", got)
	}
	s.RefreshRateHz = 0
	if got := s.TickInterval(); got != 100*time.Millisecond {
		t.Errorf("fallback interval = %v", got)
	}
}

func TestLoadSignalsPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "signals.toml")
	doc := `
[[signals]]
expression = "load.load1"
name = "Load 1m"

[[signals]]
expression = "mem.used_percent"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	sigs, err := LoadSignals(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(sigs) != 2 || sigs[0].Name != "Load 1m" {
		t.Errorf("unexpected signals: %+v", sigs)
	}
}

func TestLoadSignalsPresetRequiresExpression(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "signals.toml")
	os.WriteFile(path, []byte("[[signals]]\nname = \"orphan\""), 0o644)

	if _, err := LoadSignals(path); err == nil {
		t.Fatal("expected error for entry without expression")
	}
}

func TestLoadLegacyYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := `
timeSpan: 45
refreshRate: 5
maxDataPoints: 2000
yAxis:
  mode: manual
  min: 0
  max: 100
colorScheme: nord
renderer: braille
signals:
  - expression: cpu.percent
    name: CPU
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadLegacyYAML(path)
	if err != nil {
		t.Fatalf("legacy load failed: %v", err)
	}
	if cfg.Settings.TimeSpanSec != 45 || cfg.Settings.RefreshRateHz != 5 {
		t.Errorf("legacy settings: %+v", cfg.Settings)
	}
	if cfg.Settings.YAxisMode != YAxisManual || cfg.Settings.YMax == nil || *cfg.Settings.YMax != 100 {
		t.Errorf("legacy y axis: %+v", cfg.Settings)
	}
	if cfg.Settings.Backend != BackendBraille || cfg.Settings.ColorScheme != "nord" {
		t.Errorf("legacy backend/scheme: %+v", cfg.Settings)
	}
	if len(cfg.Signals) != 1 || cfg.Signals[0].Expression != "cpu.percent" {
		t.Errorf("legacy signals: %+v", cfg.Signals)
	}
}
