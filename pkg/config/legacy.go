package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// legacyConfig mirrors the original YAML configuration layout from the v0
// releases. Only the fields that map onto the current schema are read;
// everything else is ignored.
type legacyConfig struct {
	TimeSpan    int     `yaml:"timeSpan"`
	RefreshRate float64 `yaml:"refreshRate"`
	MaxPoints   int     `yaml:"maxDataPoints"`
	YAxis       struct {
		Mode string   `yaml:"mode"`
		Min  *float64 `yaml:"min"`
		Max  *float64 `yaml:"max"`
	} `yaml:"yAxis"`
	ColorScheme string `yaml:"colorScheme"`
	Renderer    string `yaml:"renderer"`
	Signals     []struct {
		Expression string `yaml:"expression"`
		Name       string `yaml:"name"`
	} `yaml:"signals"`
}

// LoadLegacyYAML reads a v0 YAML configuration file and converts it to the
// current schema. Unknown renderer names fall back to the default backend.
func LoadLegacyYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read legacy %s: %w", path, err)
	}

	var lc legacyConfig
	if err := yaml.Unmarshal(data, &lc); err != nil {
		return nil, fmt.Errorf("config: parse legacy %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if lc.TimeSpan > 0 {
		cfg.Settings.TimeSpanSec = lc.TimeSpan
	}
	if lc.RefreshRate > 0 {
		cfg.Settings.RefreshRateHz = lc.RefreshRate
	}
	if lc.MaxPoints > 0 {
		cfg.Settings.MaxDataPoints = lc.MaxPoints
	}
	if lc.YAxis.Mode == YAxisManual {
		cfg.Settings.YAxisMode = YAxisManual
		cfg.Settings.YMin = lc.YAxis.Min
		cfg.Settings.YMax = lc.YAxis.Max
	}
	if lc.ColorScheme != "" {
		cfg.Settings.ColorScheme = lc.ColorScheme
		cfg.Theme.Name = lc.ColorScheme
	}
	switch lc.Renderer {
	case BackendPixel, BackendBraille:
		cfg.Settings.Backend = lc.Renderer
	}
	for _, sig := range lc.Signals {
		cfg.Signals = append(cfg.Signals, SignalConfig{
			Expression: sig.Expression,
			Name:       sig.Name,
		})
	}

	applyEnvOverrides(cfg)
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
