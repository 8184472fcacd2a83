package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/pulse-scope/config.toml
//  2. ~/.config/pulse-scope/config.toml
//  3. legacy ~/.config/pulse-scope/config.yaml (migrated in memory)
//
// If no file exists, returns DefaultConfig().
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	if legacy := legacyConfigPath(); legacy != "" {
		if _, err := os.Stat(legacy); err == nil {
			return LoadLegacyYAML(legacy)
		}
	}
	return DefaultConfig(), nil
}

// LoadFromFile reads configuration from a specific TOML file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads TOML configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	applyEnvOverrides(cfg)
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		General: GeneralConfig{
			LogLevel:  "info",
			ExportDir: filepath.Join(home, "pulse-scope-exports"),
		},
		Settings: Settings{
			TimeSpanSec:   60,
			RefreshRateHz: 10,
			MaxDataPoints: 10_000,
			YAxisMode:     YAxisAuto,
			ColorScheme:   "default",
			Backend:       BackendPixel,
		},
		Theme: ThemeConfig{
			Name: "default",
		},
		Source: SourceConfig{
			Kind:     "system",
			CacheTTL: Duration{500 * time.Millisecond},
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PULSE_SCOPE_BACKEND"); v != "" {
		cfg.Settings.Backend = v
	}
	if v := os.Getenv("PULSE_SCOPE_SCHEME"); v != "" {
		cfg.Settings.ColorScheme = v
		cfg.Theme.Name = v
	}
	if v := os.Getenv("PULSE_SCOPE_REFRESH_HZ"); v != "" {
		if hz, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Settings.RefreshRateHz = hz
		}
	}
	if v := os.Getenv("PULSE_SCOPE_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
}

// LoadSignals reads a standalone signal preset file: a TOML document whose
// [[signals]] entries use the same shape as the main config.
func LoadSignals(path string) ([]SignalConfig, error) {
	var doc struct {
		Signals []SignalConfig `toml:"signals"`
	}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("config: signal preset %s: %w", path, err)
	}
	for i, sc := range doc.Signals {
		if sc.Expression == "" {
			return nil, fmt.Errorf("config: signal preset %s: entry %d has no expression", path, i)
		}
	}
	return doc.Signals, nil
}

func configSearchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "pulse-scope", "config.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "pulse-scope", "config.toml"))
	}
	return paths
}

func legacyConfigPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "pulse-scope", "config.yaml")
	}
	return ""
}
