package theme

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// tomlScheme is the TOML-serializable representation of a Scheme.
type tomlScheme struct {
	Name    string     `toml:"name"`
	Base    tomlBase   `toml:"base"`
	Palette []string   `toml:"palette"`
}

type tomlBase struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Grid       string `toml:"grid"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
}

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFromTOML parses a TOML scheme definition from raw bytes and validates
// every color field.
func LoadFromTOML(data []byte) (Scheme, error) {
	var ts tomlScheme
	if err := toml.Unmarshal(data, &ts); err != nil {
		return Scheme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}
	if ts.Name == "" {
		return Scheme{}, fmt.Errorf("theme: scheme has no name")
	}
	if len(ts.Palette) == 0 {
		return Scheme{}, fmt.Errorf("theme: scheme %q has an empty palette", ts.Name)
	}

	s := Scheme{
		Name:       ts.Name,
		Background: ts.Base.Background,
		Foreground: ts.Base.Foreground,
		Grid:       ts.Base.Grid,
		Dim:        ts.Base.Dim,
		Accent:     ts.Base.Accent,
		Palette:    ts.Palette,
	}

	for _, c := range append([]string{
		s.Background, s.Foreground, s.Grid, s.Dim, s.Accent,
	}, s.Palette...) {
		if c != "" && !hexColorRegex.MatchString(c) {
			return Scheme{}, fmt.Errorf("theme: scheme %q: invalid color %q", ts.Name, c)
		}
	}

	return s, nil
}

// LoadFile reads a TOML scheme from disk and registers it.
func LoadFile(path string) (Scheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scheme{}, fmt.Errorf("theme: read %s: %w", path, err)
	}
	s, err := LoadFromTOML(data)
	if err != nil {
		return Scheme{}, err
	}
	Register(s)
	return s, nil
}
