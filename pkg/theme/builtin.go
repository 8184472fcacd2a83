package theme

// registerBuiltins registers all built-in schemes in the registry.
func registerBuiltins() {
	for _, s := range []Scheme{
		defaultScheme(),
		brightScheme(),
		pastelScheme(),
		gruvboxScheme(),
		nordScheme(),
	} {
		Register(s)
	}
}

// defaultScheme returns the dark neutral scheme with a high-contrast
// eight-color line palette.
func defaultScheme() Scheme {
	return Scheme{
		Name:       "default",
		Background: "#1e1e1e",
		Foreground: "#d4d4d4",
		Grid:       "#3e3e3e",
		Dim:        "#6b6b6b",
		Accent:     "#7C3AED",
		Palette: []string{
			"#64B5F6", // blue
			"#4ec970", // green
			"#e5c07b", // amber
			"#e06c75", // red
			"#c678dd", // purple
			"#56b6c2", // cyan
			"#fe8019", // orange
			"#f9e2af", // pale yellow
		},
	}
}

// brightScheme returns saturated primaries for high-glare environments.
func brightScheme() Scheme {
	return Scheme{
		Name:       "bright",
		Background: "#000000",
		Foreground: "#ffffff",
		Grid:       "#333333",
		Dim:        "#888888",
		Accent:     "#00e5ff",
		Palette: []string{
			"#00e5ff",
			"#76ff03",
			"#ffea00",
			"#ff1744",
			"#d500f9",
			"#ff9100",
		},
	}
}

// pastelScheme returns a muted palette for long sessions.
func pastelScheme() Scheme {
	return Scheme{
		Name:       "pastel",
		Background: "#282a36",
		Foreground: "#f8f8f2",
		Grid:       "#44475a",
		Dim:        "#6272a4",
		Accent:     "#bd93f9",
		Palette: []string{
			"#8be9fd",
			"#50fa7b",
			"#f1fa8c",
			"#ff79c6",
			"#bd93f9",
			"#ffb86c",
		},
	}
}

// gruvboxScheme returns the warm retro Gruvbox palette.
func gruvboxScheme() Scheme {
	return Scheme{
		Name:       "gruvbox",
		Background: "#282828",
		Foreground: "#ebdbb2",
		Grid:       "#504945",
		Dim:        "#928374",
		Accent:     "#fe8019",
		Palette: []string{
			"#83a598",
			"#b8bb26",
			"#fabd2f",
			"#fb4934",
			"#d3869b",
			"#8ec07c",
			"#fe8019",
		},
	}
}

// nordScheme returns the cool arctic Nord palette.
func nordScheme() Scheme {
	return Scheme{
		Name:       "nord",
		Background: "#2e3440",
		Foreground: "#d8dee9",
		Grid:       "#3b4252",
		Dim:        "#4c566a",
		Accent:     "#88c0d0",
		Palette: []string{
			"#88c0d0",
			"#a3be8c",
			"#ebcb8b",
			"#bf616a",
			"#b48ead",
			"#81a1c1",
		},
	}
}
