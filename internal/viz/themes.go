package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colours of the live view.
type Theme struct {
	Name   string
	Chain  lipgloss.Color
	Trail  lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Good   lipgloss.Color
	Warn   lipgloss.Color
	Bad    lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Chain:  lipgloss.Color("#ff00ff"),
		Trail:  lipgloss.Color("#00ffff"),
		Accent: lipgloss.Color("#ffff00"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
		Good:   lipgloss.Color("#00ff00"),
		Warn:   lipgloss.Color("#ff8800"),
		Bad:    lipgloss.Color("#ff0000"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Chain:  lipgloss.Color("#00ff00"),
		Trail:  lipgloss.Color("#00cc00"),
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Good:   lipgloss.Color("#88ff88"),
		Warn:   lipgloss.Color("#ffff00"),
		Bad:    lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Chain:  lipgloss.Color("#e0f0ff"),
		Trail:  lipgloss.Color("#00a8cc"),
		Accent: lipgloss.Color("#ffd700"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		Good:   lipgloss.Color("#00ff88"),
		Warn:   lipgloss.Color("#ffcc00"),
		Bad:    lipgloss.Color("#ff4444"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Chain:  lipgloss.Color("#feca57"),
		Trail:  lipgloss.Color("#ff6b6b"),
		Accent: lipgloss.Color("#ff9ff3"),
		Text:   lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
		Good:   lipgloss.Color("#5fd068"),
		Warn:   lipgloss.Color("#ffc048"),
		Bad:    lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
