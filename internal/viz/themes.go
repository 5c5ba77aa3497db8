package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/primeviz/internal/palette"
)

// Theme colors the panels around the canvas and its background. Mode
// colors always come from the base-60 palette.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

func newTheme(name string, hex ...string) Theme {
	c := func(i int) lipgloss.Color { return lipgloss.Color(hex[i]) }
	return Theme{
		Name:       name,
		Primary:    c(0),
		Secondary:  c(1),
		Accent:     c(2),
		Background: c(3),
		Text:       c(4),
		Muted:      c(5),
		Warning:    c(6),
		Error:      c(7),
	}
}

var (
	ThemeDark      = newTheme("dark", "#e0e0e0", "#9ab4c8", "#f2c14e", "#000000", "#ffffff", "#666666", "#ffaa00", "#ff4444")
	ThemeCyberpunk = newTheme("cyberpunk", "#ff00ff", "#00ffff", "#ffff00", "#0a0a0a", "#ffffff", "#666666", "#ff8800", "#ff0000")
	ThemeRetro     = newTheme("retro", "#00ff00", "#00cc00", "#88ff88", "#001100", "#00ff00", "#005500", "#ffff00", "#ff0000")
	ThemeOcean     = newTheme("ocean", "#0077be", "#00a8cc", "#ffd700", "#001a33", "#e0f0ff", "#4488aa", "#ffcc00", "#ff4444")
	ThemeSunset    = newTheme("sunset", "#ff6b6b", "#feca57", "#ff9ff3", "#2d1b2e", "#fff5f5", "#8b6b8c", "#ffc048", "#ff4757")

	Themes = []Theme{ThemeDark, ThemeCyberpunk, ThemeRetro, ThemeOcean, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to dark.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDark
}

// NextTheme returns the theme after name in Themes, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
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

// CanvasColor converts the theme background for the raster.
func (t Theme) CanvasColor() palette.Color {
	c, err := colorful.Hex(string(t.Background))
	if err != nil {
		return palette.Black
	}
	r, g, b := c.RGB255()
	return palette.Color{R: r, G: g, B: b, A: 255}
}
