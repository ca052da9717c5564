package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors and glyphs for terminal rendering.
type Theme struct {
	Name    string
	Primary lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Icons   ThemeIcons
}

// ThemeIcons are the glyphs a theme draws with.
type ThemeIcons struct {
	Pass   string // test no longer failing, metric ok
	Fail   string // failing non-skipped test
	Skip   string // skipped test
	Warn   string
	Info   string
	Bullet string

	// Comparison glyphs. Up and Down give the direction of a bucket
	// count; Regression marks a move the color policy calls bad, so it
	// stays visible without color.
	Arrow      string
	Up         string
	Down       string
	Same       string
	Regression string
}

var themes = map[string]func() Theme{
	"default": DefaultTheme,
	"orca":    OrcaTheme,
	"mono":    MonoTheme,
}

// ThemeNames lists the selectable themes, sorted.
func ThemeNames() []string {
	return []string{"default", "mono", "orca"}
}

// DefaultTheme returns a vibrant color theme.
func DefaultTheme() Theme {
	return Theme{
		Name:    "default",
		Primary: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // blue
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),  // green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")), // gray
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Pass: "✓", Fail: "✗", Skip: "⊘", Warn: "⚠", Info: "●", Bullet: "·",
			Arrow: "→", Up: "↑", Down: "↓", Same: "=", Regression: "⚠",
		},
	}
}

// OrcaTheme is a muted palette for light terminals.
func OrcaTheme() Theme {
	return Theme{
		Name:    "orca",
		Primary: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("108")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("179")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("167")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Pass: "✓", Fail: "✗", Skip: "-", Warn: "!", Info: "·", Bullet: "·",
			Arrow: "→", Up: "↑", Down: "↓", Same: "=", Regression: "!",
		},
	}
}

// MonoTheme has no colors and ASCII glyphs, for --no-color, NO_COLOR and
// log capture.
func MonoTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:    "mono",
		Primary: plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
		Muted:   plain,
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Pass: "+", Fail: "x", Skip: "s", Warn: "!", Info: "*", Bullet: "-",
			Arrow: "->", Up: "+", Down: "-", Same: "=", Regression: "(regression)",
		},
	}
}

// ThemeByName returns the named theme. The empty name selects the default.
func ThemeByName(name string) (Theme, error) {
	if name == "" {
		return DefaultTheme(), nil
	}
	build, ok := themes[strings.ToLower(name)]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (expected %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return build(), nil
}
