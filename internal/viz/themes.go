package viz

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Stable    lipgloss.Color
	Unstable  lipgloss.Color
}

var (
	ThemeChalk = Theme{
		Name:      "chalk",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Stable:    lipgloss.Color("#00ff00"),
		Unstable:  lipgloss.Color("#ff0000"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // green phosphor
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Stable:    lipgloss.Color("#88ff88"),
		Unstable:  lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Stable:    lipgloss.Color("#00ff88"),
		Unstable:  lipgloss.Color("#ff4444"),
	}

	Themes = []Theme{ThemeChalk, ThemeRetroGreen, ThemeOcean}
)

// GetTheme returns the named theme, or the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
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

// Styles derived from a theme.
type Styles struct {
	Title    lipgloss.Style
	Plot     lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Selected lipgloss.Style
	Stable   lipgloss.Style
	Unstable lipgloss.Style
	Hint     lipgloss.Style
	Panel    lipgloss.Style
}

func (t Theme) Styles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Plot:     lipgloss.NewStyle().Foreground(t.Secondary),
		Label:    lipgloss.NewStyle().Foreground(t.Muted),
		Value:    lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Stable:   lipgloss.NewStyle().Foreground(t.Stable),
		Unstable: lipgloss.NewStyle().Foreground(t.Unstable),
		Hint:     lipgloss.NewStyle().Italic(true).Foreground(t.Muted),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
	}
}
