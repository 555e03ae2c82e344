// Package theme defines color themes for the budgetdash TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme holds the color roles the dashboard draws with.
type Theme struct {
	Name         string
	Background   lipgloss.Color
	Surface      lipgloss.Color // cards and panels
	SurfaceHover lipgloss.Color // selected expense row
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // focused card
	TextDim      lipgloss.Color
	TextMuted    lipgloss.Color
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Green        lipgloss.Color // within budget
	Orange       lipgloss.Color // running low
	Red          lipgloss.Color // overspent
	Yellow       lipgloss.Color
	Cyan         lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Green:        lipgloss.Color("#879A39"),
	Orange:       lipgloss.Color("#DA702C"),
	Red:          lipgloss.Color("#D14D41"),
	Yellow:       lipgloss.Color("#D0A215"),
	Cyan:         lipgloss.Color("#24837B"),
}

// Terminal sticks to the ANSI 16 colors.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Green:        lipgloss.Color("2"),
	Orange:       lipgloss.Color("3"),
	Red:          lipgloss.Color("1"),
	Yellow:       lipgloss.Color("11"),
	Cyan:         lipgloss.Color("6"),
}

// All lists the selectable themes in display order.
var All = []Theme{FlexokiDark, Terminal}

// ByName returns the named theme, or FlexokiDark for an unknown name.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// Names lists the available theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Remaining picks the color for a remaining-budget figure: red once the
// budget is overspent, orange when under a fifth of it is left.
func (t Theme) Remaining(remaining, budget float64) lipgloss.Color {
	switch {
	case remaining < 0:
		return t.Red
	case budget > 0 && remaining < budget/5:
		return t.Orange
	default:
		return t.Green
	}
}
