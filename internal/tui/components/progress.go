package components

import (
	"fmt"

	"github.com/theirongolddev/budgetdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForPct returns green/yellow/orange/red based on how much of the
// budget is used.
func ColorForPct(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 1:
		return string(t.Red)
	case pct >= 0.8:
		return string(t.Orange)
	case pct >= 0.5:
		return string(t.Yellow)
	default:
		return string(t.Green)
	}
}

// BudgetBar renders a labeled bar of budget used. The bar is clamped to
// full, the percentage is not, so overspending reads e.g. "125%".
func BudgetBar(label string, used float64, labelW, barWidth int) string {
	t := theme.Active

	if used < 0 {
		used = 0
	}
	fill := used
	if fill > 1 {
		fill = 1
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForPct(used)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForPct(used))).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(fill) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", used*100))
}
