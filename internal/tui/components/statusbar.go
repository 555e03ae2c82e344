package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom status bar shows.
type StatusInfo struct {
	UserID       string
	Busy         string // spinner frame plus activity, empty when idle
	FailedWrites int    // failed writes recorded in the journal
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	warnStyle := lipgloss.NewStyle().
		Foreground(t.Orange).
		Background(t.Surface)

	left := " [b]udget  [a]dd expense  [r]eload  [?]help  [q]uit"

	var right []string
	if info.Busy != "" {
		right = append(right, info.Busy)
	}
	if info.FailedWrites > 0 {
		right = append(right, warnStyle.Render(fmt.Sprintf("%d failed writes", info.FailedWrites)))
	}
	if info.UserID != "" {
		right = append(right, "user "+info.UserID)
	}
	rightStr := strings.Join(right, "  ") + " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(rightStr)
	if padding < 0 {
		padding = 0
	}

	return style.Render(left + strings.Repeat(" ", padding) + rightStr)
}
