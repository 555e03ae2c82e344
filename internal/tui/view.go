package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/dashboard"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/tui/components"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

func newExpenseTable() table.Model {
	t := theme.Active
	tbl := table.New(
		table.WithColumns(expenseColumns(80)),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(t.TextMuted).
		Background(t.Surface).
		BorderForeground(t.Border).
		BorderBottom(true).
		Bold(true)
	s.Cell = s.Cell.Foreground(t.TextPrimary).Background(t.Surface)
	s.Selected = s.Selected.Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(false)
	tbl.SetStyles(s)
	return tbl
}

// expenseColumns splits inner width across category, amount, date and
// description; description takes what is left.
func expenseColumns(inner int) []table.Column {
	cat, amt, date := 22, 14, 12
	desc := inner - cat - amt - date - 8 // cell padding
	if desc < 12 {
		desc = 12
	}
	return []table.Column{
		{Title: "Category", Width: cat},
		{Title: "Amount", Width: amt},
		{Title: "Date", Width: date},
		{Title: "Description", Width: desc},
	}
}

// expenseRows converts expenses into table rows. An empty list yields the
// placeholder row.
func expenseRows(expenses []model.Expense, symbol string) []table.Row {
	if len(expenses) == 0 {
		return []table.Row{{cli.EmptyExpensesText, "", "", ""}}
	}
	rows := make([]table.Row, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, table.Row{
			e.Category,
			cli.FormatMoney(symbol, e.Amount.Float()),
			e.Date,
			strings.ReplaceAll(e.DescriptionOrDash(), "\n", " "),
		})
	}
	return rows
}

// resizeTable fits the table to the expenses card. The card gets whatever
// height the metric cards, budget panel and status bar leave over.
func (a *App) resizeTable() {
	inner := components.CardInnerWidth(a.contentWidth())
	a.table.SetColumns(expenseColumns(inner))
	a.table.SetWidth(inner)

	h := a.height - 18
	if h < minContentHeight {
		h = minContentHeight
	}
	a.table.SetHeight(h)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}

	switch a.mode {
	case modeExpense:
		if a.expenseForm != nil {
			return a.viewOverlay(a.expenseForm.View())
		}
	case modeConfirm:
		if a.confirmForm != nil {
			return a.viewOverlay(a.confirmForm.View())
		}
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  budgetdash needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ budgetdash"))
	b.WriteString(subtitleStyle.Render(" · Budget & Expenses"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Fetching expenses..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Dashboard", []struct{ key, desc string }{
			{"b", "Edit monthly budget"},
			{"a", "Add an expense"},
			{"r", "Reload from the API"},
			{"j k ↑ ↓", "Scroll expenses"},
		}},
		{"Editing", []struct{ key, desc string }{
			{"enter", "Save"},
			{"esc", "Cancel"},
			{"tab", "Next field"},
		}},
		{"General", []struct{ key, desc string }{
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	for _, sec := range sections {
		b.WriteString("\n\n")
		b.WriteString(sectionStyle.Render(sec.title))
		for _, kb := range sec.bindings {
			b.WriteString("\n")
			b.WriteString(keyStyle.Render(fmt.Sprintf("  %-10s", kb.key)))
			b.WriteString(descStyle.Render(kb.desc))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

// viewOverlay centers a form in a card over the background.
func (a App) viewOverlay(body string) string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2).
		Render(body)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	cw := a.contentWidth()

	header := a.renderHeader(cw)
	cards := components.MetricCardRow(a.metrics(), cw)
	budget := components.ContentCard("Budget", a.renderBudgetPanel(cw), cw)
	expenses := components.ContentCard(
		fmt.Sprintf("Expenses (%d)", len(a.state.Expenses)),
		a.table.View(),
		cw,
	)

	parts := []string{header, cards, budget}
	if n := a.renderNotice(cw); n != "" {
		parts = append(parts, n)
	}
	parts = append(parts, expenses)
	body := strings.Join(parts, "\n")

	statusBar := components.RenderStatusBar(a.width, a.statusInfo())

	bodyH := a.height - 1
	if bodyH < minContentHeight {
		bodyH = minContentHeight
	}
	body = padHeight(truncateHeight(body, bodyH), bodyH)
	body = fillLinesWithBackground(body, a.width, t.Background)

	return body + "\n" + statusBar
}

func (a App) renderHeader(w int) string {
	t := theme.Active
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Background).Bold(true).Render("◈ budgetdash")
	month := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background).
		Render(a.now().Format("January 2006"))
	gap := w - lipgloss.Width(logo) - lipgloss.Width(month)
	if gap < 1 {
		gap = 1
	}
	return logo + lipgloss.NewStyle().Background(t.Background).Render(strings.Repeat(" ", gap)) + month
}

func (a App) metrics() []components.Metric {
	t := theme.Active
	s := a.stats

	allowance := "-"
	if s.DailyAllowance > 0 {
		allowance = cli.FormatMoney(a.symbol, s.DailyAllowance)
	}
	return []components.Metric{
		{Label: "Monthly budget", Value: cli.FormatMoney(a.symbol, s.MonthlyBudget)},
		{
			Label: "Spent",
			Value: cli.FormatMoney(a.symbol, s.TotalSpent),
			Delta: fmt.Sprintf("%d expenses", s.ExpenseCount),
		},
		{
			Label: "Remaining",
			Value: cli.FormatMoney(a.symbol, s.Remaining),
			Color: t.Remaining(s.Remaining, s.MonthlyBudget),
		},
		{
			Label: "Per day",
			Value: allowance,
			Delta: fmt.Sprintf("%d days left", s.DaysRemaining),
		},
	}
}

func (a App) renderBudgetPanel(cw int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	barW := inner - 14
	if barW < 10 {
		barW = 10
	}
	bar := components.BudgetBar("Used", a.stats.BudgetUsedPercent, 6, barW)

	var line string
	if a.mode == modeBudget {
		line = labelStyle.Render("Set budget "+a.symbol+" ") + a.budgetInput.View()
		if a.budgetErr != "" {
			line += "  " + errStyle.Render(a.budgetErr)
		} else {
			line += "  " + hintStyle.Render("enter to save, esc to cancel")
		}
	} else {
		line = hintStyle.Render("press b to change the budget, a to add an expense")
	}
	return bar + "\n" + line
}

// renderNotice shows the latest notice until it expires.
func (a App) renderNotice(w int) string {
	n := a.state.Notice
	if n.IsZero() || n.At.Equal(a.noticeHidden) {
		return ""
	}
	t := theme.Active
	color := t.Green
	icon := "✓"
	switch n.Level {
	case dashboard.LevelWarning:
		color, icon = t.Orange, "!"
	case dashboard.LevelError:
		color, icon = t.Red, "✗"
	}
	return lipgloss.NewStyle().
		Foreground(color).
		Background(t.Surface).
		Bold(true).
		Width(w).
		Padding(0, 1).
		Render(icon + " " + n.Text)
}

func (a App) statusInfo() components.StatusInfo {
	info := components.StatusInfo{
		UserID:       a.dash.UserID(),
		FailedWrites: a.failed,
	}
	switch {
	case a.busy != "":
		info.Busy = a.spinner.View() + " " + a.busy
	case a.loading:
		info.Busy = a.spinner.View() + " Reloading"
	}
	return info
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
