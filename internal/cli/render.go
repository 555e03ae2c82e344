package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetdash/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// EmptyExpensesText is the placeholder row shown when there are no expenses.
const EmptyExpensesText = "No expenses added yet"

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	goodStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	badStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
	// RightAlign marks right-aligned columns. When nil every column
	// except the first is right-aligned.
	RightAlign []bool
}

func (t Table) rightAligned(col int) bool {
	if t.RightAlign == nil {
		return col > 0
	}
	return col < len(t.RightAlign) && t.RightAlign[col]
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderKV renders an aligned "label  value" line.
func RenderKV(label, value string) string {
	return fmt.Sprintf("  %s %s", mutedStyle.Render(fmt.Sprintf("%-16s", label)), valueStyle.Render(value))
}

// RenderTable renders a bordered table with headers and rows. A row made
// of the single cell "---" draws a separator.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			if w := lipgloss.Width(h); w > widths[i] {
				widths[i] = w
			}
		}
		for _, row := range t.Rows {
			if len(row) == 1 && numCols > 1 {
				continue // spanning rows do not size columns
			}
			for i, cell := range row {
				if w := lipgloss.Width(cell); i < numCols && w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(" " + pad(h, widths[i], false) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		rule("├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			rule("├", "┼", "┤")
			continue
		}

		b.WriteString(dimStyle.Render("│"))

		// A single cell spans the whole table.
		if len(row) == 1 && numCols > 1 {
			span := -3
			for _, w := range widths {
				span += w + 3
			}
			b.WriteString(mutedStyle.Render(" " + pad(row[0], span, false) + " "))
			b.WriteString(dimStyle.Render("│"))
			b.WriteString("\n")
			continue
		}

		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(" " + pad(cell, widths[i], t.rightAligned(i)) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	rule("╰", "┴", "╯")

	return b.String()
}

// pad pads s with spaces to width display cells.
func pad(s string, width int, right bool) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// ExpenseTable builds the expense list table. An empty list renders the
// placeholder row.
func ExpenseTable(expenses []model.Expense, symbol string) Table {
	t := Table{
		Title:      "Expenses",
		Headers:    []string{"Category", "Amount", "Date", "Description"},
		RightAlign: []bool{false, true, false, false},
	}
	if len(expenses) == 0 {
		t.Rows = [][]string{{EmptyExpensesText}}
		return t
	}
	for _, e := range expenses {
		t.Rows = append(t.Rows, []string{
			e.Category,
			FormatMoney(symbol, e.Amount.Float()),
			e.Date,
			e.DescriptionOrDash(),
		})
	}
	return t
}

// RenderBudgetBar renders how much of the budget has been used.
func RenderBudgetBar(used float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct := used
	if pct < 0 {
		pct = 0
	}
	filled := int(min(pct, 1) * float64(width))

	style := goodStyle
	switch {
	case pct >= 1:
		style = badStyle
	case pct >= 0.8:
		style = warnStyle
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", style.Render(bar), FormatPercent(used))
}

// RenderRemaining colors a remaining amount: red when overspent.
func RenderRemaining(symbol string, remaining float64) string {
	s := FormatMoney(symbol, remaining)
	if remaining < 0 {
		return badStyle.Render(s)
	}
	return goodStyle.Render(s)
}

// RenderNotice renders a notice line for a level name
// ("success", "warning" or "error").
func RenderNotice(level, text string) string {
	switch level {
	case "error":
		return badStyle.Render("✗ " + text)
	case "warning":
		return warnStyle.Render("! " + text)
	default:
		return goodStyle.Render("✓ " + text)
	}
}
