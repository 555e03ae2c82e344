package tui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/dashboard"
	"github.com/theirongolddev/budgetdash/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/huh"
)

// expenseValues backs the add-expense form.
type expenseValues struct {
	Category    string
	Amount      string
	Date        string
	Description string
}

func valuesFromDraft(d model.Draft, today time.Time) *expenseValues {
	v := &expenseValues{
		Category:    d.Category,
		Amount:      d.Amount,
		Date:        d.Date,
		Description: d.Description,
	}
	if v.Date == "" {
		v.Date = today.Format(model.DateLayout)
	}
	return v
}

func (v *expenseValues) draft() model.Draft {
	return model.Draft{
		Category:    strings.TrimSpace(v.Category),
		Amount:      strings.TrimSpace(v.Amount),
		Date:        strings.TrimSpace(v.Date),
		Description: strings.TrimSpace(v.Description),
	}
}

// formKeyMap lets Esc abandon a form as well as ctrl+c.
func formKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel"))
	return km
}

func newExpenseForm(v *expenseValues, width int) *huh.Form {
	f := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Category").
				Placeholder("Food, Rent, Travel...").
				Value(&v.Category).
				Validate(required("category")),
			huh.NewInput().
				Title("Amount").
				Value(&v.Amount).
				Validate(validateAmount),
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD").
				Value(&v.Date).
				Validate(validateDate),
			huh.NewText().
				Title("Description").
				Description("Optional").
				Lines(3).
				Value(&v.Description),
		).Title("Add expense"),
	).WithKeyMap(formKeyMap()).WithShowHelp(true)
	if width > 0 {
		f = f.WithWidth(min(width-8, 72))
	}
	return f
}

func newConfirmForm(dec dashboard.Decision, symbol string, confirmed *bool) *huh.Form {
	detail := fmt.Sprintf("Amount %s, remaining %s.",
		cli.FormatMoney(symbol, dec.Amount),
		cli.FormatMoney(symbol, dec.Remaining))
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(dashboard.OverBudgetPrompt).
				Description(detail).
				Affirmative("Add anyway").
				Negative("Cancel").
				Value(confirmed),
		),
	).WithKeyMap(formKeyMap()).WithShowHelp(false)
}

// validateAmount mirrors a numeric form field: required and a number.
func validateAmount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("amount is required")
	}
	if v := model.ParseAmount(s); math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New("amount must be a number")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(model.DateLayout, strings.TrimSpace(s)); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}
	return nil
}

func newBudgetInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "monthly budget"
	ti.CharLimit = 16
	ti.Width = 20
	ti.Prompt = ""
	return ti
}

// parseBudget reads the budget field. Blank is 0.
func parseBudget(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("budget must be a number")
	}
	if v < 0 {
		return 0, errors.New("budget cannot be negative")
	}
	return v, nil
}

func formatBudgetInput(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
