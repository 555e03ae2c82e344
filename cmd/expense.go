package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/dashboard"
	"github.com/theirongolddev/budgetdash/internal/model"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagExpenseCategory    string
	flagExpenseAmount      string
	flagExpenseDate        string
	flagExpenseDescription string
	flagExpenseYes         bool
)

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Manage expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an expense, asking first when it exceeds the remaining budget",
	RunE:  runExpenseAdd,
}

func init() {
	f := expenseAddCmd.Flags()
	f.StringVarP(&flagExpenseCategory, "category", "c", "", "Expense category")
	f.StringVarP(&flagExpenseAmount, "amount", "a", "", "Amount")
	f.StringVarP(&flagExpenseDate, "date", "d", "", "Date (YYYY-MM-DD, default today)")
	f.StringVar(&flagExpenseDescription, "description", "", "Optional description")
	f.BoolVarP(&flagExpenseYes, "yes", "y", false, "Add without asking when over budget")
	_ = expenseAddCmd.MarkFlagRequired("category")
	_ = expenseAddCmd.MarkFlagRequired("amount")

	expenseCmd.AddCommand(expenseAddCmd)
	rootCmd.AddCommand(expenseCmd)
}

func runExpenseAdd(cmd *cobra.Command, _ []string) error {
	date := flagExpenseDate
	if date == "" {
		date = time.Now().Format(model.DateLayout)
	} else if _, err := time.Parse(model.DateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q: use YYYY-MM-DD", date)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := openSession(cfg, flagVerbose, printNotice)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	// The over-budget check needs what has already been spent.
	if err := s.dash.Load(ctx); err != nil {
		return err
	}

	draft := model.Draft{
		Category:    flagExpenseCategory,
		Amount:      flagExpenseAmount,
		Date:        date,
		Description: flagExpenseDescription,
	}

	res, err := s.dash.Submit(ctx, draft, confirmer(flagExpenseYes))
	if err != nil {
		return err
	}

	sym := cfg.Display.CurrencySymbol
	if res.Declined {
		fmt.Println("  Expense not added.")
		return nil
	}
	if res.Appended {
		fmt.Println(cli.RenderKV("Expense", fmt.Sprintf("%s  %s  %s",
			res.Expense.Category, cli.FormatMoney(sym, res.Expense.Amount.Float()), res.Expense.Date)))
	}
	fmt.Println(cli.RenderKV("Remaining", cli.RenderRemaining(sym, s.dash.Remaining())))
	return nil
}

// confirmer asks on the terminal with a huh confirm, or always agrees
// when yes is set.
func confirmer(yes bool) dashboard.Confirmer {
	if yes {
		return dashboard.ConfirmFunc(func(context.Context, string) (bool, error) {
			return true, nil
		})
	}
	return dashboard.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		ok := false
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Add anyway").
				Negative("Cancel").
				Value(&ok),
		)).RunWithContext(ctx)
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return ok, err
	})
}
