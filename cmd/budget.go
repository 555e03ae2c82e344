package cmd

import (
	"fmt"
	"math"
	"strconv"

	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/dashboard"

	"github.com/spf13/cobra"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage the monthly budget",
}

var budgetSetCmd = &cobra.Command{
	Use:   "set <amount>",
	Short: "Save the monthly budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetSet,
}

func init() {
	budgetCmd.AddCommand(budgetSetCmd)
	rootCmd.AddCommand(budgetCmd)
}

// printNotice writes dashboard notices to the terminal as they happen.
var printNotice = dashboard.NotifierFunc(func(n dashboard.Notice) {
	fmt.Printf("  %s\n", cli.RenderNotice(n.Level.String(), n.Text))
})

func runBudgetSet(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return fmt.Errorf("invalid budget %q: must be a non-negative number", args[0])
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

	s.dash.SetBudgetInput(amount)
	if err := s.dash.PushBudget(cmd.Context()); err != nil {
		return err
	}

	fmt.Println(cli.RenderKV("Monthly budget", cli.FormatMoney(cfg.Display.CurrencySymbol, s.dash.Budget())))
	if s.dash.State().Loaded {
		fmt.Println(cli.RenderKV("Remaining", cli.RenderRemaining(cfg.Display.CurrencySymbol, s.dash.Remaining())))
	}
	return nil
}
