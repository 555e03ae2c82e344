package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/budgetdash/internal/cli"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print budget, remaining and expenses",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := openSession(cfg, flagVerbose, nil)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.dash.Load(cmd.Context()); err != nil {
		return err
	}

	sym := cfg.Display.CurrencySymbol
	stats := s.dash.Stats()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BUDGET  %s  user %s", time.Now().Format("January 2006"), s.dash.UserID())))
	fmt.Println()

	fmt.Println(cli.RenderKV("Monthly budget", cli.FormatMoney(sym, stats.MonthlyBudget)))
	fmt.Println(cli.RenderKV("Spent", cli.FormatMoney(sym, stats.TotalSpent)))
	fmt.Println(cli.RenderKV("Remaining", cli.RenderRemaining(sym, stats.Remaining)))
	if stats.DailyAllowance > 0 {
		fmt.Println(cli.RenderKV("Per day", fmt.Sprintf("%s for %d days",
			cli.FormatMoney(sym, stats.DailyAllowance), stats.DaysRemaining)))
	}
	if stats.MonthlyBudget > 0 {
		fmt.Println(cli.RenderKV("Used", cli.RenderBudgetBar(stats.BudgetUsedPercent, 30)))
	}
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.ExpenseTable(s.dash.Expenses(), sym)))
	fmt.Println()
	return nil
}
