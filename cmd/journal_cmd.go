package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/config"
	"github.com/theirongolddev/budgetdash/internal/journal"

	"github.com/spf13/cobra"
)

var (
	flagJournalLimit  int
	flagJournalFailed bool
	flagJournalAll    bool
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List recorded write attempts and their real outcome",
	RunE:  runJournal,
}

func init() {
	journalCmd.Flags().IntVarP(&flagJournalLimit, "limit", "l", 20, "Max entries to show (0 for all)")
	journalCmd.Flags().BoolVar(&flagJournalFailed, "failed", false, "Only show failed writes")
	journalCmd.Flags().BoolVar(&flagJournalAll, "all", false, "Include every user, not just the configured one")
	rootCmd.AddCommand(journalCmd)
}

func runJournal(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	j, err := journal.Open(config.JournalPath())
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	f := journal.Filter{FailedOnly: flagJournalFailed, Limit: flagJournalLimit}
	if !flagJournalAll {
		f.UserID = config.GetUserID(cfg)
	}

	ctx := cmd.Context()
	entries, err := j.List(ctx, f)
	if err != nil {
		return fmt.Errorf("listing journal: %w", err)
	}
	counts, err := j.Count(ctx, f.UserID)
	if err != nil {
		return fmt.Errorf("counting journal: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("\n  No write attempts recorded.")
		return nil
	}

	sym := cfg.Display.CurrencySymbol
	t := cli.Table{
		Title:      fmt.Sprintf("Write attempts (%d total, %d failed)", counts.Total, counts.Failed),
		Headers:    []string{"When", "Kind", "User", "Amount", "Status", "Took", "Detail"},
		RightAlign: []bool{false, false, false, true, false, true, false},
	}
	for _, e := range entries {
		status := string(e.Status)
		if e.StatusCode != 0 {
			status += " " + strconv.Itoa(e.StatusCode)
		}
		detail := e.Error
		if detail == "" && e.Kind == journal.KindExpense {
			detail = e.Category + " " + e.Date
		}
		t.Rows = append(t.Rows, []string{
			e.AttemptedAt.Local().Format("Jan 02 15:04:05"),
			string(e.Kind),
			e.UserID,
			cli.FormatMoney(sym, e.Amount),
			status,
			cli.FormatDuration(e.Duration),
			detail,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(t))
	return nil
}
