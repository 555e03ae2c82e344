package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/budgetdash/internal/config"
	"github.com/theirongolddev/budgetdash/internal/tui"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// First run: ask for what the dashboard cannot start without.
	if config.Validate(cfg) != nil {
		cfg, err = runSetupForm(cfg)
		if err != nil {
			return err
		}
		theme.SetActive(cfg.Appearance.Theme)
	}

	s, err := openSession(cfg, flagVerbose, nil)
	if err != nil {
		return err
	}
	defer s.close()

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	opts := tui.Options{
		Dashboard:      s.dash,
		CurrencySymbol: cfg.Display.CurrencySymbol,
		Logger:         s.log,
	}
	if s.journal != nil {
		opts.Journal = s.journal
	}

	p := tea.NewProgram(tui.NewApp(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// runSetupForm shows the setup form and saves the answers.
func runSetupForm(cfg config.Config) (config.Config, error) {
	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return cfg, errors.New("setup canceled")
		}
		return cfg, fmt.Errorf("setup form: %w", err)
	}

	cfg = vals.Apply(cfg)
	if err := config.Save(cfg); err != nil {
		return cfg, fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("  Saved to %s\n", config.Path())
	return cfg, nil
}
