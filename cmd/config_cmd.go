package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/budgetdash/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [API]")
	fmt.Printf("    Base URL: %s\n", valueOrUnset(config.GetBaseURL(cfg), config.EnvBaseURL))
	fmt.Printf("    Timeout:  %ds\n", cfg.API.TimeoutSeconds)
	fmt.Println()

	fmt.Println("  [User]")
	fmt.Printf("    ID:    %s\n", valueOrUnset(config.GetUserID(cfg), config.EnvUserID))
	email := config.GetEmail(cfg)
	if email == "" {
		email = "not set (expenses are sent without a notification address)"
	}
	fmt.Printf("    Email: %s\n", email)
	fmt.Println()

	fmt.Println("  [Display]")
	fmt.Printf("    Currency: %s\n", cfg.Display.CurrencySymbol)
	fmt.Printf("    Theme:    %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Reporting]")
	fmt.Printf("    Policy: %s\n", config.GetReportingPolicy(cfg))
	fmt.Println()

	fmt.Println("  [Files]")
	fmt.Printf("    Journal: %s\n", config.JournalPath())
	fmt.Printf("    Log:     %s (level %s)\n", config.LogPath(cfg), cfg.Log.Level)
	fmt.Println()

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: %v\n", err)
	}
	fmt.Println("  Run `budgetdash setup` to reconfigure.")
	return nil
}

func valueOrUnset(v, env string) string {
	if v == "" {
		return "not configured (set " + env + ")"
	}
	return v
}
