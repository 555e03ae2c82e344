package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if _, err := runSetupForm(cfg); err != nil {
		return err
	}

	fmt.Println("  Run `budgetdash setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
