// Package cmd implements the budgetdash CLI commands.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/budgetdash/internal/budgetapi"
	"github.com/theirongolddev/budgetdash/internal/config"
	"github.com/theirongolddev/budgetdash/internal/dashboard"
	"github.com/theirongolddev/budgetdash/internal/journal"
	"github.com/theirongolddev/budgetdash/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfig  string
	flagUser    string
	flagAPIURL  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "budgetdash",
	Short: "Monthly budget and expense dashboard",
	Long:  "Track a monthly budget and expenses against the budget-expenses API.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if flagConfig != "" {
			config.SetPath(flagConfig)
		}
		return config.LoadDotEnv()
	},
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "User id (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Budget API base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log to stderr")
}

// loadConfig reads the config file. Command-line overrides are applied
// through the environment, which already wins over the file.
func loadConfig() (config.Config, error) {
	if flagAPIURL != "" {
		_ = os.Setenv(config.EnvBaseURL, flagAPIURL)
	}
	if flagUser != "" {
		_ = os.Setenv(config.EnvUserID, flagUser)
	}
	return config.Load()
}

// newLogger builds the command logger and its close func. The TUI passes
// stderr=false so logs go to the log file instead of the screen.
func newLogger(cfg config.Config, stderr bool) (*zap.Logger, func() error) {
	log, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		File:   config.LogPath(cfg),
		Stderr: stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Logging disabled: %v\n", err)
		return zap.NewNop(), func() error { return nil }
	}
	return log, closeLog
}

// session is everything a command needs to talk to the API.
type session struct {
	cfg      config.Config
	log      *zap.Logger
	closeLog func() error
	journal  *journal.Journal // nil when the journal could not be opened
	dash     *dashboard.Dashboard
}

// openSession validates config and builds the API client, journal and
// dashboard. Callers must call close.
func openSession(cfg config.Config, stderrLogs bool, notifier dashboard.Notifier) (*session, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("%w\n  Run `budgetdash setup` to configure", err)
	}

	log, closeLog := newLogger(cfg, stderrLogs)

	client, err := budgetapi.NewClient(config.GetBaseURL(cfg),
		budgetapi.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second))
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	s := &session{cfg: cfg, log: log, closeLog: closeLog}

	opts := dashboard.Options{
		Remote:   client,
		UserID:   config.GetUserID(cfg),
		Email:    config.GetEmail(cfg),
		Policy:   dashboard.PolicyByName(config.GetReportingPolicy(cfg)),
		Notifier: notifier,
		Logger:   log,
	}

	if j, err := journal.Open(config.JournalPath()); err != nil {
		log.Warn("journal unavailable, write attempts will not be recorded", zap.Error(err))
	} else {
		s.journal = j
		opts.Journal = j
	}

	s.dash, err = dashboard.New(opts)
	if err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) close() {
	if s.journal != nil {
		_ = s.journal.Close()
	}
	_ = s.closeLog()
}
