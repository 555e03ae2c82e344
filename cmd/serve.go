package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theirongolddev/budgetdash/internal/config"
	"github.com/theirongolddev/budgetdash/internal/stubapi"

	"github.com/spf13/cobra"
)

var (
	flagServeAddr         string
	flagServeStringBody   bool
	flagServeFailWrites   bool
	flagServeEventsBuffer int
	flagServeSeedUser     string
	flagServeSeedBudget   float64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local stand-in for the budget-expenses API",
	RunE:  runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show status of a running stub API",
	RunE:  runServeStatus,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "127.0.0.1:8787", "HTTP listen address")

	serveCmd.Flags().BoolVar(&flagServeStringBody, "string-body", false, "Return the GET payload as a JSON string inside body")
	serveCmd.Flags().BoolVar(&flagServeFailWrites, "fail-writes", false, "Answer every write with 503")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory events retained")
	serveCmd.Flags().StringVar(&flagServeSeedUser, "seed-user", "", "Start with this user already present")
	serveCmd.Flags().Float64Var(&flagServeSeedBudget, "seed-budget", 0, "Monthly budget for --seed-user")

	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// The stub has no TUI, so it always logs to stderr.
	log, closeLog := newLogger(cfg, true)
	defer func() { _ = closeLog() }()

	svc := stubapi.New(stubapi.Config{
		Addr:         flagServeAddr,
		StringBody:   flagServeStringBody,
		FailWrites:   flagServeFailWrites,
		EventsBuffer: flagServeEventsBuffer,
		Logger:       log,
	})
	if flagServeSeedUser != "" {
		svc.Seed(flagServeSeedUser, flagServeSeedBudget)
	}

	fmt.Printf("  budgetdash stub API listening on http://%s\n", flagServeAddr)
	fmt.Printf("  Point the dashboard at it with: %s=http://%s\n", config.EnvBaseURL, flagServeAddr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go printEvents(svc.Subscribe(ctx))

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// printEvents echoes each write the stub receives until the channel closes.
func printEvents(events <-chan stubapi.Event) {
	for ev := range events {
		fmt.Println(formatEvent(ev))
	}
}

func formatEvent(ev stubapi.Event) string {
	line := fmt.Sprintf("  #%d %s %-7s user=%s amount=%g",
		ev.ID, ev.Timestamp.Local().Format("15:04:05"), ev.Type, ev.UserID, ev.Amount)
	if ev.ExpenseID != "" {
		line += " id=" + ev.ExpenseID
	}
	return fmt.Sprintf("%s -> %d", line, ev.Status)
}

func runServeStatus(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+flagServeAddr+"/v1/status", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("  Stub API: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  Stub API: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st stubapi.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  Stub API: malformed response (%v)\n", err)
		return nil
	}

	fmt.Printf("  Address:    http://%s\n", flagServeAddr)
	fmt.Printf("  Up since:   %s\n", st.StartedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Users:      %d\n", st.Users)
	fmt.Printf("  Expenses:   %d\n", st.Expenses)
	fmt.Printf("  Writes:     %d\n", st.Writes)
	fmt.Printf("  String body: %v, fail writes: %v\n", st.StringBody, st.FailWrites)
	fmt.Printf("  Listeners:  %d\n", st.SubscriberCount)
	return nil
}
