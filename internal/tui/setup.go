package tui

import (
	"errors"
	"net/url"
	"strings"

	"github.com/theirongolddev/budgetdash/internal/config"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the first-run form answers.
type SetupValues struct {
	BaseURL  string
	UserID   string
	Email    string
	Currency string
	Theme    string
	Policy   string
}

// SetupValuesFrom seeds the form from an existing config, including env
// overrides, so re-running setup shows what is in effect.
func SetupValuesFrom(cfg config.Config) *SetupValues {
	return &SetupValues{
		BaseURL:  config.GetBaseURL(cfg),
		UserID:   config.GetUserID(cfg),
		Email:    config.GetEmail(cfg),
		Currency: cfg.Display.CurrencySymbol,
		Theme:    cfg.Appearance.Theme,
		Policy:   config.GetReportingPolicy(cfg),
	}
}

// Apply copies the answers into cfg.
func (v *SetupValues) Apply(cfg config.Config) config.Config {
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(v.BaseURL), "/")
	cfg.User.ID = strings.TrimSpace(v.UserID)
	cfg.User.Email = strings.TrimSpace(v.Email)
	if c := strings.TrimSpace(v.Currency); c != "" {
		cfg.Display.CurrencySymbol = c
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
	if v.Policy != "" {
		cfg.Reporting.Policy = v.Policy
	}
	return cfg
}

// NewSetupForm builds the setup form bound to v.
func NewSetupForm(v *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to budgetdash").
				Description("Track a monthly budget and expenses against the\nbudget-expenses API. Answers are saved to\n"+config.Path()),
			huh.NewInput().
				Title("API base URL").
				Description("Where GET/POST /budget-expenses is served.").
				Placeholder("https://abc123.execute-api.ap-south-1.amazonaws.com/prod").
				Value(&v.BaseURL).
				Validate(validateBaseURL),
			huh.NewInput().
				Title("User id").
				Value(&v.UserID).
				Validate(required("user id")),
			huh.NewInput().
				Title("Notification email").
				Description("The backend emails this address about new expenses.").
				Value(&v.Email).
				Validate(validateEmail),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Currency symbol").
				Value(&v.Currency).
				Validate(required("currency symbol")),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
			huh.NewSelect[string]().
				Title("When a save fails").
				Options(
					huh.NewOption("Report success anyway (log the failure)", config.ReportingOptimistic),
					huh.NewOption("Show the error", config.ReportingStrict),
				).
				Value(&v.Policy),
		),
	).WithShowHelp(true)
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}

func validateBaseURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("base URL is required")
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("enter an http(s) URL")
	}
	return nil
}

// validateEmail allows blank; the dashboard logs a warning in that case.
func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 || strings.ContainsAny(s, " \t") {
		return errors.New("enter an email address")
	}
	return nil
}
