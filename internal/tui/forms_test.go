package tui

import (
	"testing"

	"github.com/theirongolddev/budgetdash/internal/config"
	"github.com/theirongolddev/budgetdash/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBudget(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"1500", 1500, false},
		{"1500.75", 1500.75, false},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"-1", 0, true},
	}
	for _, tt := range tests {
		got, err := parseBudget(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestFormatBudgetInput(t *testing.T) {
	assert.Equal(t, "", formatBudgetInput(0))
	assert.Equal(t, "500", formatBudgetInput(500))
	assert.Equal(t, "12.5", formatBudgetInput(12.5))
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, validateAmount("250"))
	assert.NoError(t, validateAmount(" -3.5 "))
	assert.Error(t, validateAmount(""))
	assert.Error(t, validateAmount("ten"))
	assert.Error(t, validateAmount("NaN"))
	assert.Error(t, validateAmount("infinity"))
	assert.Error(t, validateAmount("1e400"))
	assert.Error(t, validateAmount("0x1p4"))
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, validateDate("2024-04-21"))
	assert.Error(t, validateDate("21/04/2024"))
	assert.Error(t, validateDate(""))
}

func TestValuesFromDraft(t *testing.T) {
	v := valuesFromDraft(model.Draft{Category: "Food"}, fixedNow)
	assert.Equal(t, "Food", v.Category)
	assert.Equal(t, "2024-04-21", v.Date, "blank date defaults to today")

	v = valuesFromDraft(model.Draft{Date: "2024-04-01"}, fixedNow)
	assert.Equal(t, "2024-04-01", v.Date)

	v.Amount = " 250 "
	v.Description = " lunch\n"
	d := v.draft()
	assert.Equal(t, "250", d.Amount)
	assert.Equal(t, "lunch", d.Description)
}

func TestSetupValuesApply(t *testing.T) {
	t.Setenv(config.EnvBaseURL, "")
	t.Setenv(config.EnvLegacyBaseURL, "")
	t.Setenv(config.EnvUserID, "")
	t.Setenv(config.EnvEmail, "")
	t.Setenv(config.EnvReporting, "")

	v := SetupValuesFrom(config.DefaultConfig())
	assert.Equal(t, "₹", v.Currency)
	assert.Equal(t, config.ReportingOptimistic, v.Policy)

	v.BaseURL = " https://api.example.com/prod/ "
	v.UserID = " 123 "
	v.Email = "me@example.com"
	v.Currency = ""
	v.Policy = config.ReportingStrict

	cfg := v.Apply(config.DefaultConfig())
	assert.Equal(t, "https://api.example.com/prod", cfg.API.BaseURL)
	assert.Equal(t, "123", cfg.User.ID)
	assert.Equal(t, "me@example.com", cfg.User.Email)
	assert.Equal(t, "₹", cfg.Display.CurrencySymbol, "blank currency keeps the existing one")
	assert.Equal(t, config.ReportingStrict, cfg.Reporting.Policy)
	assert.NoError(t, config.Validate(cfg))
}

func TestSetupValidators(t *testing.T) {
	assert.NoError(t, validateBaseURL("http://127.0.0.1:8787"))
	assert.Error(t, validateBaseURL(""))
	assert.Error(t, validateBaseURL("ftp://example.com"))
	assert.Error(t, validateBaseURL("example.com"))

	assert.NoError(t, validateEmail(""))
	assert.NoError(t, validateEmail("a@b.co"))
	assert.Error(t, validateEmail("@b.co"))
	assert.Error(t, validateEmail("a@"))
	assert.Error(t, validateEmail("a b@c.d"))

	assert.Error(t, required("user id")(" "))
	assert.NoError(t, required("user id")("123"))
}
