package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expensesOf(amounts ...float64) []Expense {
	out := make([]Expense, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, Expense{Category: "misc", Amount: Amount(a)})
	}
	return out
}

func TestRemaining(t *testing.T) {
	tests := []struct {
		name     string
		budget   float64
		expenses []Expense
		want     float64
	}{
		{"no expenses", 500, nil, 500},
		{"partial spend", 1000, expensesOf(300, 500), 200},
		{"overspent", 1000, expensesOf(800, 250), -50},
		{"zero budget", 0, expensesOf(10), -10},
		{"nan counts as zero", 100, expensesOf(40, math.NaN()), 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Remaining(tt.budget, tt.expenses), 1e-9)
		})
	}
}

func TestRemainingIsRecomputed(t *testing.T) {
	list := expensesOf(100)
	assert.InDelta(t, 400.0, Remaining(500, list), 1e-9)

	list = append(list, Expense{Amount: 150})
	assert.InDelta(t, 250.0, Remaining(500, list), 1e-9)

	list[0].Amount = 0
	assert.InDelta(t, 350.0, Remaining(500, list), 1e-9)
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 250.0, ParseAmount("250"))
	assert.Equal(t, 12.5, ParseAmount(" 12.5 "))
	assert.Equal(t, 0.0, ParseAmount(""))
	assert.True(t, math.IsNaN(ParseAmount("abc")))

	// NaN never exceeds anything.
	assert.False(t, ParseAmount("abc") > -1e9)

	assert.Equal(t, -3.5, ParseAmount("-3.5"))
	assert.Equal(t, 1500.0, ParseAmount("1.5e3"))
	for _, in := range []string{"inf", "Inf", "+Infinity", "-infinity", "NaN", "0x1p4", "1_000"} {
		assert.True(t, math.IsNaN(ParseAmount(in)), "input %q", in)
	}
	assert.True(t, math.IsInf(ParseAmount("1e400"), 1), "overflow is +Inf")
	assert.True(t, math.IsInf(ParseAmount("-1e400"), -1), "overflow is -Inf")
}

func TestExpenseLenientDecode(t *testing.T) {
	raw := `[
		{"category":"food","amount":"42.5","date":"2024-05-01","description":"","expense_id":1714550400000},
		{"category":"rent","amount":900,"date":"2024-05-02","expense_id":"abc"},
		{"category":"odd","amount":"n/a","date":"2024-05-03"}
	]`

	var got []Expense
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	require.Len(t, got, 3)

	assert.Equal(t, 42.5, got[0].Amount.Float())
	assert.Equal(t, "1714550400000", got[0].ExpenseID.String())
	assert.Equal(t, "-", got[0].DescriptionOrDash())
	assert.Equal(t, 900.0, got[1].Amount.Float())
	assert.Equal(t, "abc", got[1].ExpenseID.String())
	assert.Equal(t, 0.0, got[2].Amount.Float())
}

func TestAmountDecodeRejectsNonDecimalStrings(t *testing.T) {
	var got []Expense
	require.NoError(t, json.Unmarshal([]byte(`[{"amount":"Infinity"},{"amount":"nan"},{"amount":" 7.25 "}]`), &got))
	require.Len(t, got, 3)
	assert.Equal(t, 0.0, got[0].Amount.Float())
	assert.Equal(t, 0.0, got[1].Amount.Float())
	assert.Equal(t, 7.25, got[2].Amount.Float())
}

func TestAmountMarshalNaN(t *testing.T) {
	data, err := json.Marshal(Expense{Amount: Amount(math.NaN())})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"amount":0`)
}

func TestNewExpenseID(t *testing.T) {
	at := time.UnixMilli(1714550400123)
	assert.Equal(t, "1714550400123", NewExpenseID(at))
}

func TestComputeStats(t *testing.T) {
	at := time.Date(2024, time.April, 21, 15, 0, 0, 0, time.UTC)
	stats := ComputeStats(1000, expensesOf(400), at)

	assert.Equal(t, 400.0, stats.TotalSpent)
	assert.Equal(t, 600.0, stats.Remaining)
	assert.Equal(t, 1, stats.ExpenseCount)
	assert.Equal(t, 10, stats.DaysRemaining) // Apr 21..30
	assert.InDelta(t, 60.0, stats.DailyAllowance, 1e-9)
	assert.InDelta(t, 0.4, stats.BudgetUsedPercent, 1e-9)

	over := ComputeStats(100, expensesOf(150), at)
	assert.Equal(t, 0.0, over.DailyAllowance)
	assert.Equal(t, -50.0, over.Remaining)

	none := ComputeStats(0, nil, at)
	assert.Equal(t, 0.0, none.BudgetUsedPercent)
}
