package model

import (
	"math"
	"time"

	"github.com/jinzhu/now"
)

// TotalSpent sums expense amounts. NaN entries count as 0.
func TotalSpent(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		v := e.Amount.Float()
		if math.IsNaN(v) {
			continue
		}
		total += v
	}
	return total
}

// Remaining is budget minus the sum of all expense amounts.
// It is recomputed on every call and never cached.
func Remaining(budget float64, expenses []Expense) float64 {
	return budget - TotalSpent(expenses)
}

// BudgetStats holds the figures shown on the dashboard cards.
type BudgetStats struct {
	MonthlyBudget     float64
	TotalSpent        float64
	Remaining         float64
	ExpenseCount      int
	DaysRemaining     int     // days left in the month, today included
	DailyAllowance    float64 // remaining spread over DaysRemaining, 0 when overspent
	BudgetUsedPercent float64 // 0.0-1.0+, 0 when no budget is set
}

// ComputeStats derives BudgetStats for the month containing at.
func ComputeStats(budget float64, expenses []Expense, at time.Time) BudgetStats {
	spent := TotalSpent(expenses)
	remaining := budget - spent

	endOfMonth := now.With(at).EndOfMonth()
	days := endOfMonth.Day() - at.Day() + 1
	if days < 1 {
		days = 1
	}

	stats := BudgetStats{
		MonthlyBudget: budget,
		TotalSpent:    spent,
		Remaining:     remaining,
		ExpenseCount:  len(expenses),
		DaysRemaining: days,
	}
	if remaining > 0 {
		stats.DailyAllowance = remaining / float64(days)
	}
	if budget > 0 {
		stats.BudgetUsedPercent = spent / budget
	}
	return stats
}
