// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultCurrency is used when no symbol is configured.
const DefaultCurrency = "₹"

// FormatMoney formats an amount with a currency symbol, thousands
// separators and two decimals.
// e.g., ("₹", 1234.5) -> "₹1,234.50", ("₹", -50) -> "-₹50.00"
func FormatMoney(symbol string, amount float64) string {
	if symbol == "" {
		symbol = DefaultCurrency
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return symbol + "NaN"
	}
	if amount < 0 {
		return "-" + FormatMoney(symbol, -amount)
	}

	cents := int64(math.Round(amount * 100))
	return fmt.Sprintf("%s%s.%02d", symbol, FormatNumber(cents/100), cents%100)
}

// FormatDuration formats a request duration.
// e.g., 850ms -> "850ms", 1500ms -> "1.5s", 0 -> "0ms"
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}
