// Package model defines the budget and expense types shared by the API
// client, the dashboard state store, and the views.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO date format used for expense dates.
const DateLayout = "2006-01-02"

// Expense is a single recorded spend event.
type Expense struct {
	Category    string     `json:"category"`
	Amount      Amount     `json:"amount"`
	Date        string     `json:"date"`
	Description string     `json:"description"`
	ExpenseID   FlexString `json:"expense_id,omitempty"`
	UserID      FlexString `json:"user_id,omitempty"`
}

// DescriptionOrDash returns the description, or "-" when it is empty.
func (e Expense) DescriptionOrDash() string {
	if strings.TrimSpace(e.Description) == "" {
		return "-"
	}
	return e.Description
}

// Draft is an expense under construction. All fields hold raw form input.
type Draft struct {
	Category    string
	Amount      string
	Date        string
	Description string
}

// IsEmpty reports whether no field has been filled in.
func (d Draft) IsEmpty() bool {
	return d == Draft{}
}

// ParseAmount converts raw amount input to a number. Blank input is 0.
// Only decimal notation counts, so "inf", "NaN", hex floats and digit
// separators all give NaN, which fails every comparison. Values too large
// for a float64 overflow to ±Inf.
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if strings.IndexFunc(s, notDecimal) >= 0 {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

func notDecimal(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return false
	case r == '.' || r == '+' || r == '-' || r == 'e' || r == 'E':
		return false
	}
	return true
}

// NewExpenseID derives a temporary list id from the given time.
// It is only unique enough for rendering and is not stable across reloads.
func NewExpenseID(at time.Time) string {
	return strconv.FormatInt(at.UnixMilli(), 10)
}

// Amount is a money value that decodes from either a JSON number or a
// numeric string. Values that are neither decode as 0.
type Amount float64

// Float returns the amount as a float64.
func (a Amount) Float() float64 { return float64(a) }

// UnmarshalJSON accepts 12.5, "12.5", null, and treats anything else as 0.
func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount(lenientNumber(data))
	return nil
}

// MarshalJSON writes NaN and infinities as 0 so a locally held list can
// always be serialized.
func (a Amount) MarshalJSON() ([]byte, error) {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	return json.Marshal(f)
}

// FlexString decodes from a JSON string or number.
type FlexString string

// String returns the underlying string.
func (s FlexString) String() string { return string(s) }

// UnmarshalJSON accepts "abc", 123, and null.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = FlexString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = FlexString(num.String())
		return nil
	}

	*s = FlexString(string(data))
	return nil
}

func lenientNumber(raw []byte) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v := ParseAmount(s); !math.IsNaN(v) {
			return v
		}
	}

	return 0
}
