package budgetapi

import (
	"encoding/json"
	"math"

	"github.com/theirongolddev/budgetdash/internal/model"
)

// Record type discriminators sent in the "type" field of a POST.
const (
	RecordTypeBudget  = "budget"
	RecordTypeExpense = "expense"
)

// Snapshot is the normalized result of a budget/expense fetch.
type Snapshot struct {
	MonthlyBudget float64
	Expenses      []model.Expense
	Shape         PayloadShape // wire shape the payload arrived in
}

// BudgetRecord sets the user's monthly budget.
type BudgetRecord struct {
	UserID string     `json:"user_id"`
	Type   string     `json:"type"`
	Amount WireNumber `json:"amount"`
}

// ExpenseRecord records a new expense. The backend notifies Email.
type ExpenseRecord struct {
	UserID      string     `json:"user_id"`
	Type        string     `json:"type"`
	Amount      WireNumber `json:"amount"`
	Category    string     `json:"category"`
	Date        string     `json:"date"`
	Description string     `json:"description"`
	Email       string     `json:"email"`
}

// WriteResult carries whatever the server echoed back from a write.
type WriteResult struct {
	StatusCode int
	ExpenseID  string // server-assigned id, empty when none was returned
}

// WireNumber is a float64 that encodes NaN and infinities as null
// instead of failing the whole request body.
type WireNumber float64

// MarshalJSON implements json.Marshaler.
func (n WireNumber) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// writeResponse is the optional body of a write response.
type writeResponse struct {
	ExpenseID model.FlexString `json:"expense_id"`
	Error     string           `json:"error"`
}
