package dashboard

import "time"

// User-facing messages.
const (
	MsgFetchFailed   = "Error fetching expenses."
	MsgBudgetSaved   = "Budget set successfully!"
	MsgExpenseAdded  = "Expense added successfully!"
	MsgBudgetFailed  = "Budget could not be saved."
	MsgExpenseFailed = "Expense could not be saved."

	// OverBudgetPrompt is the confirmation asked before exceeding the budget.
	OverBudgetPrompt = "This expense exceeds your remaining budget. Do you still want to proceed?"
)

// Level classifies a notice.
type Level int

const (
	LevelSuccess Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "success"
	}
}

// Notice is a message shown to the user.
type Notice struct {
	Level Level
	Text  string
	At    time.Time
}

// IsZero reports whether the notice is empty.
func (n Notice) IsZero() bool {
	return n.Text == ""
}

// Notifier delivers notices to whatever surface the user is looking at.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notice) { f(n) }
