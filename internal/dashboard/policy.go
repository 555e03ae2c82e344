package dashboard

// Outcome is a policy decision for one write.
type Outcome struct {
	Notice      Notice
	Resync      bool  // reload from the server afterwards
	AppendLocal bool  // apply the expense to the local list
	Err         error // returned to the caller; nil hides the failure
}

// ReportingPolicy decides what the user is told about a write and what
// happens to local state, given the real result of the request. The real
// result is always logged and journaled no matter what the policy says.
type ReportingPolicy interface {
	BudgetSaved(err error) Outcome
	ExpenseAdded(err error) Outcome
}

// OptimisticPolicy reports every write as successful. Local state is
// treated as the source of truth for feedback; the server is only reloaded
// after a budget write that really landed.
type OptimisticPolicy struct{}

// BudgetSaved implements ReportingPolicy.
func (OptimisticPolicy) BudgetSaved(err error) Outcome {
	return Outcome{
		Notice: Notice{Level: LevelSuccess, Text: MsgBudgetSaved},
		Resync: err == nil,
	}
}

// ExpenseAdded implements ReportingPolicy.
func (OptimisticPolicy) ExpenseAdded(error) Outcome {
	return Outcome{
		Notice:      Notice{Level: LevelSuccess, Text: MsgExpenseAdded},
		AppendLocal: true,
	}
}

// StrictPolicy surfaces write failures and only changes local state when
// the server accepted the write.
type StrictPolicy struct{}

// BudgetSaved implements ReportingPolicy.
func (StrictPolicy) BudgetSaved(err error) Outcome {
	if err != nil {
		return Outcome{Notice: Notice{Level: LevelError, Text: MsgBudgetFailed}, Err: err}
	}
	return Outcome{Notice: Notice{Level: LevelSuccess, Text: MsgBudgetSaved}, Resync: true}
}

// ExpenseAdded implements ReportingPolicy.
func (StrictPolicy) ExpenseAdded(err error) Outcome {
	if err != nil {
		return Outcome{Notice: Notice{Level: LevelError, Text: MsgExpenseFailed}, Err: err}
	}
	return Outcome{Notice: Notice{Level: LevelSuccess, Text: MsgExpenseAdded}, AppendLocal: true}
}

// PolicyByName returns StrictPolicy for "strict" and OptimisticPolicy otherwise.
func PolicyByName(name string) ReportingPolicy {
	if name == "strict" {
		return StrictPolicy{}
	}
	return OptimisticPolicy{}
}
