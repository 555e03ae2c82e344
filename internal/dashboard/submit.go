package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/budgetdash/internal/budgetapi"
	"github.com/theirongolddev/budgetdash/internal/journal"
	"github.com/theirongolddev/budgetdash/internal/model"

	"go.uber.org/zap"
)

// ErrUnknownField is returned by UpdateDraftField for an unrecognized name.
var ErrUnknownField = errors.New("dashboard: unknown draft field")

// Draft field names accepted by UpdateDraftField.
const (
	FieldCategory    = "category"
	FieldAmount      = "amount"
	FieldDate        = "date"
	FieldDescription = "description"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Decision is the pre-submit evaluation of a draft.
type Decision struct {
	Amount            float64 // NaN when the amount is not a number
	Remaining         float64
	NeedsConfirmation bool
}

// SubmitResult describes a finished submission.
type SubmitResult struct {
	Decision Decision
	Declined bool          // the user declined the over-budget prompt
	Appended bool          // Expense was added to the local list
	Expense  model.Expense // zero unless Appended
}

// PrepareDraft shows the expense form. A form that is already visible
// keeps its contents.
func (d *Dashboard) PrepareDraft() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.formVisible {
		return
	}
	d.formVisible = true
}

// CancelDraft hides the form and keeps the draft for next time.
func (d *Dashboard) CancelDraft() {
	d.mu.Lock()
	d.formVisible = false
	d.mu.Unlock()
}

// FormVisible reports whether the expense form is shown.
func (d *Dashboard) FormVisible() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.formVisible
}

// Draft returns the draft being edited.
func (d *Dashboard) Draft() model.Draft {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.draft
}

// UpdateDraftField sets one draft field by name. Values are not validated.
func (d *Dashboard) UpdateDraftField(name, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch name {
	case FieldCategory:
		d.draft.Category = value
	case FieldAmount:
		d.draft.Amount = value
	case FieldDate:
		d.draft.Date = value
	case FieldDescription:
		d.draft.Description = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// Evaluate parses the draft amount and compares it with what is left of the
// budget. A NaN amount never needs confirmation.
func (d *Dashboard) Evaluate(draft model.Draft) Decision {
	amount := model.ParseAmount(draft.Amount)
	remaining := d.Remaining()
	return Decision{
		Amount:            amount,
		Remaining:         remaining,
		NeedsConfirmation: amount > remaining,
	}
}

// Submit evaluates the draft, asks confirm when it would exceed the budget,
// and commits it. A nil confirm declines every over-budget draft.
// Submissions are serialized so each one sees the previous one's expense.
func (d *Dashboard) Submit(ctx context.Context, draft model.Draft, confirm Confirmer) (SubmitResult, error) {
	d.submitMu.Lock()
	defer d.submitMu.Unlock()

	dec := d.Evaluate(draft)
	if dec.NeedsConfirmation {
		ok := false
		if confirm != nil {
			var err error
			ok, err = confirm.Confirm(ctx, OverBudgetPrompt)
			if err != nil {
				return SubmitResult{Decision: dec}, fmt.Errorf("dashboard: confirming expense: %w", err)
			}
		}
		if !ok {
			d.log.Info("over-budget expense declined",
				zap.Float64("amount", dec.Amount),
				zap.Float64("remaining", dec.Remaining),
			)
			return SubmitResult{Decision: dec, Declined: true}, nil
		}
	}

	exp, appended, err := d.commit(ctx, draft, dec.Amount)
	return SubmitResult{Decision: dec, Appended: appended, Expense: exp}, err
}

// Commit sends the draft without asking for confirmation. Callers that
// show their own prompt use Evaluate first.
func (d *Dashboard) Commit(ctx context.Context, draft model.Draft) (model.Expense, error) {
	d.submitMu.Lock()
	defer d.submitMu.Unlock()
	exp, _, err := d.commit(ctx, draft, model.ParseAmount(draft.Amount))
	return exp, err
}

func (d *Dashboard) commit(ctx context.Context, draft model.Draft, amount float64) (model.Expense, bool, error) {
	rec := budgetapi.ExpenseRecord{
		UserID:      d.userID,
		Type:        budgetapi.RecordTypeExpense,
		Amount:      budgetapi.WireNumber(amount),
		Category:    draft.Category,
		Date:        draft.Date,
		Description: draft.Description,
		Email:       d.email,
	}

	start := d.now()
	res, err := d.remote.AddExpense(ctx, rec)

	d.record(ctx, journal.Entry{
		Kind:        journal.KindExpense,
		Amount:      amount,
		Category:    draft.Category,
		Date:        draft.Date,
		Description: draft.Description,
		Email:       d.email,
	}, res, err, start)

	fields := []zap.Field{
		zap.String("category", draft.Category),
		zap.Float64("amount", amount),
		zap.String("date", draft.Date),
	}
	if err != nil {
		d.log.Error("adding expense", append(fields, zap.Error(err))...)
	} else {
		d.log.Info("expense added", fields...)
	}

	out := d.policy.ExpenseAdded(err)
	d.notify(out.Notice)

	if !out.AppendLocal {
		d.mu.Lock()
		d.draft = draft
		d.mu.Unlock()
		return model.Expense{}, false, out.Err
	}

	id := ""
	if res != nil {
		id = res.ExpenseID
	}
	if id == "" {
		id = model.NewExpenseID(d.now())
	}
	exp := model.Expense{
		Category:    draft.Category,
		Amount:      model.Amount(amount),
		Date:        draft.Date,
		Description: draft.Description,
		ExpenseID:   model.FlexString(id),
		UserID:      model.FlexString(d.userID),
	}

	d.mu.Lock()
	d.expenses = append(d.expenses, exp)
	d.draft = model.Draft{}
	d.formVisible = false
	d.mu.Unlock()

	return exp, true, out.Err
}
