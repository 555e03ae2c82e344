// Package dashboard holds the budget and expense state for one user and
// runs the load, budget and expense-submission workflows against the
// remote budget-expenses API.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/theirongolddev/budgetdash/internal/budgetapi"
	"github.com/theirongolddev/budgetdash/internal/journal"
	"github.com/theirongolddev/budgetdash/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrNoRemote is returned by New when no API client is supplied.
	ErrNoRemote = errors.New("dashboard: remote is required")
	// ErrNoUser is returned by New when the user id is empty.
	ErrNoUser = errors.New("dashboard: user id is required")
)

// Remote is the subset of the budget API the dashboard talks to.
type Remote interface {
	Fetch(ctx context.Context, userID string) (*budgetapi.Snapshot, error)
	SetBudget(ctx context.Context, userID string, amount float64) (*budgetapi.WriteResult, error)
	AddExpense(ctx context.Context, rec budgetapi.ExpenseRecord) (*budgetapi.WriteResult, error)
}

// Recorder persists write attempts.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) (journal.Entry, error)
}

// Options configures a Dashboard.
type Options struct {
	Remote Remote
	UserID string
	Email  string // address the backend notifies about new expenses

	Policy   ReportingPolicy // defaults to OptimisticPolicy
	Journal  Recorder        // optional
	Notifier Notifier        // optional
	Logger   *zap.Logger     // defaults to zap.NewNop
	Now      func() time.Time
}

// State is a point-in-time copy of the dashboard for rendering.
type State struct {
	Budget      float64
	Expenses    []model.Expense
	Draft       model.Draft
	FormVisible bool
	Loaded      bool
	Notice      Notice
}

// Remaining is the budget minus everything spent.
func (s State) Remaining() float64 {
	return model.Remaining(s.Budget, s.Expenses)
}

// Dashboard owns the budget state for one user.
type Dashboard struct {
	remote   Remote
	userID   string
	email    string
	policy   ReportingPolicy
	journal  Recorder
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time

	loads    singleflight.Group
	submitMu sync.Mutex // one expense commit at a time
	budgetMu sync.Mutex // one budget push at a time

	mu          sync.RWMutex
	budget      float64
	expenses    []model.Expense
	draft       model.Draft
	formVisible bool
	loaded      bool
	notice      Notice
}

// New creates a Dashboard with an empty state.
func New(opts Options) (*Dashboard, error) {
	if opts.Remote == nil {
		return nil, ErrNoRemote
	}
	if opts.UserID == "" {
		return nil, ErrNoUser
	}
	d := &Dashboard{
		remote:   opts.Remote,
		userID:   opts.UserID,
		email:    opts.Email,
		policy:   opts.Policy,
		journal:  opts.Journal,
		notifier: opts.Notifier,
		log:      opts.Logger,
		now:      opts.Now,
		expenses: []model.Expense{},
	}
	if d.policy == nil {
		d.policy = OptimisticPolicy{}
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	if d.now == nil {
		d.now = time.Now
	}
	d.log = d.log.With(zap.String("user_id", d.userID))
	if d.email == "" {
		d.log.Warn("no notification email configured; expenses will be sent without one")
	}
	return d, nil
}

// UserID returns the user this dashboard is scoped to.
func (d *Dashboard) UserID() string { return d.userID }

// State returns a copy of the current state.
func (d *Dashboard) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	expenses := make([]model.Expense, len(d.expenses))
	copy(expenses, d.expenses)
	return State{
		Budget:      d.budget,
		Expenses:    expenses,
		Draft:       d.draft,
		FormVisible: d.formVisible,
		Loaded:      d.loaded,
		Notice:      d.notice,
	}
}

// Budget returns the current monthly budget.
func (d *Dashboard) Budget() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.budget
}

// Expenses returns a copy of the expense list in display order.
func (d *Dashboard) Expenses() []model.Expense {
	return d.State().Expenses
}

// Remaining returns the budget minus the sum of all expenses.
func (d *Dashboard) Remaining() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return model.Remaining(d.budget, d.expenses)
}

// Stats computes the summary figures as of now.
func (d *Dashboard) Stats() model.BudgetStats {
	s := d.State()
	return model.ComputeStats(s.Budget, s.Expenses, d.now())
}

// LastNotice returns the most recent notice.
func (d *Dashboard) LastNotice() Notice {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.notice
}

// Load fetches the user's budget and expenses and replaces local state.
// Concurrent calls share one request. On failure the state is left as it
// was and an error notice is posted. A caller whose ctx ends returns
// early; the shared request keeps running for the others.
func (d *Dashboard) Load(ctx context.Context) error {
	ch := d.loads.DoChan("load", func() (any, error) {
		return nil, d.load(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Shared {
			d.log.Debug("load coalesced with in-flight request")
		}
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("dashboard: loading: %w", ctx.Err())
	}
}

func (d *Dashboard) load(ctx context.Context) error {
	start := d.now()
	snap, err := d.remote.Fetch(ctx, d.userID)
	if err != nil {
		d.log.Error("fetching expenses", zap.Error(err))
		d.notify(Notice{Level: LevelError, Text: MsgFetchFailed})
		return fmt.Errorf("dashboard: loading: %w", err)
	}

	expenses := snap.Expenses
	if expenses == nil {
		expenses = []model.Expense{}
	}

	d.mu.Lock()
	d.budget = snap.MonthlyBudget
	d.expenses = expenses
	d.loaded = true
	d.mu.Unlock()

	d.log.Debug("loaded expenses",
		zap.Float64("monthly_budget", snap.MonthlyBudget),
		zap.Int("expenses", len(expenses)),
		zap.Stringer("shape", snap.Shape),
		zap.Duration("took", d.now().Sub(start)),
	)
	return nil
}

// SetBudgetInput changes the local budget without saving it.
func (d *Dashboard) SetBudgetInput(v float64) {
	d.mu.Lock()
	d.budget = v
	d.mu.Unlock()
}

// PushBudget saves the current local budget. What the user is told and
// whether state is reloaded is decided by the reporting policy; the
// returned error is the policy's, so the optimistic policy returns nil even
// when the write failed.
func (d *Dashboard) PushBudget(ctx context.Context) error {
	d.budgetMu.Lock()
	defer d.budgetMu.Unlock()

	amount := d.Budget()
	start := d.now()
	res, err := d.remote.SetBudget(ctx, d.userID, amount)

	d.record(ctx, journal.Entry{
		Kind:   journal.KindBudget,
		Amount: amount,
	}, res, err, start)

	if err != nil {
		d.log.Error("saving budget", zap.Float64("amount", amount), zap.Error(err))
	} else {
		d.log.Info("budget saved", zap.Float64("amount", amount))
	}

	out := d.policy.BudgetSaved(err)
	d.notify(out.Notice)
	if out.Resync {
		if lerr := d.Load(ctx); lerr != nil {
			d.log.Warn("reloading after budget save", zap.Error(lerr))
		}
	}
	return out.Err
}

// notify stamps, stores and forwards a notice.
func (d *Dashboard) notify(n Notice) {
	if n.IsZero() {
		return
	}
	n.At = d.now()
	d.mu.Lock()
	d.notice = n
	d.mu.Unlock()
	if d.notifier != nil {
		d.notifier.Notify(n)
	}
}

// record journals the real outcome of a write. Journal failures are logged
// and otherwise ignored.
func (d *Dashboard) record(ctx context.Context, e journal.Entry, res *budgetapi.WriteResult, err error, start time.Time) {
	if d.journal == nil {
		return
	}
	e.UserID = d.userID
	e.AttemptedAt = start
	e.Duration = d.now().Sub(start)
	e.Status = journal.StatusOK
	if res != nil {
		e.StatusCode = res.StatusCode
		e.ExpenseID = res.ExpenseID
	}
	if err != nil {
		e.Status = journal.StatusFailed
		e.Error = err.Error()
	}
	// Record even when the caller's context is already done.
	if _, jerr := d.journal.Record(context.WithoutCancel(ctx), e); jerr != nil {
		d.log.Warn("journaling write attempt", zap.String("kind", string(e.Kind)), zap.Error(jerr))
	}
}
