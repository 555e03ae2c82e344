// Package tui provides the interactive Bubble Tea dashboard for budgetdash.
package tui

import (
	"context"
	"time"

	"github.com/theirongolddev/budgetdash/internal/dashboard"
	"github.com/theirongolddev/budgetdash/internal/journal"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// FailureCounter reports how many writes the journal recorded as failed.
type FailureCounter interface {
	Count(ctx context.Context, userID string) (journal.Counts, error)
}

// Options configures the TUI.
type Options struct {
	Dashboard      *dashboard.Dashboard
	Journal        FailureCounter // optional
	CurrencySymbol string
	Logger         *zap.Logger
	Now            func() time.Time
}

// loadedMsg is sent when a load finishes.
type loadedMsg struct{ err error }

// budgetSavedMsg is sent when a budget push finishes.
type budgetSavedMsg struct{ err error }

// expenseSavedMsg is sent when an expense commit finishes.
type expenseSavedMsg struct {
	draft model.Draft
	err   error
}

// failuresMsg carries the journal's failed-write count.
type failuresMsg struct{ failed int }

// noticeExpiredMsg hides the notice stamped at.
type noticeExpiredMsg struct{ at time.Time }

type mode int

const (
	modeView mode = iota
	modeBudget
	modeExpense
	modeConfirm
)

const (
	minTerminalWidth = 80
	maxContentWidth  = 140
	minContentHeight = 5
	noticeTTL        = 5 * time.Second
)

// App is the root Bubble Tea model.
type App struct {
	ctx     context.Context
	dash    *dashboard.Dashboard
	journal FailureCounter
	symbol  string
	log     *zap.Logger
	now     func() time.Time

	// Rendered copy of dashboard state
	state  dashboard.State
	stats  model.BudgetStats
	failed int

	// UI state
	width    int
	height   int
	loaded   bool // first load attempt finished
	loading  bool
	busy     string // in-flight write, empty when idle
	showHelp bool
	mode     mode
	spinner  spinner.Model
	table    table.Model

	noticeHidden time.Time

	// Budget editing
	budgetInput  textinput.Model
	budgetBefore float64
	budgetErr    string

	// Expense form and over-budget confirmation
	expenseForm *huh.Form
	expenseVals *expenseValues
	confirmForm *huh.Form
	confirmed   *bool
	pending     model.Draft
}

// NewApp creates a new TUI app model.
func NewApp(ctx context.Context, opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	a := App{
		ctx:         ctx,
		dash:        opts.Dashboard,
		journal:     opts.Journal,
		symbol:      opts.CurrencySymbol,
		log:         log,
		now:         now,
		spinner:     sp,
		table:       newExpenseTable(),
		budgetInput: newBudgetInput(),
		loading:     true,
	}
	a.refresh()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		loadCmd(a.ctx, a.dash),
		failuresCmd(a.ctx, a.journal, a.dash.UserID()),
	)
}

// refresh copies dashboard state into the model.
func (a *App) refresh() {
	a.state = a.dash.State()
	a.stats = model.ComputeStats(a.state.Budget, a.state.Expenses, a.now())
	a.table.SetRows(expenseRows(a.state.Expenses, a.symbol))
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeTable()
		if a.expenseForm != nil {
			a.expenseForm = a.expenseForm.WithWidth(min(msg.Width-8, 72))
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.mode {
		case modeBudget:
			return a.updateBudget(msg)
		case modeExpense:
			return a.updateExpenseForm(msg)
		case modeConfirm:
			return a.updateConfirm(msg)
		}
		return a.updateView(msg)

	case loadedMsg:
		a.loading = false
		a.loaded = true
		a.refresh()
		return a, a.expireNoticeCmd()

	case budgetSavedMsg:
		a.busy = ""
		a.refresh()
		return a, tea.Batch(a.expireNoticeCmd(), failuresCmd(a.ctx, a.journal, a.dash.UserID()))

	case expenseSavedMsg:
		a.busy = ""
		a.refresh()
		cmds := []tea.Cmd{a.expireNoticeCmd(), failuresCmd(a.ctx, a.journal, a.dash.UserID())}
		// A rejected write keeps the form open with what was typed.
		if a.state.FormVisible {
			cmds = append(cmds, a.openExpenseForm(msg.draft))
		}
		return a, tea.Batch(cmds...)

	case failuresMsg:
		a.failed = msg.failed
		return a, nil

	case noticeExpiredMsg:
		if msg.at.Equal(a.state.Notice.At) {
			a.noticeHidden = msg.at
		}
		return a, nil

	case spinner.TickMsg:
		if a.loading || a.busy != "" {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages (cursor blinks, etc.) to the active widget.
	switch a.mode {
	case modeExpense:
		return a.updateExpenseForm(msg)
	case modeConfirm:
		return a.updateConfirm(msg)
	case modeBudget:
		var cmd tea.Cmd
		a.budgetInput, cmd = a.budgetInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit

	case "r":
		if a.loading {
			return a, nil
		}
		a.loading = true
		return a, tea.Batch(a.spinner.Tick, loadCmd(a.ctx, a.dash))

	case "b":
		if a.busy != "" {
			return a, nil
		}
		a.mode = modeBudget
		a.budgetBefore = a.state.Budget
		a.budgetErr = ""
		a.budgetInput.SetValue(formatBudgetInput(a.state.Budget))
		a.budgetInput.CursorEnd()
		return a, a.budgetInput.Focus()

	case "a":
		if a.busy != "" {
			return a, nil
		}
		a.dash.PrepareDraft()
		a.refresh()
		return a, a.openExpenseForm(a.state.Draft)
	}

	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

// updateBudget edits the budget field. Each valid keystroke updates the
// local budget so the cards follow along; Enter saves, Esc restores.
func (a App) updateBudget(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.dash.SetBudgetInput(a.budgetBefore)
		a.budgetInput.Blur()
		a.mode = modeView
		a.budgetErr = ""
		a.refresh()
		return a, nil

	case "enter":
		if a.budgetErr != "" {
			return a, nil
		}
		a.budgetInput.Blur()
		a.mode = modeView
		a.busy = "Saving budget"
		return a, tea.Batch(a.spinner.Tick, pushBudgetCmd(a.ctx, a.dash))
	}

	var cmd tea.Cmd
	a.budgetInput, cmd = a.budgetInput.Update(msg)

	v, err := parseBudget(a.budgetInput.Value())
	if err != nil {
		a.budgetErr = err.Error()
		return a, cmd
	}
	a.budgetErr = ""
	a.dash.SetBudgetInput(v)
	a.refresh()
	return a, cmd
}

func (a *App) openExpenseForm(d model.Draft) tea.Cmd {
	a.mode = modeExpense
	a.expenseVals = valuesFromDraft(d, a.now())
	a.expenseForm = newExpenseForm(a.expenseVals, a.width)
	return a.expenseForm.Init()
}

func (a App) updateExpenseForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.expenseForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.expenseForm = f
	}

	switch a.expenseForm.State {
	case huh.StateCompleted:
		draft := a.expenseVals.draft()
		a.syncDraft(draft)
		a.expenseForm = nil
		return a.submitDraft(draft)

	case huh.StateAborted:
		a.syncDraft(a.expenseVals.draft())
		a.dash.CancelDraft()
		a.expenseForm = nil
		a.mode = modeView
		a.refresh()
		return a, nil
	}

	return a, cmd
}

// syncDraft stores the form values on the dashboard draft.
func (a App) syncDraft(d model.Draft) {
	fields := map[string]string{
		dashboard.FieldCategory:    d.Category,
		dashboard.FieldAmount:      d.Amount,
		dashboard.FieldDate:        d.Date,
		dashboard.FieldDescription: d.Description,
	}
	for name, value := range fields {
		if err := a.dash.UpdateDraftField(name, value); err != nil {
			a.log.Warn("updating draft", zap.String("field", name), zap.Error(err))
		}
	}
}

// submitDraft asks for confirmation when the draft would exceed the
// budget, otherwise commits it.
func (a App) submitDraft(d model.Draft) (tea.Model, tea.Cmd) {
	dec := a.dash.Evaluate(d)
	if dec.NeedsConfirmation {
		a.mode = modeConfirm
		a.pending = d
		confirmed := false
		a.confirmed = &confirmed
		a.confirmForm = newConfirmForm(dec, a.symbol, a.confirmed)
		return a, a.confirmForm.Init()
	}
	return a.commit(d)
}

func (a App) commit(d model.Draft) (tea.Model, tea.Cmd) {
	a.mode = modeView
	a.busy = "Saving expense"
	return a, tea.Batch(a.spinner.Tick, commitCmd(a.ctx, a.dash, d))
}

func (a App) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.confirmForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.confirmForm = f
	}

	switch a.confirmForm.State {
	case huh.StateCompleted, huh.StateAborted:
		accepted := a.confirmForm.State == huh.StateCompleted && *a.confirmed
		a.confirmForm = nil
		if accepted {
			return a.commit(a.pending)
		}
		// Declined: nothing changes and the form comes back as it was.
		a.log.Info("over-budget expense declined", zap.String("amount", a.pending.Amount))
		return a, a.openExpenseForm(a.pending)
	}
	return a, cmd
}

func (a App) expireNoticeCmd() tea.Cmd {
	at := a.state.Notice.At
	if a.state.Notice.IsZero() || at.Equal(a.noticeHidden) {
		return nil
	}
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{at: at}
	})
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// ─── Commands ───────────────────────────────────────────────────

func loadCmd(ctx context.Context, d *dashboard.Dashboard) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: d.Load(ctx)}
	}
}

func pushBudgetCmd(ctx context.Context, d *dashboard.Dashboard) tea.Cmd {
	return func() tea.Msg {
		return budgetSavedMsg{err: d.PushBudget(ctx)}
	}
}

func commitCmd(ctx context.Context, d *dashboard.Dashboard, draft model.Draft) tea.Cmd {
	return func() tea.Msg {
		_, err := d.Commit(ctx, draft)
		return expenseSavedMsg{draft: draft, err: err}
	}
}

func failuresCmd(ctx context.Context, j FailureCounter, userID string) tea.Cmd {
	if j == nil {
		return nil
	}
	return func() tea.Msg {
		c, err := j.Count(ctx, userID)
		if err != nil {
			return failuresMsg{}
		}
		return failuresMsg{failed: c.Failed}
	}
}
