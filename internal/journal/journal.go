// Package journal keeps a SQLite record of every write sent to the budget
// API together with its real outcome, independent of what the user was told.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Kind identifies the write that was attempted.
type Kind string

// Status is the real outcome of a write.
type Status string

const (
	KindBudget  Kind = "budget"
	KindExpense Kind = "expense"

	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

const table = "write_attempts"

var columns = []string{
	"id", "kind", "user_id", "amount", "category", "expense_date", "description",
	"email", "status", "status_code", "error", "expense_id", "duration_ms", "attempted_at",
}

// Entry is one recorded write attempt.
type Entry struct {
	ID          string
	Kind        Kind
	UserID      string
	Amount      float64 // NaN when the amount was not numeric
	Category    string
	Date        string
	Description string
	Email       string
	Status      Status
	StatusCode  int
	Error       string
	ExpenseID   string
	Duration    time.Duration
	AttemptedAt time.Time
}

// Filter narrows List results.
type Filter struct {
	UserID     string
	FailedOnly bool
	Limit      int // 0 means no limit
}

// Counts summarizes recorded attempts.
type Counts struct {
	Total  int
	Failed int
}

// Journal is a SQLite-backed write-attempt log.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the journal database at the given path.
func Open(dbPath string) (*Journal, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores an attempt. Missing ID and AttemptedAt are filled in; the
// stored entry is returned.
func (j *Journal) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.AttemptedAt.IsZero() {
		e.AttemptedAt = j.now()
	}

	var amount any
	if !math.IsNaN(e.Amount) && !math.IsInf(e.Amount, 0) {
		amount = e.Amount
	}

	query, args, err := sq.Insert(table).
		Columns(columns...).
		Values(
			e.ID, string(e.Kind), e.UserID, amount, e.Category, e.Date, e.Description,
			e.Email, string(e.Status), e.StatusCode, e.Error, e.ExpenseID,
			e.Duration.Milliseconds(), e.AttemptedAt.UTC().Format(time.RFC3339Nano),
		).
		ToSql()
	if err != nil {
		return e, fmt.Errorf("building insert: %w", err)
	}

	if _, err := j.db.ExecContext(ctx, query, args...); err != nil {
		return e, fmt.Errorf("recording attempt: %w", err)
	}
	return e, nil
}

// List returns attempts newest first.
func (j *Journal) List(ctx context.Context, f Filter) ([]Entry, error) {
	b := sq.Select(columns...).From(table).OrderBy("attempted_at DESC", "rowid DESC")
	if f.UserID != "" {
		b = b.Where(sq.Eq{"user_id": f.UserID})
	}
	if f.FailedOnly {
		b = b.Where(sq.Eq{"status": string(StatusFailed)})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns total and failed attempt counts, optionally for one user.
func (j *Journal) Count(ctx context.Context, userID string) (Counts, error) {
	b := sq.Select(
		"COUNT(*)",
		"COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0)",
	).From(table)
	if userID != "" {
		b = b.Where(sq.Eq{"user_id": userID})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return Counts{}, fmt.Errorf("building query: %w", err)
	}

	var c Counts
	err = j.db.QueryRowContext(ctx, query, args...).Scan(&c.Total, &c.Failed)
	return c, err
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e                                   Entry
		kind, status, attemptedAt           string
		amount                              sql.NullFloat64
		category, date, desc, email, errStr sql.NullString
		expenseID                           sql.NullString
		statusCode, durationMs              sql.NullInt64
	)

	err := rows.Scan(
		&e.ID, &kind, &e.UserID, &amount, &category, &date, &desc,
		&email, &status, &statusCode, &errStr, &expenseID, &durationMs, &attemptedAt,
	)
	if err != nil {
		return e, err
	}

	e.Kind = Kind(kind)
	e.Status = Status(status)
	e.Amount = math.NaN()
	if amount.Valid {
		e.Amount = amount.Float64
	}
	e.Category = category.String
	e.Date = date.String
	e.Description = desc.String
	e.Email = email.String
	e.Error = errStr.String
	e.ExpenseID = expenseID.String
	e.StatusCode = int(statusCode.Int64)
	e.Duration = time.Duration(durationMs.Int64) * time.Millisecond
	e.AttemptedAt, _ = time.Parse(time.RFC3339Nano, attemptedAt)
	return e, nil
}
