package journal

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "nested", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	step := 0
	j.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	first, err := j.Record(ctx, Entry{Kind: KindBudget, UserID: "123", Amount: 1000, Status: StatusOK, StatusCode: 200})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = j.Record(ctx, Entry{
		Kind:        KindExpense,
		UserID:      "123",
		Amount:      250,
		Category:    "travel",
		Date:        "2024-05-01",
		Description: "train",
		Email:       "owner@example.com",
		Status:      StatusFailed,
		Error:       "budgetapi: request failed: connection refused",
		Duration:    1500 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = j.Record(ctx, Entry{Kind: KindExpense, UserID: "other", Amount: 1, Status: StatusOK})
	require.NoError(t, err)

	entries, err := j.List(ctx, Filter{UserID: "123"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// newest first
	assert.Equal(t, KindExpense, entries[0].Kind)
	assert.Equal(t, StatusFailed, entries[0].Status)
	assert.Equal(t, "travel", entries[0].Category)
	assert.Equal(t, "owner@example.com", entries[0].Email)
	assert.Equal(t, 1500*time.Millisecond, entries[0].Duration)
	assert.True(t, entries[0].AttemptedAt.Equal(base.Add(2*time.Minute)))

	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, 1000.0, entries[1].Amount)
	assert.Equal(t, 200, entries[1].StatusCode)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)

	for i := 0; i < 5; i++ {
		status := StatusOK
		if i%2 == 0 {
			status = StatusFailed
		}
		_, err := j.Record(ctx, Entry{Kind: KindExpense, UserID: "123", Amount: float64(i), Status: status})
		require.NoError(t, err)
	}

	failed, err := j.List(ctx, Filter{FailedOnly: true})
	require.NoError(t, err)
	assert.Len(t, failed, 3)
	for _, e := range failed {
		assert.Equal(t, StatusFailed, e.Status)
	}

	limited, err := j.List(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	counts, err := j.Count(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, Counts{Total: 5, Failed: 3}, counts)

	none, err := j.Count(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, Counts{}, none)
}

func TestRecordNaNAmount(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)

	_, err := j.Record(ctx, Entry{Kind: KindExpense, UserID: "1", Amount: math.NaN(), Status: StatusFailed})
	require.NoError(t, err)

	entries, err := j.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, math.IsNaN(entries[0].Amount))
}
