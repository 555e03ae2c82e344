package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptimisticPolicy(t *testing.T) {
	p := OptimisticPolicy{}

	ok := p.BudgetSaved(nil)
	assert.True(t, ok.Resync)
	assert.NoError(t, ok.Err)

	failed := p.BudgetSaved(errDown)
	assert.False(t, failed.Resync)
	assert.NoError(t, failed.Err)
	assert.Equal(t, MsgBudgetSaved, failed.Notice.Text)

	exp := p.ExpenseAdded(errDown)
	assert.True(t, exp.AppendLocal)
	assert.NoError(t, exp.Err)
	assert.Equal(t, LevelSuccess, exp.Notice.Level)
}

func TestStrictPolicy(t *testing.T) {
	p := StrictPolicy{}

	failed := p.ExpenseAdded(errDown)
	assert.False(t, failed.AppendLocal)
	assert.ErrorIs(t, failed.Err, errDown)
	assert.Equal(t, MsgExpenseFailed, failed.Notice.Text)

	ok := p.BudgetSaved(nil)
	assert.True(t, ok.Resync)
	assert.Equal(t, LevelSuccess, ok.Notice.Level)
}

func TestPolicyByName(t *testing.T) {
	assert.IsType(t, StrictPolicy{}, PolicyByName("strict"))
	assert.IsType(t, OptimisticPolicy{}, PolicyByName("optimistic"))
	assert.IsType(t, OptimisticPolicy{}, PolicyByName(""))
	assert.Equal(t, "error", LevelError.String())
}
