package budgetapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL + "/")
	require.NoError(t, err)
	return c
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "   ", "not a url", "/relative/only"} {
		_, err := NewClient(raw)
		assert.ErrorIs(t, err, ErrInvalidBaseURL, "base URL %q", raw)
	}

	c, err := NewClient(" https://api.example.com/prod/ ")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/prod", c.BaseURL())
}

func TestFetchSendsUserScopedGet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/budget-expenses", r.URL.Path)
		assert.Equal(t, "123", r.URL.Query().Get("user_id"))
		_, _ = io.WriteString(w, `{"statusCode":200,"body":"{\"monthly_budget\":500,\"expenses\":[]}"}`)
	})

	snap, err := c.Fetch(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, 500.0, snap.MonthlyBudget)
	assert.Empty(t, snap.Expenses)
	assert.Equal(t, ShapeStringEncoded, snap.Shape)
}

func TestFetchErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"db down"}`)
		})
		_, err := c.Fetch(context.Background(), "123")
		require.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.Contains(t, err.Error(), "500")
		assert.Contains(t, err.Error(), "db down")
	})

	t.Run("malformed", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `not json at all`)
		})
		_, err := c.Fetch(context.Background(), "123")
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		t.Cleanup(srv.Close)

		c, err := NewClient(srv.URL, WithTimeout(50*time.Millisecond))
		require.NoError(t, err)

		_, err = c.Fetch(context.Background(), "123")
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	})
}

func TestSetBudgetBody(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	})

	res, err := c.SetBudget(context.Background(), "123", 1500)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, map[string]any{"user_id": "123", "type": "budget", "amount": 1500.0}, got)
}

func TestSetBudgetFailureStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"amount must be positive"}`)
	})

	res, err := c.SetBudget(context.Background(), "123", -1)
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, err.Error(), "amount must be positive")
}

func TestAddExpenseBodyAndServerID(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"body":"{\"expense_id\":\"srv-9\"}"}`)
	})

	res, err := c.AddExpense(context.Background(), ExpenseRecord{
		UserID:      "123",
		Type:        "ignored",
		Amount:      250,
		Category:    "travel",
		Date:        "2024-05-04",
		Description: "train",
		Email:       "owner@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "srv-9", res.ExpenseID)
	assert.Equal(t, map[string]any{
		"user_id":     "123",
		"type":        "expense",
		"amount":      250.0,
		"category":    "travel",
		"date":        "2024-05-04",
		"description": "train",
		"email":       "owner@example.com",
	}, got)
}

func TestAddExpenseNaNAmountIsNull(t *testing.T) {
	var raw map[string]json.RawMessage
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
	})

	_, err := c.AddExpense(context.Background(), ExpenseRecord{UserID: "1", Amount: WireNumber(math.NaN())})
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw["amount"]))
}

func TestWriteTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(url)
	require.NoError(t, err)

	res, err := c.SetBudget(context.Background(), "123", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
	assert.Equal(t, 0, res.StatusCode)
}
