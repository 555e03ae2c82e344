package budgetapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const innerPayload = `{"monthly_budget":1000,"expenses":[{"category":"food","amount":300,"date":"2024-05-01","description":"groceries","expense_id":"1"},{"category":"rent","amount":"500","date":"2024-05-02","description":"","expense_id":"2"}]}`

func stringEncoded(t *testing.T, inner string) []byte {
	t.Helper()
	encoded, err := json.Marshal(inner)
	require.NoError(t, err)
	return []byte(`{"statusCode":200,"body":` + string(encoded) + `}`)
}

func TestDecodePayloadShapesAgree(t *testing.T) {
	structured, err := DecodePayload([]byte(`{"statusCode":200,"body":` + innerPayload + `}`))
	require.NoError(t, err)
	encoded, err := DecodePayload(stringEncoded(t, innerPayload))
	require.NoError(t, err)
	bare, err := DecodePayload([]byte(innerPayload))
	require.NoError(t, err)

	assert.Equal(t, ShapeStructured, structured.Shape)
	assert.Equal(t, ShapeStringEncoded, encoded.Shape)
	assert.Equal(t, ShapeBare, bare.Shape)

	for _, snap := range []*Snapshot{encoded, bare} {
		assert.Equal(t, structured.MonthlyBudget, snap.MonthlyBudget)
		assert.Equal(t, structured.Expenses, snap.Expenses)
	}

	assert.Equal(t, 1000.0, structured.MonthlyBudget)
	require.Len(t, structured.Expenses, 2)
	assert.Equal(t, "groceries", structured.Expenses[0].Description)
	assert.Equal(t, 500.0, structured.Expenses[1].Amount.Float())
}

func TestDecodePayloadDefaults(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantBudget float64
	}{
		{"missing expenses", `{"body":{"monthly_budget":500}}`, 500},
		{"expenses not an array", `{"body":{"monthly_budget":500,"expenses":{"a":1}}}`, 500},
		{"expenses null", `{"body":{"monthly_budget":500,"expenses":null}}`, 500},
		{"missing budget", `{"body":{"expenses":[]}}`, 0},
		{"null budget", `{"body":{"monthly_budget":null}}`, 0},
		{"string budget", `{"body":{"monthly_budget":"750"}}`, 750},
		{"empty object", `{"body":{}}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := DecodePayload([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantBudget, snap.MonthlyBudget)
			assert.NotNil(t, snap.Expenses)
			assert.Empty(t, snap.Expenses)
		})
	}
}

func TestDecodePayloadSkipsNonObjectExpenses(t *testing.T) {
	snap, err := DecodePayload([]byte(`{"body":{"expenses":[1,"x",{"category":"ok","amount":5}]}}`))
	require.NoError(t, err)
	require.Len(t, snap.Expenses, 1)
	assert.Equal(t, "ok", snap.Expenses[0].Category)
}

func TestDecodePayloadMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":               `<html>oops</html>`,
		"array at top":           `[1,2,3]`,
		"null":                   `null`,
		"null body":              `{"body":null}`,
		"numeric body":           `{"body":42}`,
		"encoded garbage":        `{"body":"not json"}`,
		"encoded array":          `{"body":"[1,2]"}`,
		"encoded invalid object": `{"body":"{\"monthly_budget\":"}`,
		"bare empty object":      `{}`,
		"bare error message":     `{"message":"Internal server error"}`,
		"bare proxy error":       `{"statusCode":500,"error":"boom"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePayload([]byte(body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestDecodePayloadBareNeedsAKnownKey(t *testing.T) {
	snap, err := DecodePayload([]byte(`{"monthly_budget":300}`))
	require.NoError(t, err)
	assert.Equal(t, 300.0, snap.MonthlyBudget)

	snap, err = DecodePayload([]byte(`{"expenses":[]}`))
	require.NoError(t, err)
	assert.Empty(t, snap.Expenses)

	snap, err = DecodePayload([]byte(`{"monthly_budget":null}`))
	require.NoError(t, err)
	assert.Zero(t, snap.MonthlyBudget)
}

func TestDecodeWriteResponse(t *testing.T) {
	assert.Equal(t, "77", decodeWriteResponse([]byte(`{"expense_id":77}`)).ExpenseID.String())
	assert.Equal(t, "abc", decodeWriteResponse(stringEncoded(t, `{"expense_id":"abc"}`)).ExpenseID.String())
	assert.Equal(t, "boom", decodeWriteResponse([]byte(`{"error":"boom"}`)).Error)
	assert.Equal(t, "boom", decodeWriteResponse([]byte(`{"body":"{}","error":"boom"}`)).Error)
	assert.Empty(t, decodeWriteResponse(nil).ExpenseID)
	assert.Empty(t, decodeWriteResponse([]byte(`not json`)).ExpenseID)
}

func TestPayloadShapeString(t *testing.T) {
	assert.Equal(t, "bare", ShapeBare.String())
	assert.Equal(t, "structured", ShapeStructured.String())
	assert.Equal(t, "string-encoded", ShapeStringEncoded.String())
}
