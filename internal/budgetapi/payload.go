package budgetapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/theirongolddev/budgetdash/internal/model"
)

// PayloadShape tags how the budget payload was carried on the wire.
type PayloadShape int

const (
	// ShapeBare is a payload with no "body" envelope.
	ShapeBare PayloadShape = iota
	// ShapeStructured is {"body": {...}}.
	ShapeStructured
	// ShapeStringEncoded is {"body": "{...}"}, the body serialized a second time.
	ShapeStringEncoded
)

func (s PayloadShape) String() string {
	switch s {
	case ShapeStructured:
		return "structured"
	case ShapeStringEncoded:
		return "string-encoded"
	default:
		return "bare"
	}
}

// budgetPayload is the inner payload. Fields stay raw so each can be
// decoded leniently.
type budgetPayload struct {
	MonthlyBudget json.RawMessage `json:"monthly_budget"`
	Expenses      json.RawMessage `json:"expenses"`
}

// DecodePayload normalizes a fetch response into a Snapshot. Both envelope
// shapes and a bare payload decode to the same result, so nothing past
// this point has to care which one the server sent.
func DecodePayload(data []byte) (*Snapshot, error) {
	inner, shape, err := unwrapBody(data)
	if err != nil {
		return nil, err
	}

	var p budgetPayload
	if err := json.Unmarshal(inner, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	// Without an envelope only a recognizable payload counts; error bodies
	// like {"message":...} must not read as an empty budget.
	if shape == ShapeBare && p.MonthlyBudget == nil && p.Expenses == nil {
		return nil, fmt.Errorf("%w: no body, monthly_budget or expenses", ErrMalformedPayload)
	}

	snap := &Snapshot{
		Shape:    shape,
		Expenses: decodeExpenses(p.Expenses),
	}
	if len(p.MonthlyBudget) > 0 {
		var b model.Amount
		_ = json.Unmarshal(p.MonthlyBudget, &b)
		snap.MonthlyBudget = b.Float()
	}
	return snap, nil
}

// unwrapBody returns the inner JSON object of a response, unwrapping the
// "body" envelope and its string encoding when present.
func unwrapBody(data []byte) ([]byte, PayloadShape, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return nil, ShapeBare, fmt.Errorf("%w: response is not a JSON object", ErrMalformedPayload)
	}

	body, ok := top["body"]
	if !ok {
		return data, ShapeBare, nil
	}

	body = bytes.TrimSpace(body)
	switch {
	case len(body) > 0 && body[0] == '"':
		var encoded string
		if err := json.Unmarshal(body, &encoded); err != nil {
			return nil, ShapeStringEncoded, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		inner := bytes.TrimSpace([]byte(encoded))
		if len(inner) == 0 || inner[0] != '{' {
			return nil, ShapeStringEncoded, fmt.Errorf("%w: encoded body is not a JSON object", ErrMalformedPayload)
		}
		return inner, ShapeStringEncoded, nil
	case len(body) > 0 && body[0] == '{':
		return body, ShapeStructured, nil
	default:
		return nil, ShapeStructured, fmt.Errorf("%w: body is neither an object nor a string", ErrMalformedPayload)
	}
}

// decodeExpenses returns an empty list when raw is missing or not an array.
// Array elements that are not objects are skipped.
func decodeExpenses(raw json.RawMessage) []model.Expense {
	expenses := []model.Expense{}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return expenses
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return expenses
	}

	for _, item := range items {
		var e model.Expense
		if err := json.Unmarshal(item, &e); err != nil {
			continue
		}
		expenses = append(expenses, e)
	}
	return expenses
}

// decodeWriteResponse pulls an expense id or error message out of a write
// response. An empty or unparseable body yields a zero value.
func decodeWriteResponse(data []byte) writeResponse {
	var wr writeResponse
	if len(bytes.TrimSpace(data)) == 0 {
		return wr
	}
	inner, _, err := unwrapBody(data)
	if err != nil {
		return wr
	}
	_ = json.Unmarshal(inner, &wr)
	if wr.Error == "" {
		// Some deployments put the error next to the envelope.
		var top writeResponse
		if json.Unmarshal(data, &top) == nil {
			wr.Error = top.Error
		}
	}
	return wr
}
