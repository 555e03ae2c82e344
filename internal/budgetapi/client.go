// Package budgetapi provides a client for the remote budget-expenses API.
package budgetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ResourcePath is the API route for budgets and expenses.
const ResourcePath = "/budget-expenses"

const (
	defaultRequestTimeout = 10 * time.Second
	maxBodySize           = 1 << 20 // 1 MB
	userAgent             = "budgetdash/1.0"
)

var (
	// ErrInvalidBaseURL indicates the configured API base URL is empty or unusable.
	ErrInvalidBaseURL = errors.New("budgetapi: invalid base URL")
	// ErrUnexpectedStatus indicates a non-2xx response.
	ErrUnexpectedStatus = errors.New("budgetapi: unexpected status")
	// ErrMalformedPayload indicates the response body had an unexpected shape.
	ErrMalformedPayload = errors.New("budgetapi: malformed payload")
)

// Client talks to the budget-expenses endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrInvalidBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		timeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Fetch returns the current budget and expenses for userID.
func (c *Client) Fetch(ctx context.Context, userID string) (*Snapshot, error) {
	q := url.Values{}
	q.Set("user_id", userID)

	body, _, err := c.do(ctx, http.MethodGet, ResourcePath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	snap, err := DecodePayload(body)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// SetBudget sends a budget record for userID.
func (c *Client) SetBudget(ctx context.Context, userID string, amount float64) (*WriteResult, error) {
	rec := BudgetRecord{
		UserID: userID,
		Type:   RecordTypeBudget,
		Amount: WireNumber(amount),
	}
	return c.write(ctx, rec)
}

// AddExpense sends an expense record. The Type field is always set to
// RecordTypeExpense.
func (c *Client) AddExpense(ctx context.Context, rec ExpenseRecord) (*WriteResult, error) {
	rec.Type = RecordTypeExpense
	return c.write(ctx, rec)
}

func (c *Client) write(ctx context.Context, rec any) (*WriteResult, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("budgetapi: encoding request: %w", err)
	}

	body, status, err := c.do(ctx, http.MethodPost, ResourcePath, payload)
	if err != nil {
		return &WriteResult{StatusCode: status}, err
	}

	wr := decodeWriteResponse(body)
	return &WriteResult{
		StatusCode: status,
		ExpenseID:  wr.ExpenseID.String(),
	}, nil
}

// do performs a request and returns the response body and status.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("budgetapi: creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	//nolint:gosec // URL is built from the configured base URL
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("budgetapi: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("budgetapi: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if msg := decodeWriteResponse(body).Error; msg != "" {
			return body, resp.StatusCode, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, msg)
		}
		return body, resp.StatusCode, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return body, resp.StatusCode, nil
}
