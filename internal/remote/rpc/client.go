// Package rpc implements the remote.DataService ports over the single
// POST action endpoint. Every call is a JSON body of the form
// {"action": ..., ...params} answered by a {success, data, error} envelope.
// The body's SHA-256 is sent alongside because the fronting proxy signs
// POST requests against it.
package rpc

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"moneydiary/internal/core"
	"moneydiary/internal/remote"
)

const defaultTimeout = 15 * time.Second

// Client talks to the remote data service. It is safe for use by the
// single-session caller it is designed for; the token may be swapped at any
// time via SetToken.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger

	mu          sync.Mutex
	token       string
	onAuthError func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithOnAuthError registers a callback invoked when the service rejects the
// session, so the auth collaborator can force a re-login.
func WithOnAuthError(fn func()) Option {
	return func(c *Client) { c.onAuthError = fn }
}

// New creates a client for the endpoint at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken installs the opaque auth token used for subsequent calls. An
// empty token makes every call fail with an authentication error.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) notifyAuthError() {
	c.mu.Lock()
	fn := c.onAuthError
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// actionRequest mirrors the endpoint's request body; zero fields are elided.
type actionRequest struct {
	Action           string                      `json:"action"`
	Month            string                      `json:"month,omitempty"`
	ID               string                      `json:"id,omitempty"`
	Payer            string                      `json:"payer,omitempty"`
	Expense          *core.ExpenseInput          `json:"expense,omitempty"`
	Expenses         []core.ExpenseInput         `json:"expenses,omitempty"`
	RecurringExpense *core.RecurringExpenseInput `json:"recurringExpense,omitempty"`
	Category         *core.CategoryInput         `json:"category,omitempty"`
	Place            *core.PlaceInput            `json:"place,omitempty"`
	PayerData        *core.PayerInput            `json:"payerData,omitempty"`
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// authRejected matches the service's distinguished auth-failure messages.
func authRejected(msg string) bool {
	return msg == "Unauthorized" || msg == "このアカウントでは利用できません"
}

func (c *Client) do(ctx context.Context, action string, req actionRequest) (json.RawMessage, error) {
	token := c.currentToken()
	if token == "" {
		return nil, &remote.AuthError{Message: "no session token"}
	}

	c.logger.Debug("calling remote action", "action", action)

	req.Action = action
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &remote.FetchError{Action: action, Err: err}
	}
	sum := sha256.Sum256(body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, &remote.FetchError{Action: action, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Auth-Token", token)
	httpReq.Header.Set("x-amz-content-sha256", hex.EncodeToString(sum[:]))

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, &remote.FetchError{Action: action, Err: err}
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return nil, &remote.FetchError{Action: action, Err: fmt.Errorf("status %d with non-JSON response", resp.StatusCode)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &remote.FetchError{Action: action, Err: err}
	}
	var envelope apiResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &remote.FetchError{Action: action, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.notifyAuthError()
		return nil, &remote.AuthError{Message: envelope.Error}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := envelope.Error
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return nil, &remote.FetchError{Action: action, Err: fmt.Errorf("%s", msg)}
	}

	if !envelope.Success {
		if authRejected(envelope.Error) {
			c.notifyAuthError()
			return nil, &remote.AuthError{Message: envelope.Error}
		}
		return nil, &remote.FetchError{Action: action, Err: fmt.Errorf("%s", envelope.Error)}
	}

	return envelope.Data, nil
}

// call performs an action and decodes the data payload into T.
func call[T any](ctx context.Context, c *Client, action string, req actionRequest) (T, error) {
	var out T
	data, err := c.do(ctx, action, req)
	if err != nil {
		return out, err
	}
	if len(data) == 0 || string(data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, &remote.FetchError{Action: action, Err: err}
	}
	return out, nil
}

// callVoid performs an action and discards the data payload.
func callVoid(ctx context.Context, c *Client, action string, req actionRequest) error {
	_, err := c.do(ctx, action, req)
	return err
}

func (c *Client) ExpensesByMonth(ctx context.Context, month core.Month) ([]core.Expense, error) {
	return call[[]core.Expense](ctx, c, "getExpenses", actionRequest{Month: month.String()})
}

func (c *Client) CreateExpense(ctx context.Context, input core.ExpenseInput) (core.Expense, error) {
	return call[core.Expense](ctx, c, "createExpense", actionRequest{Expense: &input})
}

func (c *Client) UpdateExpense(ctx context.Context, id string, input core.ExpenseInput) (core.Expense, error) {
	return call[core.Expense](ctx, c, "updateExpense", actionRequest{ID: id, Expense: &input})
}

func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	return callVoid(ctx, c, "deleteExpense", actionRequest{ID: id})
}

func (c *Client) BulkCreateExpenses(ctx context.Context, inputs []core.ExpenseInput) ([]core.Expense, error) {
	return call[[]core.Expense](ctx, c, "bulkCreateExpenses", actionRequest{Expenses: inputs})
}

func (c *Client) Categories(ctx context.Context) ([]core.Category, error) {
	return call[[]core.Category](ctx, c, "getCategories", actionRequest{})
}

func (c *Client) AllCategories(ctx context.Context) ([]core.Category, error) {
	return call[[]core.Category](ctx, c, "getAllCategories", actionRequest{})
}

func (c *Client) CreateCategory(ctx context.Context, input core.CategoryInput) (core.Category, error) {
	return call[core.Category](ctx, c, "createCategory", actionRequest{Category: &input})
}

func (c *Client) UpdateCategory(ctx context.Context, id string, input core.CategoryInput) (core.Category, error) {
	return call[core.Category](ctx, c, "updateCategory", actionRequest{ID: id, Category: &input})
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return callVoid(ctx, c, "deleteCategory", actionRequest{ID: id})
}

func (c *Client) Places(ctx context.Context) ([]core.Place, error) {
	return call[[]core.Place](ctx, c, "getPlaces", actionRequest{})
}

func (c *Client) AllPlaces(ctx context.Context) ([]core.Place, error) {
	return call[[]core.Place](ctx, c, "getAllPlaces", actionRequest{})
}

func (c *Client) CreatePlace(ctx context.Context, input core.PlaceInput) (core.Place, error) {
	return call[core.Place](ctx, c, "createPlace", actionRequest{Place: &input})
}

func (c *Client) UpdatePlace(ctx context.Context, id string, input core.PlaceInput) (core.Place, error) {
	return call[core.Place](ctx, c, "updatePlace", actionRequest{ID: id, Place: &input})
}

func (c *Client) DeletePlace(ctx context.Context, id string) error {
	return callVoid(ctx, c, "deletePlace", actionRequest{ID: id})
}

func (c *Client) Payers(ctx context.Context) ([]core.Payer, error) {
	return call[[]core.Payer](ctx, c, "getPayers", actionRequest{})
}

func (c *Client) AllPayers(ctx context.Context) ([]core.Payer, error) {
	return call[[]core.Payer](ctx, c, "getAllPayers", actionRequest{})
}

func (c *Client) CreatePayer(ctx context.Context, input core.PayerInput) (core.Payer, error) {
	return call[core.Payer](ctx, c, "createPayer", actionRequest{PayerData: &input})
}

func (c *Client) UpdatePayer(ctx context.Context, id string, input core.PayerInput) (core.Payer, error) {
	return call[core.Payer](ctx, c, "updatePayer", actionRequest{ID: id, PayerData: &input})
}

func (c *Client) DeletePayer(ctx context.Context, id string) error {
	return callVoid(ctx, c, "deletePayer", actionRequest{ID: id})
}

func (c *Client) MonthlySummary(ctx context.Context, month core.Month, payer string) (core.MonthlySummary, error) {
	return call[core.MonthlySummary](ctx, c, "getMonthlySummary", actionRequest{Month: month.String(), Payer: payer})
}

func (c *Client) YearlySummary(ctx context.Context, month core.Month, payer string) (core.YearlySummary, error) {
	return call[core.YearlySummary](ctx, c, "getYearlySummary", actionRequest{Month: month.String(), Payer: payer})
}

func (c *Client) PayerBalance(ctx context.Context, payer string, month core.Month) (core.PayerBalance, error) {
	return call[core.PayerBalance](ctx, c, "getPayerBalance", actionRequest{Payer: payer, Month: month.String()})
}

func (c *Client) RecurringExpenses(ctx context.Context) ([]core.RecurringExpense, error) {
	return call[[]core.RecurringExpense](ctx, c, "getRecurringExpenses", actionRequest{})
}

func (c *Client) CreateRecurringExpense(ctx context.Context, input core.RecurringExpenseInput) (core.RecurringExpense, error) {
	return call[core.RecurringExpense](ctx, c, "createRecurringExpense", actionRequest{RecurringExpense: &input})
}

func (c *Client) UpdateRecurringExpense(ctx context.Context, id string, input core.RecurringExpenseInput) (core.RecurringExpense, error) {
	return call[core.RecurringExpense](ctx, c, "updateRecurringExpense", actionRequest{ID: id, RecurringExpense: &input})
}

func (c *Client) DeleteRecurringExpense(ctx context.Context, id string) error {
	return callVoid(ctx, c, "deleteRecurringExpense", actionRequest{ID: id})
}

func (c *Client) MyRole(ctx context.Context) (core.Role, error) {
	out, err := call[struct {
		Role core.Role `json:"role"`
	}](ctx, c, "getMyRole", actionRequest{})
	if err != nil {
		return "", err
	}
	return out.Role, nil
}

var _ remote.DataService = (*Client)(nil)
