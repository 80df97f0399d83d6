package restapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"cofre/internal/domain/account"
	"cofre/internal/domain/auth"
	"cofre/internal/domain/category"
	"cofre/internal/domain/dashboard"
	"cofre/internal/domain/goal"
	"cofre/internal/domain/mutation"
	"cofre/internal/domain/transaction"
	"cofre/internal/domain/user"
)

var (
	_ account.Repository     = (*Client)(nil)
	_ goal.Repository        = (*Client)(nil)
	_ category.Repository    = (*Client)(nil)
	_ transaction.Repository = (*Client)(nil)
	_ dashboard.Repository   = (*Client)(nil)
	_ user.Repository        = (*Client)(nil)
	_ mutation.API           = (*Client)(nil)
	_ auth.API               = (*Client)(nil)
)

// Accounts

func (c *Client) ListAccounts(ctx context.Context) ([]account.Wire, error) {
	var out []account.Wire
	if err := c.do(ctx, http.MethodGet, "/accounts", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAccount(ctx context.Context, in account.Input) error {
	return c.do(ctx, http.MethodPost, "/accounts", nil, in, nil)
}

func (c *Client) UpdateAccount(ctx context.Context, id string, in account.Input) error {
	return c.do(ctx, http.MethodPut, "/accounts/"+url.PathEscape(id), nil, in, nil)
}

func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/accounts/"+url.PathEscape(id), nil, nil, nil)
}

// Goals

func (c *Client) ListGoals(ctx context.Context) ([]goal.Wire, error) {
	var out []goal.Wire
	if err := c.do(ctx, http.MethodGet, "/goals", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateGoal(ctx context.Context, in goal.Input) error {
	return c.do(ctx, http.MethodPost, "/goals", nil, in, nil)
}

func (c *Client) UpdateGoal(ctx context.Context, id string, in goal.Input) error {
	return c.do(ctx, http.MethodPut, "/goals/"+url.PathEscape(id), nil, in, nil)
}

func (c *Client) DeleteGoal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/goals/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ContributeGoal(ctx context.Context, id string, in goal.AmountInput) error {
	return c.do(ctx, http.MethodPatch, "/goals/"+url.PathEscape(id)+"/contribute", nil, in, nil)
}

func (c *Client) WithdrawGoal(ctx context.Context, id string, in goal.AmountInput) error {
	return c.do(ctx, http.MethodPatch, "/goals/"+url.PathEscape(id)+"/withdraw", nil, in, nil)
}

// Categories

func (c *Client) ListCategories(ctx context.Context) ([]category.Category, error) {
	var out []category.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Transactions

func (c *Client) ListTransactions(ctx context.Context, filter transaction.Filter) ([]transaction.Transaction, error) {
	query := url.Values{}
	for k, v := range filter.Params() {
		query.Set(k, v)
	}
	var out []transaction.Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTransaction(ctx context.Context, in transaction.Input) error {
	return c.do(ctx, http.MethodPost, "/transactions", nil, in, nil)
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, in transaction.Input) error {
	return c.do(ctx, http.MethodPut, "/transactions/"+url.PathEscape(id), nil, in, nil)
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil, nil)
}

// Dashboard

func (c *Client) GetDashboard(ctx context.Context) (dashboard.Wire, error) {
	var out dashboard.Wire
	err := c.do(ctx, http.MethodGet, "/dashboard", nil, nil, &out)
	return out, err
}

func (c *Client) GetMonthlySummary(ctx context.Context, year, month int) (dashboard.Summary, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	query.Set("month", strconv.Itoa(month))

	var out dashboard.Summary
	err := c.do(ctx, http.MethodGet, "/transactions/analytics/monthly-summary", query, nil, &out)
	return out, err
}

// Users

func (c *Client) GetMe(ctx context.Context) (user.User, error) {
	var out user.User
	err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &out)
	return out, err
}

func (c *Client) UpdateMe(ctx context.Context, in user.ProfileInput) (user.User, error) {
	var out user.User
	err := c.do(ctx, http.MethodPatch, "/users/me", nil, in, &out)
	return out, err
}

// Auth

func (c *Client) Login(ctx context.Context, in auth.Credentials) (auth.TokenResponse, error) {
	var out auth.TokenResponse
	err := c.do(ctx, http.MethodPost, loginPath, nil, in, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, in auth.Registration) error {
	return c.do(ctx, http.MethodPost, "/users", nil, in, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := struct {
		Email string `json:"email"`
	}{Email: email}
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", nil, body, nil)
}

func (c *Client) ResetPassword(ctx context.Context, in auth.PasswordReset) (auth.TokenResponse, error) {
	var out auth.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/reset-password", nil, in, &out)
	return out, err
}
