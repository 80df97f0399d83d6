package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cofre/internal/domain/auth"
	"cofre/internal/domain/goal"
	"cofre/internal/domain/transaction"
	"cofre/internal/shared/apperr"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, staticToken("tok-123"), zerolog.Nop(), opts...)
}

func TestClient_ListAccountsSendsBearer(t *testing.T) {
	var gotAuth, gotRequestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get(RequestIDHeader)
		if r.URL.Path != "/accounts" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"a1","name":"Nubank","currentBalance":"1000.50","type":"CHECKING"}]`)
	})

	accounts, err := client.ListAccounts(context.Background())
	if err != nil {
		t.Fatalf("ListAccounts() error = %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID not set")
	}
	if len(accounts) != 1 || accounts[0].ID != "a1" {
		t.Fatalf("accounts = %+v", accounts)
	}
	if !accounts[0].CurrentBalance.Valid || !accounts[0].CurrentBalance.Decimal.Equal(decimal.RequireFromString("1000.5")) {
		t.Errorf("CurrentBalance = %+v", accounts[0].CurrentBalance)
	}
}

func TestClient_NoBearerWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("Authorization = %q, want none", h)
		}
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken(""), zerolog.Nop())
	if _, err := client.ListGoals(context.Background()); err != nil {
		t.Fatalf("ListGoals() error = %v", err)
	}
}

func TestClient_ListTransactionsQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter transaction.Filter
		want   string
	}{
		{"no filter", transaction.Filter{}, ""},
		{"month", transaction.Filter{Year: 2025, Month: 3}, "month=3&year=2025"},
		{"account and type", transaction.Filter{BankAccountID: "a1", Type: transaction.KindExpense}, "bankAccountId=a1&type=EXPENSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.RawQuery
				io.WriteString(w, `[{"id":"t1","name":"Mercado","amount":150,"date":"2025-03-14","type":"EXPENSE","bankAccountId":"a1","categoryId":"c1"}]`)
			})

			list, err := client.ListTransactions(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("ListTransactions() error = %v", err)
			}
			if gotQuery != tt.want {
				t.Errorf("query = %q, want %q", gotQuery, tt.want)
			}
			if len(list) != 1 || list[0].Date.String() != "2025-03-14" {
				t.Errorf("list = %+v", list)
			}
		})
	}
}

func TestClient_ContributeGoal(t *testing.T) {
	var method, path string
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	})

	in := goal.AmountInput{Amount: decimal.RequireFromString("200"), BankAccountID: "a1"}
	if err := client.ContributeGoal(context.Background(), "g1", in); err != nil {
		t.Fatalf("ContributeGoal() error = %v", err)
	}
	if method != http.MethodPatch || path != "/goals/g1/contribute" {
		t.Errorf("request = %s %s", method, path)
	}
	if body["bankAccountId"] != "a1" || body["amount"] != "200" {
		t.Errorf("body = %v", body)
	}
}

func TestClient_MonthlySummary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transactions/analytics/monthly-summary" || r.URL.Query().Get("month") != "3" || r.URL.Query().Get("year") != "2025" {
			t.Errorf("request = %s", r.URL)
		}
		io.WriteString(w, `{"totalExpense":1000,"byCategory":[{"categoryId":"c1","categoryName":"Mercado","totalAmount":456}]}`)
	})

	sum, err := client.GetMonthlySummary(context.Background(), 2025, 3)
	if err != nil {
		t.Fatalf("GetMonthlySummary() error = %v", err)
	}
	if len(sum.ByCategory) != 1 || !sum.TotalExpense.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("summary = %+v", sum)
	}
}

func TestClient_UnauthorizedHook(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *Client) error
		wantHook bool
	}{
		{
			name:     "protected read",
			call:     func(c *Client) error { _, err := c.GetDashboard(context.Background()); return err },
			wantHook: true,
		},
		{
			name:     "write",
			call:     func(c *Client) error { return c.DeleteGoal(context.Background(), "g1") },
			wantHook: true,
		},
		{
			name: "login",
			call: func(c *Client) error {
				_, err := c.Login(context.Background(), auth.Credentials{Email: "a@b.com", Password: "wrong"})
				return err
			},
			wantHook: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hooked := 0
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				io.WriteString(w, `{"message":"Token inválido"}`)
			}, WithUnauthorizedHandler(func(ctx context.Context) { hooked++ }))

			err := tt.call(client)
			if !apperr.IsUnauthorized(err) {
				t.Fatalf("error = %v, want unauthorized", err)
			}
			if got := hooked > 0; got != tt.wantHook {
				t.Errorf("hook called = %v, want %v", got, tt.wantHook)
			}
		})
	}
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind apperr.Kind
		wantMsg  string
	}{
		{"conflict", http.StatusConflict, `{"message":"E-mail já cadastrado"}`, apperr.KindConflict, "E-mail já cadastrado"},
		{"business rule", http.StatusBadRequest, `{"message":"Saldo insuficiente na conta"}`, apperr.KindBusinessRule, "Saldo insuficiente na conta"},
		{"server error without body", http.StatusInternalServerError, ``, apperr.KindUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			err := client.Register(context.Background(), auth.Registration{Name: "Ana", Email: "a@b.com", Password: "123456"})
			var apiErr *apperr.Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *apperr.Error", err)
			}
			if apiErr.Kind != tt.wantKind || apiErr.Status != tt.status || apiErr.ServerMessage != tt.wantMsg {
				t.Errorf("error = %+v", apiErr)
			}
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, staticToken("tok"), zerolog.Nop())
	_, err := client.ListCategories(context.Background())
	if apperr.KindOf(err) != apperr.KindNetwork {
		t.Errorf("KindOf(%v) = %q, want network", err, apperr.KindOf(err))
	}
}
