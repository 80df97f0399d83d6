package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cofre/internal/domain/account"
	"cofre/internal/domain/cache"
	"cofre/internal/domain/category"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	ListTransactionsFunc  func(ctx context.Context, filter Filter) ([]Transaction, error)
	CreateTransactionFunc func(ctx context.Context, in Input) error
	UpdateTransactionFunc func(ctx context.Context, id string, in Input) error
	DeleteTransactionFunc func(ctx context.Context, id string) error
}

func (m *MockRepository) ListTransactions(ctx context.Context, filter Filter) ([]Transaction, error) {
	if m.ListTransactionsFunc != nil {
		return m.ListTransactionsFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockRepository) CreateTransaction(ctx context.Context, in Input) error {
	if m.CreateTransactionFunc != nil {
		return m.CreateTransactionFunc(ctx, in)
	}
	return nil
}

func (m *MockRepository) UpdateTransaction(ctx context.Context, id string, in Input) error {
	if m.UpdateTransactionFunc != nil {
		return m.UpdateTransactionFunc(ctx, id, in)
	}
	return nil
}

func (m *MockRepository) DeleteTransaction(ctx context.Context, id string) error {
	if m.DeleteTransactionFunc != nil {
		return m.DeleteTransactionFunc(ctx, id)
	}
	return nil
}

type accountRepo struct{ wire []account.Wire }

func (r accountRepo) ListAccounts(ctx context.Context) ([]account.Wire, error) { return r.wire, nil }
func (accountRepo) CreateAccount(ctx context.Context, in account.Input) error  { return nil }
func (accountRepo) UpdateAccount(ctx context.Context, id string, in account.Input) error {
	return nil
}
func (accountRepo) DeleteAccount(ctx context.Context, id string) error { return nil }

type categoryRepo struct{ cats []category.Category }

func (r categoryRepo) ListCategories(ctx context.Context) ([]category.Category, error) {
	return r.cats, nil
}

type gateStub bool

func (g gateStub) Present() bool { return bool(g) }

type filterStub struct{ f *Filter }

func (s *filterStub) Filter() *Filter { return s.f }

func TestFilter_Key(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   string
	}{
		{"nil filter", nil, "transactions"},
		{"empty filter", &Filter{}, "transactions"},
		{"month", &Filter{Year: 2025, Month: 3}, "transactions?month=3&year=2025"},
		{"account and type", &Filter{BankAccountID: "a1", Type: KindExpense}, "transactions?bankAccountId=a1&type=EXPENSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.filter).String(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDate_JSON(t *testing.T) {
	var tx Transaction
	raw := `{"id":"t1","name":"Mercado","amount":150.00,"date":"2025-03-14","type":"EXPENSE","bankAccountId":"a1","categoryId":"c1"}`
	if err := json.Unmarshal([]byte(raw), &tx); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if tx.Date.String() != "2025-03-14" || tx.Date.Month() != time.March {
		t.Errorf("Date = %v", tx.Date)
	}
	if !tx.Amount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Amount = %s", tx.Amount)
	}

	out, err := json.Marshal(Input{Name: "x", Amount: decimal.NewFromInt(1), Date: NewDate(2025, time.March, 1), Type: KindIncome})
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	var decoded map[string]any
	json.Unmarshal(out, &decoded)
	if decoded["date"] != "2025-03-01" {
		t.Errorf("marshaled date = %v, want 2025-03-01", decoded["date"])
	}
}

func TestList_Rows(t *testing.T) {
	list := List{
		{ID: "t1", BankAccountID: "a1", CategoryID: "c1"},
		{ID: "t2", BankAccountID: "gone", CategoryID: "c-missing"},
	}

	rows := list.Rows(map[string]string{"a1": "Nubank"}, map[string]string{"c1": "Mercado"})

	if rows[0].AccountName != "Nubank" || rows[0].CategoryName != "Mercado" {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if rows[1].AccountName != "" || rows[1].CategoryName != "" {
		t.Errorf("missing ids should map to empty names, got %+v", rows[1])
	}

	if got := List(nil).Rows(nil, nil); len(got) != 0 {
		t.Errorf("Rows() on nil list = %v", got)
	}
}

func TestService_RowsAndFilterKey(t *testing.T) {
	store := cache.New(cache.DefaultStaleTime, zerolog.Nop())
	gate := gateStub(true)

	var seen []Filter
	repo := &MockRepository{
		ListTransactionsFunc: func(ctx context.Context, filter Filter) ([]Transaction, error) {
			seen = append(seen, filter)
			return []Transaction{{ID: "t1", BankAccountID: "a1", CategoryID: "c1", Type: KindExpense, Amount: decimal.NewFromInt(150)}}, nil
		},
	}
	accounts := account.NewService(accountRepo{wire: []account.Wire{{ID: "a1", Name: "Nubank"}}}, store, gate)
	categories := category.NewService(categoryRepo{cats: []category.Category{{ID: "c1", Name: "Mercado"}}}, store, gate)
	filters := &filterStub{f: &Filter{BankAccountID: "a1"}}

	svc := NewService(repo, store, gate, accounts, categories, filters)

	rows, err := svc.Rows(context.Background(), filters.Filter())
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(rows) != 1 || rows[0].AccountName != "Nubank" || rows[0].CategoryName != "Mercado" {
		t.Errorf("Rows() = %+v", rows)
	}
	if len(seen) != 1 || seen[0].BankAccountID != "a1" {
		t.Errorf("repository saw filters %+v", seen)
	}

	if got := svc.Current().Key.String(); got != "transactions?bankAccountId=a1" {
		t.Errorf("Current().Key = %q", got)
	}
	filters.f = nil
	if got := svc.Current().Key.String(); got != "transactions" {
		t.Errorf("Current().Key after retraction = %q, want transactions", got)
	}
}

func TestService_ListError(t *testing.T) {
	repo := &MockRepository{
		ListTransactionsFunc: func(ctx context.Context, filter Filter) ([]Transaction, error) {
			return nil, errors.New("boom")
		},
	}
	svc := NewService(repo, cache.New(cache.DefaultStaleTime, zerolog.Nop()), gateStub(true), nil, nil, nil)

	if _, err := svc.Rows(context.Background(), nil); err == nil {
		t.Error("Rows() error = nil, want failure")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("income"); err != nil || k != KindIncome {
		t.Errorf("ParseKind(income) = %q, %v", k, err)
	}
	if _, err := ParseKind("transfer"); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("ParseKind(transfer) error = %v", err)
	}
}
