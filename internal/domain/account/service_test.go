package account

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cofre/internal/domain/cache"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	ListAccountsFunc  func(ctx context.Context) ([]Wire, error)
	CreateAccountFunc func(ctx context.Context, in Input) error
	UpdateAccountFunc func(ctx context.Context, id string, in Input) error
	DeleteAccountFunc func(ctx context.Context, id string) error
}

func (m *MockRepository) ListAccounts(ctx context.Context) ([]Wire, error) {
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(ctx)
	}
	return nil, nil
}

func (m *MockRepository) CreateAccount(ctx context.Context, in Input) error {
	if m.CreateAccountFunc != nil {
		return m.CreateAccountFunc(ctx, in)
	}
	return nil
}

func (m *MockRepository) UpdateAccount(ctx context.Context, id string, in Input) error {
	if m.UpdateAccountFunc != nil {
		return m.UpdateAccountFunc(ctx, id, in)
	}
	return nil
}

func (m *MockRepository) DeleteAccount(ctx context.Context, id string) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, id)
	}
	return nil
}

type gateStub bool

func (g gateStub) Present() bool { return bool(g) }

func TestWire_ToAccount(t *testing.T) {
	tests := []struct {
		name        string
		json        string
		wantBalance string
		wantType    Type
		wantColor   string
	}{
		{
			name:        "camelCase balance",
			json:        `{"id":"a1","name":"Nubank","currentBalance":1500.50,"type":"CHECKING","color":"#8A05BE"}`,
			wantBalance: "1500.5",
			wantType:    TypeChecking,
			wantColor:   "#8A05BE",
		},
		{
			name:        "snake_case balance",
			json:        `{"id":"a2","name":"Carteira","current_balance":"-20.10","type":"cash","color":null}`,
			wantBalance: "-20.1",
			wantType:    TypeCash,
			wantColor:   DefaultColor,
		},
		{
			name:        "legacy balance field",
			json:        `{"id":"a3","name":"XP","balance":300,"type":"INVESTMENT"}`,
			wantBalance: "300",
			wantType:    TypeInvestment,
			wantColor:   DefaultColor,
		},
		{
			name:        "missing balance and unknown type",
			json:        `{"id":"a4","name":"Poupança","type":"SAVINGS","color":""}`,
			wantBalance: "0",
			wantType:    TypeChecking,
			wantColor:   DefaultColor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w Wire
			if err := json.Unmarshal([]byte(tt.json), &w); err != nil {
				t.Fatalf("Unmarshal() failed: %v", err)
			}
			a := w.ToAccount()
			if a.Balance.String() != tt.wantBalance {
				t.Errorf("Balance = %s, want %s", a.Balance, tt.wantBalance)
			}
			if a.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", a.Type, tt.wantType)
			}
			if a.Color != tt.wantColor {
				t.Errorf("Color = %q, want %q", a.Color, tt.wantColor)
			}
		})
	}
}

func TestList_Views(t *testing.T) {
	list := List{
		{ID: "a1", Name: "Nubank", Balance: decimal.RequireFromString("1000.10")},
		{ID: "a2", Name: "Carteira", Balance: decimal.RequireFromString("-50.05")},
	}

	if !list.HasAccounts() {
		t.Error("HasAccounts() = false")
	}
	if got := list.TotalBalance(); !got.Equal(decimal.RequireFromString("950.05")) {
		t.Errorf("TotalBalance() = %s, want 950.05", got)
	}
	if List(nil).HasAccounts() {
		t.Error("HasAccounts() on empty list = true")
	}
	if !List(nil).TotalBalance().IsZero() {
		t.Error("TotalBalance() on empty list not zero")
	}
	if names := list.Names(); names["a2"] != "Carteira" {
		t.Errorf("Names()[a2] = %q", names["a2"])
	}
}

func TestService_List(t *testing.T) {
	calls := 0
	repo := &MockRepository{
		ListAccountsFunc: func(ctx context.Context) ([]Wire, error) {
			calls++
			return []Wire{{ID: "a1", Name: "Nubank", Type: "CHECKING"}}, nil
		},
	}
	svc := NewService(repo, cache.New(cache.DefaultStaleTime, zerolog.Nop()), gateStub(true))

	res, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(res.Data) != 1 || res.Data[0].Color != DefaultColor {
		t.Errorf("List() data = %+v", res.Data)
	}

	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("second List() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("repository calls = %d, want 1 (cached)", calls)
	}

	if !svc.HasAccounts() {
		t.Error("HasAccounts() = false after load")
	}
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrAccountNotFound", err)
	}
}

func TestService_DisabledWithoutSession(t *testing.T) {
	repo := &MockRepository{
		ListAccountsFunc: func(ctx context.Context) ([]Wire, error) {
			t.Error("fetched without a session")
			return nil, nil
		},
	}
	svc := NewService(repo, cache.New(cache.DefaultStaleTime, zerolog.Nop()), gateStub(false))

	res, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if res.Status != cache.StatusDisabled {
		t.Errorf("Status = %q, want disabled", res.Status)
	}
	if svc.HasAccounts() {
		t.Error("HasAccounts() = true without session")
	}
}

func TestInput_SendsUppercaseType(t *testing.T) {
	in := Input{Name: "Nubank", InitialBalance: decimal.NewFromInt(100), Type: ParseType("Investment")}
	if in.Type != TypeInvestment {
		t.Fatalf("ParseType() = %q, want %q", in.Type, TypeInvestment)
	}

	body, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if got["type"] != "INVESTMENT" {
		t.Errorf("type = %v, want INVESTMENT", got["type"])
	}
}

func TestIsValidType(t *testing.T) {
	for _, s := range []string{"checking", "CASH", "Investment"} {
		if !IsValidType(s) {
			t.Errorf("IsValidType(%q) = false", s)
		}
	}
	if IsValidType("savings") {
		t.Error("IsValidType(savings) = true")
	}
}
