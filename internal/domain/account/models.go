package account

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Type is the account kind. The API speaks uppercase enums; Type keeps the
// lowercase form and converts at the wire.
type Type string

const (
	TypeChecking   Type = "checking"
	TypeInvestment Type = "investment"
	TypeCash       Type = "cash"
)

// DefaultColor is used when the server returns no color.
const DefaultColor = "#868E96"

// Entity is the cache entity name of the account list.
const Entity = "accounts"

var ErrAccountNotFound = errors.New("account not found")

// Account is the canonical account shape. Balance is owned by the server and
// only changes through a refetch.
type Account struct {
	ID      string
	Name    string
	Balance decimal.Decimal
	Type    Type
	Color   string
}

// Wire is the account as the REST collaborator returns it. Older builds
// of the API send the balance as current_balance or balance.
type Wire struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	CurrentBalance      decimal.NullDecimal `json:"currentBalance"`
	CurrentBalanceSnake decimal.NullDecimal `json:"current_balance"`
	Balance             decimal.NullDecimal `json:"balance"`
	Type                string              `json:"type"`
	Color               *string             `json:"color"`
}

// ToAccount normalizes a wire account. Missing balances read as zero,
// missing colors as DefaultColor and unknown types as checking.
func (w Wire) ToAccount() Account {
	a := Account{
		ID:      w.ID,
		Name:    w.Name,
		Balance: decimal.Zero,
		Type:    ParseType(w.Type),
		Color:   DefaultColor,
	}
	switch {
	case w.CurrentBalance.Valid:
		a.Balance = w.CurrentBalance.Decimal
	case w.CurrentBalanceSnake.Valid:
		a.Balance = w.CurrentBalanceSnake.Decimal
	case w.Balance.Valid:
		a.Balance = w.Balance.Decimal
	}
	if w.Color != nil && strings.TrimSpace(*w.Color) != "" {
		a.Color = *w.Color
	}
	return a
}

// ParseType maps any casing of the server type onto Type.
func ParseType(s string) Type {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeInvestment:
		return TypeInvestment
	case TypeCash:
		return TypeCash
	default:
		return TypeChecking
	}
}

// IsValidType reports whether s names one of the three account types.
func IsValidType(s string) bool {
	switch Type(strings.ToLower(s)) {
	case TypeChecking, TypeInvestment, TypeCash:
		return true
	}
	return false
}

// WireValue is the enum the API expects, e.g. CHECKING.
func (t Type) WireValue() string {
	return strings.ToUpper(string(t))
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.WireValue()), nil
}

// Label is the display name of the type.
func (t Type) Label() string {
	switch t {
	case TypeInvestment:
		return "Investimento"
	case TypeCash:
		return "Dinheiro"
	default:
		return "Conta Corrente"
	}
}

// Input is the create/update payload.
type Input struct {
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Type           Type            `json:"type"`
	Color          string          `json:"color,omitempty"`
}

// List is the account list with the derived views the screens need.
type List []Account

func (l List) HasAccounts() bool {
	return len(l) > 0
}

// TotalBalance sums every balance, negative ones included.
func (l List) TotalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, a := range l {
		total = total.Add(a.Balance)
	}
	return total
}

func (l List) ByID(id string) (Account, bool) {
	for _, a := range l {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// Names indexes account names by id.
func (l List) Names() map[string]string {
	names := make(map[string]string, len(l))
	for _, a := range l {
		names[a.ID] = a.Name
	}
	return names
}
