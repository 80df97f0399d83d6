package transaction

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindIncome  Kind = "INCOME"
	KindExpense Kind = "EXPENSE"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindIncome:
		return KindIncome, nil
	case KindExpense:
		return KindExpense, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

type Frequency string

const (
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

const Entity = "transactions"

var (
	ErrInvalidKind         = errors.New("invalid transaction type")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// DateLayout is the wire format of transaction dates.
const DateLayout = "2006-01-02"

// Date is a calendar day, serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("failed to parse date '%s': %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	s := strings.Trim(string(b), `"`)
	// some payloads carry a full timestamp
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type Transaction struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Date          Date            `json:"date"`
	Type          Kind            `json:"type"`
	BankAccountID string          `json:"bankAccountId"`
	CategoryID    string          `json:"categoryId"`
	IsRecurring   bool            `json:"isRecurring"`
	Frequency     Frequency       `json:"frequency,omitempty"`
	CreatedAt     *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
}

// Input is the create/update payload.
type Input struct {
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Date          Date            `json:"date"`
	Type          Kind            `json:"type"`
	BankAccountID string          `json:"bankAccountId"`
	CategoryID    string          `json:"categoryId"`
	IsRecurring   bool            `json:"isRecurring,omitempty"`
	Frequency     Frequency       `json:"frequency,omitempty"`
}

// Row is a transaction joined with its account and category names.
type Row struct {
	Transaction
	AccountName  string
	CategoryName string
}

type List []Transaction

// Rows joins names by id. Unknown ids yield empty names.
func (l List) Rows(accountNames, categoryNames map[string]string) []Row {
	rows := make([]Row, 0, len(l))
	for _, t := range l {
		rows = append(rows, Row{
			Transaction:  t,
			AccountName:  accountNames[t.BankAccountID],
			CategoryName: categoryNames[t.CategoryID],
		})
	}
	return rows
}

func (l List) ByID(id string) (Transaction, bool) {
	for _, t := range l {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}

// Totals sums income and expense amounts.
func (l List) Totals() (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range l {
		if t.Type == KindIncome {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}
	return income, expense
}
