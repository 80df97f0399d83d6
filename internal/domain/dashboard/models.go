package dashboard

import (
	"github.com/shopspring/decimal"
)

const (
	Entity = "dashboard"
	// SummaryEntity backs the dashboard insight card.
	SummaryEntity = "monthly-summary"
	// SummaryModalEntity backs the monthly summary modal. Same endpoint,
	// separate entry so the modal can browse months independently.
	SummaryModalEntity = "monthly-summary-modal"
)

// InsightThreshold is the share of monthly expense above which the top
// category is flagged.
var InsightThreshold = decimal.NewFromFloat(0.4)

var hundred = decimal.NewFromInt(100)

// Aggregate is the server-computed dashboard. It is never patched locally.
type Aggregate struct {
	TotalBalance      decimal.Decimal `json:"totalBalance"`
	TotalIncomeMonth  decimal.Decimal `json:"totalIncomeMonth"`
	TotalExpenseMonth decimal.Decimal `json:"totalExpenseMonth"`
}

// Wire tolerates null or missing totals.
type Wire struct {
	TotalBalance      decimal.NullDecimal `json:"totalBalance"`
	TotalIncomeMonth  decimal.NullDecimal `json:"totalIncomeMonth"`
	TotalExpenseMonth decimal.NullDecimal `json:"totalExpenseMonth"`
}

func (w Wire) ToAggregate() Aggregate {
	return Aggregate{
		TotalBalance:      orZero(w.TotalBalance),
		TotalIncomeMonth:  orZero(w.TotalIncomeMonth),
		TotalExpenseMonth: orZero(w.TotalExpenseMonth),
	}
}

// MonthBalance is income minus expense for the current month.
func (a Aggregate) MonthBalance() decimal.Decimal {
	return a.TotalIncomeMonth.Sub(a.TotalExpenseMonth)
}

type CategoryExpense struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// Summary is the expense breakdown of one month.
type Summary struct {
	Year         int               `json:"-"`
	Month        int               `json:"-"`
	TotalExpense decimal.Decimal   `json:"totalExpense"`
	ByCategory   []CategoryExpense `json:"byCategory"`
}

// Share returns the category's share of the month's expense in percent.
func (s Summary) Share(c CategoryExpense) decimal.Decimal {
	if !s.TotalExpense.IsPositive() {
		return decimal.Zero
	}
	return c.TotalAmount.Div(s.TotalExpense).Mul(hundred)
}

// Insight flags the category dominating a month's expense.
type Insight struct {
	CategoryName string
	Percentage   int64
	TotalAmount  decimal.Decimal
}

// TopCategoryInsight returns the largest category when its share exceeds
// InsightThreshold, or nil.
func (s Summary) TopCategoryInsight() *Insight {
	if len(s.ByCategory) == 0 || !s.TotalExpense.IsPositive() {
		return nil
	}
	top := s.ByCategory[0]
	for _, c := range s.ByCategory[1:] {
		if c.TotalAmount.GreaterThan(top.TotalAmount) {
			top = c
		}
	}
	share := s.Share(top)
	if share.LessThanOrEqual(InsightThreshold.Mul(hundred)) {
		return nil
	}
	return &Insight{
		CategoryName: top.CategoryName,
		Percentage:   share.Round(0).IntPart(),
		TotalAmount:  top.TotalAmount,
	}
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}
