package goal

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

const Entity = "goals"

// DefaultColor is used when the server returns no color.
const DefaultColor = "#868E96"

var ErrGoalNotFound = errors.New("goal not found")

var hundred = decimal.NewFromInt(100)

type Goal struct {
	ID            string
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Color         string
	Status        Status
	EndDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Wire is the goal as returned by GET /goals.
type Wire struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	TargetAmount       decimal.NullDecimal `json:"targetAmount"`
	CurrentAmount      decimal.NullDecimal `json:"currentAmount"`
	Color              *string             `json:"color"`
	ProgressPercentage decimal.NullDecimal `json:"progressPercentage"`
	Status             string              `json:"status"`
	EndDate            *time.Time          `json:"endDate"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// ToGoal normalizes a wire goal. The server's progressPercentage is ignored;
// progress is always derived from the amounts.
func (w Wire) ToGoal() Goal {
	g := Goal{
		ID:            w.ID,
		Name:          w.Name,
		TargetAmount:  decimal.Zero,
		CurrentAmount: decimal.Zero,
		Color:         DefaultColor,
		Status:        ParseStatus(w.Status),
		EndDate:       w.EndDate,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
	if w.TargetAmount.Valid {
		g.TargetAmount = w.TargetAmount.Decimal
	}
	if w.CurrentAmount.Valid {
		g.CurrentAmount = w.CurrentAmount.Decimal
	}
	if w.Color != nil && strings.TrimSpace(*w.Color) != "" {
		g.Color = *w.Color
	}
	return g
}

func ParseStatus(s string) Status {
	if Status(strings.ToUpper(strings.TrimSpace(s))) == StatusCompleted {
		return StatusCompleted
	}
	return StatusActive
}

// Progress is current/target as a percentage, capped at 100. A zero or
// negative target reads as 0%.
func (g Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	p := g.CurrentAmount.Div(g.TargetAmount).Mul(hundred)
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p.Round(2)
}

// Remaining is what is left to reach the target, never negative.
func (g Goal) Remaining() decimal.Decimal {
	r := g.TargetAmount.Sub(g.CurrentAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Done reports a goal that is completed or has reached its target.
func (g Goal) Done() bool {
	return g.Status == StatusCompleted || g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// Input is the create/update payload.
type Input struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Color        string          `json:"color,omitempty"`
}

// AmountInput is the contribute/withdraw payload.
type AmountInput struct {
	Amount        decimal.Decimal `json:"amount"`
	BankAccountID string          `json:"bankAccountId"`
}

type List []Goal

// Sorted returns a copy with done goals after the rest, order otherwise kept.
func (l List) Sorted() List {
	out := make(List, len(l))
	copy(out, l)
	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].Done() && out[j].Done()
	})
	return out
}

func (l List) ByID(id string) (Goal, bool) {
	for _, g := range l {
		if g.ID == id {
			return g, true
		}
	}
	return Goal{}, false
}
