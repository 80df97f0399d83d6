package goal

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Rule violations. They gate submission only; the server stays the
// authority on the resulting amounts.
var (
	ErrNonPositiveAmount      = errors.New("amount must be greater than zero")
	ErrExceedsRemainingTarget = errors.New("exceeds remaining target")
	ErrExceedsCurrentBalance  = errors.New("exceeds current balance")
	ErrGoalCompleted          = errors.New("goal already completed")
	ErrNothingToWithdraw      = errors.New("goal has no balance")
)

// CanContribute reports whether the goal still accepts contributions.
func CanContribute(g Goal) bool {
	return g.Status != StatusCompleted && g.CurrentAmount.LessThan(g.TargetAmount)
}

// CanWithdraw reports whether the goal holds anything to withdraw.
func CanWithdraw(g Goal) bool {
	return g.CurrentAmount.IsPositive()
}

// ValidateContribution accepts amounts in (0, target-current]. Callers check
// CanContribute first.
func ValidateContribution(g Goal, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if amount.GreaterThan(g.TargetAmount.Sub(g.CurrentAmount)) {
		return ErrExceedsRemainingTarget
	}
	return nil
}

// ValidateWithdrawal accepts amounts in (0, current].
func ValidateWithdrawal(g Goal, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if amount.GreaterThan(g.CurrentAmount) {
		return ErrExceedsCurrentBalance
	}
	return nil
}

// WouldComplete previews whether a contribution reaches the target. It only
// picks the success message; the refetched goal is what counts.
func WouldComplete(g Goal, amount decimal.Decimal) bool {
	return g.CurrentAmount.Add(amount).GreaterThanOrEqual(g.TargetAmount)
}
