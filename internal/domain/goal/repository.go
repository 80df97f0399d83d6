package goal

import "context"

// Repository defines the REST operations on savings goals.
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	ListGoals(ctx context.Context) ([]Wire, error)
	CreateGoal(ctx context.Context, in Input) error
	UpdateGoal(ctx context.Context, id string, in Input) error
	DeleteGoal(ctx context.Context, id string) error
	ContributeGoal(ctx context.Context, id string, in AmountInput) error
	WithdrawGoal(ctx context.Context, id string, in AmountInput) error
}
