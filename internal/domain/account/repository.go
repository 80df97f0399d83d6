package account

import "context"

// Repository defines the REST operations on accounts.
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	ListAccounts(ctx context.Context) ([]Wire, error)
	CreateAccount(ctx context.Context, in Input) error
	UpdateAccount(ctx context.Context, id string, in Input) error
	DeleteAccount(ctx context.Context, id string) error
}
