package transaction

import "context"

// Repository defines the REST operations on transactions.
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	ListTransactions(ctx context.Context, filter Filter) ([]Transaction, error)
	CreateTransaction(ctx context.Context, in Input) error
	UpdateTransaction(ctx context.Context, id string, in Input) error
	DeleteTransaction(ctx context.Context, id string) error
}
