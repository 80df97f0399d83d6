package user

import "context"

// Repository defines the REST calls on the current user.
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	GetMe(ctx context.Context) (User, error)
}
