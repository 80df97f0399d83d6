package scheduler

import "context"

// Job is a unit of work run by the worker pool.
type Job interface {
	Execute(ctx context.Context) error

	// Key identifies the work for deduplication and logs.
	Key() string

	Description() string
}
