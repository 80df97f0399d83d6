package cache

import (
	"context"
	"time"
)

// Gate reports whether entity fetches are allowed. The session gate
// implements it; Present must not call back into the store.
type Gate interface {
	Present() bool
}

// Query is a typed facade over one store key. Entity accessors declare one
// per read they expose.
type Query[T any] struct {
	Store   *Store
	Key     Key
	Fetch   func(ctx context.Context) (T, error)
	Enabled func() bool
}

// Result is the typed counterpart of Snapshot. Data holds the zero value
// until the first successful fetch.
type Result[T any] struct {
	Data      T
	Status    Status
	Err       error
	Stale     bool
	Fetching  bool
	UpdatedAt time.Time
}

// Ready reports whether Data holds fetched data, possibly stale.
func (r Result[T]) Ready() bool {
	return r.Status == StatusReady || (r.Status == StatusError && !r.UpdatedAt.IsZero())
}

func (q Query[T]) fetcher() Fetcher {
	return func(ctx context.Context) (any, error) {
		return q.Fetch(ctx)
	}
}

// Peek returns the cached value without fetching.
func (q Query[T]) Peek() Result[T] {
	if !isEnabled(q.Enabled) {
		return Result[T]{Status: StatusDisabled}
	}
	return typed[T](q.Store.Get(q.Key))
}

// Load returns fresh cached data or fetches it.
func (q Query[T]) Load(ctx context.Context) (Result[T], error) {
	snap, err := q.Store.Read(ctx, q.Key, q.fetcher(), q.Enabled)
	return typed[T](snap), err
}

// Refetch forces a fetch, joining one already in flight.
func (q Query[T]) Refetch(ctx context.Context) (Result[T], error) {
	snap, err := q.Store.Fetch(ctx, q.Key, q.fetcher(), q.Enabled)
	return typed[T](snap), err
}

// Observe keeps the key live: invalidations refetch it immediately.
func (q Query[T]) Observe() (stop func()) {
	return q.Store.Observe(q.Key, q.fetcher(), q.Enabled)
}

func typed[T any](snap Snapshot) Result[T] {
	res := Result[T]{
		Status:    snap.Status,
		Err:       snap.Err,
		Stale:     snap.Stale,
		Fetching:  snap.Fetching,
		UpdatedAt: snap.UpdatedAt,
	}
	if data, ok := snap.Data.(T); ok {
		res.Data = data
	}
	return res
}
