package account

import (
	"context"
	"fmt"

	"cofre/internal/domain/cache"
)

// Service is the read side of accounts: one cached list, fetched only while
// a session is present.
type Service struct {
	repo  Repository
	store *cache.Store
	gate  cache.Gate
}

func NewService(repo Repository, store *cache.Store, gate cache.Gate) *Service {
	return &Service{repo: repo, store: store, gate: gate}
}

// Key is the cache key of the account list.
func Key() cache.Key {
	return cache.EntityKey(Entity)
}

func (s *Service) Query() cache.Query[List] {
	return cache.Query[List]{
		Store:   s.store,
		Key:     Key(),
		Fetch:   s.fetch,
		Enabled: s.gate.Present,
	}
}

func (s *Service) fetch(ctx context.Context) (List, error) {
	wire, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	list := make(List, 0, len(wire))
	for _, w := range wire {
		list = append(list, w.ToAccount())
	}
	return list, nil
}

// List returns the accounts, fetching when missing or stale.
func (s *Service) List(ctx context.Context) (cache.Result[List], error) {
	return s.Query().Load(ctx)
}

// Get looks an account up in the cached list.
func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	res, err := s.List(ctx)
	if err != nil {
		return Account{}, err
	}
	a, ok := res.Data.ByID(id)
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return a, nil
}

// HasAccounts answers from the cache without fetching.
func (s *Service) HasAccounts() bool {
	return s.Query().Peek().Data.HasAccounts()
}
