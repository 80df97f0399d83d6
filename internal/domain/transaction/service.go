package transaction

import (
	"context"
	"fmt"

	"cofre/internal/domain/account"
	"cofre/internal/domain/cache"
	"cofre/internal/domain/category"
)

// FilterSource yields the filter the transaction screen currently applies,
// nil when none.
type FilterSource interface {
	Filter() *Filter
}

type Service struct {
	repo       Repository
	store      *cache.Store
	gate       cache.Gate
	accounts   *account.Service
	categories *category.Service
	filters    FilterSource
}

func NewService(repo Repository, store *cache.Store, gate cache.Gate, accounts *account.Service, categories *category.Service, filters FilterSource) *Service {
	return &Service{
		repo:       repo,
		store:      store,
		gate:       gate,
		accounts:   accounts,
		categories: categories,
		filters:    filters,
	}
}

// Query returns the cached list for filter. Filters differing only in
// unset fields share an entry.
func (s *Service) Query(filter *Filter) cache.Query[List] {
	var f Filter
	if filter != nil {
		f = *filter
	}
	return cache.Query[List]{
		Store: s.store,
		Key:   Key(filter),
		Fetch: func(ctx context.Context) (List, error) {
			list, err := s.repo.ListTransactions(ctx, f)
			if err != nil {
				return nil, fmt.Errorf("failed to list transactions: %w", err)
			}
			return List(list), nil
		},
		Enabled: s.gate.Present,
	}
}

// Current is the query for the active filter. The key is recomputed on each
// call, so retracting a filter field moves reads to the new key.
func (s *Service) Current() cache.Query[List] {
	var filter *Filter
	if s.filters != nil {
		filter = s.filters.Filter()
	}
	return s.Query(filter)
}

func (s *Service) List(ctx context.Context, filter *Filter) (cache.Result[List], error) {
	return s.Query(filter).Load(ctx)
}

// Rows loads the list for filter and joins account and category names.
// Failing name lookups leave names empty rather than failing the list.
func (s *Service) Rows(ctx context.Context, filter *Filter) ([]Row, error) {
	res, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	var accountNames, categoryNames map[string]string
	if s.accounts != nil {
		if accs, err := s.accounts.List(ctx); err == nil {
			accountNames = accs.Data.Names()
		}
	}
	if s.categories != nil {
		if cats, err := s.categories.List(ctx); err == nil {
			categoryNames = cats.Data.Names()
		}
	}
	return res.Data.Rows(accountNames, categoryNames), nil
}
