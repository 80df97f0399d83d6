package goal

import (
	"context"
	"fmt"

	"cofre/internal/domain/cache"
)

type Service struct {
	repo  Repository
	store *cache.Store
	gate  cache.Gate
}

func NewService(repo Repository, store *cache.Store, gate cache.Gate) *Service {
	return &Service{repo: repo, store: store, gate: gate}
}

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
	wire, err := s.repo.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	list := make(List, 0, len(wire))
	for _, w := range wire {
		list = append(list, w.ToGoal())
	}
	return list, nil
}

// List returns the goals in server order.
func (s *Service) List(ctx context.Context) (cache.Result[List], error) {
	return s.Query().Load(ctx)
}

// Sorted returns the goals with finished ones last.
func (s *Service) Sorted(ctx context.Context) (List, error) {
	res, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return res.Data.Sorted(), nil
}

func (s *Service) Get(ctx context.Context, id string) (Goal, error) {
	res, err := s.List(ctx)
	if err != nil {
		return Goal{}, err
	}
	g, ok := res.Data.ByID(id)
	if !ok {
		return Goal{}, ErrGoalNotFound
	}
	return g, nil
}
