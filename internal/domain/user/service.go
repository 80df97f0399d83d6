package user

import (
	"context"
	"fmt"

	"cofre/internal/domain/cache"
)

// Sink receives the profile whenever it is fetched or updated. The session
// gate implements it.
type Sink interface {
	SetUser(u User)
}

type Service struct {
	repo  Repository
	store *cache.Store
	gate  cache.Gate
	sink  Sink
}

func NewService(repo Repository, store *cache.Store, gate cache.Gate, sink Sink) *Service {
	return &Service{repo: repo, store: store, gate: gate, sink: sink}
}

func Key() cache.Key {
	return cache.EntityKey(Entity)
}

func (s *Service) Query() cache.Query[User] {
	return cache.Query[User]{
		Store: s.store,
		Key:   Key(),
		Fetch: func(ctx context.Context) (User, error) {
			u, err := s.repo.GetMe(ctx)
			if err != nil {
				return User{}, fmt.Errorf("failed to get current user: %w", err)
			}
			s.push(u)
			return u, nil
		},
		Enabled: s.gate.Present,
	}
}

// Me returns the current user, fetching when missing or stale.
func (s *Service) Me(ctx context.Context) (User, error) {
	res, err := s.Query().Load(ctx)
	return res.Data, err
}

func (s *Service) push(u User) {
	if s.sink != nil && u.ID != "" {
		s.sink.SetUser(u)
	}
}
