// Package category exposes the read-only category catalogue.
package category

import (
	"context"
	"fmt"
	"strings"

	"cofre/internal/domain/cache"
)

const Entity = "categories"

// Type mirrors the transaction kind a category applies to.
type Type string

const (
	TypeIncome  Type = "INCOME"
	TypeExpense Type = "EXPENSE"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
	Type Type   `json:"type"`
}

type List []Category

func (l List) ByID(id string) (Category, bool) {
	for _, c := range l {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// ByType keeps the categories of one kind. An empty kind keeps all.
func (l List) ByType(t Type) List {
	if t == "" {
		return l
	}
	out := make(List, 0, len(l))
	for _, c := range l {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

func (l List) Names() map[string]string {
	names := make(map[string]string, len(l))
	for _, c := range l {
		names[c.ID] = c.Name
	}
	return names
}

// Repository defines the REST read of categories.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
}

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
		Store: s.store,
		Key:   Key(),
		Fetch: func(ctx context.Context) (List, error) {
			cats, err := s.repo.ListCategories(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to list categories: %w", err)
			}
			for i := range cats {
				cats[i].Type = Type(strings.ToUpper(string(cats[i].Type)))
			}
			return List(cats), nil
		},
		Enabled: s.gate.Present,
	}
}

func (s *Service) List(ctx context.Context) (cache.Result[List], error) {
	return s.Query().Load(ctx)
}
