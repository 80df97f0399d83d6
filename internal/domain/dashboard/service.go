package dashboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"cofre/internal/domain/cache"
)

// Repository defines the REST reads behind the dashboard.
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	GetDashboard(ctx context.Context) (Wire, error)
	GetMonthlySummary(ctx context.Context, year, month int) (Summary, error)
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

// SummaryKey addresses one month of entity (SummaryEntity or
// SummaryModalEntity).
func SummaryKey(entity string, year, month int) cache.Key {
	return cache.NewKey(entity, map[string]string{
		"year":  strconv.Itoa(year),
		"month": strconv.Itoa(month),
	})
}

func (s *Service) Query() cache.Query[Aggregate] {
	return cache.Query[Aggregate]{
		Store: s.store,
		Key:   Key(),
		Fetch: func(ctx context.Context) (Aggregate, error) {
			w, err := s.repo.GetDashboard(ctx)
			if err != nil {
				return Aggregate{}, fmt.Errorf("failed to get dashboard: %w", err)
			}
			return w.ToAggregate(), nil
		},
		Enabled: s.gate.Present,
	}
}

// SummaryQuery is the monthly summary of entity for one month. Months
// outside 1..12 or a zero year keep the query disabled.
func (s *Service) SummaryQuery(entity string, year, month int) cache.Query[Summary] {
	return cache.Query[Summary]{
		Store: s.store,
		Key:   SummaryKey(entity, year, month),
		Fetch: func(ctx context.Context) (Summary, error) {
			sum, err := s.repo.GetMonthlySummary(ctx, year, month)
			if err != nil {
				return Summary{}, fmt.Errorf("failed to get monthly summary: %w", err)
			}
			sum.Year, sum.Month = year, month
			if sum.TotalExpense.IsNegative() {
				sum.TotalExpense = decimal.Zero
			}
			return sum, nil
		},
		Enabled: func() bool {
			return s.gate.Present() && year > 0 && month >= 1 && month <= 12
		},
	}
}

// Get loads the aggregate. While pending or disabled the zero Aggregate is
// returned, so every projection reads as 0.
func (s *Service) Get(ctx context.Context) (Aggregate, error) {
	res, err := s.Query().Load(ctx)
	return res.Data, err
}

// Totals projects the cached aggregate without fetching.
func (s *Service) Totals() Aggregate {
	return s.Query().Peek().Data
}

func (s *Service) Summary(ctx context.Context, entity string, year, month int) (Summary, error) {
	res, err := s.SummaryQuery(entity, year, month).Load(ctx)
	return res.Data, err
}

// Insight loads the insight card's month and evaluates the top category.
func (s *Service) Insight(ctx context.Context, year, month int) (*Insight, error) {
	sum, err := s.Summary(ctx, SummaryEntity, year, month)
	if err != nil {
		return nil, err
	}
	return sum.TopCategoryInsight(), nil
}
