// Package memory is an in-memory dashboard used by tests and local dry
// runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/patrickrelix/relix-daily-reporting/internal/core"
	"github.com/patrickrelix/relix-daily-reporting/internal/sheets"
)

type Store struct {
	mu sync.Mutex

	DailyRows   []sheets.DailyRevenueRow
	TopProducts map[string][]core.ProductAggregate
	GoalActuals map[time.Month]decimal.Decimal
}

var _ sheets.Dashboard = (*Store)(nil)

func New() *Store {
	return &Store{
		TopProducts: make(map[string][]core.ProductAggregate),
		GoalActuals: make(map[time.Month]decimal.Decimal),
	}
}

func (s *Store) HasDailyRow(_ context.Context, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.DailyRows {
		if row.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) AppendDailyRow(_ context.Context, row sheets.DailyRevenueRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DailyRows = append(s.DailyRows, row)
	return nil
}

func (s *Store) WriteTopProducts(_ context.Context, sheet string, products []core.ProductAggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TopProducts[sheet] = append([]core.ProductAggregate(nil), products...)
	return nil
}

func (s *Store) UpdateGoalActuals(_ context.Context, quarterStart time.Month, byMonth map[time.Month]decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < 3; i++ {
		month := quarterStart + time.Month(i)
		revenue := decimal.Zero
		if v, ok := byMonth[month]; ok {
			revenue = v
		}
		s.GoalActuals[month] = revenue
	}
	return nil
}
