package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/SAP-F-2025/career-assessment-service/internal/repositories"
)

// ResultMemory keeps results in process memory in append order. Used when no
// database is configured and in tests.
type ResultMemory struct {
	mu      sync.RWMutex
	results []*models.Result
	byID    map[string]int
}

func NewResultMemory() repositories.ResultRepository {
	return &ResultMemory{byID: make(map[string]int)}
}

func (m *ResultMemory) Append(ctx context.Context, result *models.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[result.ID]; exists {
		return fmt.Errorf("result %s already stored", result.ID)
	}
	m.byID[result.ID] = len(m.results)
	m.results = append(m.results, result.Clone())
	return nil
}

func (m *ResultMemory) ListAll(ctx context.Context, filters repositories.ResultFilters) ([]*models.Result, error) {
	return m.list(ctx, filters, func(*models.Result) bool { return true })
}

func (m *ResultMemory) GetByID(ctx context.Context, id string) (*models.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byID[id]
	if !ok {
		return nil, repositories.ErrResultNotFound
	}
	return m.results[i].Clone(), nil
}

func (m *ResultMemory) ListByStudent(ctx context.Context, studentID string, filters repositories.ResultFilters) ([]*models.Result, error) {
	return m.list(ctx, filters, func(r *models.Result) bool { return r.StudentID == studentID })
}

func (m *ResultMemory) list(ctx context.Context, filters repositories.ResultFilters, keep func(*models.Result) bool) ([]*models.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Result, 0)
	for i := range m.results {
		r := m.results[i]
		if filters.Descending() {
			r = m.results[len(m.results)-1-i]
		}
		if keep(r) && filters.Matches(r) {
			out = append(out, r.Clone())
		}
	}

	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			return []*models.Result{}, nil
		}
		out = out[filters.Offset:]
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}
