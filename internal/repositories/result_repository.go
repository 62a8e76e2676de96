package repositories

import (
	"context"

	"github.com/SAP-F-2025/career-assessment-service/internal/models"
)

// ResultRepository is the persistence port for submitted results. Results are
// append-only; nothing updates or deletes them.
type ResultRepository interface {
	Append(ctx context.Context, result *models.Result) error
	ListAll(ctx context.Context, filters ResultFilters) ([]*models.Result, error)

	GetByID(ctx context.Context, id string) (*models.Result, error)
	ListByStudent(ctx context.Context, studentID string, filters ResultFilters) ([]*models.Result, error)
}
